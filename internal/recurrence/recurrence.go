// Package recurrence computes the next execution date of a recurring
// service order.
//
// Month and year offsets use time.Time.AddDate, which normalizes overflow
// instead of clamping: 2025-01-31 plus one month is 2025-03-03, not
// 2025-02-28.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"

	"fieldcal/internal/model"
)

// ErrInvalidConfig is returned for configurations the calculator cannot
// evaluate, such as a custom recurrence without a positive value or a unit.
var ErrInvalidConfig = errors.New("invalid recurrence config")

// offset is a calendar offset applied with AddDate.
type offset struct {
	years, months, days int
}

var fixedOffsets = map[model.RecurrenceKind]offset{
	model.RecurrenceMonthly:    {months: 1},
	model.RecurrenceBimonthly:  {months: 2},
	model.RecurrenceQuarterly:  {months: 3},
	model.RecurrenceSemiannual: {months: 6},
	model.RecurrenceAnnual:     {years: 1},
}

// NextExecutionDate returns the anchor date advanced by the offset of
// cfg.Kind. Disabled configs, and enabled configs of kind None, yield
// mo.None. The result is a midnight UTC calendar date.
func NextExecutionDate(cfg model.RecurrenceConfig) (mo.Option[time.Time], error) {
	if !cfg.Enabled || cfg.Kind == model.RecurrenceNone || cfg.Kind == "" {
		return mo.None[time.Time](), nil
	}

	off, err := offsetFor(cfg)
	if err != nil {
		return mo.None[time.Time](), err
	}

	anchor := model.TruncateDay(cfg.Anchor)
	return mo.Some(anchor.AddDate(off.years, off.months, off.days)), nil
}

// Validate runs the same checks NextExecutionDate applies, without
// computing a date. Disabled configs are always valid.
func Validate(cfg model.RecurrenceConfig) error {
	if !cfg.Enabled || cfg.Kind == model.RecurrenceNone || cfg.Kind == "" {
		return nil
	}
	_, err := offsetFor(cfg)
	return err
}

func offsetFor(cfg model.RecurrenceConfig) (offset, error) {
	if off, ok := fixedOffsets[cfg.Kind]; ok {
		return off, nil
	}
	if cfg.Kind != model.RecurrenceCustom {
		return offset{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, cfg.Kind)
	}

	if cfg.CustomValue < 1 {
		return offset{}, fmt.Errorf("%w: custom value must be >= 1, got %d", ErrInvalidConfig, cfg.CustomValue)
	}
	switch cfg.CustomUnit {
	case model.UnitDays:
		return offset{days: cfg.CustomValue}, nil
	case model.UnitMonths:
		return offset{months: cfg.CustomValue}, nil
	case "":
		return offset{}, fmt.Errorf("%w: custom unit is required", ErrInvalidConfig)
	default:
		return offset{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidConfig, cfg.CustomUnit)
	}
}

// Describe returns a short label such as "every 3 months".
func Describe(cfg model.RecurrenceConfig) string {
	if !cfg.Enabled || cfg.Kind == model.RecurrenceNone || cfg.Kind == "" {
		return "does not repeat"
	}
	off, err := offsetFor(cfg)
	if err != nil {
		return "invalid recurrence"
	}
	switch {
	case off.years == 1:
		return "every year"
	case off.months == 1:
		return "every month"
	case off.months > 1:
		return fmt.Sprintf("every %d months", off.months)
	case off.days == 1:
		return "every day"
	default:
		return fmt.Sprintf("every %d days", off.days)
	}
}
