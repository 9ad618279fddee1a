package recurrence

import (
	"fmt"

	"github.com/teambition/rrule-go"

	"fieldcal/internal/model"
)

// RuleString renders cfg as an RFC 5545 RRULE value (without the "RRULE:"
// prefix and without DTSTART). count > 0 bounds the series with COUNT.
//
// Calendar clients expand RRULEs with their own month rules, which skip
// months lacking the anchor day instead of rolling over; the rule is only
// a description of the series, the stored next date stays authoritative.
func RuleString(cfg model.RecurrenceConfig, count int) (string, error) {
	if !cfg.Enabled || cfg.Kind == model.RecurrenceNone || cfg.Kind == "" {
		return "", fmt.Errorf("%w: recurrence is disabled", ErrInvalidConfig)
	}
	off, err := offsetFor(cfg)
	if err != nil {
		return "", err
	}

	opt := rrule.ROption{
		Dtstart: model.TruncateDay(cfg.Anchor),
	}
	if count > 0 {
		opt.Count = count
	}

	var interval int
	switch {
	case off.years > 0:
		opt.Freq = rrule.YEARLY
		interval = off.years
	case off.months > 0:
		opt.Freq = rrule.MONTHLY
		interval = off.months
	default:
		opt.Freq = rrule.DAILY
		interval = off.days
	}
	if interval > 1 {
		opt.Interval = interval
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("build rrule: %w", err)
	}
	return r.OrigOptions.RRuleString(), nil
}
