// Package holiday supplies public holidays to the calendar. Providers are
// read-only; the calendar treats their output as an opaque list.
package holiday

import (
	"context"
	"errors"
	"fmt"

	"fieldcal/internal/config"
	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
)

// Provider returns the holidays of a year. Order matters: when two
// holidays share a date the calendar keeps the first one.
type Provider interface {
	Holidays(ctx context.Context, year int) ([]model.Holiday, error)
}

// StaticProvider serves a fixed list.
type StaticProvider struct {
	holidays []model.Holiday
}

// NewStatic builds a StaticProvider from explicit holidays.
func NewStatic(holidays []model.Holiday) *StaticProvider {
	return &StaticProvider{holidays: append([]model.Holiday(nil), holidays...)}
}

// FromConfig parses the config's holiday list.
func FromConfig(entries []config.HolidayConfig) (*StaticProvider, error) {
	holidays := make([]model.Holiday, 0, len(entries))
	for _, e := range entries {
		d, err := model.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", e.Name, err)
		}
		holidays = append(holidays, model.Holiday{Date: d, Name: e.Name})
	}
	return NewStatic(holidays), nil
}

// Holidays returns the configured holidays that fall in year.
func (p *StaticProvider) Holidays(_ context.Context, year int) ([]model.Holiday, error) {
	out := make([]model.Holiday, 0)
	for _, h := range p.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

// Multi concatenates providers in order. A failing provider is logged and
// skipped so the others still contribute; the call only fails when every
// provider failed.
type Multi []Provider

// Holidays returns the providers' lists for year, concatenated in order.
func (m Multi) Holidays(ctx context.Context, year int) ([]model.Holiday, error) {
	var (
		out  []model.Holiday
		errs []error
	)
	for i, p := range m {
		hs, err := p.Holidays(ctx, year)
		if err != nil {
			appLog.Error("holiday provider failed", err, "index", i, "year", year)
			errs = append(errs, err)
			continue
		}
		out = append(out, hs...)
	}
	if len(m) > 0 && len(errs) == len(m) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
