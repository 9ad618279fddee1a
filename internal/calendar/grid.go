// Package calendar builds month grids of scheduled events and holidays and
// decides how each event is styled.
//
// Everything here is pure: the same inputs always produce the same grid,
// and nothing is cached between calls.
package calendar

import (
	"time"

	"fieldcal/internal/model"
)

type gridOptions struct {
	padTrailing bool
}

// Option tweaks BuildMonthGrid.
type Option func(*gridOptions)

// WithTrailingPadding pads the grid with empty cells until its length is a
// multiple of 7, completing the last week row.
func WithTrailingPadding() Option {
	return func(o *gridOptions) { o.padTrailing = true }
}

// WithTrailingPaddingIf is WithTrailingPadding driven by a config flag.
func WithTrailingPaddingIf(on bool) Option {
	return func(o *gridOptions) { o.padTrailing = on }
}

// BuildMonthGrid lays out one month as a Sunday-first grid.
//
// The grid starts with one padding cell per weekday before day 1, followed
// by one cell per day of the month. Events land on the day of their Start
// (in Start's own location) in input order. Each day gets at most one
// holiday: the first in the input list with a matching date.
//
// year/month outside the usual range normalize like time.Date, so month 13
// of 2025 is January 2026.
func BuildMonthGrid(year int, month time.Month, events []model.ScheduledEvent, holidays []model.Holiday, opts ...Option) model.MonthGrid {
	var o gridOptions
	for _, opt := range opts {
		opt(&o)
	}

	first := model.Date(year, month, 1)
	year, month = first.Year(), first.Month()

	leading := int(first.Weekday())
	daysInMonth := model.DaysIn(year, month)

	eventsByDay := bucketEvents(events)
	holidayByDay := firstHolidays(holidays)

	size := leading + daysInMonth
	if o.padTrailing {
		size = roundUpWeek(size)
	}

	cells := make([]model.DayCell, 0, size)
	for i := 0; i < leading; i++ {
		cells = append(cells, model.DayCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		d := model.Date(year, month, day)
		key := model.DateKey(d)

		cell := model.DayCell{
			Date:   &d,
			Events: eventsByDay[key],
		}
		if h, ok := holidayByDay[key]; ok {
			cell.Holiday = &h
		}
		cells = append(cells, cell)
	}

	for len(cells) < size {
		cells = append(cells, model.DayCell{})
	}

	return model.MonthGrid{
		Year:           year,
		Month:          month,
		LeadingPadding: leading,
		Cells:          cells,
	}
}

// bucketEvents groups events by the day key of their start, keeping input
// order inside each bucket.
func bucketEvents(events []model.ScheduledEvent) map[string][]model.ScheduledEvent {
	out := make(map[string][]model.ScheduledEvent)
	for _, ev := range events {
		key := model.DateKey(ev.Start)
		out[key] = append(out[key], ev)
	}
	return out
}

// firstHolidays indexes holidays by day key. When a date appears more than
// once, the earliest entry in the input wins.
func firstHolidays(holidays []model.Holiday) map[string]model.Holiday {
	out := make(map[string]model.Holiday, len(holidays))
	for _, h := range holidays {
		key := model.DateKey(h.Date)
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = h
	}
	return out
}

func roundUpWeek(n int) int {
	if rem := n % 7; rem != 0 {
		return n + 7 - rem
	}
	return n
}
