package model

import "time"

// Category separates corrective service orders from recurring preventive
// visits on the calendar.
type Category string

const (
	CategoryCorrective Category = "corrective"
	CategoryPreventive Category = "preventive"
)

// Priority is the urgency of a service order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ScheduledEvent is a single calendar entry derived from a service order.
// It is built fresh each time a calendar is requested and never mutated.
type ScheduledEvent struct {
	ID    string
	Title string

	// Start / End carry the wall-clock time of the visit. The calendar
	// day is taken from Start in its own location.
	Start time.Time
	End   time.Time

	Category Category
	Status   EventStatus
	Priority Priority

	// RelatedID points back to the originating service order.
	RelatedID string
}

// Holiday is a public holiday with day precision.
type Holiday struct {
	Date time.Time
	Name string
}

// DayCell is one square of a month grid. Date is nil for padding cells.
type DayCell struct {
	Date    *time.Time
	Events  []ScheduledEvent
	Holiday *Holiday
}

// IsPadding reports whether the cell lies outside the month.
func (c DayCell) IsPadding() bool { return c.Date == nil }

// MonthGrid is the ordered day grid for one month: leading padding cells
// followed by one cell per day.
type MonthGrid struct {
	Year           int
	Month          time.Month
	LeadingPadding int
	Cells          []DayCell
}

// Days returns only the non-padding cells.
func (g MonthGrid) Days() []DayCell {
	out := make([]DayCell, 0, len(g.Cells))
	for _, c := range g.Cells {
		if !c.IsPadding() {
			out = append(out, c)
		}
	}
	return out
}

// Cell returns the cell for the given day of month (1-based).
func (g MonthGrid) Cell(day int) (DayCell, bool) {
	idx := g.LeadingPadding + day - 1
	if day < 1 || idx >= len(g.Cells) || g.Cells[idx].IsPadding() {
		return DayCell{}, false
	}
	return g.Cells[idx], true
}
