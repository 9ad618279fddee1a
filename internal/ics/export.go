package ics

import (
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"fieldcal/internal/calendar"
	"fieldcal/internal/model"
)

const productID = "-//fieldcal//maintenance calendar//EN"

// floatingLayout is an RFC 5545 local time without zone. Event times
// carry the visit's wall clock in their UTC fields, so they must not be
// converted on the way out.
const floatingLayout = "20060102T150405"

// propertyStyle carries the calendar style tag for clients that care.
const propertyStyle ical.ComponentProperty = "X-FIELDCAL-STYLE"

// ExportOptions controls ExportMonth.
type ExportOptions struct {
	// Stamp is written as DTSTAMP on every VEVENT. Callers pass a fixed
	// value to get byte-identical exports for identical grids.
	Stamp time.Time

	// Rules maps a service order ID to the RRULE of its preventive series.
	// Preventive events whose RelatedID has a rule carry it.
	Rules map[string]string
}

// ExportMonth serializes a month grid as an iCalendar document: one VEVENT
// per scheduled event and one all-day VEVENT per holiday. UIDs are derived
// from event IDs so re-exports update rather than duplicate entries.
func ExportMonth(grid model.MonthGrid, opts ExportOptions) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := opts.Stamp.UTC()

	for _, cell := range grid.Days() {
		if h := cell.Holiday; h != nil {
			ev := cal.AddEvent(stableUID("holiday", model.DateKey(h.Date), h.Name))
			ev.SetDtStampTime(stamp)
			ev.SetAllDayStartAt(h.Date)
			ev.SetAllDayEndAt(h.Date.AddDate(0, 0, 1))
			ev.SetSummary(h.Name)
			ev.SetProperty(ical.ComponentPropertyCategories, "HOLIDAY")
		}

		for _, se := range cell.Events {
			ev := cal.AddEvent(stableUID("event", se.ID, model.DateKey(se.Start)))
			ev.SetDtStampTime(stamp)
			end := se.End
			if end.Before(se.Start) || end.IsZero() {
				end = se.Start
			}
			ev.SetProperty(ical.ComponentPropertyDtStart, se.Start.Format(floatingLayout))
			ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
			ev.SetSummary(se.Title)
			ev.SetProperty(ical.ComponentPropertyCategories, categoryName(se.Category))
			ev.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(icalPriority(se.Priority)))
			ev.SetProperty(propertyStyle, string(calendar.ClassifyEventStyle(se).Tag))
			if se.RelatedID != "" {
				ev.SetProperty(ical.ComponentPropertyRelatedTo, se.RelatedID)
			}
			if se.Category == model.CategoryPreventive {
				if rule, ok := opts.Rules[se.RelatedID]; ok && rule != "" {
					ev.AddRrule(rule)
				}
			}
		}
	}

	return cal.Serialize()
}

func stableUID(parts ...string) string {
	name := "fieldcal"
	for _, p := range parts {
		name += ":" + p
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func categoryName(c model.Category) string {
	if c == model.CategoryPreventive {
		return "PREVENTIVE"
	}
	return "CORRECTIVE"
}

// icalPriority maps to RFC 5545 PRIORITY (1 highest, 9 lowest).
func icalPriority(p model.Priority) int {
	switch p {
	case model.PriorityUrgent:
		return 1
	case model.PriorityHigh:
		return 3
	case model.PriorityMedium:
		return 5
	case model.PriorityLow:
		return 9
	default:
		return 0
	}
}
