package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
)

// ParsedEntry is a VEVENT reduced to what a day-precision feed (holidays)
// needs. Recurrence is kept raw; ExpandYear turns it into dates.
type ParsedEntry struct {
	Source Source

	UID     string
	Summary string

	// Date is the first occurrence at midnight UTC.
	Date time.Time

	RawRRule string
	ExDates  []time.Time
}

// ParseICS parses an ICS payload into entries. VEVENTs without UID or
// DTSTART are logged and skipped.
func ParseICS(src Source, body []byte) ([]ParsedEntry, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}

	entries := make([]ParsedEntry, 0)
	for _, ve := range cal.Events() {
		entry, perr := parseVEvent(src, ve)
		if perr != nil {
			appLog.Error("ics vevent parse failed", perr, "id", src.ID)
			continue
		}
		entries = append(entries, entry)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "entry_count", len(entries))
	return entries, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (ParsedEntry, error) {
	out := ParsedEntry{Source: src}

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = strings.TrimSpace(p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}
	start, err := parseICSTime(dtStart.Value)
	if err != nil {
		// Fall back to the library for TZID-qualified values.
		start, err = ve.GetStartAt()
		if err != nil {
			return out, err
		}
	}
	out.Date = model.TruncateDay(start)

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.ExDates = append(out.ExDates, model.TruncateDay(t))
			}
		}
	}

	return out, nil
}

// parseICSTime parses basic DATE / DATE-TIME / UTC forms. Floating values
// are read as UTC: only the calendar day matters to callers.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.Parse("20060102T150405", v)
	default:
		return time.Parse("20060102", v)
	}
}

