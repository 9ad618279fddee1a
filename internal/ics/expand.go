package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
)

// maxOccurrencesPerEntry caps a single entry's expansion within one year.
// Holiday feeds are yearly; anything denser is a malformed feed.
const maxOccurrencesPerEntry = 366

// ExpandYear turns parsed entries into concrete holidays falling in year.
// Non-recurring entries are kept when their date is in the year; RRULE
// entries are expanded with EXDATE applied.
//
// The result is sorted by date. Entries on the same date keep their input
// order, so a later first-match lookup still prefers the earlier feed.
func ExpandYear(entries []ParsedEntry, year int) []model.Holiday {
	rangeStart := model.Date(year, time.January, 1)
	rangeEnd := model.Date(year, time.December, 31)

	out := make([]model.Holiday, 0, len(entries))
	for _, e := range entries {
		if e.RawRRule == "" {
			if e.Date.Year() == year && !isExcluded(e.Date, e.ExDates) {
				out = append(out, model.Holiday{Date: e.Date, Name: e.Summary})
			}
			continue
		}

		dates, hitCap, err := expandRule(e, rangeStart, rangeEnd)
		if err != nil {
			appLog.Error("ics: failed to expand RRULE", err, "uid", e.UID, "rrule", e.RawRRule)
			continue
		}
		if hitCap {
			appLog.Error("ics: truncated occurrences for UID due to cap",
				errors.New("max occurrences reached"),
				"uid", e.UID,
				"cap", maxOccurrencesPerEntry,
			)
		}
		for _, d := range dates {
			out = append(out, model.Holiday{Date: model.TruncateDay(d), Name: e.Summary})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func expandRule(e ParsedEntry, rangeStart, rangeEnd time.Time) ([]time.Time, bool, error) {
	r, err := rrule.StrToRRule(e.RawRRule)
	if err != nil {
		return nil, false, err
	}
	r.DTStart(e.Date)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range e.ExDates {
		set.ExDate(ex)
	}

	dates := set.Between(rangeStart, rangeEnd, true)
	if len(dates) > maxOccurrencesPerEntry {
		return dates[:maxOccurrencesPerEntry], true, nil
	}
	return dates, false, nil
}

func isExcluded(d time.Time, exdates []time.Time) bool {
	for _, ex := range exdates {
		if ex.Equal(d) {
			return true
		}
	}
	return false
}
