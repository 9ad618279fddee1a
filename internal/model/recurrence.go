package model

import (
	"fmt"
	"strings"
	"time"
)

// RecurrenceKind is how often a preventive visit repeats.
type RecurrenceKind string

const (
	RecurrenceNone       RecurrenceKind = "none"
	RecurrenceMonthly    RecurrenceKind = "monthly"
	RecurrenceBimonthly  RecurrenceKind = "bimonthly"
	RecurrenceQuarterly  RecurrenceKind = "quarterly"
	RecurrenceSemiannual RecurrenceKind = "semiannual"
	RecurrenceAnnual     RecurrenceKind = "annual"
	RecurrenceCustom     RecurrenceKind = "custom"
)

var kindLabels = map[string]RecurrenceKind{
	"nenhuma":       RecurrenceNone,
	"mensal":        RecurrenceMonthly,
	"bimestral":     RecurrenceBimonthly,
	"trimestral":    RecurrenceQuarterly,
	"semestral":     RecurrenceSemiannual,
	"anual":         RecurrenceAnnual,
	"personalizado": RecurrenceCustom,
}

// ParseRecurrenceKind accepts the canonical value or the Portuguese label.
// An empty string is RecurrenceNone.
func ParseRecurrenceKind(s string) (RecurrenceKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return RecurrenceNone, nil
	}
	switch RecurrenceKind(v) {
	case RecurrenceNone, RecurrenceMonthly, RecurrenceBimonthly, RecurrenceQuarterly,
		RecurrenceSemiannual, RecurrenceAnnual, RecurrenceCustom:
		return RecurrenceKind(v), nil
	}
	if k, ok := kindLabels[v]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown recurrence kind %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseRecurrenceKind.
func (k *RecurrenceKind) UnmarshalText(b []byte) error {
	v, err := ParseRecurrenceKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// RecurrenceUnit is the unit of a custom recurrence interval.
type RecurrenceUnit string

const (
	UnitDays   RecurrenceUnit = "days"
	UnitMonths RecurrenceUnit = "months"
)

// ParseRecurrenceUnit accepts "days"/"months" or "Dias"/"Meses".
// An empty string yields an empty unit.
func ParseRecurrenceUnit(s string) (RecurrenceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "days", "dias":
		return UnitDays, nil
	case "months", "meses":
		return UnitMonths, nil
	}
	return "", fmt.Errorf("unknown recurrence unit %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseRecurrenceUnit.
func (u *RecurrenceUnit) UnmarshalText(b []byte) error {
	v, err := ParseRecurrenceUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// RecurrenceConfig describes how a service order repeats.
type RecurrenceConfig struct {
	Enabled bool
	Kind    RecurrenceKind

	// CustomValue and CustomUnit are only meaningful for RecurrenceCustom.
	CustomValue int
	CustomUnit  RecurrenceUnit

	// Anchor is the date the next occurrence is counted from, typically
	// the order's open date.
	Anchor time.Time
}
