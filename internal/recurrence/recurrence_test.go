package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldcal/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNextExecutionDate_DisabledIsNone(t *testing.T) {
	configs := []model.RecurrenceConfig{
		{Enabled: false},
		{Enabled: false, Kind: model.RecurrenceMonthly, Anchor: date(t, "2025-01-15")},
		{Enabled: false, Kind: model.RecurrenceCustom, CustomValue: 0},
		{Enabled: false, Kind: "bogus"},
	}
	for _, cfg := range configs {
		next, err := NextExecutionDate(cfg)
		require.NoError(t, err)
		assert.True(t, next.IsAbsent(), "kind %q", cfg.Kind)
	}
}

func TestNextExecutionDate_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		cfg    model.RecurrenceConfig
		anchor string
		want   string
	}{
		{"monthly", model.RecurrenceConfig{Kind: model.RecurrenceMonthly}, "2025-01-15", "2025-02-15"},
		{"bimonthly", model.RecurrenceConfig{Kind: model.RecurrenceBimonthly}, "2025-01-15", "2025-03-15"},
		{"quarterly", model.RecurrenceConfig{Kind: model.RecurrenceQuarterly}, "2025-01-15", "2025-04-15"},
		{"semiannual", model.RecurrenceConfig{Kind: model.RecurrenceSemiannual}, "2025-09-10", "2026-03-10"},
		{"annual", model.RecurrenceConfig{Kind: model.RecurrenceAnnual}, "2025-06-01", "2026-06-01"},
		{"annual from leap day rolls over", model.RecurrenceConfig{Kind: model.RecurrenceAnnual}, "2024-02-29", "2025-03-01"},
		{"monthly from jan 31 rolls over", model.RecurrenceConfig{Kind: model.RecurrenceMonthly}, "2025-01-31", "2025-03-03"},
		{"monthly from jan 31 in leap year", model.RecurrenceConfig{Kind: model.RecurrenceMonthly}, "2024-01-31", "2024-03-02"},
		{"quarterly from nov 30 crosses year", model.RecurrenceConfig{Kind: model.RecurrenceQuarterly}, "2025-11-30", "2026-03-02"},
		{
			"custom 10 days",
			model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: 10, CustomUnit: model.UnitDays},
			"2025-02-20", "2025-03-02",
		},
		{
			"custom 2 months",
			model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: 2, CustomUnit: model.UnitMonths},
			"2025-01-15", "2025-03-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Enabled = true
			cfg.Anchor = date(t, tt.anchor)

			next, err := NextExecutionDate(cfg)
			require.NoError(t, err)
			got, ok := next.Get()
			require.True(t, ok)
			assert.Equal(t, tt.want, model.DateKey(got))
		})
	}
}

func TestNextExecutionDate_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	cfg := model.RecurrenceConfig{
		Enabled: true,
		Kind:    model.RecurrenceMonthly,
		Anchor:  time.Date(2025, 2, 10, 23, 30, 0, 0, loc),
	}

	next, err := NextExecutionDate(cfg)
	require.NoError(t, err)
	assert.Equal(t, model.Date(2025, 3, 10), next.MustGet())
}

func TestNextExecutionDate_Deterministic(t *testing.T) {
	cfg := model.RecurrenceConfig{
		Enabled:     true,
		Kind:        model.RecurrenceCustom,
		CustomValue: 45,
		CustomUnit:  model.UnitDays,
		Anchor:      date(t, "2025-12-01"),
	}
	a, err := NextExecutionDate(cfg)
	require.NoError(t, err)
	b, err := NextExecutionDate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "2026-01-15", model.DateKey(a.MustGet()))
}

func TestNextExecutionDate_EnabledNoneIsNone(t *testing.T) {
	next, err := NextExecutionDate(model.RecurrenceConfig{
		Enabled: true,
		Kind:    model.RecurrenceNone,
		Anchor:  date(t, "2025-01-01"),
	})
	require.NoError(t, err)
	assert.True(t, next.IsAbsent())
}

func TestNextExecutionDate_InvalidCustom(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.RecurrenceConfig
	}{
		{"zero value", model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: 0, CustomUnit: model.UnitDays}},
		{"negative value", model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: -3, CustomUnit: model.UnitMonths}},
		{"missing unit", model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: 5}},
		{"unknown unit", model.RecurrenceConfig{Kind: model.RecurrenceCustom, CustomValue: 5, CustomUnit: "weeks"}},
		{"unknown kind", model.RecurrenceConfig{Kind: "weekly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Enabled = true
			cfg.Anchor = date(t, "2025-01-01")

			next, err := NextExecutionDate(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.True(t, next.IsAbsent())
			assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "does not repeat", Describe(model.RecurrenceConfig{}))
	assert.Equal(t, "every month", Describe(model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceMonthly}))
	assert.Equal(t, "every 6 months", Describe(model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceSemiannual}))
	assert.Equal(t, "every year", Describe(model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceAnnual}))
	assert.Equal(t, "every 10 days", Describe(model.RecurrenceConfig{
		Enabled: true, Kind: model.RecurrenceCustom, CustomValue: 10, CustomUnit: model.UnitDays,
	}))
	assert.Equal(t, "invalid recurrence", Describe(model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceCustom}))
}
