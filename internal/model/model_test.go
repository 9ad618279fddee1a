package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLabels(t *testing.T) {
	k, err := ParseRecurrenceKind("Trimestral")
	require.NoError(t, err)
	assert.Equal(t, RecurrenceQuarterly, k)

	k, err = ParseRecurrenceKind("")
	require.NoError(t, err)
	assert.Equal(t, RecurrenceNone, k)

	_, err = ParseRecurrenceKind("weekly")
	assert.Error(t, err)

	u, err := ParseRecurrenceUnit("Meses")
	require.NoError(t, err)
	assert.Equal(t, UnitMonths, u)

	st, err := ParseServiceOrderStatus("Em Execução")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	p, err := ParsePriority("Urgente")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
}

func TestEventStatus(t *testing.T) {
	_, ok := PreventivePending.ServiceOrderStatus()
	assert.False(t, ok)
	assert.True(t, PreventivePending.IsPreventivePending())
	assert.Equal(t, "preventive_pending", PreventivePending.String())

	s := OrderStatus(StatusCompleted)
	got, ok := s.ServiceOrderStatus()
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got)

	var decoded EventStatus
	require.NoError(t, decoded.UnmarshalText([]byte("PreventivePending")))
	assert.Equal(t, PreventivePending, decoded)

	require.NoError(t, decoded.UnmarshalText([]byte("Concluída")))
	assert.Equal(t, OrderStatus(StatusCompleted), decoded)
}

func TestEnumsDecodeFromYAML(t *testing.T) {
	var doc struct {
		Kind     RecurrenceKind     `yaml:"kind"`
		Unit     RecurrenceUnit     `yaml:"unit"`
		Status   ServiceOrderStatus `yaml:"status"`
		Priority Priority           `yaml:"priority"`
	}
	err := yaml.Unmarshal([]byte("kind: Mensal\nunit: Dias\nstatus: Aberta\npriority: Alta\n"), &doc)
	require.NoError(t, err)
	assert.Equal(t, RecurrenceMonthly, doc.Kind)
	assert.Equal(t, UnitDays, doc.Unit)
	assert.Equal(t, StatusOpen, doc.Status)
	assert.Equal(t, PriorityHigh, doc.Priority)
}

func TestDateHelpers(t *testing.T) {
	assert.Equal(t, 28, DaysIn(2025, time.February))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 31, DaysIn(2025, time.December))

	d, err := ParseDate("2025-02-10")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, 2, 10), d)
	assert.Equal(t, "2025-02-10", DateKey(d))

	loc := time.FixedZone("BRT", -3*60*60)
	assert.Equal(t, Date(2025, 2, 10), TruncateDay(time.Date(2025, 2, 10, 23, 59, 0, 0, loc)))
}

func TestServiceOrderScheduledDate(t *testing.T) {
	o := ServiceOrder{OpenDate: Date(2025, 2, 1)}
	assert.Equal(t, Date(2025, 2, 1), o.ScheduledDate())

	f := Date(2025, 2, 5)
	o.ForecastDate = &f
	assert.Equal(t, f, o.ScheduledDate())
}
