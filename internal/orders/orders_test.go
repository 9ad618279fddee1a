package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldcal/internal/model"
	"fieldcal/internal/recurrence"
)

func loadSeed(t *testing.T) *MemoryStore {
	t.Helper()
	s, err := LoadFile("testdata/orders.yaml")
	require.NoError(t, err)
	return s
}

func TestLoadFile(t *testing.T) {
	s := loadSeed(t)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	first := list[0]
	assert.Equal(t, "os-1", first.ID)
	assert.Equal(t, model.PriorityHigh, first.Priority)
	assert.Equal(t, model.StatusInProgress, first.Status)
	require.NotNil(t, first.ForecastDate)
	assert.Equal(t, model.Date(2025, 2, 10), *first.ForecastDate)
	assert.Equal(t, 9*time.Hour, first.StartTime)
	assert.Equal(t, 11*time.Hour, first.EndTime)
	assert.Nil(t, first.NextExecutionDate)
	assert.Equal(t, model.RecurrenceNone, first.Recurrence.Kind)

	prev := list[1]
	assert.Equal(t, model.RecurrenceQuarterly, prev.Recurrence.Kind)
	assert.Equal(t, 4, prev.RepetitionCount)
	assert.True(t, prev.CopyItemsToNext)
	require.NotNil(t, prev.NextExecutionDate)
	assert.Equal(t, model.Date(2025, 2, 24), *prev.NextExecutionDate)

	custom := list[2]
	assert.Equal(t, model.UnitMonths, custom.Recurrence.CustomUnit)
	require.NotNil(t, custom.NextExecutionDate)
	assert.Equal(t, model.Date(2025, 3, 3), *custom.NextExecutionDate)
}

func TestLoadFile_EmptyPath(t *testing.T) {
	s, err := LoadFile("")
	require.NoError(t, err)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing open date", "orders:\n  - id: a\n"},
		{"bad open date", "orders:\n  - id: a\n    open_date: 03/02/2025\n"},
		{"bad forecast", "orders:\n  - id: a\n    open_date: \"2025-02-03\"\n    forecast_date: soon\n"},
		{"bad clock", "orders:\n  - id: a\n    open_date: \"2025-02-03\"\n    start_time: \"9h\"\n"},
		{"bad status", "orders:\n  - id: a\n    open_date: \"2025-02-03\"\n    status: lost\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNewMemoryStore_Rejects(t *testing.T) {
	open := model.Date(2025, 1, 1)

	_, err := NewMemoryStore([]model.ServiceOrder{{ID: "a", OpenDate: open}, {ID: "a", OpenDate: open}})
	assert.Error(t, err)

	_, err = NewMemoryStore([]model.ServiceOrder{{OpenDate: open}})
	assert.Error(t, err)

	_, err = NewMemoryStore([]model.ServiceOrder{{
		ID:         "a",
		OpenDate:   open,
		Recurrence: model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceCustom},
	}})
	assert.ErrorIs(t, err, recurrence.ErrInvalidConfig)
}

func TestMemoryStore_Get(t *testing.T) {
	s := loadSeed(t)

	o, err := s.Get(context.Background(), "os-4")
	require.NoError(t, err)
	assert.Equal(t, "Padaria Central", o.ClientName)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := loadSeed(t)
	o, err := s.Get(context.Background(), "os-4")
	require.NoError(t, err)
	*o.NextExecutionDate = model.Date(1999, 1, 1)

	again, err := s.Get(context.Background(), "os-4")
	require.NoError(t, err)
	assert.Equal(t, model.Date(2025, 2, 24), *again.NextExecutionDate)
}

func TestMemoryStore_UpdateRecurrence(t *testing.T) {
	s := loadSeed(t)
	ctx := context.Background()

	o, err := s.UpdateRecurrence(ctx, "os-1", model.RecurrenceConfig{Enabled: true, Kind: model.RecurrenceSemiannual})
	require.NoError(t, err)
	assert.Equal(t, model.Date(2025, 2, 3), o.Recurrence.Anchor)
	require.NotNil(t, o.NextExecutionDate)
	assert.Equal(t, model.Date(2025, 8, 3), *o.NextExecutionDate)

	o, err = s.UpdateRecurrence(ctx, "os-1", model.RecurrenceConfig{
		Enabled: true, Kind: model.RecurrenceCustom, CustomValue: 10, CustomUnit: model.UnitDays,
		Anchor: model.Date(2025, 2, 25),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Date(2025, 3, 7), *o.NextExecutionDate)

	o, err = s.UpdateRecurrence(ctx, "os-1", model.RecurrenceConfig{Enabled: false, Kind: model.RecurrenceMonthly})
	require.NoError(t, err)
	assert.Nil(t, o.NextExecutionDate)

	stored, err := s.Get(ctx, "os-1")
	require.NoError(t, err)
	assert.Nil(t, stored.NextExecutionDate)
	assert.False(t, stored.Recurrence.Enabled)
}

func TestMemoryStore_UpdateRecurrenceErrors(t *testing.T) {
	s := loadSeed(t)
	ctx := context.Background()

	_, err := s.UpdateRecurrence(ctx, "missing", model.RecurrenceConfig{})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.UpdateRecurrence(ctx, "os-4", model.RecurrenceConfig{
		Enabled: true, Kind: model.RecurrenceCustom, CustomValue: 0, CustomUnit: model.UnitDays,
	})
	assert.ErrorIs(t, err, recurrence.ErrInvalidConfig)

	o, err := s.Get(ctx, "os-4")
	require.NoError(t, err)
	assert.Equal(t, model.RecurrenceQuarterly, o.Recurrence.Kind)
	assert.Equal(t, model.Date(2025, 2, 24), *o.NextExecutionDate)
}

func TestEventsFor(t *testing.T) {
	list, err := loadSeed(t).List(context.Background())
	require.NoError(t, err)

	events := EventsFor(list)
	require.Len(t, events, 5)

	corrective := events[0]
	assert.Equal(t, "os-1", corrective.ID)
	assert.Equal(t, "OS #000456 - João Silva Ltda", corrective.Title)
	assert.Equal(t, time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), corrective.Start)
	assert.Equal(t, time.Date(2025, 2, 10, 11, 0, 0, 0, time.UTC), corrective.End)
	assert.Equal(t, model.CategoryCorrective, corrective.Category)
	assert.Equal(t, model.OrderStatus(model.StatusInProgress), corrective.Status)

	// os-4 has no forecast, so the corrective visit sits on the open date.
	assert.Equal(t, "os-4", events[1].ID)
	assert.Equal(t, "2024-11-24", model.DateKey(events[1].Start))

	prev := events[2]
	assert.Equal(t, "os-4"+PreventiveSuffix, prev.ID)
	assert.Equal(t, "Manut. Recorrente - Padaria Central", prev.Title)
	assert.Equal(t, time.Date(2025, 2, 24, 11, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, model.CategoryPreventive, prev.Category)
	assert.True(t, prev.Status.IsPreventivePending())
	assert.Equal(t, "os-4", prev.RelatedID)

	// No window configured: a one hour visit at midnight.
	last := events[4]
	assert.Equal(t, "os-7"+PreventiveSuffix, last.ID)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), last.Start)
	assert.Equal(t, time.Hour, last.End.Sub(last.Start))
}

func TestRules(t *testing.T) {
	list, err := loadSeed(t).List(context.Background())
	require.NoError(t, err)

	rules := Rules(list)
	require.Len(t, rules, 2)
	assert.Contains(t, rules["os-4"], "FREQ=MONTHLY")
	assert.Contains(t, rules["os-4"], "INTERVAL=3")
	assert.Contains(t, rules["os-4"], "COUNT=4")
	assert.Contains(t, rules["os-7"], "FREQ=MONTHLY")
	assert.NotContains(t, rules["os-7"], "COUNT")
	_, ok := rules["os-1"]
	assert.False(t, ok)
}
