package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldcal/internal/model"
)

func TestClassifyEventStyle(t *testing.T) {
	tests := []struct {
		name string
		ev   model.ScheduledEvent
		want Style
	}{
		{
			name: "urgent beats preventive and completed",
			ev: model.ScheduledEvent{Priority: model.PriorityUrgent, Category: model.CategoryPreventive,
				Status: model.OrderStatus(model.StatusCompleted)},
			want: Style{Tag: StyleUrgent, Rank: RankPriority},
		},
		{
			name: "urgent corrective open",
			ev: model.ScheduledEvent{Priority: model.PriorityUrgent, Category: model.CategoryCorrective,
				Status: model.OrderStatus(model.StatusOpen)},
			want: Style{Tag: StyleUrgent, Rank: RankPriority},
		},
		{
			name: "preventive beats in progress",
			ev: model.ScheduledEvent{Priority: model.PriorityHigh, Category: model.CategoryPreventive,
				Status: model.OrderStatus(model.StatusInProgress)},
			want: Style{Tag: StylePreventive, Rank: RankCategory},
		},
		{
			name: "preventive pending",
			ev:   model.ScheduledEvent{Priority: model.PriorityLow, Category: model.CategoryPreventive, Status: model.PreventivePending},
			want: Style{Tag: StylePreventive, Rank: RankCategory},
		},
		{
			name: "in progress",
			ev:   model.ScheduledEvent{Priority: model.PriorityHigh, Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusInProgress)},
			want: Style{Tag: StyleInProgress, Rank: RankStatus},
		},
		{
			name: "completed",
			ev:   model.ScheduledEvent{Priority: model.PriorityLow, Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusCompleted)},
			want: Style{Tag: StyleCompleted, Rank: RankStatus},
		},
		{
			name: "open",
			ev:   model.ScheduledEvent{Priority: model.PriorityMedium, Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusOpen)},
			want: Style{Tag: StyleOpen, Rank: RankStatus},
		},
		{
			name: "scheduled falls back",
			ev:   model.ScheduledEvent{Priority: model.PriorityMedium, Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusScheduled)},
			want: Style{Tag: StyleDefault, Rank: RankFallback},
		},
		{
			name: "waiting parts falls back",
			ev:   model.ScheduledEvent{Priority: model.PriorityHigh, Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusWaitingParts)},
			want: Style{Tag: StyleDefault, Rank: RankFallback},
		},
		{
			name: "corrective preventive-pending falls back",
			ev:   model.ScheduledEvent{Priority: model.PriorityLow, Category: model.CategoryCorrective, Status: model.PreventivePending},
			want: Style{Tag: StyleDefault, Rank: RankFallback},
		},
		{
			name: "zero value falls back",
			ev:   model.ScheduledEvent{},
			want: Style{Tag: StyleDefault, Rank: RankFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEventStyle(tt.ev))
		})
	}
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, IconAlert, IconFor(model.ScheduledEvent{Priority: model.PriorityUrgent, Category: model.CategoryPreventive}))
	assert.Equal(t, IconShield, IconFor(model.ScheduledEvent{Priority: model.PriorityLow, Category: model.CategoryPreventive}))
	assert.Equal(t, IconWrench, IconFor(model.ScheduledEvent{Category: model.CategoryCorrective, Status: model.OrderStatus(model.StatusCompleted)}))
}

func TestLegendOrder(t *testing.T) {
	legend := Legend()
	assert.Equal(t, StyleUrgent, legend[0])
	assert.Equal(t, StylePreventive, legend[1])
	assert.Equal(t, StyleDefault, legend[len(legend)-1])
}
