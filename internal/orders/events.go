package orders

import (
	"time"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
	"fieldcal/internal/recurrence"
)

// defaultVisit is used when an order has no usable time window.
const defaultVisit = time.Hour

// PreventiveSuffix is appended to an order ID to form the ID of its
// preventive calendar event.
const PreventiveSuffix = "-prev"

// EventsFor normalizes orders into calendar events: one corrective event
// on the scheduled date of each order, plus one preventive event on the
// next execution date of recurring orders. Order of the input is kept.
func EventsFor(orders []model.ServiceOrder) []model.ScheduledEvent {
	out := make([]model.ScheduledEvent, 0, len(orders))
	for _, o := range orders {
		start, end := visitWindow(o.ScheduledDate(), o.StartTime, o.EndTime)
		out = append(out, model.ScheduledEvent{
			ID:        o.ID,
			Title:     titleWithClient("OS #"+o.Number, o.ClientName),
			Start:     start,
			End:       end,
			Category:  model.CategoryCorrective,
			Status:    model.OrderStatus(o.Status),
			Priority:  o.Priority,
			RelatedID: o.ID,
		})

		if !o.Recurrence.Enabled || o.NextExecutionDate == nil {
			continue
		}
		start, end = visitWindow(*o.NextExecutionDate, o.StartTime, o.EndTime)
		out = append(out, model.ScheduledEvent{
			ID:        o.ID + PreventiveSuffix,
			Title:     titleWithClient("Manut. Recorrente", o.ClientName),
			Start:     start,
			End:       end,
			Category:  model.CategoryPreventive,
			Status:    model.PreventivePending,
			Priority:  o.Priority,
			RelatedID: o.ID,
		})
	}
	return out
}

// Rules returns the RRULE of every recurring order, keyed by order ID.
// Orders whose recurrence cannot be rendered are skipped.
func Rules(orders []model.ServiceOrder) map[string]string {
	rules := make(map[string]string)
	for _, o := range orders {
		if !o.Recurrence.Enabled || o.NextExecutionDate == nil {
			continue
		}
		cfg := o.Recurrence
		cfg.Anchor = *o.NextExecutionDate
		rule, err := recurrence.RuleString(cfg, o.RepetitionCount)
		if err != nil {
			appLog.Error("skip rrule for order", err, "id", o.ID)
			continue
		}
		rules[o.ID] = rule
	}
	return rules
}

func visitWindow(day time.Time, from, to time.Duration) (time.Time, time.Time) {
	base := model.TruncateDay(day)
	start := base.Add(from)
	if to <= from {
		return start, start.Add(defaultVisit)
	}
	return start, base.Add(to)
}

func titleWithClient(prefix, client string) string {
	if client == "" {
		return prefix
	}
	return prefix + " - " + client
}
