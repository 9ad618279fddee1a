package model

import (
	"fmt"
	"strings"
)

// ServiceOrderStatus is the lifecycle state of a service order. The set is
// closed; the calendar only dispatches on it.
type ServiceOrderStatus string

const (
	StatusOpen            ServiceOrderStatus = "open"
	StatusScheduled       ServiceOrderStatus = "scheduled"
	StatusInProgress      ServiceOrderStatus = "in_progress"
	StatusWaitingParts    ServiceOrderStatus = "waiting_parts"
	StatusWaitingApproval ServiceOrderStatus = "waiting_approval"
	StatusCompleted       ServiceOrderStatus = "completed"
	StatusCancelled       ServiceOrderStatus = "cancelled"
)

var statusLabels = map[string]ServiceOrderStatus{
	"aberta":               StatusOpen,
	"agendada":             StatusScheduled,
	"em execução":          StatusInProgress,
	"aguardando peça":      StatusWaitingParts,
	"aguardando aprovação": StatusWaitingApproval,
	"concluída":            StatusCompleted,
	"cancelada":            StatusCancelled,
}

// ParseServiceOrderStatus accepts the canonical value or the Portuguese
// label used by the order entry screens.
func ParseServiceOrderStatus(s string) (ServiceOrderStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch ServiceOrderStatus(v) {
	case StatusOpen, StatusScheduled, StatusInProgress, StatusWaitingParts,
		StatusWaitingApproval, StatusCompleted, StatusCancelled:
		return ServiceOrderStatus(v), nil
	}
	if st, ok := statusLabels[v]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown service order status %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseServiceOrderStatus.
func (s *ServiceOrderStatus) UnmarshalText(b []byte) error {
	st, err := ParseServiceOrderStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// EventStatus is either a service order status or the preventive-pending
// marker. Exactly one of the two is set.
type EventStatus struct {
	order             ServiceOrderStatus
	preventivePending bool
}

// PreventivePending is the status of a recurring visit that has not been
// turned into a service order yet.
var PreventivePending = EventStatus{preventivePending: true}

// OrderStatus wraps a service order status.
func OrderStatus(s ServiceOrderStatus) EventStatus {
	return EventStatus{order: s}
}

// ServiceOrderStatus returns the wrapped order status, if any.
func (s EventStatus) ServiceOrderStatus() (ServiceOrderStatus, bool) {
	if s.preventivePending || s.order == "" {
		return "", false
	}
	return s.order, true
}

// IsPreventivePending reports whether s is the preventive marker.
func (s EventStatus) IsPreventivePending() bool { return s.preventivePending }

func (s EventStatus) String() string {
	if s.preventivePending {
		return "preventive_pending"
	}
	return string(s.order)
}

// MarshalText implements encoding.TextMarshaler.
func (s EventStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts "preventive_pending" or any service order status.
func (s *EventStatus) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	if v == "preventive_pending" || v == "preventivepending" {
		*s = PreventivePending
		return nil
	}
	st, err := ParseServiceOrderStatus(v)
	if err != nil {
		return err
	}
	*s = OrderStatus(st)
	return nil
}

var priorityLabels = map[string]Priority{
	"baixa":   PriorityLow,
	"média":   PriorityMedium,
	"alta":    PriorityHigh,
	"urgente": PriorityUrgent,
}

// ParsePriority accepts the canonical value or the Portuguese label.
func ParsePriority(s string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Priority(v) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return Priority(v), nil
	}
	if p, ok := priorityLabels[v]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler via ParsePriority.
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
