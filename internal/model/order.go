package model

import "time"

// ServiceOrder is the subset of a service order record the scheduling
// engine needs.
type ServiceOrder struct {
	ID          string
	Number      string
	ClientName  string
	Equipment   string
	Description string

	Priority   Priority
	Status     ServiceOrderStatus
	Technician string

	OpenDate     time.Time
	ForecastDate *time.Time

	// StartTime / EndTime are the planned visit window as an offset from
	// midnight of the scheduled day.
	StartTime time.Duration
	EndTime   time.Duration

	Recurrence        RecurrenceConfig
	NextExecutionDate *time.Time

	// RepetitionCount limits the series; 0 means unlimited.
	RepetitionCount int
	CopyItemsToNext bool
	RecurrenceNotes string
}

// ScheduledDate is the day the corrective visit appears on: the forecast
// date when set, otherwise the open date.
func (o ServiceOrder) ScheduledDate() time.Time {
	if o.ForecastDate != nil {
		return *o.ForecastDate
	}
	return o.OpenDate
}
