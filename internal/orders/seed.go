package orders

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fieldcal/internal/model"
)

// seedFile is the on-disk layout of an orders file.
type seedFile struct {
	Orders []seedOrder `yaml:"orders"`
}

type seedOrder struct {
	ID          string `yaml:"id"`
	Number      string `yaml:"number"`
	Client      string `yaml:"client"`
	Equipment   string `yaml:"equipment"`
	Description string `yaml:"description"`

	Priority   model.Priority           `yaml:"priority"`
	Status     model.ServiceOrderStatus `yaml:"status"`
	Technician string                   `yaml:"technician"`

	// Dates are YYYY-MM-DD, times HH:MM.
	OpenDate     string `yaml:"open_date"`
	ForecastDate string `yaml:"forecast_date"`
	StartTime    string `yaml:"start_time"`
	EndTime      string `yaml:"end_time"`

	Recurrence      seedRecurrence `yaml:"recurrence"`
	RepetitionCount int            `yaml:"repetition_count"`
	CopyItemsToNext bool           `yaml:"copy_items_to_next"`
	RecurrenceNotes string         `yaml:"recurrence_notes"`
}

type seedRecurrence struct {
	Enabled     bool                 `yaml:"enabled"`
	Kind        model.RecurrenceKind `yaml:"kind"`
	CustomValue int                  `yaml:"custom_value"`
	CustomUnit  model.RecurrenceUnit `yaml:"custom_unit"`
}

// LoadFile reads a YAML orders file into a MemoryStore. An empty path
// yields an empty store.
func LoadFile(path string) (*MemoryStore, error) {
	if path == "" {
		return NewMemoryStore(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	list, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("orders file %s: %w", path, err)
	}
	return NewMemoryStore(list)
}

// Decode parses the YAML orders layout.
func Decode(data []byte) ([]model.ServiceOrder, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	out := make([]model.ServiceOrder, 0, len(f.Orders))
	for i, so := range f.Orders {
		o, err := so.toModel()
		if err != nil {
			return nil, fmt.Errorf("order #%d (%s): %w", i+1, so.ID, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (so seedOrder) toModel() (model.ServiceOrder, error) {
	if so.OpenDate == "" {
		return model.ServiceOrder{}, errors.New("open_date is required")
	}
	open, err := model.ParseDate(so.OpenDate)
	if err != nil {
		return model.ServiceOrder{}, fmt.Errorf("open_date: %w", err)
	}

	o := model.ServiceOrder{
		ID:          so.ID,
		Number:      so.Number,
		ClientName:  so.Client,
		Equipment:   so.Equipment,
		Description: so.Description,
		Priority:    so.Priority,
		Status:      so.Status,
		Technician:  so.Technician,
		OpenDate:    open,
		Recurrence: model.RecurrenceConfig{
			Enabled:     so.Recurrence.Enabled,
			Kind:        so.Recurrence.Kind,
			CustomValue: so.Recurrence.CustomValue,
			CustomUnit:  so.Recurrence.CustomUnit,
			Anchor:      open,
		},
		RepetitionCount: so.RepetitionCount,
		CopyItemsToNext: so.CopyItemsToNext,
		RecurrenceNotes: so.RecurrenceNotes,
	}
	if o.Priority == "" {
		o.Priority = model.PriorityMedium
	}
	if o.Status == "" {
		o.Status = model.StatusOpen
	}
	if o.Recurrence.Kind == "" {
		o.Recurrence.Kind = model.RecurrenceNone
	}

	if so.ForecastDate != "" {
		d, err := model.ParseDate(so.ForecastDate)
		if err != nil {
			return model.ServiceOrder{}, fmt.Errorf("forecast_date: %w", err)
		}
		o.ForecastDate = &d
	}
	if o.StartTime, err = parseClock(so.StartTime); err != nil {
		return model.ServiceOrder{}, fmt.Errorf("start_time: %w", err)
	}
	if o.EndTime, err = parseClock(so.EndTime); err != nil {
		return model.ServiceOrder{}, fmt.Errorf("end_time: %w", err)
	}
	return o, nil
}

// parseClock turns "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
