package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
	"fieldcal/internal/orders"
	"fieldcal/internal/recurrence"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// OrderDTO is the JSON form of a service order.
type OrderDTO struct {
	ID                string                   `json:"id"`
	Number            string                   `json:"number"`
	Client            string                   `json:"client"`
	Equipment         string                   `json:"equipment,omitempty"`
	Description       string                   `json:"description,omitempty"`
	Priority          model.Priority           `json:"priority"`
	Status            model.ServiceOrderStatus `json:"status"`
	Technician        string                   `json:"technician,omitempty"`
	OpenDate          string                   `json:"open_date"`
	ForecastDate      *string                  `json:"forecast_date"`
	StartTime         string                   `json:"start_time"`
	EndTime           string                   `json:"end_time"`
	Recurrence        RecurrenceDTO            `json:"recurrence"`
	NextExecutionDate *string                  `json:"next_execution_date"`
	RepetitionCount   int                      `json:"repetition_count"`
	CopyItemsToNext   bool                     `json:"copy_items_to_next"`
	RecurrenceNotes   string                   `json:"recurrence_notes,omitempty"`
}

type RecurrenceDTO struct {
	Enabled     bool                 `json:"enabled"`
	Kind        model.RecurrenceKind `json:"kind"`
	CustomValue int                  `json:"custom_value,omitempty"`
	CustomUnit  model.RecurrenceUnit `json:"custom_unit,omitempty"`
	Anchor      string               `json:"anchor,omitempty"`
	Summary     string               `json:"summary"`
}

// recurrenceRequest is the body of the recurrence endpoints. Kind and
// unit accept the Portuguese labels too.
type recurrenceRequest struct {
	Enabled     bool                 `json:"enabled"`
	Kind        model.RecurrenceKind `json:"kind"`
	CustomValue int                  `json:"custom_value"`
	CustomUnit  model.RecurrenceUnit `json:"custom_unit"`
	Anchor      string               `json:"anchor"`
}

func (req recurrenceRequest) toConfig() (model.RecurrenceConfig, error) {
	cfg := model.RecurrenceConfig{
		Enabled:     req.Enabled,
		Kind:        req.Kind,
		CustomValue: req.CustomValue,
		CustomUnit:  req.CustomUnit,
	}
	if cfg.Kind == "" {
		cfg.Kind = model.RecurrenceNone
	}
	if req.Anchor != "" {
		d, err := model.ParseDate(req.Anchor)
		if err != nil {
			return model.RecurrenceConfig{}, errors.New("anchor must be YYYY-MM-DD")
		}
		cfg.Anchor = d
	}
	return cfg, nil
}

type nextDateResponse struct {
	NextExecutionDate *string `json:"next_execution_date"`
	Summary           string  `json:"summary"`
	RRule             string  `json:"rrule,omitempty"`
}

// GET /api/orders
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		appLog.Error("api orders: list failed", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	out := make([]OrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/orders/{id}
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

// PUT /api/orders/{id}/recurrence
//
// Replaces the recurrence settings and returns the order with its
// recomputed next execution date. A missing anchor means the open date.
func (s *Server) handleUpdateRecurrence(w http.ResponseWriter, r *http.Request) {
	var req recurrenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := s.store.UpdateRecurrence(r.Context(), r.PathValue("id"), cfg)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.InvalidateCache()
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

// POST /api/recurrence/next
//
// Stateless calculator: the body carries the full config including the
// anchor, the response the next date (null when the config does not
// repeat).
func (s *Server) handleNextDate(w http.ResponseWriter, r *http.Request) {
	var req recurrenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Anchor == "" {
		writeError(w, http.StatusBadRequest, "anchor is required")
		return
	}
	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	next, err := recurrence.NextExecutionDate(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := nextDateResponse{Summary: recurrence.Describe(cfg)}
	if d, ok := next.Get(); ok {
		key := model.DateKey(d)
		resp.NextExecutionDate = &key
		cfg.Anchor = d
		if rule, err := recurrence.RuleString(cfg, 0); err == nil {
			resp.RRule = rule
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, recurrence.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		appLog.Error("order store failed", err)
		writeError(w, http.StatusInternalServerError, "order store failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func toOrderDTO(o model.ServiceOrder) OrderDTO {
	dto := OrderDTO{
		ID:          o.ID,
		Number:      o.Number,
		Client:      o.ClientName,
		Equipment:   o.Equipment,
		Description: o.Description,
		Priority:    o.Priority,
		Status:      o.Status,
		Technician:  o.Technician,
		OpenDate:    model.DateKey(o.OpenDate),
		StartTime:   formatClock(o.StartTime),
		EndTime:     formatClock(o.EndTime),
		Recurrence: RecurrenceDTO{
			Enabled:     o.Recurrence.Enabled,
			Kind:        o.Recurrence.Kind,
			CustomValue: o.Recurrence.CustomValue,
			CustomUnit:  o.Recurrence.CustomUnit,
			Summary:     recurrence.Describe(o.Recurrence),
		},
		RepetitionCount: o.RepetitionCount,
		CopyItemsToNext: o.CopyItemsToNext,
		RecurrenceNotes: o.RecurrenceNotes,
	}
	if !o.Recurrence.Anchor.IsZero() {
		dto.Recurrence.Anchor = model.DateKey(o.Recurrence.Anchor)
	}
	if o.ForecastDate != nil {
		v := model.DateKey(*o.ForecastDate)
		dto.ForecastDate = &v
	}
	if o.NextExecutionDate != nil {
		v := model.DateKey(*o.NextExecutionDate)
		dto.NextExecutionDate = &v
	}
	return dto
}

func formatClock(d time.Duration) string {
	return model.Date(2000, 1, 1).Add(d).Format("15:04")
}
