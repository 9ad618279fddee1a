package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fieldcal/internal/calendar"
	"fieldcal/internal/ics"
	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
	"fieldcal/internal/orders"
)

const gridCacheTTL = 30 * time.Second

// gridCacheEntry holds a built month and its timestamp.
type gridCacheEntry struct {
	grid      model.MonthGrid
	rules     map[string]string
	warnings  []string
	updatedAt time.Time
}

// CalendarResponse is the JSON form of a month grid.
type CalendarResponse struct {
	Year           int                 `json:"year"`
	Month          int                 `json:"month"`
	Today          string              `json:"today"`
	TimeZone       string              `json:"time_zone"`
	LeadingPadding int                 `json:"leading_padding"`
	Cells          []CellDTO           `json:"cells"`
	Legend         []calendar.StyleTag `json:"legend"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// CellDTO is one grid cell. Date is null for padding.
type CellDTO struct {
	Date    *string     `json:"date"`
	IsToday bool        `json:"is_today,omitempty"`
	Holiday *HolidayDTO `json:"holiday,omitempty"`
	Events  []EventDTO  `json:"events"`
}

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// EventDTO is a scheduled event with its resolved style.
type EventDTO struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Category  model.Category    `json:"category"`
	Status    model.EventStatus `json:"status"`
	Priority  model.Priority    `json:"priority"`
	RelatedID string            `json:"related_id"`
	Style     calendar.StyleTag `json:"style"`
	Rank      int               `json:"rank"`
	Icon      calendar.Icon     `json:"icon"`
}

// Calendar builds the month view for year/month. Out-of-range months
// normalize (month 13 is January of the next year).
func (s *Server) Calendar(ctx context.Context, year int, month time.Month) (CalendarResponse, error) {
	entry, err := s.monthGrid(ctx, year, month)
	if err != nil {
		return CalendarResponse{}, err
	}
	return s.toResponse(entry), nil
}

// GET /api/calendar?year=2025&month=2
//
// Missing or unparsable parameters fall back to the current month in the
// configured timezone.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month := s.monthFromQuery(r)
	resp, err := s.Calendar(r.Context(), year, month)
	if err != nil {
		appLog.Error("api calendar failed", err, "year", year, "month", int(month))
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /calendar.ics?year=2025&month=2
func (s *Server) handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	year, month := s.monthFromQuery(r)
	entry, err := s.monthGrid(r.Context(), year, month)
	if err != nil {
		appLog.Error("ics export failed", err, "year", year, "month", int(month))
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	body := ics.ExportMonth(entry.grid, ics.ExportOptions{
		Stamp: s.now().UTC().Truncate(time.Second),
		Rules: entry.rules,
	})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="fieldcal-%04d-%02d.ics"`, entry.grid.Year, int(entry.grid.Month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) monthFromQuery(r *http.Request) (int, time.Month) {
	now := s.now().In(s.loc)
	q := r.URL.Query()
	year := parseIntDefault(q.Get("year"), now.Year())
	month := parseIntDefault(q.Get("month"), int(now.Month()))
	return year, time.Month(month)
}

// monthGrid returns the cached grid for the normalized month or builds it.
func (s *Server) monthGrid(ctx context.Context, year int, month time.Month) (*gridCacheEntry, error) {
	first := model.Date(year, month, 1)
	key := first.Format("2006-01")

	s.gridMu.RLock()
	cached := s.gridCache[key]
	gen := s.gridGen
	s.gridMu.RUnlock()
	if cached != nil && s.now().Sub(cached.updatedAt) < gridCacheTTL {
		return cached, nil
	}

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	// Holidays are decoration: a failing provider degrades the view
	// instead of failing it.
	var warnings []string
	holidays, err := s.holidays.Holidays(ctx, first.Year())
	if err != nil {
		appLog.Error("holiday lookup failed", err, "year", first.Year())
		warnings = append(warnings, "holidays unavailable")
		holidays = nil
	}

	grid := calendar.BuildMonthGrid(first.Year(), first.Month(), orders.EventsFor(list), holidays,
		calendar.WithTrailingPaddingIf(s.cfg.Calendar.PadTrailingWeek))

	entry := &gridCacheEntry{
		grid:      grid,
		rules:     orders.Rules(list),
		warnings:  warnings,
		updatedAt: s.now(),
	}
	if len(warnings) == 0 {
		s.gridMu.Lock()
		if s.gridGen == gen {
			s.gridCache[key] = entry
		}
		s.gridMu.Unlock()
	}

	appLog.Debug("month grid built", "month", key, "orders", len(list), "holidays", len(holidays))
	return entry, nil
}

// InvalidateCache drops every cached month, e.g. after the orders changed.
func (s *Server) InvalidateCache() {
	s.gridMu.Lock()
	s.gridCache = make(map[string]*gridCacheEntry)
	s.gridGen++
	s.gridMu.Unlock()
}

func (s *Server) toResponse(entry *gridCacheEntry) CalendarResponse {
	g := entry.grid
	today := model.DateKey(s.now().In(s.loc))

	cells := make([]CellDTO, 0, len(g.Cells))
	for _, c := range g.Cells {
		dto := CellDTO{Events: make([]EventDTO, 0, len(c.Events))}
		if c.Date != nil {
			key := model.DateKey(*c.Date)
			dto.Date = &key
			dto.IsToday = key == today
		}
		if c.Holiday != nil {
			dto.Holiday = &HolidayDTO{Date: model.DateKey(c.Holiday.Date), Name: c.Holiday.Name}
		}
		for _, ev := range c.Events {
			dto.Events = append(dto.Events, toEventDTO(ev))
		}
		cells = append(cells, dto)
	}

	return CalendarResponse{
		Year:           g.Year,
		Month:          int(g.Month),
		Today:          today,
		TimeZone:       s.loc.String(),
		LeadingPadding: g.LeadingPadding,
		Cells:          cells,
		Legend:         calendar.Legend(),
		Warnings:       entry.warnings,
	}
}

func toEventDTO(ev model.ScheduledEvent) EventDTO {
	st := calendar.ClassifyEventStyle(ev)
	return EventDTO{
		ID:        ev.ID,
		Title:     ev.Title,
		Start:     ev.Start,
		End:       ev.End,
		Category:  ev.Category,
		Status:    ev.Status,
		Priority:  ev.Priority,
		RelatedID: ev.RelatedID,
		Style:     st.Tag,
		Rank:      st.Rank,
		Icon:      calendar.IconFor(ev),
	}
}
