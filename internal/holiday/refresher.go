package holiday

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
)

// Refresher keeps the last good holiday list per year and reloads it on a
// cron schedule. Reads never wait on the network once a year is cached.
type Refresher struct {
	inner    Provider
	schedule string
	loc      *time.Location
	now      func() time.Time

	mu     sync.RWMutex
	byYear map[int][]model.Holiday

	cronMu sync.Mutex
	c      *cron.Cron
}

// NewRefresher validates schedule (standard 5-field cron or a descriptor
// such as "@daily") and wraps inner.
func NewRefresher(inner Provider, schedule string, loc *time.Location) (*Refresher, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("holiday refresh schedule %q: %w", schedule, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Refresher{
		inner:    inner,
		schedule: schedule,
		loc:      loc,
		now:      time.Now,
		byYear:   make(map[int][]model.Holiday),
	}, nil
}

// Holidays serves the cached list for year, loading it on first use.
func (r *Refresher) Holidays(ctx context.Context, year int) ([]model.Holiday, error) {
	r.mu.RLock()
	hs, ok := r.byYear[year]
	r.mu.RUnlock()
	if ok {
		return append([]model.Holiday(nil), hs...), nil
	}

	hs, err := r.load(ctx, year)
	if err != nil {
		return nil, err
	}
	return append([]model.Holiday(nil), hs...), nil
}

// Refresh reloads every cached year plus the current one. A failing year
// keeps its previous list.
func (r *Refresher) Refresh(ctx context.Context) {
	years := map[int]struct{}{r.now().In(r.loc).Year(): {}}
	r.mu.RLock()
	for y := range r.byYear {
		years[y] = struct{}{}
	}
	r.mu.RUnlock()

	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	for _, y := range sorted {
		if _, err := r.load(ctx, y); err != nil {
			appLog.Error("holiday refresh failed; keeping previous list", err, "year", y)
		}
	}
}

func (r *Refresher) load(ctx context.Context, year int) ([]model.Holiday, error) {
	hs, err := r.inner.Holidays(ctx, year)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.byYear[year] = hs
	r.mu.Unlock()
	appLog.Info("holidays loaded", "year", year, "count", len(hs))
	return hs, nil
}

// Start warms the current year and schedules refreshes until ctx is done
// or Stop is called.
func (r *Refresher) Start(ctx context.Context) error {
	r.cronMu.Lock()
	defer r.cronMu.Unlock()
	if r.c != nil {
		return nil
	}

	r.Refresh(ctx)

	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.schedule, func() { r.Refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule holiday refresh: %w", err)
	}
	c.Start()
	r.c = c
	appLog.Info("holiday refresher started", "schedule", r.schedule, "tz", r.loc.String())

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.cronMu.Lock()
	c := r.c
	r.c = nil
	r.cronMu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
