package holiday

import (
	"context"
	"errors"

	"fieldcal/internal/config"
	"fieldcal/internal/ics"
	appLog "fieldcal/internal/log"
	"fieldcal/internal/model"
)

// ICSProvider reads holidays from ICS subscriptions. Every call fetches
// (with HTTP revalidation) and re-expands the feeds.
type ICSProvider struct {
	fetcher *ics.Fetcher
	sources []ics.Source
}

// NewICSProvider wires configured feeds to a fetcher.
func NewICSProvider(fetcher *ics.Fetcher, feeds []config.ICSConfig) *ICSProvider {
	sources := make([]ics.Source, 0, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			continue
		}
		id := f.ID
		if id == "" {
			if f.Name != "" {
				id = f.Name
			} else {
				id = f.URL
			}
		}
		sources = append(sources, ics.Source{ID: id, URL: f.URL})
	}
	return &ICSProvider{fetcher: fetcher, sources: sources}
}

// Holidays fetches all feeds and expands them for year. Feeds that fail
// are skipped; the call only errors when every feed failed.
func (p *ICSProvider) Holidays(ctx context.Context, year int) ([]model.Holiday, error) {
	if len(p.sources) == 0 {
		return nil, nil
	}

	results, errs := p.fetcher.FetchAll(ctx, p.sources)
	if len(results) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var entries []ics.ParsedEntry
	for _, res := range results {
		parsed, err := ics.ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("holiday feed parse failed", err, "id", res.Source.ID)
			continue
		}
		entries = append(entries, parsed...)
	}

	return ics.ExpandYear(entries, year), nil
}
