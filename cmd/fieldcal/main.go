package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldcal/internal/config"
	"fieldcal/internal/holiday"
	"fieldcal/internal/ics"
	appLog "fieldcal/internal/log"
	"fieldcal/internal/orders"
	"fieldcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	month      string
	once       bool
	debug      bool
}

func main() {
	flags := parseFlags()

	appLog.Info("fieldcal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	} else {
		appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"orders_file", conf.OrdersFile,
		"holiday_count", len(conf.Holidays),
		"ics_count", len(conf.HolidayICS),
		"holiday_refresh", conf.HolidayRefresh,
		"pad_trailing_week", conf.Calendar.PadTrailingWeek,
		"once", flags.once,
	)

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("invalid timezone; using local", err, "timezone", conf.Timezone)
		loc = time.Local
	}

	store, err := orders.LoadFile(conf.OrdersFile)
	if err != nil {
		appLog.Error("failed to load orders", err, "orders_file", conf.OrdersFile)
		os.Exit(1)
	}

	static, err := holiday.FromConfig(conf.Holidays)
	if err != nil {
		appLog.Error("invalid holiday list", err)
		os.Exit(1)
	}
	fetcher := ics.NewFetcher(conf.CacheDir)
	if conf.HolidayFetchRPS > 0 {
		fetcher.WithRateLimit(conf.HolidayFetchRPS)
	}
	feeds := holiday.NewICSProvider(fetcher, conf.HolidayICS)
	refresher, err := holiday.NewRefresher(feeds, conf.HolidayRefresh, loc)
	if err != nil {
		appLog.Error("invalid holiday refresh schedule", err)
		os.Exit(1)
	}
	// Static entries come first so they win over feed entries on the same day.
	provider := holiday.Multi{static, refresher}

	srv := web.NewServer(conf, store, provider, flags.debug)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.once {
		if err := dumpMonth(ctx, srv, flags.month, loc); err != nil {
			appLog.Error("month dump failed", err, "month", flags.month)
			os.Exit(1)
		}
		return
	}

	if err := refresher.Start(ctx); err != nil {
		appLog.Error("failed to start holiday refresher", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	if conf.OrdersFile != "" {
		go func() {
			if err := orders.Watch(ctx, conf.OrdersFile, store, srv.InvalidateCache); err != nil {
				appLog.Error("orders file watch failed; edits need a restart", err, "orders_file", conf.OrdersFile)
			}
		}()
	}

	if err := srv.Serve(ctx); err != nil {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}
	appLog.Info("fieldcal exiting")
}

// dumpMonth prints one month grid as JSON on stdout. An empty month means
// the current month in loc.
func dumpMonth(ctx context.Context, srv *web.Server, month string, loc *time.Location) error {
	var ref time.Time
	if month == "" {
		ref = time.Now().In(loc)
	} else {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("month must be YYYY-MM: %w", err)
		}
		ref = t
	}

	resp, err := srv.Calendar(ctx, ref.Year(), ref.Month())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/fieldcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.month, "month", "", "Month for -once as YYYY-MM (default: current month)")
	flag.BoolVar(&cfg.once, "once", false, "Print one month grid as JSON and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
