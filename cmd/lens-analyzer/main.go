package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/dataobs/lens/pkg/config"
	"github.com/dataobs/lens/pkg/loadpattern"
	"github.com/dataobs/lens/pkg/metrics"
	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage/backends"
)

var (
	schedule    = flag.String("schedule", "0 * * * *", "Cron schedule for load analysis (default: every hour)")
	window      = flag.Duration("window", 24*time.Hour, "Trailing window to classify")
	metricsPort = flag.String("metrics-port", "9091", "Port serving the Prometheus gauges")
	runOnce     = flag.Bool("run-once", false, "Run one analysis and exit (for testing)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting lens load analyzer")

	// Load classification reads creation events only
	mongoStore, err := backends.NewMongoStore(cfg.Storage)
	if err != nil {
		logger.WithBackend(metrics.BackendMongo).WithError(err).Error("Failed to connect")
		os.Exit(1)
	}

	creation := metrics.NewCreationMetrics(mongoStore)
	classifier := loadpattern.NewClassifier()
	obsMetrics := observability.NewMetrics(prometheus.NewRegistry())

	analyze := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.QueryTimeout)
		defer cancel()

		win := metrics.TrailingWindow(*window)
		report, err := creation.Fetch(ctx, win)
		if err != nil {
			logger.WithError(err).Error("Load analysis failed: creation report unavailable")
			return
		}

		analysis, err := classifier.Analyze(report.ByHour)
		if err != nil {
			logger.WithError(err).Error("Load analysis failed")
			return
		}
		if analysis == nil {
			logger.Info("Load analysis: no creation events in window")
			return
		}

		obsMetrics.LoadAverage.Set(analysis.Summary.AverageLoad)
		obsMetrics.HighLoadHours.Set(float64(analysis.Summary.HighLoadHours))
		obsMetrics.LowLoadHours.Set(float64(analysis.Summary.LowLoadHours))

		fields := map[string]interface{}{
			"average_load":    analysis.Summary.AverageLoad,
			"work_hours_avg":  analysis.Summary.WorkHoursAvg,
			"off_hours_avg":   analysis.Summary.OffHoursAvg,
			"high_load_hours": analysis.Summary.HighLoadHours,
			"low_load_hours":  analysis.Summary.LowLoadHours,
		}
		if len(analysis.Summary.PeakHours) > 0 {
			fields["peak_hour"] = analysis.Summary.PeakHours[0].Hour
		}
		logger.WithFields(fields).Info("Load analysis complete")
	}

	if *runOnce {
		analyze()
		mongoStore.Close(context.Background())
		return
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obsMetrics.Handler())
		logger.Infof("Metrics listening on :%s", *metricsPort)
		if err := http.ListenAndServe(":"+*metricsPort, mux); err != nil {
			logger.WithError(err).Error("Metrics server failed")
		}
	}()

	c := cron.New()
	if _, err := c.AddFunc(*schedule, analyze); err != nil {
		logger.WithError(err).Error("Failed to schedule load analysis")
		os.Exit(1)
	}
	c.Start()
	logger.Infof("Load analysis scheduled: %s (trailing %s)", *schedule, *window)

	// First analysis at startup rather than waiting for the first tick
	analyze()

	shutdown := observability.NewShutdownManager(logger, nil, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		stopped := c.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
		return nil
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return mongoStore.Close(ctx)
	})

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}
