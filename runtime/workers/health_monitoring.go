package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/observability"
)

type StatsSource interface {
	GetLatest() observability.MonitoringStats
}

// HealthMonitoringWorker logs a snapshot of the process and session counters at a fixed interval.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	stats          StatsSource
	activeSessions func() int
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(
	log *slog.Logger,
	stats StatsSource,
	activeSessions func() int,
	metricInterval time.Duration,
) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		stats:          stats,
		activeSessions: activeSessions,
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			stats := w.stats.GetLatest()
			w.log.Info("Health",
				"uptime", stats.Uptime.String(),
				"live_sessions", w.activeSessions(),
				"polls", stats.Polls,
				"messages_sent", stats.MessagesSent,
				"store_errors", stats.StoreErrors,
				"rss_mb", stats.RSSMb,
				"cpu_percent", stats.CPUPercent,
				"threads", stats.Threads,
			)
		}
	}
}
