package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingStats struct {
	calls atomic.Int32
}

func (s *countingStats) GetLatest() observability.MonitoringStats {
	s.calls.Add(1)
	return observability.MonitoringStats{Polls: 3}
}

func TestHealthMonitoringWorker_Samples_Until_Cancelled(t *testing.T) {
	req := require.New(t)
	stats := &countingStats{}
	worker := NewHealthMonitoringWorker(logs.GetLoggerFromLevel(slog.LevelDebug), stats, func() int { return 1 }, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	req.Eventually(func() bool { return stats.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
