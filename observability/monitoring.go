package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitoringStats aggregates the counters and process metrics shown on the status screen.
type MonitoringStats struct {
	Uptime         time.Duration `json:"uptime"`
	SessionsOpened uint64        `json:"sessions_opened"`
	Polls          uint64        `json:"polls"`
	Renders        uint64        `json:"renders"`
	MessagesSent   uint64        `json:"messages_sent"`
	StoreErrors    uint64        `json:"store_errors"`
	WorkerRestarts uint64        `json:"worker_restarts"`

	RSSMb         float64 `json:"rss_mb"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float32 `json:"memory_percent"`
	Threads       int32   `json:"threads"`
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// MonitoringManager counts live session activity.
// A nil manager is valid and records nothing.
type MonitoringManager struct {
	log     *slog.Logger
	started time.Time

	sessionsOpened atomic.Uint64
	polls          atomic.Uint64
	renders        atomic.Uint64
	messagesSent   atomic.Uint64
	storeErrors    atomic.Uint64
	workerRestarts atomic.Uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, started: time.Now()}
}

func (mm *MonitoringManager) IncrSessionsOpened() {
	if mm != nil {
		mm.sessionsOpened.Add(1)
	}
}

func (mm *MonitoringManager) IncrPolls() {
	if mm != nil {
		mm.polls.Add(1)
	}
}

func (mm *MonitoringManager) IncrRenders() {
	if mm != nil {
		mm.renders.Add(1)
	}
}

func (mm *MonitoringManager) IncrMessagesSent() {
	if mm != nil {
		mm.messagesSent.Add(1)
	}
}

func (mm *MonitoringManager) IncrStoreErrors() {
	if mm != nil {
		mm.storeErrors.Add(1)
	}
}

func (mm *MonitoringManager) IncrWorkerRestarts() {
	if mm != nil {
		mm.workerRestarts.Add(1)
	}
}

// GetLatest reads the counters and samples the current process.
// Process metrics that cannot be read are left at zero.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	stats := MonitoringStats{
		Uptime:         time.Since(mm.started).Truncate(time.Second),
		SessionsOpened: mm.sessionsOpened.Load(),
		Polls:          mm.polls.Load(),
		Renders:        mm.renders.Load(),
		MessagesSent:   mm.messagesSent.Load(),
		StoreErrors:    mm.storeErrors.Load(),
		WorkerRestarts: mm.workerRestarts.Load(),
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		mm.log.Debug("Error while retrieving process", "pid", os.Getpid(), "error", err)
		return stats
	}
	if mem, err := p.MemoryInfo(); err == nil {
		stats.RSSMb = float64(mem.RSS) / 1024 / 1024
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if ram, err := p.MemoryPercent(); err == nil {
		stats.MemoryPercent = ram
	}
	if threads, err := p.NumThreads(); err == nil {
		stats.Threads = threads
	}
	return stats
}
