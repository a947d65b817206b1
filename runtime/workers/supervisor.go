package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/contract"
	"github.com/AlexandreSaynov/tp1ADC/errors"
)

// Supervisor runs the tasks of one live session, or the app level health worker.
// Each worker gets its own goroutine; a panicking worker is restarted after restartInterval,
// a worker returning nil is considered finished. Run returns once every worker has stopped.
type Supervisor struct {
	Cancel          context.CancelFunc // stops this supervisor's workers only
	wg              *sync.WaitGroup    // one entry per running worker goroutine
	log             *slog.Logger
	restartInterval time.Duration
	workers         []contract.Worker
	onRestart       func(workerName string)
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartInterval: restartInterval}
}

// OnRestart registers fn, called each time a crashed worker is about to be restarted.
func (s *Supervisor) OnRestart(fn func(workerName string)) *Supervisor {
	s.onRestart = fn
	return s
}

// Run derives a cancellable context from ctx so that Stop only affects this supervisor's workers.
func (s *Supervisor) Run(ctx context.Context) {
	// 1. Local cancellation tied to the parent:
	// the parent cancelling stops us, s.Cancel() stops only our workers
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	// Release the context when Run exits
	defer s.Cancel()

	// 2. One goroutine per worker, then wait for all of them

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision.
// A failure in one worker never stops the supervisor itself.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Debug("Stopping worker", "name", workerName)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("Worker panicked", "name", workerName, "panic", r)
						err = errors.ErrWorkerPanic
					}
				}()
				// Only this call is restarted after a crash, not the goroutine
				return worker.Run(ctx)
			}()

			if err == nil {
				// Finished on its own, never restarted
				s.log.Debug("Worker finished", "name", workerName)
				return
			}

			if ctx.Err() != nil {
				s.log.Debug("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			if s.onRestart != nil {
				s.onRestart(workerName)
			}
			select {
			case <-ctx.Done():
				// Stopping wins over the pending restart
				return
			case <-time.After(s.restartInterval):
				// Still running after the delay: loop and restart
			}
		}
	}()
}

// Stop cancels every worker; Run returns once they have all exited.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
