package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/session"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/projection"
	"github.com/AlexandreSaynov/tp1ADC/runtime/workers"
	"github.com/google/uuid"
)

const (
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultRestartInterval = 200 * time.Millisecond
)

// Console is everything a live session needs from the terminal.
type Console interface {
	workers.LineReader
	workers.Notifier
	workers.ChatView
}

type SessionConfig struct {
	PollInterval    time.Duration
	RestartInterval time.Duration
}

// LiveSession shows one chat to one user: a reader task re-renders the chat when it changes
// while an input task handles the user's commands. Both stop when the user quits.
type LiveSession struct {
	ID         uuid.UUID
	log        *slog.Logger
	source     workers.ChatSource
	poster     workers.MessagePoster
	console    Console
	registry   *Registry
	monitoring *observability.MonitoringManager
	machine    *session.Machine
	timeline   *projection.Timeline
	chatID     chat.ID
	viewer     string
	config     SessionConfig
}

func NewLiveSession(
	log *slog.Logger,
	source workers.ChatSource,
	poster workers.MessagePoster,
	console Console,
	registry *Registry,
	monitoring *observability.MonitoringManager,
	chatID chat.ID,
	viewer string,
	config SessionConfig,
) *LiveSession {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.RestartInterval <= 0 {
		config.RestartInterval = DefaultRestartInterval
	}
	id := uuid.New()
	return &LiveSession{
		ID:         id,
		log:        log.With("session_id", id.String(), "chat_id", chatID, "user", viewer),
		source:     source,
		poster:     poster,
		console:    console,
		registry:   registry,
		monitoring: monitoring,
		machine:    session.NewMachine(),
		timeline:   projection.NewTimeline(),
		chatID:     chatID,
		viewer:     viewer,
		config:     config,
	}
}

// Run blocks until the user quits, the chat goes away or ctx is cancelled.
// Both tasks have returned, and released the store, by the time Run returns.
func (s *LiveSession) Run(ctx context.Context) error {
	if err := s.registry.Subscribe(s.viewer, s.chatID, s.ID); err != nil {
		return fmt.Errorf("open chat %s: %w", s.chatID, err)
	}
	defer s.registry.Unsubscribe(s.viewer, s.chatID)
	s.monitoring.IncrSessionsOpened()

	sup := workers.NewSupervisor(s.log, s.config.RestartInterval).
		OnRestart(func(string) { s.monitoring.IncrWorkerRestarts() })
	closeFn := func() {
		if s.machine.Close() {
			s.log.Debug("Live session closing")
		}
		sup.Stop()
	}

	poller := workers.NewPollWorker(
		s.log, s.source, s.console, s.timeline, s.machine, s.monitoring,
		s.chatID, s.viewer, s.config.PollInterval, closeFn,
	)
	commands := workers.NewCommandWorker(
		s.log, s.console, s.console, s.poster, s.machine, s.monitoring,
		s.chatID, s.viewer, closeFn,
	)

	s.log.Debug("Live session started")
	sup.Add(poller, commands).Run(ctx)
	s.machine.Close()
	s.log.Debug("Live session closed")
	return nil
}

func (s *LiveSession) State() session.State {
	return s.machine.Current()
}

// Watermark is the (latest timestamp, message count) pair of the last render.
func (s *LiveSession) Watermark() projection.Watermark {
	return s.timeline.Watermark()
}
