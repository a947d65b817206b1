package workers

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/session"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/projection"
)

type ChatSource interface {
	GetChat(chatID chat.ID) (chat.Chat, error)
}

type ChatView interface {
	ShowChat(c chat.Chat)
	Notice(msg string)
}

// PollWorker re-reads the chat every interval and renders it when the watermark moved.
// It ends the session when the chat disappears or the viewer leaves the roster.
type PollWorker struct {
	log        *slog.Logger
	source     ChatSource
	view       ChatView
	timeline   *projection.Timeline
	machine    *session.Machine
	monitoring *observability.MonitoringManager
	chatID     chat.ID
	viewer     string
	interval   time.Duration
	closeFn    func()
	failing    bool
}

func NewPollWorker(
	log *slog.Logger,
	source ChatSource,
	view ChatView,
	timeline *projection.Timeline,
	machine *session.Machine,
	monitoring *observability.MonitoringManager,
	chatID chat.ID,
	viewer string,
	interval time.Duration,
	closeFn func(),
) *PollWorker {
	return &PollWorker{
		log:        log,
		source:     source,
		view:       view,
		timeline:   timeline,
		machine:    machine,
		monitoring: monitoring,
		chatID:     chatID,
		viewer:     viewer,
		interval:   interval,
		closeFn:    closeFn,
	}
}

func (w *PollWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if w.machine.Current() == session.Closed {
			return nil
		}
		if done := w.poll(); done {
			w.closeFn()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll reports true when the session has to end.
func (w *PollWorker) poll() bool {
	w.monitoring.IncrPolls()
	snapshot, err := w.source.GetChat(w.chatID)
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		w.view.Notice("This chat no longer exists.")
		return true
	case err != nil:
		// Transient failures are reported once, then retried on the next tick.
		w.monitoring.IncrStoreErrors()
		if !w.failing {
			w.log.Error("Unable to refresh chat", "chat_id", w.chatID, "error", err)
			w.view.Notice(fmt.Sprintf("Unable to refresh chat: %v", err))
		}
		w.failing = true
		return false
	}
	w.failing = false

	if !snapshot.Summary().HasParticipant(w.viewer) {
		w.view.Notice("You are no longer a participant of this chat.")
		return true
	}
	if !w.timeline.Changed(snapshot) {
		return false
	}
	// Only Idle renders. While the viewer composes or sends, the change stays
	// pending and is drawn on the first tick after the input task is back to Idle.
	if !w.machine.Transition(session.Idle, session.Rendering) {
		w.log.Debug("Render deferred", "chat_id", w.chatID, "state", w.machine.Current().String())
		return false
	}
	w.timeline.Apply(snapshot)
	w.view.ShowChat(snapshot)
	w.monitoring.IncrRenders()
	w.machine.Transition(session.Rendering, session.Idle)
	w.log.Debug("Chat rendered", "chat_id", w.chatID, "messages", len(snapshot.Messages))
	return false
}
