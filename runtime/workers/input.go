package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/session"
	"github.com/AlexandreSaynov/tp1ADC/observability"
)

const (
	SendCommand = "M"
	QuitCommand = "Q"

	invalidOption = "Invalid option. Type 'M' to send a message or 'Q' to quit."
	emptyMessage  = "Message cannot be empty."
	messageSent   = "Message sent."
	messagePrompt = "Enter message: "
)

type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type MessagePoster interface {
	PostMessage(ctx context.Context, cmd chat.PostMessageCommand) error
}

// CommandWorker reads the viewer's commands: M to send a message, Q to leave.
// Tokens are trimmed and case-insensitive; anything else gets an inline error.
type CommandWorker struct {
	log        *slog.Logger
	input      LineReader
	out        Notifier
	poster     MessagePoster
	machine    *session.Machine
	monitoring *observability.MonitoringManager
	chatID     chat.ID
	sender     string
	closeFn    func()
}

func NewCommandWorker(
	log *slog.Logger,
	input LineReader,
	out Notifier,
	poster MessagePoster,
	machine *session.Machine,
	monitoring *observability.MonitoringManager,
	chatID chat.ID,
	sender string,
	closeFn func(),
) *CommandWorker {
	return &CommandWorker{
		log:        log,
		input:      input,
		out:        out,
		poster:     poster,
		machine:    machine,
		monitoring: monitoring,
		chatID:     chatID,
		sender:     sender,
		closeFn:    closeFn,
	}
}

func (w *CommandWorker) Run(ctx context.Context) error {
	for {
		line, err := w.input.ReadLine(ctx, "")
		if err != nil {
			return w.stop(ctx, err)
		}

		switch strings.ToUpper(strings.TrimSpace(line)) {
		case SendCommand:
			if err = w.send(ctx); err != nil {
				return w.stop(ctx, err)
			}
		case QuitCommand:
			w.log.Debug("Viewer left the chat", "chat_id", w.chatID, "user", w.sender)
			w.closeFn()
			return nil
		default:
			w.out.Error(invalidOption)
		}
	}
}

// stop ends the session when the input is gone; a cancelled context is left to the supervisor.
func (w *CommandWorker) stop(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	w.log.Debug("Input closed, leaving chat", "chat_id", w.chatID, "error", err)
	w.closeFn()
	return nil
}

// send only returns an error when the input itself failed.
func (w *CommandWorker) send(ctx context.Context) error {
	w.machine.Set(session.AwaitingCommand)
	content, err := w.input.ReadLine(ctx, messagePrompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		w.out.Error(emptyMessage)
		w.machine.Set(session.Idle)
		return nil
	}

	w.machine.Set(session.Sending)
	err = w.poster.PostMessage(ctx, chat.PostMessageCommand{
		Chat:    w.chatID,
		Sender:  w.sender,
		Content: content,
	})
	w.machine.Set(session.Idle)
	if err != nil {
		w.log.Warn("Message not sent", "chat_id", w.chatID, "user", w.sender, "error", err)
		w.out.Error(fmt.Sprintf("Message not sent: %v", err))
		return nil
	}
	w.monitoring.IncrMessagesSent()
	w.out.Success(messageSent)
	return nil
}
