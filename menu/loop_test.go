package menu

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/runtime"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/AlexandreSaynov/tp1ADC/ui"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const password = "ComplexPass123!"

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// syncBuffer is written by live session workers while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newApp(t *testing.T, input string, tokenDuration time.Duration) (*App, *syncBuffer) {
	log := testLogger()
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(filepath.Join(dir, "badger")).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	chatStore, err := repositories.NewXMLChatRepository(filepath.Join(dir, "chats.xml"), log)
	require.NoError(t, err)
	users := repositories.NewUserRepository(db)

	commands := DefaultRegistry()
	layouts, err := internal.NewLayoutStore(log, "../configs/layout.yaml", commands.ValidateLayout)
	require.NoError(t, err)

	config := internal.Config{
		PollInterval:    10 * time.Millisecond,
		RestartInterval: 10 * time.Millisecond,
		PageSize:        5,
		SearchLimit:     10,
	}
	out := &syncBuffer{}
	chats := services.NewChatService(log, chatStore, users, nil, 200)
	app := &App{
		Log:        log,
		Config:     config,
		Console:    ui.NewConsole(log, strings.NewReader(input), out, false),
		Auth:       services.NewAuthService(log, users, auth.NewTokenIssuer("test-secret", tokenDuration)),
		Chats:      chats,
		ChatStore:  chatStore,
		Roster:     services.NewRosterManager(log, chatStore, users),
		Search:     services.NewSearchService(log, chatStore, config.SearchLimit),
		Users:      users,
		Layouts:    layouts,
		Sessions:   runtime.NewRegistry(),
		Monitoring: observability.NewMonitoringManager(log),
		Commands:   commands,
	}
	return app, out
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestLoop_Console_Walkthrough(t *testing.T) {
	req := require.New(t)
	input := lines(
		// first account, then login as root
		"2", "admin", "admin@example.com", password,
		"1", "admin", password,
		// Users > Register user
		"2", "2", "bob", "bob@example.com", password, "user",
		// Users > List users, back
		"1", "B",
		// Chats > Create chat
		"1", "2", "Ops", "bob", "B",
		"L",
		// bob opens Ops, sends ping and leaves
		"1", "bob", password,
		"1", "1", "1", "M", "ping", "Q", "Q",
		// Chats > Search messages
		"3", "ping", "B",
		"Q",
	)
	app, out := newApp(t, input, time.Hour)

	req.NoError(NewLoop(app).Run(context.Background()))

	output := out.String()
	for _, expected := range []string{
		"Account created. You can now log in.",
		"Welcome, admin!",
		"User 'bob' registered.",
		"bob@example.com",
		"Chat 'Ops' created successfully!",
		"You are logged out.",
		"Welcome, bob!",
		"AVAILABLE CHATS",
		"1. Ops (admin, bob)",
		"CHAT: Ops",
		"Message sent.",
		"Goodbye.",
	} {
		req.Contains(output, expected)
	}
	req.Equal(0, app.Sessions.ActiveSessions())

	summaries, err := app.ChatStore.ListChatsForParticipant("bob")
	req.NoError(err)
	req.Len(summaries, 1)
	messages, _, err := app.ChatStore.LoadMessages(summaries[0].ID)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("ping", messages[0].Content)
	req.Equal("bob", messages[0].Sender)
}

func TestLoop_Bootstrap_Only_Once(t *testing.T) {
	req := require.New(t)
	app, out := newApp(t, lines(
		"2", "admin", "admin@example.com", password,
		"2",
		"Q",
	), time.Hour)

	req.NoError(NewLoop(app).Run(context.Background()))

	req.Equal(1, strings.Count(out.String(), "2. Create first account"))
	req.Contains(out.String(), "Invalid option.")
}

func TestLoop_Wrong_Password(t *testing.T) {
	req := require.New(t)
	app, out := newApp(t, lines(
		"2", "admin", "admin@example.com", password,
		"1", "admin", "nope",
		"Q",
	), time.Hour)

	req.NoError(NewLoop(app).Run(context.Background()))

	req.Contains(out.String(), "Invalid username or password.")
	req.NotContains(out.String(), "Welcome")
}

func TestLoop_Expired_Session_Logs_Out(t *testing.T) {
	req := require.New(t)
	app, out := newApp(t, lines(
		"2", "admin", "admin@example.com", password,
		"1", "admin", password,
		"1", "1",
		"Q",
	), -time.Minute)

	req.NoError(NewLoop(app).Run(context.Background()))

	req.Contains(out.String(), "Your session has expired. Please log in again.")
	req.NotContains(out.String(), "AVAILABLE CHATS")
}

func TestLoop_Input_End_Exits(t *testing.T) {
	app, out := newApp(t, "", time.Hour)

	require.NoError(t, NewLoop(app).Run(context.Background()))
	require.Contains(t, out.String(), "Goodbye.")
}

func TestLoop_Oversized_Message_Is_Rejected_And_Session_Continues(t *testing.T) {
	req := require.New(t)
	oversized := strings.Repeat("x", 70*1024)
	app, out := newApp(t, lines(
		"2", "admin", "admin@example.com", password,
		"1", "admin", password,
		// Chats > Create chat, then browse and enter it
		"1", "2", "Ops",
		"1", "1", "1",
		"M", oversized,
		"M", "ping",
		"Q", "Q", "B",
		"Q",
	), time.Hour)

	req.NoError(NewLoop(app).Run(context.Background()))

	output := out.String()
	req.Contains(output, "Message not sent: message exceeds the maximum length")
	req.Contains(output, "Message sent.")
	req.Contains(output, "Goodbye.")

	summaries, err := app.ChatStore.ListChatsForParticipant("admin")
	req.NoError(err)
	req.Len(summaries, 1)
	messages, _, err := app.ChatStore.LoadMessages(summaries[0].ID)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("ping", messages[0].Content)
}
