package runtime

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/session"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const testInterval = 10 * time.Millisecond

type fakeConsole struct {
	lines chan string

	mu        sync.Mutex
	renders   []chat.Chat
	notices   []string
	successes []string
	failures  []string
}

func newFakeConsole() *fakeConsole {
	return &fakeConsole{lines: make(chan string)}
}

func (c *fakeConsole) ReadLine(ctx context.Context, _ string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *fakeConsole) ShowChat(snapshot chat.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renders = append(c.renders, snapshot)
}

func (c *fakeConsole) Notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, msg)
}

func (c *fakeConsole) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, msg)
}

func (c *fakeConsole) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, msg)
}

func (c *fakeConsole) lastRender() (chat.Chat, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.renders) == 0 {
		return chat.Chat{}, 0
	}
	return c.renders[len(c.renders)-1], len(c.renders)
}

func (c *fakeConsole) snapshot() (notices, successes, failures []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.notices...), append([]string(nil), c.successes...), append([]string(nil), c.failures...)
}

// storePoster appends straight to the store.
type storePoster struct {
	repo repositories.IChatRepository
}

func (p storePoster) PostMessage(_ context.Context, cmd chat.PostMessageCommand) error {
	return p.repo.AppendMessage(cmd.Chat, cmd.Sender, cmd.Content)
}

type sessionFixture struct {
	repo     *repositories.XMLChatRepository
	console  *fakeConsole
	registry *Registry
	session  *LiveSession
	chatID   chat.ID
	done     chan error
}

func startSession(t *testing.T, ctx context.Context, viewer string) *sessionFixture {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repo, err := repositories.NewXMLChatRepository(filepath.Join(t.TempDir(), "chats.xml"), log)
	require.NoError(t, err)
	chatID, err := repo.CreateChat("Ops", "alice", []string{"bob"})
	require.NoError(t, err)

	f := &sessionFixture{
		repo:     repo,
		console:  newFakeConsole(),
		registry: NewRegistry(),
		chatID:   chatID,
		done:     make(chan error, 1),
	}
	f.session = NewLiveSession(log, repo, storePoster{repo: repo}, f.console, f.registry,
		observability.NewMonitoringManager(log), chatID, viewer,
		SessionConfig{PollInterval: testInterval, RestartInterval: testInterval})

	go func() { f.done <- f.session.Run(ctx) }()
	return f
}

func (f *sessionFixture) waitClosed(t *testing.T) {
	select {
	case err := <-f.done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "live session did not stop")
	}
}

func TestLiveSession_Send_And_Quit(t *testing.T) {
	req := require.New(t)
	f := startSession(t, context.Background(), "bob")

	// Given the chat is rendered as soon as the session starts
	req.Eventually(func() bool {
		_, n := f.console.lastRender()
		return n == 1
	}, time.Second, testInterval)
	req.Equal(1, f.registry.ActiveSessions())

	// When bob sends a message
	f.console.lines <- "m"
	f.console.lines <- "ping"

	// Then it shows up in a later render
	req.Eventually(func() bool {
		last, _ := f.console.lastRender()
		return len(last.Messages) == 1 && last.Messages[0].Content == "ping"
	}, time.Second, testInterval)
	req.Eventually(func() bool {
		_, successes, _ := f.console.snapshot()
		return len(successes) == 1 && successes[0] == "Message sent."
	}, time.Second, testInterval)

	// When bob quits
	f.console.lines <- " Q "
	f.waitClosed(t)

	req.Equal(session.Closed, f.session.State())
	req.Zero(f.registry.ActiveSessions())
	req.Equal(1, f.session.Watermark().Count)
}

func TestLiveSession_Renders_Messages_From_Other_Writers(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startSession(t, ctx, "bob")

	req.Eventually(func() bool {
		_, n := f.console.lastRender()
		return n == 1
	}, time.Second, testInterval)

	// When alice posts twice within the same second from elsewhere
	req.NoError(f.repo.AppendMessage(f.chatID, "alice", "one"))
	req.NoError(f.repo.AppendMessage(f.chatID, "alice", "two"))

	req.Eventually(func() bool {
		last, _ := f.console.lastRender()
		return len(last.Messages) == 2
	}, time.Second, testInterval)

	// Then nothing else is rendered while the chat is unchanged
	_, before := f.console.lastRender()
	time.Sleep(5 * testInterval)
	_, after := f.console.lastRender()
	req.Equal(before, after)

	cancel()
	f.waitClosed(t)
}

func TestLiveSession_Defers_Render_While_Composing(t *testing.T) {
	req := require.New(t)
	f := startSession(t, context.Background(), "bob")

	req.Eventually(func() bool {
		_, n := f.console.lastRender()
		return n == 1
	}, time.Second, testInterval)

	// Given bob is typing a message
	f.console.lines <- "M"
	req.Eventually(func() bool {
		return f.session.State() == session.AwaitingCommand
	}, time.Second, testInterval)

	// When alice posts meanwhile
	req.NoError(f.repo.AppendMessage(f.chatID, "alice", "one"))

	// Then the screen is left alone until bob is done
	time.Sleep(5 * testInterval)
	_, renders := f.console.lastRender()
	req.Equal(1, renders)

	f.console.lines <- "two"
	req.Eventually(func() bool {
		last, _ := f.console.lastRender()
		return len(last.Messages) == 2
	}, time.Second, testInterval)

	f.console.lines <- "Q"
	f.waitClosed(t)
}

func TestLiveSession_Invalid_Input_Is_Reported_Inline(t *testing.T) {
	req := require.New(t)
	f := startSession(t, context.Background(), "bob")

	f.console.lines <- "x"
	f.console.lines <- "M"
	f.console.lines <- "   "
	f.console.lines <- "q"
	f.waitClosed(t)

	_, successes, failures := f.console.snapshot()
	req.Empty(successes)
	req.Equal([]string{
		"Invalid option. Type 'M' to send a message or 'Q' to quit.",
		"Message cannot be empty.",
	}, failures)

	messages, _, err := f.repo.LoadMessages(f.chatID)
	req.NoError(err)
	req.Empty(messages)
}

func TestLiveSession_Ends_When_Chat_Is_Deleted(t *testing.T) {
	req := require.New(t)
	f := startSession(t, context.Background(), "bob")

	req.Eventually(func() bool {
		_, n := f.console.lastRender()
		return n == 1
	}, time.Second, testInterval)

	req.NoError(f.repo.DeleteChat(f.chatID))
	f.waitClosed(t)

	notices, _, _ := f.console.snapshot()
	req.Contains(notices, "This chat no longer exists.")
}

func TestLiveSession_Ends_When_Viewer_Is_Removed(t *testing.T) {
	req := require.New(t)
	f := startSession(t, context.Background(), "bob")

	req.Eventually(func() bool {
		_, n := f.console.lastRender()
		return n == 1
	}, time.Second, testInterval)

	req.NoError(f.repo.RemoveParticipant(f.chatID, "bob"))
	f.waitClosed(t)

	notices, _, _ := f.console.snapshot()
	req.Contains(notices, "You are no longer a participant of this chat.")
}

func TestLiveSession_Closed_Input_Ends_Session(t *testing.T) {
	f := startSession(t, context.Background(), "bob")
	close(f.console.lines)
	f.waitClosed(t)
	require.Equal(t, session.Closed, f.session.State())
}

func TestLiveSession_One_Session_Per_User(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startSession(t, ctx, "bob")

	req.Eventually(func() bool { return f.registry.ActiveSessions() == 1 }, time.Second, testInterval)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	second := NewLiveSession(log, f.repo, storePoster{repo: f.repo}, newFakeConsole(), f.registry,
		nil, f.chatID, "bob", SessionConfig{PollInterval: testInterval})
	req.ErrorContains(second.Run(ctx), "already active")

	cancel()
	f.waitClosed(t)
}
