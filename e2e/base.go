package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/runtime"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseChatSuite wires the real stores and services in a temporary directory for every test.
type BaseChatSuite struct {
	suite.Suite
	Config Config

	Log        *slog.Logger
	DB         *badger.DB
	ChatStore  repositories.IChatRepository
	Users      *repositories.UserRepository
	Chats      *services.ChatService
	Roster     *services.RosterManager
	Sessions   *runtime.Registry
	Monitoring *observability.MonitoringManager
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.Log = logs.GetLoggerFromLevel(slog.LevelDebug)
}

func (s *BaseChatSuite) SetupTest() {
	dir := s.T().TempDir()

	db, err := badger.Open(badger.DefaultOptions(filepath.Join(dir, "badger")).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.DB = db

	switch s.Config.StoreBackend {
	case internal.BackendBadger:
		s.ChatStore = repositories.NewBadgerChatRepository(db, s.Log)
	default:
		s.ChatStore, err = repositories.NewXMLChatRepository(filepath.Join(dir, "chats.xml"), s.Log)
		s.Require().NoError(err)
	}

	s.Users = repositories.NewUserRepository(db)
	s.Chats = services.NewChatService(s.Log, s.ChatStore, s.Users, nil, 2000)
	s.Roster = services.NewRosterManager(s.Log, s.ChatStore, s.Users)
	s.Sessions = runtime.NewRegistry()
	s.Monitoring = observability.NewMonitoringManager(s.Log)
}

func (s *BaseChatSuite) TearDownTest() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}

// Step prints a header for a scenario step and runs it
func (s *BaseChatSuite) Step(name string, fn func(ctx context.Context)) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fn(ctx)
}

func (s *BaseChatSuite) CreateUsers(usernames ...string) {
	for _, username := range usernames {
		_, err := s.Users.CreateUser(username, username+"@example.com", "not-a-real-hash", "user")
		s.Require().NoError(err)
	}
}

// Viewer is a live session driven by the test instead of a terminal.
type Viewer struct {
	Session *runtime.LiveSession
	Console *ScriptedConsole
	done    chan error
}

// OpenViewer starts a live session for username on chatID.
func (s *BaseChatSuite) OpenViewer(ctx context.Context, username string, chatID chat.ID) *Viewer {
	console := NewScriptedConsole()
	live := runtime.NewLiveSession(
		s.Log, s.ChatStore, s.Chats, console, s.Sessions, s.Monitoring, chatID, username,
		runtime.SessionConfig{PollInterval: s.Config.PollInterval, RestartInterval: s.Config.PollInterval},
	)
	v := &Viewer{Session: live, Console: console, done: make(chan error, 1)}
	go func() { v.done <- live.Run(ctx) }()
	return v
}

// Closed reports whether the session returned, without error, within timeout.
func (v *Viewer) Closed(timeout time.Duration) bool {
	select {
	case err := <-v.done:
		return err == nil
	case <-time.After(timeout):
		return false
	}
}

// ScriptedConsole feeds lines sent by the test and records what the session shows.
type ScriptedConsole struct {
	lines chan string

	mu      sync.Mutex
	renders []chat.Chat
	output  []string
}

func NewScriptedConsole() *ScriptedConsole {
	return &ScriptedConsole{lines: make(chan string)}
}

// Type sends one line of input, as if the user pressed Enter.
func (c *ScriptedConsole) Type(ctx context.Context, line string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.lines <- line:
		return nil
	}
}

func (c *ScriptedConsole) ReadLine(ctx context.Context, _ string) (string, error) {
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

func (c *ScriptedConsole) ShowChat(snapshot chat.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renders = append(c.renders, snapshot)
}

func (c *ScriptedConsole) Success(msg string) { c.record(msg) }
func (c *ScriptedConsole) Error(msg string)   { c.record(msg) }
func (c *ScriptedConsole) Notice(msg string)  { c.record(msg) }

func (c *ScriptedConsole) record(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = append(c.output, msg)
}

// LastRender returns the latest snapshot shown, if any.
func (c *ScriptedConsole) LastRender() (chat.Chat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.renders) == 0 {
		return chat.Chat{}, false
	}
	return c.renders[len(c.renders)-1], true
}

func (c *ScriptedConsole) Output() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.output...)
}
