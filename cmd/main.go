package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/menu"
	"github.com/AlexandreSaynov/tp1ADC/moderation"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/runtime"
	"github.com/AlexandreSaynov/tp1ADC/runtime/workers"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/AlexandreSaynov/tp1ADC/ui"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until the user quits or a signal arrives.
// Deferred cleanups run before main exits.
func run() error {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	var chatStore repositories.IChatRepository
	switch config.ChatStoreBackend {
	case internal.BackendXML:
		if chatStore, err = repositories.NewXMLChatRepository(config.ChatsFilepath, log); err != nil {
			return fmt.Errorf("chat store opening failed: %w", err)
		}
	case internal.BackendBadger:
		chatStore = repositories.NewBadgerChatRepository(db, log)
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownBackend, config.ChatStoreBackend)
	}
	users := repositories.NewUserRepository(db)

	censored, err := runtime.NewEmbeddedCensoredLoader().LoadAll("censored")
	if err != nil {
		return fmt.Errorf("censored words loading failed: %w", err)
	}
	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(censored.Words, replacement, log)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}

	commands := menu.DefaultRegistry()
	layouts, err := internal.NewLayoutStore(log, config.LayoutFilepath, commands.ValidateLayout)
	if err != nil {
		return err
	}

	monitoring := observability.NewMonitoringManager(log)
	sessions := runtime.NewRegistry()
	app := &menu.App{
		Log:        log,
		Config:     config,
		Console:    ui.NewConsole(log, os.Stdin, os.Stdout, config.Colours),
		Auth:       services.NewAuthService(log, users, auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)),
		Chats:      services.NewChatService(log, chatStore, users, moderator, config.MaxContentLength),
		ChatStore:  chatStore,
		Roster:     services.NewRosterManager(log, chatStore, users),
		Search:     services.NewSearchService(log, chatStore, config.SearchLimit),
		Users:      users,
		Layouts:    layouts,
		Sessions:   sessions,
		Monitoring: monitoring,
		Commands:   commands,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.DebugPort > 0 {
		internal.StartDebugServer(ctx, log, db, config.DebugPort, "/inspect", inspectMapper, func() map[string]any {
			stats := monitoring.GetLatest()
			return map[string]any{
				"uptime":          stats.Uptime.String(),
				"live sessions":   sessions.ActiveSessions(),
				"sessions opened": stats.SessionsOpened,
				"messages sent":   stats.MessagesSent,
				"store errors":    stats.StoreErrors,
				"worker restarts": stats.WorkerRestarts,
			}
		})
	}

	if config.HealthInterval > 0 {
		health := workers.NewHealthMonitoringWorker(log, monitoring, sessions.ActiveSessions, config.HealthInterval)
		sup := workers.NewSupervisor(log, config.RestartInterval).
			OnRestart(func(string) { monitoring.IncrWorkerRestarts() })
		go sup.Add(health).Run(ctx)
	}

	log.Info("Chat console starting", "backend", config.ChatStoreBackend, "censored_languages", censored.Languages)
	return menu.NewLoop(app).Run(ctx)
}
