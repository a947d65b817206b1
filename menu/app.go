package menu

import (
	"log/slog"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/runtime"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/AlexandreSaynov/tp1ADC/ui"
)

// Console is the terminal the menus and live sessions draw on.
type Console interface {
	ui.Prompter
	ShowChat(snapshot chat.Chat)
	Table(header []string, rows [][]string)
}

// App holds the long lived components shared by every command.
type App struct {
	Log        *slog.Logger
	Config     internal.Config
	Console    Console
	Auth       services.IAuthService
	Chats      services.IChatService
	ChatStore  repositories.IChatRepository
	Roster     services.IRosterManager
	Search     services.ISearchService
	Users      repositories.IUserRepository
	Layouts    *internal.LayoutStore
	Sessions   *runtime.Registry
	Monitoring *observability.MonitoringManager
	Commands   *Registry
}

// Request is the single context handed to a command handler.
type Request struct {
	App         *App
	Session     services.Session
	Permissions auth.Permissions
}

func (r *Request) Console() Console {
	return r.App.Console
}
