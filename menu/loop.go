package menu

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/AlexandreSaynov/tp1ADC/ui"
)

const (
	exitChoice   = "Q"
	logoutChoice = "L"
	backChoice   = "B"
)

// errExit unwinds the menus when the user leaves the program.
var errExit = stderrors.New("exit")

// Loop drives the console from the logged-out menu to the command handlers.
type Loop struct {
	app     *App
	session *services.Session
}

func NewLoop(app *App) *Loop {
	return &Loop{app: app}
}

// Run returns when the user exits, the input ends or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		var err error
		if l.session == nil {
			err = l.loggedOut(ctx)
		} else {
			err = l.loggedIn(ctx)
		}
		switch {
		case err == nil:
		case stderrors.Is(err, errExit), ui.IsInputClosed(err), ctx.Err() != nil:
			l.app.Console.Println("\nGoodbye.")
			return nil
		default:
			return err
		}
	}
}

func (l *Loop) loggedOut(ctx context.Context) error {
	console := l.app.Console
	canBootstrap, err := l.app.Auth.CanBootstrap()
	if err != nil {
		return err
	}

	console.Header(l.app.Layouts.Current().Title)
	console.Println("1. Login")
	if canBootstrap {
		console.Println("2. Create first account")
	}
	console.Println("Q. Exit")
	console.Rule()

	choice, err := ask(ctx, console, "Select option: ")
	if err != nil {
		return err
	}
	switch strings.ToUpper(choice) {
	case "1":
		return l.login(ctx)
	case "2":
		if canBootstrap {
			return l.bootstrap(ctx)
		}
	case exitChoice:
		return errExit
	}
	console.Error("Invalid option.")
	return nil
}

func (l *Loop) login(ctx context.Context) error {
	console := l.app.Console
	username, err := ask(ctx, console, "Username: ")
	if err != nil {
		return err
	}
	password, err := ask(ctx, console, "Password: ")
	if err != nil {
		return err
	}
	session, err := l.app.Auth.Login(username, password)
	if err != nil {
		console.Error("Invalid username or password.")
		return nil
	}
	l.session = &session
	console.Success(fmt.Sprintf("Welcome, %s!", session.Username))
	return nil
}

func (l *Loop) bootstrap(ctx context.Context) error {
	console := l.app.Console
	console.Header("Create First Account")
	username, err := ask(ctx, console, "Username: ")
	if err != nil {
		return err
	}
	email, err := ask(ctx, console, "Email: ")
	if err != nil {
		return err
	}
	password, err := ask(ctx, console, "Password: ")
	if err != nil {
		return err
	}
	if _, err = l.app.Auth.Bootstrap(username, email, password); err != nil {
		console.Error(ui.Describe(err))
		return nil
	}
	console.Success("Account created. You can now log in.")
	return nil
}

func (l *Loop) loggedIn(ctx context.Context) error {
	console := l.app.Console
	layout := l.app.Layouts.Current()
	perms := auth.NewPermissions(layout.Roles)
	groups := l.visibleGroups(layout, perms)

	console.Header(fmt.Sprintf("%s - %s (%s)", layout.Title, l.session.Username, l.session.Role))
	for i, group := range groups {
		console.Printf("%d. %s\n", i+1, group.Title)
	}
	console.Println("L. Logout")
	console.Println("Q. Exit")
	console.Rule()

	choice, err := ask(ctx, console, "Select option: ")
	if err != nil {
		return err
	}
	switch strings.ToUpper(choice) {
	case logoutChoice:
		l.logout("You are logged out.")
		return nil
	case exitChoice:
		return errExit
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(groups) {
		console.Error("Invalid option.")
		return nil
	}
	return l.group(ctx, groups[idx-1], perms)
}

func (l *Loop) group(ctx context.Context, group internal.Group, perms auth.Permissions) error {
	console := l.app.Console
	for {
		commands := l.app.Commands.Allowed(group, perms, l.session.Role)
		console.Header(group.Title)
		for i, id := range commands {
			entry, _ := l.app.Commands.Lookup(id)
			console.Printf("%d. %s\n", i+1, entry.Label)
		}
		console.Println("B. Back")
		console.Rule()

		choice, err := ask(ctx, console, "Select option: ")
		if err != nil {
			return err
		}
		if strings.ToUpper(choice) == backChoice {
			return nil
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(commands) {
			console.Error("Invalid option.")
			continue
		}

		if err = l.dispatch(ctx, commands[idx-1], perms); err != nil {
			return err
		}
		if l.session == nil {
			return nil
		}
	}
}

// dispatch re-checks the session token before running the command. Handler
// failures are reported and the menu goes on; only input failures unwind.
func (l *Loop) dispatch(ctx context.Context, id CommandID, perms auth.Permissions) error {
	session, err := l.app.Auth.Validate(*l.session)
	if err != nil {
		l.app.Log.Info("Session rejected", "user", l.session.Username, "error", err)
		l.logout("Your session has expired. Please log in again.")
		return nil
	}
	l.session = &session

	req := &Request{App: l.app, Session: session, Permissions: perms}
	err = l.app.Commands.Dispatch(ctx, id, req)
	if err == nil {
		return nil
	}
	if ui.IsInputClosed(err) || ctx.Err() != nil {
		return err
	}
	if stderrors.Is(err, errors.ErrNotAuthorized) {
		l.app.Console.Error("You are not allowed to do that.")
		return nil
	}
	l.app.Log.Debug("Command failed", "command", id, "user", session.Username, "error", err)
	l.app.Console.Error(ui.Describe(err))
	return nil
}

func (l *Loop) visibleGroups(layout internal.Layout, perms auth.Permissions) []internal.Group {
	var groups []internal.Group
	for _, group := range layout.Groups {
		if len(l.app.Commands.Allowed(group, perms, l.session.Role)) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func (l *Loop) logout(msg string) {
	l.session = nil
	l.app.Console.Notice(msg)
}
