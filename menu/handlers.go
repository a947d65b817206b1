package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/search"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/runtime"
	"github.com/AlexandreSaynov/tp1ADC/ui"
	"github.com/samber/lo"
)

// DefaultRegistry registers every command the console offers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	entries := map[CommandID]Entry{
		BrowseChats:    {Label: "Browse chats", Capability: auth.ViewChats, Handler: browseChats},
		CreateChat:     {Label: "Create chat", Capability: auth.CreateChat, Handler: createChat},
		SearchMessages: {Label: "Search messages", Capability: auth.SearchMessages, Handler: searchMessages},
		ListUsers:      {Label: "List users", Capability: auth.ViewUsers, Handler: listUsers},
		RegisterUser:   {Label: "Register user", Capability: auth.RegisterUser, Handler: registerUser},
		ViewStatus:     {Label: "Status", Capability: auth.ViewStatus, Handler: viewStatus},
		ReloadLayout:   {Label: "Reload menu layout", Capability: auth.ReloadLayout, Handler: reloadLayout},
	}
	for id, entry := range entries {
		// ids are unique map keys
		_ = r.Register(id, entry)
	}
	return r
}

func browseChats(ctx context.Context, req *Request) error {
	app := req.App
	username := req.Session.Username
	enter := func(ctx context.Context, selected chat.Summary) error {
		live := runtime.NewLiveSession(
			app.Log, app.ChatStore, app.Chats, app.Console, app.Sessions, app.Monitoring,
			selected.ID, username,
			runtime.SessionConfig{PollInterval: app.Config.PollInterval, RestartInterval: app.Config.RestartInterval},
		)
		return live.Run(ctx)
	}
	manager := ui.NewManager(app.Console, app.Chats, app.Roster, app.Users)
	browser := ui.NewBrowser(app.Console, app.Chats, app.Config.PageSize, enter, manager.Action(username))
	return browser.Run(ctx, username)
}

func createChat(ctx context.Context, req *Request) error {
	console := req.Console()
	console.Header("Create New Chat")

	name, err := ask(ctx, console, "Chat name: ")
	if err != nil {
		return err
	}
	if name == "" {
		console.Error("Chat name cannot be empty.")
		return nil
	}

	users, err := req.App.Users.ListUsers()
	if err != nil {
		return err
	}
	others := lo.FilterMap(users, func(u repositories.User, _ int) (string, bool) {
		return u.Username, u.Username != req.Session.Username
	})
	var participants []string
	if len(others) > 0 {
		console.Println("\nSelect participants:")
		for _, username := range others {
			console.Printf("- %s\n", username)
		}
		line, err := ask(ctx, console, "Enter usernames separated by commas (empty for none): ")
		if err != nil {
			return err
		}
		participants = ui.SplitUsernames(line)
	}

	_, err = req.App.Chats.CreateChat(ctx, chat.CreateChatCommand{
		Name:         name,
		Owner:        req.Session.Username,
		Participants: participants,
	})
	if err != nil {
		return err
	}
	console.Success(fmt.Sprintf("Chat '%s' created successfully!", name))
	return nil
}

func searchMessages(ctx context.Context, req *Request) error {
	console := req.Console()
	line, err := ask(ctx, console, "Search (words, --chat <id>, --from <user>, --limit <n>): ")
	if err != nil {
		return err
	}
	hits, err := req.App.Search.Search(ctx, req.Session.Username, search.NewQuery(line, req.App.Config.SearchLimit))
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		console.Notice("No matching messages.")
		return nil
	}
	console.Table(ui.HitHeader, ui.HitRows(hits))
	return nil
}

func listUsers(_ context.Context, req *Request) error {
	users, err := req.App.Users.ListUsers()
	if err != nil {
		return err
	}
	req.Console().Header("USERS")
	req.Console().Table(ui.UserHeader, ui.UserRows(users))
	return nil
}

func registerUser(ctx context.Context, req *Request) error {
	console := req.Console()
	console.Header("Register User")

	fields := make([]string, 0, 4)
	for _, prompt := range []string{"Username: ", "Email: ", "Password: "} {
		value, err := ask(ctx, console, prompt)
		if err != nil {
			return err
		}
		fields = append(fields, value)
	}

	roles := lo.Without(req.Permissions.Roles(), auth.RootRole)
	role, err := ask(ctx, console, fmt.Sprintf("Role (%s) [user]: ", strings.Join(roles, ", ")))
	if err != nil {
		return err
	}
	if role == "" {
		role = "user"
	}
	if !req.Permissions.HasRole(role) {
		console.Error(fmt.Sprintf("Unknown role '%s'.", role))
		return nil
	}

	if _, err = req.App.Auth.Register(fields[0], fields[1], fields[2], role); err != nil {
		return err
	}
	console.Success(fmt.Sprintf("User '%s' registered.", fields[0]))
	return nil
}

func viewStatus(_ context.Context, req *Request) error {
	stats := req.App.Monitoring.GetLatest()
	rows := append(ui.StatusRows(stats), []string{"live sessions open", fmt.Sprint(req.App.Sessions.ActiveSessions())})
	req.Console().Header("STATUS")
	req.Console().Table(ui.StatusHeader, rows)
	return nil
}

func reloadLayout(_ context.Context, req *Request) error {
	if _, err := req.App.Layouts.Reload(); err != nil {
		req.Console().Error("Layout not reloaded: " + err.Error())
		return nil
	}
	req.Console().Success("Layout reloaded.")
	return nil
}

func ask(ctx context.Context, console Console, prompt string) (string, error) {
	line, err := console.ReadLine(ctx, prompt)
	return strings.TrimSpace(line), err
}
