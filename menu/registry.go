package menu

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/samber/lo"
)

type CommandID string

const (
	BrowseChats    CommandID = "browse_chats"
	CreateChat     CommandID = "create_chat"
	SearchMessages CommandID = "search_messages"
	ListUsers      CommandID = "list_users"
	RegisterUser   CommandID = "register_user"
	ViewStatus     CommandID = "view_status"
	ReloadLayout   CommandID = "reload_layout"
)

// Handler runs one menu command. Everything it needs travels in req.
type Handler func(ctx context.Context, req *Request) error

type Entry struct {
	Label      string
	Capability auth.Capability
	Handler    Handler
}

// Registry maps command ids to their handlers. It is filled once at startup.
type Registry struct {
	entries map[CommandID]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[CommandID]Entry)}
}

func (r *Registry) Register(id CommandID, entry Entry) error {
	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("command %q registered twice", id)
	}
	if entry.Handler == nil {
		return fmt.Errorf("command %q has no handler", id)
	}
	r.entries[id] = entry
	return nil
}

func (r *Registry) Lookup(id CommandID) (Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, id)
	}
	return entry, nil
}

func (r *Registry) IDs() []CommandID {
	ids := lo.Keys(r.entries)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Allowed lists the commands of a group the role may run, in layout order.
func (r *Registry) Allowed(group internal.Group, perms auth.Permissions, role string) []CommandID {
	return lo.FilterMap(group.Commands, func(c string, _ int) (CommandID, bool) {
		entry, err := r.Lookup(CommandID(c))
		return CommandID(c), err == nil && perms.Allows(role, entry.Capability)
	})
}

// Dispatch checks the role of the request session then runs the command.
func (r *Registry) Dispatch(ctx context.Context, id CommandID, req *Request) error {
	entry, err := r.Lookup(id)
	if err != nil {
		return err
	}
	if !req.Permissions.Allows(req.Session.Role, entry.Capability) {
		return fmt.Errorf("%w: %s cannot run %s", errors.ErrNotAuthorized, req.Session.Role, id)
	}
	return entry.Handler(ctx, req)
}

// ValidateLayout rejects a layout naming unknown commands or capabilities.
func (r *Registry) ValidateLayout(layout internal.Layout) error {
	for _, group := range layout.Groups {
		for _, c := range group.Commands {
			if _, err := r.Lookup(CommandID(c)); err != nil {
				return fmt.Errorf("group %q: %w", group.Title, err)
			}
		}
	}
	for role, caps := range layout.Roles {
		for _, c := range caps {
			if !auth.IsKnownCapability(auth.Capability(c)) {
				return fmt.Errorf("role %q: unknown capability %q", role, c)
			}
		}
	}
	return nil
}
