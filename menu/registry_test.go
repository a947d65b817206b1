package menu

import (
	"context"
	"testing"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/internal"
	"github.com/AlexandreSaynov/tp1ADC/services"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	noop := func(context.Context, *Request) error { return nil }

	req.NoError(r.Register("ping", Entry{Label: "Ping", Handler: noop}))
	req.Error(r.Register("ping", Entry{Label: "Ping again", Handler: noop}))
	req.Error(r.Register("pong", Entry{Label: "No handler"}))

	entry, err := r.Lookup("ping")
	req.NoError(err)
	req.Equal("Ping", entry.Label)

	_, err = r.Lookup("pong")
	req.ErrorIs(err, errors.ErrUnknownCommand)
}

func TestDefaultRegistry_Knows_Shipped_Layout(t *testing.T) {
	req := require.New(t)
	r := DefaultRegistry()
	req.Len(r.IDs(), 7)

	store, err := internal.NewLayoutStore(testLogger(), "../configs/layout.yaml", r.ValidateLayout)
	req.NoError(err)
	req.NotEmpty(store.Current().Groups)
}

func TestRegistry_ValidateLayout(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name    string
		layout  internal.Layout
		wantErr string
	}{
		{
			name:   "valid",
			layout: internal.Layout{Groups: []internal.Group{{Title: "Chats", Commands: []string{"browse_chats"}}}, Roles: map[string][]string{"user": {"view_chats"}}},
		},
		{
			name:    "unknown command",
			layout:  internal.Layout{Groups: []internal.Group{{Title: "Chats", Commands: []string{"launch"}}}},
			wantErr: "launch",
		},
		{
			name:    "unknown capability",
			layout:  internal.Layout{Groups: []internal.Group{{Title: "Chats", Commands: []string{"browse_chats"}}}, Roles: map[string][]string{"user": {"fly"}}},
			wantErr: "fly",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ValidateLayout(tt.layout)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRegistry_Allowed_And_Dispatch(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	calls := 0
	handler := func(context.Context, *Request) error { calls++; return nil }
	req.NoError(r.Register("status", Entry{Label: "Status", Capability: auth.ViewStatus, Handler: handler}))
	req.NoError(r.Register("browse", Entry{Label: "Browse", Capability: auth.ViewChats, Handler: handler}))

	perms := auth.NewPermissions(map[string][]string{"user": {"view_chats"}})
	group := internal.Group{Title: "All", Commands: []string{"status", "unknown", "browse"}}

	req.Equal([]CommandID{"browse"}, r.Allowed(group, perms, "user"))
	req.Equal([]CommandID{"status", "browse"}, r.Allowed(group, perms, auth.RootRole))

	user := &Request{Session: services.Session{Username: "bob", Role: "user"}, Permissions: perms}
	req.ErrorIs(r.Dispatch(context.Background(), "status", user), errors.ErrNotAuthorized)
	req.NoError(r.Dispatch(context.Background(), "browse", user))
	req.Equal(1, calls)
}
