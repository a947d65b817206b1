package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const validLayout = `
groups:
  - title: Chats
    commands: [browse_chats, create_chat]
roles:
  user: [view_chats, create_chat]
`

func writeLayout(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLayoutStore_Load(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "layout.yaml")
	writeLayout(t, path, validLayout)

	store, err := NewLayoutStore(logs.GetLoggerFromLevel(slog.LevelDebug), path, nil)
	req.NoError(err)

	layout := store.Current()
	req.Equal("CHAT CONSOLE", layout.Title)
	req.Len(layout.Groups, 1)
	req.Equal([]string{"browse_chats", "create_chat"}, layout.Groups[0].Commands)
	req.Equal([]string{"view_chats", "create_chat"}, layout.Roles["user"])
}

func TestLayoutStore_Shipped_Layout(t *testing.T) {
	store, err := NewLayoutStore(logs.GetLoggerFromLevel(slog.LevelDebug), "../configs/layout.yaml", nil)
	require.NoError(t, err)
	require.NotEmpty(t, store.Current().Groups)
}

func TestLayoutStore_Reload(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "layout.yaml")
	writeLayout(t, path, validLayout)

	known := map[string]bool{"browse_chats": true, "create_chat": true, "view_status": true}
	validate := func(l Layout) error {
		for _, g := range l.Groups {
			for _, c := range g.Commands {
				if !known[c] {
					return fmt.Errorf("unknown command %q", c)
				}
			}
		}
		return nil
	}
	store, err := NewLayoutStore(logs.GetLoggerFromLevel(slog.LevelDebug), path, validate)
	req.NoError(err)
	before := store.Current()

	// Given a file referring to an unknown command
	writeLayout(t, path, `
groups:
  - title: Chats
    commands: [launch_rockets]
`)
	// Then the reload is rejected and the previous layout stays
	_, err = store.Reload()
	req.ErrorContains(err, "launch_rockets")
	req.Equal(before, store.Current())

	// Given a valid edit
	writeLayout(t, path, `
title: OPS
groups:
  - title: Admin
    commands: [view_status]
roles:
  admin: [view_status]
`)
	layout, err := store.Reload()
	req.NoError(err)
	req.Equal("OPS", layout.Title)
	req.Equal(layout, store.Current())
}

func TestLayoutStore_Rejects_Empty_Groups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	writeLayout(t, path, "groups:\n  - title: Chats\n")

	_, err := NewLayoutStore(logs.GetLoggerFromLevel(slog.LevelDebug), path, nil)

	require.ErrorContains(t, err, "no command")
}
