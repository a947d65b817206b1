package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ilyakaznacheev/cleanenv"
)

// Layout describes the logged-in menu and what each role may run.
type Layout struct {
	Title  string              `yaml:"title" env-default:"CHAT CONSOLE"`
	Groups []Group             `yaml:"groups"`
	Roles  map[string][]string `yaml:"roles"`
}

// Group is one top-level menu entry opening a submenu of commands.
type Group struct {
	Title    string   `yaml:"title"`
	Commands []string `yaml:"commands"`
}

// LayoutValidator rejects layouts referring to things the program does not know.
type LayoutValidator func(Layout) error

// LayoutStore holds the current layout snapshot. Readers never see a partially
// loaded layout; a failed Reload keeps the previous one.
type LayoutStore struct {
	log      *slog.Logger
	path     string
	validate LayoutValidator
	current  atomic.Pointer[Layout]
}

func NewLayoutStore(log *slog.Logger, path string, validate LayoutValidator) (*LayoutStore, error) {
	s := &LayoutStore{log: log, path: path, validate: validate}
	layout, err := s.read()
	if err != nil {
		return nil, err
	}
	s.current.Store(&layout)
	return s, nil
}

// Current returns the active snapshot.
func (s *LayoutStore) Current() Layout {
	return *s.current.Load()
}

// Reload re-reads the layout file and swaps it in when valid.
func (s *LayoutStore) Reload() (Layout, error) {
	layout, err := s.read()
	if err != nil {
		s.log.Warn("Layout reload rejected", "path", s.path, "error", err)
		return s.Current(), err
	}
	s.current.Store(&layout)
	s.log.Info("Layout reloaded", "path", s.path, "groups", len(layout.Groups), "roles", len(layout.Roles))
	return layout, nil
}

func (s *LayoutStore) read() (Layout, error) {
	var layout Layout
	if err := cleanenv.ReadConfig(s.path, &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to read layout %s: %w", s.path, err)
	}
	if err := layout.check(); err != nil {
		return Layout{}, err
	}
	if s.validate != nil {
		if err := s.validate(layout); err != nil {
			return Layout{}, fmt.Errorf("invalid layout %s: %w", s.path, err)
		}
	}
	return layout, nil
}

func (l Layout) check() error {
	if len(l.Groups) == 0 {
		return fmt.Errorf("layout has no menu group")
	}
	for i, g := range l.Groups {
		if strings.TrimSpace(g.Title) == "" {
			return fmt.Errorf("menu group %d has no title", i+1)
		}
		if len(g.Commands) == 0 {
			return fmt.Errorf("menu group %q has no command", g.Title)
		}
	}
	return nil
}
