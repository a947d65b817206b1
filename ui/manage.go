package ui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/samber/lo"
)

type ChatEditor interface {
	GetChat(ctx context.Context, chatID chat.ID) (chat.Chat, error)
	RenameChat(ctx context.Context, cmd chat.RenameChatCommand) error
	DeleteChat(ctx context.Context, cmd chat.DeleteChatCommand) error
}

type RosterEditor interface {
	AddParticipants(ctx context.Context, cmd chat.AddParticipantsCommand) error
	RemoveParticipant(ctx context.Context, cmd chat.RemoveParticipantCommand) error
}

type UserLister interface {
	ListUsers() ([]repositories.User, error)
}

// Manager runs the owner-only management menus of a chat.
type Manager struct {
	console Prompter
	chats   ChatEditor
	roster  RosterEditor
	users   UserLister
}

func NewManager(console Prompter, chats ChatEditor, roster RosterEditor, users UserLister) *Manager {
	return &Manager{console: console, chats: chats, roster: roster, users: users}
}

// Action binds the manager to the acting user for the browser.
func (m *Manager) Action(actor string) ChatAction {
	return func(ctx context.Context, selected chat.Summary) error {
		return m.Manage(ctx, actor, selected.ID)
	}
}

func (m *Manager) Manage(ctx context.Context, actor string, chatID chat.ID) error {
	for {
		c, ok := m.reload(ctx, chatID)
		if !ok {
			return nil
		}
		if !c.Summary().IsOwner(actor) {
			m.console.Error(Describe(errors.ErrNotAuthorized))
			return nil
		}

		m.console.Header("MANAGE CHAT: " + c.Name)
		m.console.Println("1. Edit chat name")
		m.console.Println("2. Edit members")
		m.console.Println("3. Delete chat")
		m.console.Println("Q. Quit to previous menu")
		m.console.Rule()

		choice, err := m.ask(ctx, "Select option: ")
		if err != nil {
			return err
		}
		switch strings.ToUpper(choice) {
		case "1":
			if err = m.rename(ctx, actor, chatID); err != nil {
				return err
			}
		case "2":
			if err = m.members(ctx, actor, chatID); err != nil {
				return err
			}
		case "3":
			deleted, err := m.delete(ctx, actor, chatID)
			if err != nil || deleted {
				return err
			}
		case "Q":
			return nil
		default:
			m.console.Error("Invalid option.")
		}
	}
}

func (m *Manager) rename(ctx context.Context, actor string, chatID chat.ID) error {
	name, err := m.ask(ctx, "Enter new chat name: ")
	if err != nil {
		return err
	}
	if name == "" {
		m.console.Error("Chat name cannot be empty.")
		return nil
	}
	if err = m.chats.RenameChat(ctx, chat.RenameChatCommand{Chat: chatID, Actor: actor, Name: name}); err != nil {
		m.console.Error(Describe(err))
		return nil
	}
	m.console.Success("Chat name updated.")
	return nil
}

func (m *Manager) delete(ctx context.Context, actor string, chatID chat.ID) (bool, error) {
	confirm, err := m.ask(ctx, "Are you sure you want to delete this chat? (Y/N): ")
	if err != nil {
		return false, err
	}
	if strings.ToUpper(confirm) != "Y" {
		return false, nil
	}
	if err = m.chats.DeleteChat(ctx, chat.DeleteChatCommand{Chat: chatID, Actor: actor}); err != nil {
		m.console.Error("Error deleting chat: " + Describe(err))
		return false, nil
	}
	m.console.Success("Chat deleted.")
	return true, nil
}

func (m *Manager) members(ctx context.Context, actor string, chatID chat.ID) error {
	for {
		c, ok := m.reload(ctx, chatID)
		if !ok {
			return nil
		}
		m.console.Printf("\nCurrent participants: %s\n", strings.Join(c.Participants, ", "))
		m.console.Println("1. Add participant")
		m.console.Println("2. Remove participant")
		m.console.Println("Q. Quit")

		choice, err := m.ask(ctx, "Select option: ")
		if err != nil {
			return err
		}
		switch strings.ToUpper(choice) {
		case "1":
			err = m.add(ctx, actor, c)
		case "2":
			err = m.remove(ctx, actor, c)
		case "Q":
			return nil
		default:
			m.console.Error("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Manager) add(ctx context.Context, actor string, c chat.Chat) error {
	users, err := m.users.ListUsers()
	if err != nil {
		m.console.Error("Could not load users: " + err.Error())
		return nil
	}
	candidates := lo.FilterMap(users, func(u repositories.User, _ int) (string, bool) {
		return u.Username, !lo.Contains(c.Participants, u.Username)
	})
	if len(candidates) == 0 {
		m.console.Notice("No users left to add.")
		return nil
	}

	m.console.Println("\n=== Select Users ===")
	for _, username := range candidates {
		m.console.Printf("- %s\n", username)
	}
	line, err := m.ask(ctx, "Enter usernames separated by commas: ")
	if err != nil {
		return err
	}
	selected := SplitUsernames(line)
	if len(selected) == 0 {
		m.console.Error("No user selected.")
		return nil
	}

	err = m.roster.AddParticipants(ctx, chat.AddParticipantsCommand{Chat: c.ID, Actor: actor, Usernames: selected})
	if err != nil {
		m.console.Error(Describe(err))
		return nil
	}
	m.console.Success("Participants added.")
	return nil
}

func (m *Manager) remove(ctx context.Context, actor string, c chat.Chat) error {
	removable := lo.Without(c.Participants, c.Owner)
	if len(removable) == 0 {
		m.console.Notice("No participants can be removed.")
		return nil
	}
	m.console.Printf("Removable participants: %s\n", strings.Join(removable, ", "))
	name, err := m.ask(ctx, "Enter participant username to remove: ")
	if err != nil {
		return err
	}
	if !lo.Contains(removable, name) {
		m.console.Error("Invalid username.")
		return nil
	}

	err = m.roster.RemoveParticipant(ctx, chat.RemoveParticipantCommand{Chat: c.ID, Actor: actor, Username: name})
	if err != nil {
		m.console.Error(Describe(err))
		return nil
	}
	m.console.Success(fmt.Sprintf("%s removed.", name))
	return nil
}

func (m *Manager) reload(ctx context.Context, chatID chat.ID) (chat.Chat, bool) {
	c, err := m.chats.GetChat(ctx, chatID)
	if stderrors.Is(err, errors.ErrNotFound) {
		m.console.Notice("This chat no longer exists.")
		return chat.Chat{}, false
	}
	if err != nil {
		m.console.Error(Describe(err))
		return chat.Chat{}, false
	}
	return c, true
}

func (m *Manager) ask(ctx context.Context, prompt string) (string, error) {
	line, err := m.console.ReadLine(ctx, prompt)
	return strings.TrimSpace(line), err
}

// SplitUsernames parses a comma separated list, dropping blanks and duplicates.
func SplitUsernames(line string) []string {
	parts := lo.Map(strings.Split(line, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}
