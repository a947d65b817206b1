package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/samber/lo"
)

type IRosterManager interface {
	AddParticipants(ctx context.Context, cmd chat.AddParticipantsCommand) error
	RemoveParticipant(ctx context.Context, cmd chat.RemoveParticipantCommand) error
}

// RosterManager changes chat membership on behalf of the chat owner.
type RosterManager struct {
	log       *slog.Logger
	repo      repositories.IChatRepository
	directory Directory
}

func NewRosterManager(log *slog.Logger, repo repositories.IChatRepository, directory Directory) *RosterManager {
	return &RosterManager{log: log, repo: repo, directory: directory}
}

// AddParticipants adds every known user; users already on the roster are skipped.
// Nothing is added when one of the usernames is unknown.
func (m *RosterManager) AddParticipants(ctx context.Context, cmd chat.AddParticipantsCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := requireOwner(m.repo, cmd)
	if err != nil {
		return err
	}

	usernames := lo.Uniq(lo.Compact(cmd.Usernames))
	for _, username := range usernames {
		if _, ok := m.directory.ResolveUsername(username); !ok {
			return fmt.Errorf("%w: %s", errors.ErrUserNotFound, username)
		}
	}

	summary := c.Summary()
	for _, username := range usernames {
		if summary.HasParticipant(username) {
			continue
		}
		if err = m.repo.AddParticipant(cmd.Chat, username); err != nil {
			return err
		}
		m.log.Info("Participant added", "chat_id", cmd.Chat, "user", username, "by", cmd.Actor)
	}
	return nil
}

// RemoveParticipant drops a member. The owner can never be removed; removing a
// non-participant is a no-op.
func (m *RosterManager) RemoveParticipant(ctx context.Context, cmd chat.RemoveParticipantCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := requireOwner(m.repo, cmd)
	if err != nil {
		return err
	}

	summary := c.Summary()
	if summary.IsOwner(cmd.Username) {
		return errors.ErrCannotRemoveOwner
	}
	if !summary.HasParticipant(cmd.Username) {
		return nil
	}
	if err = m.repo.RemoveParticipant(cmd.Chat, cmd.Username); err != nil {
		return err
	}
	m.log.Info("Participant removed", "chat_id", cmd.Chat, "user", cmd.Username, "by", cmd.Actor)
	return nil
}
