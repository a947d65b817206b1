package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/mocks"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRosterManager(t *testing.T) (*RosterManager, *mocks.MockIChatRepository, *mocks.MockIUserRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIChatRepository(ctrl)
	users := mocks.NewMockIUserRepository(ctrl)
	return NewRosterManager(logs.GetLoggerFromLevel(slog.LevelDebug), repo, users), repo, users
}

func TestRosterManager_AddParticipants(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new members and skips existing ones", func(t *testing.T) {
		req := require.New(t)
		m, repo, users := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)
		users.EXPECT().ResolveUsername("bob").Return("bob", true)
		users.EXPECT().ResolveUsername("carol").Return("carol", true)
		repo.EXPECT().AddParticipant(opsChat, "carol").Return(nil).Times(1)

		err := m.AddParticipants(ctx, chat.AddParticipantsCommand{
			Chat: opsChat, Actor: "alice", Usernames: []string{"bob", "carol", "carol", ""},
		})

		req.NoError(err)
	})

	t.Run("unknown user aborts before any change", func(t *testing.T) {
		req := require.New(t)
		m, repo, users := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)
		users.EXPECT().ResolveUsername("carol").Return("carol", true)
		users.EXPECT().ResolveUsername("ghost").Return("", false)
		repo.EXPECT().AddParticipant(gomock.Any(), gomock.Any()).Times(0)

		err := m.AddParticipants(ctx, chat.AddParticipantsCommand{
			Chat: opsChat, Actor: "alice", Usernames: []string{"carol", "ghost"},
		})

		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	t.Run("only the owner manages the roster", func(t *testing.T) {
		req := require.New(t)
		m, repo, _ := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)

		err := m.AddParticipants(ctx, chat.AddParticipantsCommand{Chat: opsChat, Actor: "bob", Usernames: []string{"carol"}})

		req.ErrorIs(err, errors.ErrNotAuthorized)
	})
}

func TestRosterManager_RemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a member", func(t *testing.T) {
		req := require.New(t)
		m, repo, _ := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)
		repo.EXPECT().RemoveParticipant(opsChat, "bob").Return(nil)

		req.NoError(m.RemoveParticipant(ctx, chat.RemoveParticipantCommand{Chat: opsChat, Actor: "alice", Username: "bob"}))
	})

	t.Run("owner is never removed", func(t *testing.T) {
		req := require.New(t)
		m, repo, _ := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)

		err := m.RemoveParticipant(ctx, chat.RemoveParticipantCommand{Chat: opsChat, Actor: "alice", Username: "alice"})

		req.ErrorIs(err, errors.ErrCannotRemoveOwner)
	})

	t.Run("removing a non member is a no-op", func(t *testing.T) {
		req := require.New(t)
		m, repo, _ := newRosterManager(t)
		repo.EXPECT().GetChat(opsChat).Return(opsFixture(), nil)
		repo.EXPECT().RemoveParticipant(gomock.Any(), gomock.Any()).Times(0)

		req.NoError(m.RemoveParticipant(ctx, chat.RemoveParticipantCommand{Chat: opsChat, Actor: "alice", Username: "carol"}))
	})

	t.Run("unknown chat", func(t *testing.T) {
		req := require.New(t)
		m, repo, _ := newRosterManager(t)
		repo.EXPECT().GetChat(chat.ID("chat_404")).Return(chat.Chat{}, errors.ErrNotFound)

		err := m.RemoveParticipant(ctx, chat.RemoveParticipantCommand{Chat: "chat_404", Actor: "alice", Username: "bob"})

		req.ErrorIs(err, errors.ErrNotFound)
	})
}
