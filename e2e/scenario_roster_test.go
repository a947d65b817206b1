package e2e

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/stretchr/testify/suite"
)

type testRosterSuite struct {
	BaseChatSuite
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, &testRosterSuite{})
}

func (s *testRosterSuite) TestRemovedMemberLosesAccess() {
	var chatID chat.ID
	var aliceView, bobView *Viewer
	s.CreateUsers("alice", "bob")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Run("Step 1: alice creates Ops with bob", func() {
		s.Step("Creating chat", func(stepCtx context.Context) {
			id, err := s.Chats.CreateChat(stepCtx, chat.CreateChatCommand{Name: "Ops", Owner: "alice", Participants: []string{"bob"}})
			s.Require().NoError(err)
			s.Require().Equal(chat.ID("chat_001"), id)
			chatID = id
		})
	})

	s.Run("Step 2: both members open the chat", func() {
		s.Step("Opening live sessions", func(context.Context) {
			aliceView = s.OpenViewer(ctx, "alice", chatID)
			bobView = s.OpenViewer(ctx, "bob", chatID)
			s.Require().Eventually(func() bool {
				return s.Sessions.ActiveSessions() == 2
			}, time.Second, s.Config.PollInterval)
		})
	})

	s.Run("Step 3: bob sends ping and alice sees it", func() {
		s.Step("Posting from bob's session", func(stepCtx context.Context) {
			s.Require().NoError(bobView.Console.Type(stepCtx, "M"))
			s.Require().NoError(bobView.Console.Type(stepCtx, "ping"))

			s.Require().Eventually(func() bool {
				snapshot, ok := aliceView.Console.LastRender()
				return ok && len(snapshot.Messages) == 1 && snapshot.Messages[0].Content == "ping"
			}, 2*time.Second, s.Config.PollInterval)
			s.Require().Contains(bobView.Console.Output(), "Message sent.")
		})
	})

	s.Run("Step 4: alice removes bob", func() {
		s.Step("Removing participant", func(stepCtx context.Context) {
			err := s.Roster.RemoveParticipant(stepCtx, chat.RemoveParticipantCommand{Chat: chatID, Actor: "alice", Username: "bob"})
			s.Require().NoError(err)

			s.Require().True(bobView.Closed(2*time.Second), "a removed member's session should close")
		})
	})

	s.Run("Step 5: bob can no longer post", func() {
		s.Step("Posting as a former member", func(stepCtx context.Context) {
			err := s.Chats.PostMessage(stepCtx, chat.PostMessageCommand{Chat: chatID, Sender: "bob", Content: "still here?"})
			s.Require().True(stderrors.Is(err, errors.ErrNotAuthorized))

			c, err := s.ChatStore.GetChat(chatID)
			s.Require().NoError(err)
			s.Require().Len(c.Messages, 1)
			s.Require().Equal([]string{"alice"}, c.Participants)
		})
	})

	s.Run("Step 6: alice quits", func() {
		s.Step("Leaving the chat", func(stepCtx context.Context) {
			s.Require().NoError(aliceView.Console.Type(stepCtx, "Q"))
			s.Require().True(aliceView.Closed(2 * time.Second))
			s.Require().Equal(0, s.Sessions.ActiveSessions())
		})
	})
}

func (s *testRosterSuite) TestDeletedChatClosesViewers() {
	s.CreateUsers("alice", "bob")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Step("Deleting a chat while bob watches it", func(stepCtx context.Context) {
		id, err := s.Chats.CreateChat(stepCtx, chat.CreateChatCommand{Name: "Ops", Owner: "alice", Participants: []string{"bob"}})
		s.Require().NoError(err)

		bobView := s.OpenViewer(ctx, "bob", id)
		s.Require().Eventually(func() bool {
			_, ok := bobView.Console.LastRender()
			return ok
		}, time.Second, s.Config.PollInterval)

		s.Require().True(stderrors.Is(
			s.Chats.DeleteChat(stepCtx, chat.DeleteChatCommand{Chat: id, Actor: "bob"}),
			errors.ErrNotAuthorized,
		))
		s.Require().NoError(s.Chats.DeleteChat(stepCtx, chat.DeleteChatCommand{Chat: id, Actor: "alice"}))

		s.Require().True(bobView.Closed(2 * time.Second))
	})
}
