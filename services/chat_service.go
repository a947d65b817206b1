package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/moderation"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type IChatService interface {
	CreateChat(ctx context.Context, cmd chat.CreateChatCommand) (chat.ID, error)
	ListChats(ctx context.Context, username string) ([]chat.Summary, error)
	GetChat(ctx context.Context, chatID chat.ID) (chat.Chat, error)
	PostMessage(ctx context.Context, cmd chat.PostMessageCommand) error
	RenameChat(ctx context.Context, cmd chat.RenameChatCommand) error
	DeleteChat(ctx context.Context, cmd chat.DeleteChatCommand) error
}

// Directory answers whether a username exists.
type Directory interface {
	ResolveUsername(username string) (string, bool)
}

type Sanitizer interface {
	Sanitize(content string) moderation.Sanitized
}

type ChatService struct {
	log              *slog.Logger
	repo             repositories.IChatRepository
	directory        Directory
	sanitizer        Sanitizer
	maxContentLength int
}

// NewChatService builds the chat operations on top of the store.
// sanitizer may be nil, in which case content is stored as typed.
func NewChatService(
	log *slog.Logger,
	repo repositories.IChatRepository,
	directory Directory,
	sanitizer Sanitizer,
	maxContentLength int,
) *ChatService {
	return &ChatService{
		log:              log,
		repo:             repo,
		directory:        directory,
		sanitizer:        sanitizer,
		maxContentLength: maxContentLength,
	}
}

func (s *ChatService) CreateChat(ctx context.Context, cmd chat.CreateChatCommand) (chat.ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cmd.Name = strings.TrimSpace(cmd.Name)
	if err := validate.Struct(cmd); err != nil {
		return "", createError(err)
	}
	if err := s.resolveAll(cmd.Participants); err != nil {
		return "", err
	}
	id, err := s.repo.CreateChat(cmd.Name, cmd.Owner, cmd.Participants)
	if err != nil {
		return "", err
	}
	s.log.Info("Chat created", "chat_id", id, "user", cmd.Owner, "participants", len(cmd.Participants))
	return id, nil
}

func (s *ChatService) ListChats(ctx context.Context, username string) ([]chat.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.ListChatsForParticipant(username)
}

func (s *ChatService) GetChat(ctx context.Context, chatID chat.ID) (chat.Chat, error) {
	if err := ctx.Err(); err != nil {
		return chat.Chat{}, err
	}
	return s.repo.GetChat(chatID)
}

// PostMessage appends a message on behalf of a current participant.
func (s *ChatService) PostMessage(ctx context.Context, cmd chat.PostMessageCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return errors.ErrEmptyMessage
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.maxContentLength {
		return fmt.Errorf("%w: %d characters max", errors.ErrMessageTooLong, s.maxContentLength)
	}

	content := cmd.Content
	if s.sanitizer != nil {
		sanitized := s.sanitizer.Sanitize(content)
		content = sanitized.Content
		if len(sanitized.CensoredWords) > 0 {
			s.log.Debug("Message content censored", "chat_id", cmd.Chat, "user", cmd.Sender, "lang", sanitized.Language)
		}
	}
	// Membership is checked by the store under the same lock as the write,
	// so a sender removed concurrently cannot slip a message in.
	return s.repo.AppendParticipantMessage(cmd.Chat, cmd.Sender, content)
}

func (s *ChatService) RenameChat(ctx context.Context, cmd chat.RenameChatCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := requireOwner(s.repo, cmd); err != nil {
		return err
	}
	if err := s.repo.RenameChat(cmd.Chat, cmd.Name); err != nil {
		return err
	}
	s.log.Info("Chat renamed", "chat_id", cmd.Chat, "user", cmd.Actor)
	return nil
}

// DeleteChat removes the chat and its whole message log.
func (s *ChatService) DeleteChat(ctx context.Context, cmd chat.DeleteChatCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := requireOwner(s.repo, cmd); err != nil {
		return err
	}
	if err := s.repo.DeleteChat(cmd.Chat); err != nil {
		return err
	}
	s.log.Info("Chat deleted", "chat_id", cmd.Chat, "user", cmd.Actor)
	return nil
}

func (s *ChatService) resolveAll(usernames []string) error {
	for _, username := range usernames {
		if _, ok := s.directory.ResolveUsername(username); !ok {
			return fmt.Errorf("%w: %s", errors.ErrUserNotFound, username)
		}
	}
	return nil
}

// requireOwner loads the target chat and checks that the issuer owns it.
// Management is owner-only; no role grants it.
func requireOwner(repo repositories.IChatRepository, cmd chat.OwnerCommand) (chat.Chat, error) {
	c, err := repo.GetChat(cmd.ChatID())
	if err != nil {
		return chat.Chat{}, err
	}
	if !c.Summary().IsOwner(cmd.By()) {
		return chat.Chat{}, fmt.Errorf("%w: %s does not own %s", errors.ErrNotAuthorized, cmd.By(), cmd.ChatID())
	}
	return c, nil
}

// createError maps the first failed rule to the sentinel the menu can describe.
func createError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrInvalidName, err)
	}
	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Owner":
		return fmt.Errorf("%w: chat owner is empty", errors.ErrInvalidUser)
	case fe.Tag() == "max":
		return fmt.Errorf("%w: %s characters max", errors.ErrNameTooLong, fe.Param())
	default:
		return fmt.Errorf("%w: chat name is empty", errors.ErrInvalidName)
	}
}
