//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
)

// IChatRepository is the chat store.
// Every mutation is a single load-modify-save unit performed under the store's writer lock.
type IChatRepository interface {
	// ListChatsForParticipant returns the chats whose roster contains username, in storage order.
	ListChatsForParticipant(username string) ([]chat.Summary, error)
	// GetChat returns the full record, messages included.
	GetChat(chatID chat.ID) (chat.Chat, error)
	// CreateChat allocates the next ID and persists a chat whose roster includes the owner.
	CreateChat(name, owner string, participants []string) (chat.ID, error)
	// LoadMessages returns the message log in append order and the latest activity timestamp.
	LoadMessages(chatID chat.ID) ([]chat.Message, time.Time, error)
	AppendMessage(chatID chat.ID, sender, content string) error
	// AppendParticipantMessage appends only if sender is on the roster when the write lock is held.
	AppendParticipantMessage(chatID chat.ID, sender, content string) error
	RenameChat(chatID chat.ID, name string) error
	DeleteChat(chatID chat.ID) error
	AddParticipant(chatID chat.ID, username string) error
	RemoveParticipant(chatID chat.ID, username string) error
}

// Clock returns the current time, replaceable in tests.
type Clock func() time.Time

type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the time source used to stamp messages and creations.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func newOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
