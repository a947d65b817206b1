package repositories

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/samber/lo"
)

// XMLChatRepository keeps every chat in a single XML document.
// Each operation re-reads the file so that changes made by other sessions are visible;
// mutations hold the writer lock for the whole load-modify-save cycle.
type XMLChatRepository struct {
	path  string
	log   *slog.Logger
	clock Clock

	mu sync.RWMutex
	// highest ordinal handed out by this instance, so deleting the newest chat never recycles its id
	highWater int
	warned    atomic.Bool
}

func NewXMLChatRepository(path string, log *slog.Logger, opts ...Option) (*XMLChatRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrIOFailure, err)
	}
	o := newOptions(opts)
	return &XMLChatRepository{path: path, log: log, clock: o.clock}, nil
}

func (r *XMLChatRepository) ListChatsForParticipant(username string) ([]chat.Summary, error) {
	var summaries []chat.Summary
	err := r.view(func(chats []chat.Chat) error {
		summaries = summariesFor(chats, username)
		return nil
	})
	return summaries, err
}

func (r *XMLChatRepository) GetChat(chatID chat.ID) (chat.Chat, error) {
	var found chat.Chat
	err := r.view(func(chats []chat.Chat) error {
		idx, err := findChat(chats, chatID)
		if err != nil {
			return err
		}
		found = chats[idx]
		return nil
	})
	return found, err
}

func (r *XMLChatRepository) CreateChat(name, owner string, participants []string) (chat.ID, error) {
	var id chat.ID
	err := r.update(func(chats []chat.Chat) ([]chat.Chat, error) {
		ids := lo.Map(chats, func(c chat.Chat, _ int) chat.ID { return c.ID })
		next := max(chat.MaxOrdinal(ids), r.highWater) + 1
		c, err := chat.New(chat.FormatID(next), name, owner, participants, r.clock())
		if err != nil {
			return nil, err
		}
		r.highWater = next
		id = c.ID
		return append(chats, c), nil
	})
	if err != nil {
		return "", err
	}
	r.log.Debug("Chat created", "chat_id", id, "user", owner)
	return id, nil
}

func (r *XMLChatRepository) LoadMessages(chatID chat.ID) ([]chat.Message, time.Time, error) {
	c, err := r.GetChat(chatID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return c.Messages, c.Latest(), nil
}

func (r *XMLChatRepository) AppendMessage(chatID chat.ID, sender, content string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		c.Append(sender, content, r.clock())
		return nil
	})
}

func (r *XMLChatRepository) AppendParticipantMessage(chatID chat.ID, sender, content string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		if !c.Summary().HasParticipant(sender) {
			return fmt.Errorf("%w: %s is not a participant of %s", errors.ErrNotAuthorized, sender, chatID)
		}
		c.Append(sender, content, r.clock())
		return nil
	})
}

func (r *XMLChatRepository) RenameChat(chatID chat.ID, name string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		return c.Rename(name)
	})
}

func (r *XMLChatRepository) DeleteChat(chatID chat.ID) error {
	return r.update(func(chats []chat.Chat) ([]chat.Chat, error) {
		idx, err := findChat(chats, chatID)
		if err != nil {
			return nil, err
		}
		return append(chats[:idx], chats[idx+1:]...), nil
	})
}

func (r *XMLChatRepository) AddParticipant(chatID chat.ID, username string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		c.AddParticipant(username)
		return nil
	})
}

func (r *XMLChatRepository) RemoveParticipant(chatID chat.ID, username string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		return c.RemoveParticipant(username)
	})
}

func (r *XMLChatRepository) modifyChat(chatID chat.ID, fn func(c *chat.Chat) error) error {
	return r.update(func(chats []chat.Chat) ([]chat.Chat, error) {
		idx, err := findChat(chats, chatID)
		if err != nil {
			return nil, err
		}
		if err = fn(&chats[idx]); err != nil {
			return nil, err
		}
		return chats, nil
	})
}

func (r *XMLChatRepository) view(fn func(chats []chat.Chat) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chats, _, err := r.load()
	if err != nil {
		return err
	}
	return fn(chats)
}

// update runs one load-modify-save unit. Nothing is written when fn fails.
func (r *XMLChatRepository) update(fn func(chats []chat.Chat) ([]chat.Chat, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats, malformed, err := r.load()
	if err != nil {
		return err
	}
	updated, err := fn(chats)
	if err != nil {
		return err
	}
	if malformed {
		r.quarantine()
	}
	return r.save(updated)
}

// load reads the whole document. A missing or empty file is an empty store;
// a malformed one is reported once as a warning and treated as empty.
func (r *XMLChatRepository) load() ([]chat.Chat, bool, error) {
	data, err := os.ReadFile(r.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		r.log.Error("Unable to read chat store", "path", r.path, "error", err)
		return nil, false, fmt.Errorf("%w: %w", errors.ErrIOFailure, err)
	}
	chats, err := DecodeChats(data)
	if err != nil {
		if !r.warned.Swap(true) {
			r.log.Warn("Chat store is malformed, starting from an empty collection", "path", r.path, "error", err)
		}
		return nil, true, nil
	}
	r.warned.Store(false)
	return chats, false, nil
}

// quarantine keeps a copy of a malformed store before it gets overwritten.
func (r *XMLChatRepository) quarantine() {
	backup := r.path + ".corrupt"
	if err := os.Rename(r.path, backup); err != nil {
		r.log.Warn("Unable to move malformed chat store aside", "path", r.path, "error", err)
		return
	}
	r.log.Warn("Malformed chat store moved aside", "backup", backup)
}

// save writes to a temporary file in the same directory then renames it over the store,
// so a concurrent reader never sees a half written document.
func (r *XMLChatRepository) save(chats []chat.Chat) error {
	data, err := encodeChats(chats)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrIOFailure, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return r.ioFailure(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return r.ioFailure(err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return r.ioFailure(err)
	}
	if err = tmp.Close(); err != nil {
		return r.ioFailure(err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return r.ioFailure(err)
	}
	return nil
}

func (r *XMLChatRepository) ioFailure(err error) error {
	r.log.Error("Unable to write chat store", "path", r.path, "error", err)
	return fmt.Errorf("%w: %w", errors.ErrIOFailure, err)
}
