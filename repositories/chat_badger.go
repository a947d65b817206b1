package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/dgraph-io/badger/v4"
)

const (
	chatKeyPrefix = "chat:"
	chatSeqKey    = "meta:chat_seq"
)

// BadgerChatRepository stores each chat as its own <chat> element under "chat:{id}".
// A mutation touches a single key inside one transaction; the sequence key keeps ids unique
// across restarts even after the newest chat was deleted.
type BadgerChatRepository struct {
	db    *badger.DB
	log   *slog.Logger
	clock Clock
	mu    sync.Mutex
}

func NewBadgerChatRepository(db *badger.DB, log *slog.Logger, opts ...Option) *BadgerChatRepository {
	o := newOptions(opts)
	return &BadgerChatRepository{db: db, log: log, clock: o.clock}
}

func chatKey(id chat.ID) []byte {
	return []byte(chatKeyPrefix + string(id))
}

func (r *BadgerChatRepository) ListChatsForParticipant(username string) ([]chat.Summary, error) {
	var chats []chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(chatKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				c, err := DecodeChat(val)
				if err != nil {
					r.log.Warn("Skipping malformed chat record", "key", string(item.Key()), "error", err)
					return nil
				}
				chats = append(chats, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, r.ioFailure(err)
	}
	// Keys sort lexicographically; creation order is the ordinal order.
	sort.SliceStable(chats, func(i, j int) bool {
		a, _ := chats[i].ID.Ordinal()
		b, _ := chats[j].ID.Ordinal()
		return a < b
	})
	return summariesFor(chats, username), nil
}

func (r *BadgerChatRepository) GetChat(chatID chat.ID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		c, err = r.get(txn, chatID)
		return err
	})
	return c, err
}

func (r *BadgerChatRepository) CreateChat(name, owner string, participants []string) (chat.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id chat.ID
	err := r.db.Update(func(txn *badger.Txn) error {
		seq, err := r.sequence(txn)
		if err != nil {
			return err
		}
		ids, err := r.ids(txn)
		if err != nil {
			return err
		}
		next := max(seq, chat.MaxOrdinal(ids)) + 1

		c, err := chat.New(chat.FormatID(next), name, owner, participants, r.clock())
		if err != nil {
			return err
		}
		if err = r.put(txn, c); err != nil {
			return err
		}
		id = c.ID
		return txn.Set([]byte(chatSeqKey), []byte(strconv.Itoa(next)))
	})
	if err != nil {
		return "", r.classify(err)
	}
	r.log.Debug("Chat created", "chat_id", id, "user", owner)
	return id, nil
}

func (r *BadgerChatRepository) LoadMessages(chatID chat.ID) ([]chat.Message, time.Time, error) {
	c, err := r.GetChat(chatID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return c.Messages, c.Latest(), nil
}

func (r *BadgerChatRepository) AppendMessage(chatID chat.ID, sender, content string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		c.Append(sender, content, r.clock())
		return nil
	})
}

func (r *BadgerChatRepository) AppendParticipantMessage(chatID chat.ID, sender, content string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		if !c.Summary().HasParticipant(sender) {
			return fmt.Errorf("%w: %s is not a participant of %s", errors.ErrNotAuthorized, sender, chatID)
		}
		c.Append(sender, content, r.clock())
		return nil
	})
}

func (r *BadgerChatRepository) RenameChat(chatID chat.ID, name string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		return c.Rename(name)
	})
}

func (r *BadgerChatRepository) DeleteChat(chatID chat.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(chatKey(chatID)); err != nil {
			return err
		}
		return txn.Delete(chatKey(chatID))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: chat %s", errors.ErrNotFound, chatID)
	}
	return r.classify(err)
}

func (r *BadgerChatRepository) AddParticipant(chatID chat.ID, username string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		c.AddParticipant(username)
		return nil
	})
}

func (r *BadgerChatRepository) RemoveParticipant(chatID chat.ID, username string) error {
	return r.modifyChat(chatID, func(c *chat.Chat) error {
		return c.RemoveParticipant(username)
	})
}

func (r *BadgerChatRepository) modifyChat(chatID chat.ID, fn func(c *chat.Chat) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		c, err := r.get(txn, chatID)
		if err != nil {
			return err
		}
		if err = fn(&c); err != nil {
			return err
		}
		return r.put(txn, c)
	})
	return r.classify(err)
}

func (r *BadgerChatRepository) get(txn *badger.Txn, chatID chat.ID) (chat.Chat, error) {
	item, err := txn.Get(chatKey(chatID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Chat{}, fmt.Errorf("%w: chat %s", errors.ErrNotFound, chatID)
	}
	if err != nil {
		return chat.Chat{}, r.ioFailure(err)
	}
	var c chat.Chat
	err = item.Value(func(val []byte) error {
		c, err = DecodeChat(val)
		return err
	})
	return c, err
}

func (r *BadgerChatRepository) put(txn *badger.Txn, c chat.Chat) error {
	data, err := encodeChat(c)
	if err != nil {
		return err
	}
	return txn.Set(chatKey(c.ID), data)
}

func (r *BadgerChatRepository) ids(txn *badger.Txn) ([]chat.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []chat.ID
	prefix := []byte(chatKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, chat.ID(it.Item().Key()[len(prefix):]))
	}
	return ids, nil
}

func (r *BadgerChatRepository) sequence(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(chatSeqKey))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var seq int
	err = item.Value(func(val []byte) error {
		seq, err = strconv.Atoi(string(val))
		return err
	})
	return seq, err
}

// classify keeps domain errors as they are and wraps storage failures.
func (r *BadgerChatRepository) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrNotFound),
		stderrors.Is(err, errors.ErrInvalidName),
		stderrors.Is(err, errors.ErrNameTooLong),
		stderrors.Is(err, errors.ErrInvalidUser),
		stderrors.Is(err, errors.ErrNotAuthorized),
		stderrors.Is(err, errors.ErrCannotRemoveOwner),
		stderrors.Is(err, errors.ErrMalformedStore),
		stderrors.Is(err, errors.ErrIOFailure):
		return err
	default:
		return r.ioFailure(err)
	}
}

func (r *BadgerChatRepository) ioFailure(err error) error {
	r.log.Error("Chat store failure", "error", err)
	return fmt.Errorf("%w: %w", errors.ErrIOFailure, err)
}
