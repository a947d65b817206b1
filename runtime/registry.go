package runtime

import (
	"slices"
	"sync"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Set map[string]struct{}

// Registry tracks the live sessions of this process: at most one per user.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]uuid.UUID // map user -> live session
	chatViewers map[chat.ID]Set      // map chat to viewing users
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]uuid.UUID),
		chatViewers: make(map[chat.ID]Set),
	}
}

// Subscribe registers the user's live session on a chat.
// It fails with ErrSessionAlreadyActive when the user is already viewing a chat.
func (r *Registry) Subscribe(username string, chatID chat.ID, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[username]; ok {
		return errors.ErrSessionAlreadyActive
	}
	r.sessions[username] = sessionID

	if _, ok := r.chatViewers[chatID]; !ok {
		r.chatViewers[chatID] = make(Set)
	}
	r.chatViewers[chatID][username] = struct{}{}
	return nil
}

// Unsubscribe removes the user's session and drops empty chat entries.
func (r *Registry) Unsubscribe(username string, chatID chat.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, username)

	if viewers, ok := r.chatViewers[chatID]; ok {
		delete(viewers, username)
		if len(viewers) == 0 {
			delete(r.chatViewers, chatID)
		}
	}
}

// ViewersOf returns the users currently viewing the chat, sorted.
func (r *Registry) ViewersOf(chatID chat.ID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	viewers, ok := r.chatViewers[chatID]
	if !ok {
		return nil
	}
	names := lo.Keys(viewers)
	slices.Sort(names)
	return names
}

func (r *Registry) ActiveSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
