// Package chat contains the core concepts of the chat subsystem.
// A chat is a named conversation with an owner, a roster and an ordered message log.
package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/samber/lo"
)

// TimestampLayout is the wall-clock format used for every stored timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

const idPrefix = "chat_"

// MaxNameLength bounds a chat name, counted in characters.
const MaxNameLength = 64

// ID identifies a chat, formatted as "chat_" followed by a zero padded ordinal.
type ID string

// FormatID renders the ordinal n as a chat ID (chat_001, chat_042, chat_1000).
func FormatID(n int) ID {
	return ID(fmt.Sprintf("%s%03d", idPrefix, n))
}

// Ordinal extracts the numeric part of the ID.
func (id ID) Ordinal() (int, error) {
	s, ok := strings.CutPrefix(string(id), idPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: chat id %q", errors.ErrInvalidName, string(id))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: chat id %q", errors.ErrInvalidName, string(id))
	}
	return n, nil
}

func (id ID) String() string {
	return string(id)
}

// MaxOrdinal returns the highest ordinal among ids, ignoring ids that do not parse.
func MaxOrdinal(ids []ID) int {
	highest := 0
	for _, id := range ids {
		if n, err := id.Ordinal(); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// Message is an immutable entry of a chat log.
type Message struct {
	Sender    string
	Content   string
	Timestamp time.Time
}

// Summary is the chat metadata without its message log.
type Summary struct {
	ID           ID
	Name         string
	Owner        string
	Participants []string
}

// IsOwner reports whether username owns the chat.
func (s Summary) IsOwner(username string) bool {
	return s.Owner == username
}

// HasParticipant reports whether username is on the roster.
func (s Summary) HasParticipant(username string) bool {
	return lo.Contains(s.Participants, username)
}

// Chat is a full chat record as persisted.
type Chat struct {
	ID              ID
	Name            string
	Owner           string
	Participants    []string
	Messages        []Message
	LatestTimestamp time.Time
}

// New builds a chat whose roster always contains the owner, without duplicates.
func New(id ID, name, owner string, participants []string, now time.Time) (Chat, error) {
	name, err := ValidateName(name)
	if err != nil {
		return Chat{}, err
	}
	if strings.TrimSpace(owner) == "" {
		return Chat{}, fmt.Errorf("%w: chat owner is empty", errors.ErrInvalidUser)
	}
	roster := lo.Uniq(append([]string{owner}, lo.Compact(participants)...))
	return Chat{
		ID:              id,
		Name:            name,
		Owner:           owner,
		Participants:    roster,
		LatestTimestamp: Truncate(now),
	}, nil
}

func (c Chat) Summary() Summary {
	return Summary{
		ID:           c.ID,
		Name:         c.Name,
		Owner:        c.Owner,
		Participants: append([]string(nil), c.Participants...),
	}
}

// Append adds a message at the end of the log.
// The timestamp never goes backwards so that log order and timestamp order agree.
func (c *Chat) Append(sender, content string, now time.Time) Message {
	ts := Truncate(now)
	if ts.Before(c.LatestTimestamp) {
		ts = c.LatestTimestamp
	}
	msg := Message{Sender: sender, Content: content, Timestamp: ts}
	c.Messages = append(c.Messages, msg)
	c.LatestTimestamp = ts
	return msg
}

// Rename replaces the display name.
func (c *Chat) Rename(name string) error {
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// AddParticipant returns false when username is already on the roster.
func (c *Chat) AddParticipant(username string) bool {
	if lo.Contains(c.Participants, username) {
		return false
	}
	c.Participants = append(c.Participants, username)
	return true
}

func (c *Chat) RemoveParticipant(username string) error {
	if username == c.Owner {
		return errors.ErrCannotRemoveOwner
	}
	if !lo.Contains(c.Participants, username) {
		return fmt.Errorf("%w: participant %q in %s", errors.ErrNotFound, username, c.ID)
	}
	c.Participants = lo.Without(c.Participants, username)
	return nil
}

// Latest returns the latest activity: newest message, or creation time for an empty log.
func (c Chat) Latest() time.Time {
	if n := len(c.Messages); n > 0 && c.Messages[n-1].Timestamp.After(c.LatestTimestamp) {
		return c.Messages[n-1].Timestamp
	}
	return c.LatestTimestamp
}

// ValidateName trims the name and rejects empty or overlong values.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: chat name is empty", errors.ErrInvalidName)
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", fmt.Errorf("%w: %d characters max", errors.ErrNameTooLong, MaxNameLength)
	}
	return trimmed, nil
}

// Truncate drops sub-second precision, the resolution of the stored format.
func Truncate(t time.Time) time.Time {
	return t.Truncate(time.Second)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp as local wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.Local)
}
