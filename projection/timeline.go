// Package projection builds the local view of a chat from polled snapshots.
// Handles change detection through a watermark.
// Does not read the store or write to the console.
package projection

import (
	"sync"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
)

// Watermark marks the last rendered state of a chat.
// The message count is part of it because timestamps only have second resolution.
type Watermark struct {
	Latest time.Time
	Count  int
}

func (w Watermark) Equal(other Watermark) bool {
	return w.Count == other.Count && w.Latest.Equal(other.Latest)
}

func WatermarkOf(c chat.Chat) Watermark {
	return Watermark{Latest: c.Latest(), Count: len(c.Messages)}
}

// Timeline holds the last snapshot shown to the viewer.
type Timeline struct {
	mu       sync.Mutex
	snapshot chat.Chat
	mark     Watermark
	applied  bool
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Apply stores the snapshot and reports whether it differs from the previous one.
// The first snapshot always counts as a change.
func (t *Timeline) Apply(snapshot chat.Chat) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	mark := WatermarkOf(snapshot)
	if t.applied && mark.Equal(t.mark) {
		return false
	}
	t.snapshot = snapshot
	t.mark = mark
	t.applied = true
	return true
}

// Changed reports whether Apply would accept snapshot, without storing it.
func (t *Timeline) Changed(snapshot chat.Chat) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.applied || !WatermarkOf(snapshot).Equal(t.mark)
}

func (t *Timeline) Watermark() Watermark {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mark
}

func (t *Timeline) Messages() []chat.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]chat.Message(nil), t.snapshot.Messages...)
}
