package projection

import (
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Apply_Detects_Changes(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	c, err := chat.New("chat_001", "Ops", "alice", []string{"bob"}, at)
	req.NoError(err)

	// Given the first snapshot, it is always rendered
	req.True(timeline.Apply(c))
	// When nothing changed
	req.False(timeline.Apply(c))

	// When a message arrives within the same second
	c.Append("bob", "ping", at)
	req.True(timeline.Apply(c))
	req.Equal(Watermark{Latest: at, Count: 1}, timeline.Watermark())

	// When a later message arrives
	c.Append("alice", "pong", at.Add(time.Second))
	req.True(timeline.Apply(c))

	messages := timeline.Messages()
	req.Len(messages, 2)
	req.Equal("bob", messages[0].Sender)
	req.Equal("alice", messages[1].Sender)
}

func TestTimeline_Changed_Does_Not_Store(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	c, err := chat.New("chat_001", "Ops", "alice", nil, at)
	req.NoError(err)

	req.True(timeline.Changed(c))
	// Checking twice still reports the pending change
	req.True(timeline.Changed(c))

	req.True(timeline.Apply(c))
	req.False(timeline.Changed(c))
}

func TestWatermark_Equal(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	req.True(Watermark{Latest: at, Count: 2}.Equal(Watermark{Latest: at.UTC(), Count: 2}))
	req.False(Watermark{Latest: at, Count: 2}.Equal(Watermark{Latest: at, Count: 3}))
	req.False(Watermark{Latest: at, Count: 2}.Equal(Watermark{Latest: at.Add(time.Second), Count: 2}))
}
