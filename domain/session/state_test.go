package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachine_Starts_Idle(t *testing.T) {
	req := require.New(t)
	m := NewMachine()
	req.Equal(Idle, m.Current())
	req.Equal("idle", m.Current().String())
}

func TestMachine_Transition_Requires_Source_State(t *testing.T) {
	req := require.New(t)
	m := NewMachine()

	req.True(m.Transition(Idle, Rendering))
	// Given the input task took over while rendering
	req.True(m.Set(AwaitingCommand))
	// Then the reader cannot put the session back to idle
	req.False(m.Transition(Rendering, Idle))
	req.Equal(AwaitingCommand, m.Current())
}

func TestMachine_Closed_Is_Terminal(t *testing.T) {
	req := require.New(t)
	m := NewMachine()

	req.True(m.Close())
	req.False(m.Close())
	req.False(m.Set(Sending))
	req.False(m.Transition(Closed, Idle))
	req.Equal(Closed, m.Current())
}

func TestMachine_Only_One_Closer(t *testing.T) {
	req := require.New(t)
	m := NewMachine()

	var wg sync.WaitGroup
	var mu sync.Mutex
	closers := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Close() {
				mu.Lock()
				closers++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	req.Equal(1, closers)
}
