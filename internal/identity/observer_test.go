package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateHubNotifiesOnSubscribe(t *testing.T) {
	hub := NewStateHub()
	hub.Set(StateReady)

	var got []State
	hub.Subscribe(func(s State) { got = append(got, s) })

	// New subscribers immediately receive the current state.
	require.Equal(t, []State{StateReady}, got)
}

func TestStateHubNotifiesOnTransition(t *testing.T) {
	hub := NewStateHub()

	var got []State
	hub.Subscribe(func(s State) { got = append(got, s) })

	hub.Set(StateReady)
	hub.Set(StateDegraded)

	require.Equal(t, []State{StateUnknown, StateReady, StateDegraded}, got)
	require.Equal(t, StateDegraded, hub.Current())
}

func TestStateHubSameStateIsNoOp(t *testing.T) {
	hub := NewStateHub()
	hub.Set(StateReady)

	var count int
	hub.Subscribe(func(State) { count++ })
	require.Equal(t, 1, count)

	hub.Set(StateReady)
	require.Equal(t, 1, count)
}

func TestStateHubCancelRemovesListener(t *testing.T) {
	hub := NewStateHub()

	var count int
	cancel := hub.Subscribe(func(State) { count++ })
	require.Equal(t, 1, count)

	cancel()
	cancel() // safe to call twice

	hub.Set(StateReady)
	require.Equal(t, 1, count)
}
