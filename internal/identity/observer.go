package identity

import "sync"

// State describes the verifier's availability as seen by the rest of the
// process.
type State string

const (
	StateUnknown  State = "unknown"
	StateReady    State = "ready"
	StateDegraded State = "degraded"
)

// StateListener receives identity-state transitions.
type StateListener func(State)

// StateHub is an observer registry for identity-state changes.
//
// Contract: Subscribe synchronously delivers the current state to the new
// listener before returning, so subscribers never have to race an initial
// Set to learn where things stand. The returned cancel func removes the
// listener and is safe to call more than once.
type StateHub struct {
	mu        sync.Mutex
	state     State
	listeners map[int]StateListener
	nextID    int
}

func NewStateHub() *StateHub {
	return &StateHub{
		state:     StateUnknown,
		listeners: make(map[int]StateListener),
	}
}

func (h *StateHub) Subscribe(fn StateListener) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	current := h.state
	h.mu.Unlock()

	// Notify outside the lock; listeners may call back into the hub.
	fn(current)

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Set transitions to a new state and notifies every listener.
// Setting the current state again is a no-op.
func (h *StateHub) Set(s State) {
	h.mu.Lock()
	if h.state == s {
		h.mu.Unlock()
		return
	}
	h.state = s
	notify := make([]StateListener, 0, len(h.listeners))
	for _, fn := range h.listeners {
		notify = append(notify, fn)
	}
	h.mu.Unlock()

	for _, fn := range notify {
		fn(s)
	}
}

func (h *StateHub) Current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}
