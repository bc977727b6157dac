package auth

import (
	"sync"

	"github.com/agrisetu/agrisetu-backend/internal/users"
)

// SessionNotifier fans out session transitions to in-process subscribers.
// Login, refresh, and registration deliver the current user; logout delivers
// nil. The composition root owns the notifier and its subscriptions.
type SessionNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(*users.UserDTO)
}

// NewSessionNotifier builds an empty notifier.
func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{subs: map[int]func(*users.UserDTO){}}
}

// Subscribe registers a callback invoked for every session transition.
// The returned function removes the subscription and is safe to call more than once.
func (n *SessionNotifier) Subscribe(fn func(*users.UserDTO)) func() {
	if n == nil || fn == nil {
		return func() {}
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Notify delivers the transition to all current subscribers. A nil user means
// the session ended. A panicking subscriber does not stop delivery to the rest.
func (n *SessionNotifier) Notify(user *users.UserDTO) {
	if n == nil {
		return
	}

	n.mu.Lock()
	callbacks := make([]func(*users.UserDTO), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		func() {
			defer func() { _ = recover() }()
			fn(user)
		}()
	}
}
