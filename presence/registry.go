package presence

import (
	"sync"

	"signaling-server/core"

	"github.com/sirupsen/logrus"
)

// Registry maps a logical user identity to its live connection. It holds at
// most one connection per identity; a later Register for the same identity
// overwrites the earlier one. Connections are compared by their ID.
type Registry struct {
	mu    sync.RWMutex
	users map[string]core.Connection
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]core.Connection),
	}
}

// Register inserts or overwrites the mapping for identity. It always
// succeeds. An entry for a different identity pointing at the same
// connection is left untouched.
func (r *Registry) Register(identity string, conn core.Connection) {
	r.mu.Lock()
	r.users[identity] = conn
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"user_id":   identity,
		"socket_id": conn.ID(),
	}).Info("Registered user")
}

// Lookup returns the current connection for identity, or false if the
// identity was never registered or has been removed.
func (r *Registry) Lookup(identity string) (core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.users[identity]
	return conn, ok
}

// RemoveByConnection deletes the first entry whose connection matches conn
// and returns the removed identity. If several identities map to the same
// connection (client misuse), only one is removed per call.
func (r *Registry) RemoveByConnection(conn core.Connection) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for identity, registered := range r.users {
		if registered.ID() == conn.ID() {
			delete(r.users, identity)
			return identity, true
		}
	}
	return "", false
}

// Size reports the number of registered identities.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
