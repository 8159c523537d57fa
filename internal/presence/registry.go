package presence

import (
	"sync"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
)

// Conn is the slice of a live connection the registry needs. Production
// passes *websocket.Conn; tests pass fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client ties one live connection to the user who opened it. A user may
// hold many clients at once (several devices or tabs).
type Client struct {
	Conn   Conn
	UserID uint
}

// Registry maps user ids to their live connections. State is process-local
// and rebuilt empty on restart; reconnecting clients re-join. All methods
// are safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	users  map[uint][]*Client
	owners map[*Client]uint
}

func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[uint][]*Client),
		owners: make(map[*Client]uint),
	}
}

// Join subscribes a connection to the user's personal channel and returns
// the handle used to leave later.
func (r *Registry) Join(userID uint, conn Conn) *Client {
	client := &Client{Conn: conn, UserID: userID}
	r.mu.Lock()
	r.users[userID] = append(r.users[userID], client)
	r.owners[client] = userID
	r.mu.Unlock()
	return client
}

// Leave removes exactly that handle. The owning user is resolved from the
// reverse mapping, so callers only need the handle. Unknown handles are a
// no-op, which makes disconnect paths safe to run twice.
func (r *Registry) Leave(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(client)
}

func (r *Registry) removeLocked(client *Client) {
	userID, ok := r.owners[client]
	if !ok {
		return
	}
	delete(r.owners, client)
	clients := r.users[userID]
	for i, c := range clients {
		if c == client {
			r.users[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(r.users[userID]) == 0 {
		delete(r.users, userID)
	}
}

// Publish writes the event to every live connection the user currently
// holds and returns how many were written. No live connections is a no-op,
// not an error: the caller falls back to remote push. A connection whose
// write fails is closed and evicted on the spot.
func (r *Registry) Publish(userID uint, event string, payload interface{}) int {
	envelope := socket.ServerEvent{Event: event, Payload: payload}

	r.mu.Lock()
	defer r.mu.Unlock()

	clients := r.users[userID]
	if len(clients) == 0 {
		return 0
	}

	delivered := 0
	var dead []*Client
	for _, client := range clients {
		if err := client.Conn.WriteJSON(envelope); err != nil {
			logger.Warn("live write failed, evicting connection", "userId", userID, "event", event, "error", err)
			_ = client.Conn.Close()
			dead = append(dead, client)
			continue
		}
		delivered++
	}
	for _, client := range dead {
		r.removeLocked(client)
	}
	return delivered
}

// Connections reports how many live connections the user holds.
func (r *Registry) Connections(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users[userID])
}

// Clear closes every connection and empties the registry. Called on
// shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for client := range r.owners {
		_ = client.Conn.Close()
	}
	r.users = make(map[uint][]*Client)
	r.owners = make(map[*Client]uint)
}
