package socket

import (
	"encoding/json"
)

// SocketEvent is the envelope read off a live connection. Payload stays
// raw until the event name picks the concrete type.
type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ServerEvent is the envelope written to a live connection.
type ServerEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}
