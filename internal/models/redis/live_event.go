package redis

// LiveEvent is the envelope published on the live-events channel so every
// process delivers the event to its own local sockets. Origin identifies
// the publishing process; subscribers skip their own messages because the
// publisher already wrote to its local connections.
type LiveEvent struct {
	Origin  string      `json:"origin"`
	UserID  uint        `json:"userId"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

const REDIS_CHANNEL_LIVE_EVENTS = "live_events"
