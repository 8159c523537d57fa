package enums

// Server -> client live events, delivered on the recipient's personal room.
const (
	SOCKET_EVENT_NEW_MESSAGE    = "message:new"
	SOCKET_EVENT_TYPING         = "chat:typing"
	SOCKET_EVENT_STOP_TYPING    = "chat:stopTyping"
	SOCKET_EVENT_CALL_INCOMING  = "call:incoming"
	SOCKET_EVENT_CALL_ACCEPTED  = "call:accepted"
	SOCKET_EVENT_CALL_ENDED     = "call:ended"
	SOCKET_EVENT_CALL_END       = "call:end" // legacy alias, emitted alongside call:ended
	SOCKET_EVENT_POST_LIKED     = "like_post_notification"
	SOCKET_EVENT_POST_COMMENTED = "post_comment_notification"
	SOCKET_EVENT_REEL_LIKED     = "reel_like_notification"
	SOCKET_EVENT_REEL_COMMENTED = "reel_comment_notification"
	SOCKET_EVENT_BOOKING_STATUS = "booking_status_notification"
)

// Client -> server events read off the socket gateway.
const (
	SOCKET_EVENT_SEND_TYPING      = "chat:typing"
	SOCKET_EVENT_SEND_STOP_TYPING = "chat:stopTyping"
	SOCKET_EVENT_CALL_INITIATE    = "call:initiate"
	SOCKET_EVENT_CALL_ACCEPT      = "call:accept"
	SOCKET_EVENT_CALL_HANGUP      = "call:end"
)
