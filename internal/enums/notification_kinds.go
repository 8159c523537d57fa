package enums

// Notification kinds form a closed set. Records carrying any other value are
// rejected before they reach the ledger.
const (
	NOTIFICATION_KIND_SIGNUP_WELCOME    = "signup_welcome"
	NOTIFICATION_KIND_ACCOUNT_APPROVED  = "account_approved"
	NOTIFICATION_KIND_BOOKING_CREATED   = "booking_created"
	NOTIFICATION_KIND_BOOKING_ACCEPTED  = "booking_accepted"
	NOTIFICATION_KIND_BOOKING_CANCELLED = "booking_cancelled"
	NOTIFICATION_KIND_BOOKING_COMPLETED = "booking_completed"
	NOTIFICATION_KIND_POST_LIKED        = "post_liked"
	NOTIFICATION_KIND_POST_COMMENTED    = "post_commented"
	NOTIFICATION_KIND_REEL_LIKED        = "reel_liked"
	NOTIFICATION_KIND_REEL_COMMENTED    = "reel_commented"
	NOTIFICATION_KIND_MESSAGE_RECEIVED  = "message_received"
	NOTIFICATION_KIND_CALL_MISSED       = "call_missed"
)

var notificationKinds = map[string]bool{
	NOTIFICATION_KIND_SIGNUP_WELCOME:    true,
	NOTIFICATION_KIND_ACCOUNT_APPROVED:  true,
	NOTIFICATION_KIND_BOOKING_CREATED:   true,
	NOTIFICATION_KIND_BOOKING_ACCEPTED:  true,
	NOTIFICATION_KIND_BOOKING_CANCELLED: true,
	NOTIFICATION_KIND_BOOKING_COMPLETED: true,
	NOTIFICATION_KIND_POST_LIKED:        true,
	NOTIFICATION_KIND_POST_COMMENTED:    true,
	NOTIFICATION_KIND_REEL_LIKED:        true,
	NOTIFICATION_KIND_REEL_COMMENTED:    true,
	NOTIFICATION_KIND_MESSAGE_RECEIVED:  true,
	NOTIFICATION_KIND_CALL_MISSED:       true,
}

func IsValidNotificationKind(kind string) bool {
	return notificationKinds[kind]
}
