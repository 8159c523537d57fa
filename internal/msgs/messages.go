package msgs

const (
	MsgOperationFailed     = "Operation failed"
	MsgOperationSuccessful = "Operation successful"
	MsgYouMustLoginFirst   = "You must login first"

	MsgConversationCreated   = "Conversation created successfully"
	MsgMessageSent           = "Message sent successfully"
	MsgMessagesMarkedSeen    = "Messages marked as seen"
	MsgNotificationsRead     = "Notifications marked as read"
	MsgNotificationDeleted   = "Notification deleted successfully"
	MsgDeviceRegistered      = "Device registered successfully"
	MsgDeviceUnregistered    = "Device unregistered successfully"
	MsgDeduplicationFinished = "Conversation deduplication finished"
)
