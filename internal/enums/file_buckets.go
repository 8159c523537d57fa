package enums

// Object storage buckets.
const (
	FILE_BUCKET_CHAT_ATTACHMENTS = "chat-attachments"
)
