package enums

// Call kinds relayed between two users. Calls are never persisted.
const (
	CALL_KIND_AUDIO = "audio"
	CALL_KIND_VIDEO = "video"
)
