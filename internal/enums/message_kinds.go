package enums

import "strings"

// Message content kinds. When a message carries attachments the kind is
// derived from the first attachment's MIME type, otherwise it is text.
const (
	MESSAGE_KIND_TEXT  = "text"
	MESSAGE_KIND_IMAGE = "image"
	MESSAGE_KIND_VIDEO = "video"
	MESSAGE_KIND_AUDIO = "audio"
	MESSAGE_KIND_FILE  = "file"
)

func MessageKindFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MESSAGE_KIND_IMAGE
	case strings.HasPrefix(mimeType, "video/"):
		return MESSAGE_KIND_VIDEO
	case strings.HasPrefix(mimeType, "audio/"):
		return MESSAGE_KIND_AUDIO
	default:
		return MESSAGE_KIND_FILE
	}
}
