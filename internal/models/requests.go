package models

// Request bodies accepted by the REST surface.

type CreateConversationRequestBody struct {
	ParticipantID uint `json:"participantId" binding:"required"`
}

type SendMessageRequestBody struct {
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
}

type RegisterDeviceRequestBody struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

type UnregisterDeviceRequestBody struct {
	Token string `json:"token" binding:"required"`
}

type AddCommentRequestBody struct {
	Content string `json:"content"`
}
