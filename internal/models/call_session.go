package models

// CallSession describes one call attempt while it is being signalled. It
// lives only for the signaling exchange and is never persisted; both ends
// are trusted to converge on the final state themselves.
type CallSession struct {
	CorrelationID  string `json:"correlationId"`
	CallerID       uint   `json:"callerId"`
	CalleeID       uint   `json:"calleeId"`
	ConversationID uint   `json:"conversationId"`
	Kind           string `json:"kind"`
}
