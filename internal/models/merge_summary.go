package models

// MergeSummary reports one deduplication run.
type MergeSummary struct {
	GroupsMerged         int   `json:"groupsMerged"`
	ConversationsRemoved int   `json:"conversationsRemoved"`
	MessagesMoved        int64 `json:"messagesMoved"`
	GroupsFailed         int   `json:"groupsFailed"`
}
