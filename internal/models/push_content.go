package models

// PushContent is the remote-push half of a fan-out. Data values must all
// be plain strings so thin clients can branch on the type field without a
// schema library. A zero PushContent skips the remote leg entirely.
type PushContent struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

func (p PushContent) Empty() bool {
	return p.Title == "" && p.Body == ""
}
