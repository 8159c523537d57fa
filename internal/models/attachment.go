package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attachment describes one uploaded file referenced by a message.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
}

// To satisfy postgres jsonb data type
type Attachments []Attachment

func (a *Attachments) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for attachments", value)
	}
}

func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}
