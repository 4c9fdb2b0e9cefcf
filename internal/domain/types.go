package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IdeaID is the opaque identifier the backend assigns to an idea
type IdeaID string

// UnmarshalJSON accepts both JSON strings and JSON numbers
func (id *IdeaID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = IdeaID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = IdeaID(n.String())
	return nil
}

func (id IdeaID) String() string { return string(id) }

// Idea is a single entry of the remote collection
type Idea struct {
	ID          IdeaID   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Likes       int      `json:"likes"`
	// CreatedAt is kept as sent; backends disagree on the timestamp layout
	CreatedAt string `json:"created_at,omitempty"`
}

// Validate checks the fields a decoded idea must carry
func (i Idea) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("idea has no id")
	}
	if i.Likes < 0 {
		return fmt.Errorf("idea %s has negative likes: %d", i.ID, i.Likes)
	}
	return nil
}

// NewIdeaRequest is the body sent to create an idea
type NewIdeaRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// MarshalJSON keeps tags an array even when none were given
func (r NewIdeaRequest) MarshalJSON() ([]byte, error) {
	type alias NewIdeaRequest
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return json.Marshal(alias(r))
}

// Ideas is an ordered collection as returned by the backend
type Ideas []Idea

// Validate checks every idea in the collection
func (ideas Ideas) Validate() error {
	for i, idea := range ideas {
		if err := idea.Validate(); err != nil {
			return fmt.Errorf("idea %d: %w", i, err)
		}
	}
	return nil
}
