package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserID is the identity service's user identifier. It decodes from either a JSON string or a JSON number.
type UserID string

// UnmarshalJSON accepts "42" and 42 alike.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) String() string {
	return string(id)
}

// VerifiedUser is the identity returned by the identity service for a valid session token.
type VerifiedUser struct {
	ID       UserID `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}
