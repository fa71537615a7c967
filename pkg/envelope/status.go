package envelope

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome carried by every response envelope.
// The value space is closed: success, fail and error.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// ErrInvalidStatus is returned when a status outside the closed set is seen.
type ErrInvalidStatus struct {
	Value string
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("invalid envelope status %q", e.Value)
}

// Valid reports whether s is one of the three permitted values.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFail, StatusError:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus converts raw text into a Status, rejecting anything else.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ErrInvalidStatus{Value: raw}
	}
	return s, nil
}

// MarshalJSON refuses to put an unknown status on the wire.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, &ErrInvalidStatus{Value: string(s)}
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON rejects envelopes whose status is outside the closed set.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("envelope status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
