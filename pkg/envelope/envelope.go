package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the wire format of Response.Timestamp (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Now is the clock used to stamp envelopes. Tests may replace it, but a test
// that does must not call t.Parallel and must restore the original.
var Now = func() time.Time { return time.Now() }

// Response is the standard wrapper returned by every endpoint.
type Response[T any] struct {
	Status    Status `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      T      `json:"data"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// wireResponse has Response's fields without its methods, so decoding into it
// does not recurse into UnmarshalJSON.
type wireResponse[T any] Response[T]

// UnmarshalJSON decodes an envelope and rejects it when status is missing or
// outside the closed set.
func (r *Response[T]) UnmarshalJSON(b []byte) error {
	var w wireResponse[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Status.Valid() {
		return &ErrInvalidStatus{Value: string(w.Status)}
	}
	*r = Response[T](w)
	return nil
}

// Timestamp formats t the way envelopes carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewSuccess wraps data in a success envelope.
func NewSuccess[T any](data T, message string) Response[T] {
	return Response[T]{
		Status:    StatusSuccess,
		Message:   message,
		Timestamp: Timestamp(Now()),
		Data:      data,
	}
}

// NewFail builds an envelope for a request the caller got wrong. Data may
// carry details such as per-field validation messages.
func NewFail[T any](code, message string, data T) Response[T] {
	return Response[T]{
		Status:    StatusFail,
		Message:   message,
		Timestamp: Timestamp(Now()),
		Data:      data,
		ErrorCode: code,
	}
}

// NewError builds an envelope for a failure on the server side.
func NewError[T any](code, message string) Response[T] {
	var zero T
	return Response[T]{
		Status:    StatusError,
		Message:   message,
		Timestamp: Timestamp(Now()),
		Data:      zero,
		ErrorCode: code,
	}
}

// IsSuccess reports whether the envelope signals success.
func (r Response[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Time parses the envelope timestamp. RFC 3339 without fixed precision is accepted too.
func (r Response[T]) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse envelope timestamp %q: %w", r.Timestamp, err)
	}
	return t, nil
}

// Validate reports structural problems: an unknown status, or a success
// envelope that still carries an error code.
func (r Response[T]) Validate() error {
	if !r.Status.Valid() {
		return &ErrInvalidStatus{Value: string(r.Status)}
	}
	if r.Status == StatusSuccess && r.ErrorCode != "" {
		return errors.New("success envelope must not carry an errorCode")
	}
	return nil
}

// Err returns nil for success and a *Failure describing the envelope otherwise.
func (r Response[T]) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &Failure{Status: r.Status, Code: r.ErrorCode, Message: r.Message}
}

// Failure is the error form of a non-success envelope.
type Failure struct {
	Status  Status
	Code    string
	Message string
}

func (f *Failure) Error() string {
	switch {
	case f.Code != "" && f.Message != "":
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	case f.Message != "":
		return f.Message
	case f.Code != "":
		return f.Code
	}
	return fmt.Sprintf("request %s", f.Status)
}
