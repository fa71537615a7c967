// Package client consumes envelope-shaped HTTP APIs and hands back typed
// payloads. Any envelope whose status is not success is returned as a
// *ResponseError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quadramall/apienvelope/pkg/envelope"
)

// CodeInvalidEnvelope marks a response body that is not a valid envelope.
const CodeInvalidEnvelope = "INVALID_ENVELOPE"

const defaultMessage = "Success"

// ResponseError is a non-success envelope, or a response that could not be
// read as one.
type ResponseError struct {
	HTTPStatus int
	Status     envelope.Status
	Code       string
	Message    string
	Data       json.RawMessage
	Err        error
}

func (e *ResponseError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return e.Code + ": " + e.Message
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return "request failed"
	}
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Details decodes the error payload, typically a field -> message map for
// VALIDATION_ERROR.
func (e *ResponseError) Details() map[string]string {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	var details map[string]string
	if err := json.Unmarshal(e.Data, &details); err != nil {
		return nil
	}
	return details
}

// Client talks to one API. Token, when set, is sent as a bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Get performs a GET and decodes the envelope's data into T.
func Get[T any](ctx context.Context, c *Client, path string) (*envelope.Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

// Post sends payload as JSON and decodes the envelope's data into T.
func Post[T any](ctx context.Context, c *Client, path string, payload any) (*envelope.Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, payload)
}

// Put sends payload as JSON and decodes the envelope's data into T.
func Put[T any](ctx context.Context, c *Client, path string, payload any) (*envelope.Response[T], error) {
	return do[T](ctx, c, http.MethodPut, path, payload)
}

// Delete performs a DELETE and decodes the envelope's data into T.
func Delete[T any](ctx context.Context, c *Client, path string) (*envelope.Response[T], error) {
	return do[T](ctx, c, http.MethodDelete, path, nil)
}

// ExtractData returns the payload of a success envelope, or the zero value.
func ExtractData[T any](resp *envelope.Response[T]) T {
	var zero T
	if resp == nil || !resp.IsSuccess() {
		return zero
	}
	return resp.Data
}

// ExtractMessage returns the envelope message, defaulting to "Success".
func ExtractMessage[T any](resp *envelope.Response[T]) string {
	if resp == nil || resp.Message == "" {
		return defaultMessage
	}
	return resp.Message
}

func do[T any](ctx context.Context, c *Client, method, path string, payload any) (*envelope.Response[T], error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, invalidEnvelope(resp.StatusCode, "Failed to read response", err)
	}
	return decode[T](resp.StatusCode, raw)
}

func decode[T any](httpStatus int, raw []byte) (*envelope.Response[T], error) {
	var env envelope.Response[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, invalidEnvelope(httpStatus, "Response is not an envelope", err)
	}

	if !env.IsSuccess() {
		return nil, &ResponseError{
			HTTPStatus: httpStatus,
			Status:     env.Status,
			Code:       env.ErrorCode,
			Message:    env.Message,
			Data:       env.Data,
		}
	}

	out := &envelope.Response[T]{
		Status:    env.Status,
		Message:   env.Message,
		Timestamp: env.Timestamp,
		ErrorCode: env.ErrorCode,
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out.Data); err != nil {
			return nil, invalidEnvelope(httpStatus, "Unexpected data shape", err)
		}
	}
	return out, nil
}

func invalidEnvelope(httpStatus int, msg string, err error) *ResponseError {
	return &ResponseError{
		HTTPStatus: httpStatus,
		Status:     envelope.StatusError,
		Code:       CodeInvalidEnvelope,
		Message:    msg,
		Err:        err,
	}
}
