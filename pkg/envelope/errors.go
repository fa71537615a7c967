package envelope

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error that knows how it should be reported to a client.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
	// Details is sent as the envelope data, e.g. field -> validation message.
	Details map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Status is fail for client errors (4xx) and error for everything else.
func (e *APIError) Status() Status {
	if e.HTTPStatus >= 400 && e.HTTPStatus < 500 {
		return StatusFail
	}
	return StatusError
}

func newAPIError(httpStatus int, code, message string) *APIError {
	if message == "" {
		message = DefaultMessage(code)
	}
	return &APIError{HTTPStatus: httpStatus, Code: code, Message: message}
}

func BadRequest(message string) *APIError {
	return newAPIError(http.StatusBadRequest, CodeBadRequest, message)
}

// Validation reports invalid input with per-field details.
func Validation(message string, details map[string]string) *APIError {
	e := newAPIError(http.StatusBadRequest, CodeValidation, message)
	e.Details = details
	return e
}

func Unauthorized(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return newAPIError(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *APIError {
	return newAPIError(http.StatusNotFound, CodeResourceNotFound, message)
}

func EndpointNotFound(path string) *APIError {
	return newAPIError(http.StatusNotFound, CodeEndpointNotFound, "Endpoint not found: "+path)
}

func MethodNotAllowed(method string) *APIError {
	return newAPIError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "HTTP method not supported: "+method)
}

func Conflict(message string) *APIError {
	return newAPIError(http.StatusConflict, CodeConflict, message)
}

func InsufficientStock(message string) *APIError {
	return newAPIError(http.StatusConflict, CodeInsufficientStock, message)
}

func TooManyRequests() *APIError {
	return newAPIError(http.StatusTooManyRequests, CodeTooManyRequests, "")
}

// Internal hides err behind a generic message; err is kept for logging.
func Internal(err error) *APIError {
	e := newAPIError(http.StatusInternalServerError, CodeUnknown, "")
	e.Err = err
	return e
}

// AsAPIError finds an *APIError in err's chain, or wraps err as Internal.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// ToResponse renders e as an envelope. Validation details travel in data.
func ToResponse(e *APIError) Response[map[string]string] {
	if e.Status() == StatusFail {
		return NewFail(e.Code, e.Message, e.Details)
	}
	resp := NewError[map[string]string](e.Code, e.Message)
	resp.Data = e.Details
	return resp
}
