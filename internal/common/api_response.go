package common

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/pkg/envelope"
)

const (
	MsgSuccess = "Success"
	MsgCreated = "Created successfully"
	MsgUpdated = "Updated successfully"
	MsgDeleted = "Deleted successfully"
)

var envelopesTotal atomic.Pointer[prometheus.CounterVec]

// SetEnvelopeCounter wires the counter incremented for every envelope written.
// Passing nil disables counting. Safe to call while requests are in flight.
func SetEnvelopeCounter(c *prometheus.CounterVec) {
	envelopesTotal.Store(c)
}

// RespondOK sends a 200 success envelope.
func RespondOK[T any](w http.ResponseWriter, r *http.Request, data T, message ...string) {
	writeEnvelope(w, r, http.StatusOK, envelope.NewSuccess(data, pick(message, MsgSuccess)))
}

// RespondCreated sends a 201 success envelope.
func RespondCreated[T any](w http.ResponseWriter, r *http.Request, data T, message ...string) {
	writeEnvelope(w, r, http.StatusCreated, envelope.NewSuccess(data, pick(message, MsgCreated)))
}

// RespondUpdated sends a 200 success envelope with the updated resource.
func RespondUpdated[T any](w http.ResponseWriter, r *http.Request, data T, message ...string) {
	writeEnvelope(w, r, http.StatusOK, envelope.NewSuccess(data, pick(message, MsgUpdated)))
}

// RespondDeleted sends a 200 success envelope with null data.
func RespondDeleted(w http.ResponseWriter, r *http.Request, message ...string) {
	writeEnvelope[any](w, r, http.StatusOK, envelope.NewSuccess[any](nil, pick(message, MsgDeleted)))
}

// RespondError maps err onto an envelope. Anything that is not an
// *envelope.APIError is reported as a 500 with a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := envelope.AsAPIError(err)
	if apiErr.Status() == envelope.StatusError {
		logging.FromContext(r.Context()).Errorw("Request failed",
			"error_code", apiErr.Code,
			"error", apiErr.Error(),
		)
	}
	writeEnvelope(w, r, apiErr.HTTPStatus, envelope.ToResponse(apiErr))
}

// RespondEnvelope writes a prebuilt envelope with the given HTTP status.
func RespondEnvelope[T any](w http.ResponseWriter, r *http.Request, code int, body envelope.Response[T]) {
	writeEnvelope(w, r, code, body)
}

// writeEnvelope encodes before writing headers so an encode failure can still
// be reported as an error envelope.
func writeEnvelope[T any](w http.ResponseWriter, r *http.Request, code int, body envelope.Response[T]) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logging.FromContext(r.Context()).Errorw("JSON encode failed", "error", err.Error())
		fallback := envelope.NewError[any](envelope.CodeUnknown, envelope.DefaultMessage(envelope.CodeUnknown))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(fallback)
		code = http.StatusInternalServerError
		body = envelope.Response[T]{Status: fallback.Status, ErrorCode: fallback.ErrorCode}
	}

	if counter := envelopesTotal.Load(); counter != nil {
		counter.WithLabelValues(string(body.Status), body.ErrorCode).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).Warnw("Response write failed", "error", err.Error())
	}
}

func pick(message []string, fallback string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return fallback
}
