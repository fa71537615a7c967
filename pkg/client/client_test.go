package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadramall/apienvelope/pkg/envelope"
)

type product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func writeJSON(t *testing.T, w http.ResponseWriter, code int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, envelope.NewSuccess(product{ID: "p1", Name: "Lamp"}, "Product fetched"))
	}))
	defer srv.Close()

	resp, err := Get[product](context.Background(), New(srv.URL, "tok"), "/api/v1/products/p1")
	require.NoError(t, err)
	assert.Equal(t, envelope.StatusSuccess, resp.Status)
	assert.Equal(t, "Lamp", ExtractData(resp).Name)
	assert.Equal(t, "Product fetched", ExtractMessage(resp))
	assert.NotEmpty(t, resp.Timestamp)
}

func TestPost_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "p2"
		writeJSON(t, w, http.StatusCreated, envelope.NewSuccess(in, ""))
	}))
	defer srv.Close()

	resp, err := Post[product](context.Background(), New(srv.URL, ""), "/products", product{Name: "Cup"})
	require.NoError(t, err)
	assert.Equal(t, "p2", resp.Data.ID)
	assert.Equal(t, "Success", ExtractMessage(resp))
}

func TestDelete_NullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, envelope.NewSuccess[any](nil, "Deleted successfully"))
	}))
	defer srv.Close()

	resp, err := Delete[*product](context.Background(), New(srv.URL, ""), "/products/p1")
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
}

func TestFailEnvelope_BecomesResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := envelope.ToResponse(envelope.Validation("sku is required", map[string]string{"sku": "sku is required"}))
		writeJSON(t, w, http.StatusBadRequest, body)
	}))
	defer srv.Close()

	_, err := Post[product](context.Background(), New(srv.URL, ""), "/products", product{})
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadRequest, respErr.HTTPStatus)
	assert.Equal(t, envelope.StatusFail, respErr.Status)
	assert.Equal(t, envelope.CodeValidation, respErr.Code)
	assert.Equal(t, "VALIDATION_ERROR: sku is required", respErr.Error())
	assert.Equal(t, map[string]string{"sku": "sku is required"}, respErr.Details())
}

func TestErrorEnvelope_BecomesResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, envelope.NewError[any](envelope.CodeUnknown, "Internal server error"))
	}))
	defer srv.Close()

	_, err := Get[product](context.Background(), New(srv.URL, ""), "/boom")

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, envelope.StatusError, respErr.Status)
	assert.Nil(t, respErr.Details())
}

func TestNonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := Get[product](context.Background(), New(srv.URL, ""), "/")

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, CodeInvalidEnvelope, respErr.Code)
	assert.Equal(t, http.StatusBadGateway, respErr.HTTPStatus)
	assert.NotNil(t, errors.Unwrap(respErr))
}

func TestUnknownStatusRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","message":"hi","timestamp":"2024-01-01T00:00:00.000Z","data":null}`))
	}))
	defer srv.Close()

	_, err := Get[product](context.Background(), New(srv.URL, ""), "/")

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, CodeInvalidEnvelope, respErr.Code)
}

func TestMissingStatusRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"hi","data":{"id":"p1"}}`))
	}))
	defer srv.Close()

	_, err := Get[product](context.Background(), New(srv.URL, ""), "/")

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, CodeInvalidEnvelope, respErr.Code)

	var invalid *envelope.ErrInvalidStatus
	assert.ErrorAs(t, err, &invalid)
}

func TestResponseError_Message(t *testing.T) {
	assert.Equal(t, "request failed", (&ResponseError{}).Error())
	assert.Equal(t, "Nope", (&ResponseError{Message: "Nope"}).Error())
	assert.Equal(t, "CONFLICT: Duplicate", (&ResponseError{Code: "CONFLICT", Message: "Duplicate"}).Error())
}

func TestExtractHelpers_NilSafe(t *testing.T) {
	var resp *envelope.Response[product]
	assert.Equal(t, product{}, ExtractData(resp))
	assert.Equal(t, "Success", ExtractMessage(resp))
}
