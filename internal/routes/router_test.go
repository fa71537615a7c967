package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quadramall/apienvelope/internal/api"
	"quadramall/apienvelope/internal/auth"
	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/config"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/db/dbtest"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/internal/metrics"
	"quadramall/apienvelope/internal/models/dtos"
	"quadramall/apienvelope/pkg/envelope"
)

type testServer struct {
	handler http.Handler
	tokens  *auth.TokenService
	deps    *api.Dependencies
}

func newTestServer(t *testing.T, rps float64, burst int) *testServer {
	t.Helper()
	logging.SetLogger(zap.NewNop())

	gdb := dbtest.New(t)
	tokens := auth.NewTokenService([]byte("router-test-secret"))
	deps := api.NewDependencies(gdb, dbtest.NewSQLX(t, gdb), common.NewCacheService(60, 120), tokens,
		metrics.NewMetricsRegistry(prometheus.NewRegistry()))

	cfg := &config.Config{RateLimitRPS: rps, RateLimitBurst: burst, CORSOrigins: []string{"http://localhost:3000"}}
	return &testServer{handler: RegisterRoutes(deps, cfg, time.Now()), tokens: tokens, deps: deps}
}

func (s *testServer) token(t *testing.T, role constants.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue("user-1", role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope.Response[json.RawMessage]) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope.Response[json.RawMessage]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	require.NoError(t, env.Validate())
	_, err := env.Time()
	require.NoError(t, err)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	return rr, env
}

func TestRouter_ProductLifecycle(t *testing.T) {
	s := newTestServer(t, 1000, 1000)
	seller := s.token(t, constants.RoleSeller)
	admin := s.token(t, constants.RoleAdmin)

	rr, env := s.do(t, http.MethodPost, "/api/v1/products", seller, dtos.CreateProductReq{
		SKU: "TEA-01", Name: "Green tea", PriceMinor: 45000, Stock: 5,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, envelope.StatusSuccess, env.Status)
	assert.Equal(t, common.MsgCreated, env.Message)
	assert.Empty(t, env.ErrorCode)

	var created dtos.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "TEA-01", created.SKU)

	rr, env = s.do(t, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, constants.MsgProductFetched, env.Message)

	rr, env = s.do(t, http.MethodPost, "/api/v1/products/"+created.ID+"/reserve", seller, dtos.ReserveStockReq{Quantity: 4})
	require.Equal(t, http.StatusOK, rr.Code)
	var reserved dtos.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &reserved))
	assert.Equal(t, 1, reserved.Stock)

	rr, env = s.do(t, http.MethodPost, "/api/v1/products/"+created.ID+"/reserve", seller, dtos.ReserveStockReq{Quantity: 4})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, envelope.StatusFail, env.Status)
	assert.Equal(t, envelope.CodeInsufficientStock, env.ErrorCode)

	rr, env = s.do(t, http.MethodPut, "/api/v1/products/"+created.ID, seller, dtos.UpdateProductReq{
		SKU: "TEA-01", Name: "Green tea 500g", PriceMinor: 52000, Stock: 9,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, common.MsgUpdated, env.Message)

	rr, env = s.do(t, http.MethodGet, "/api/v1/products?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list dtos.ProductListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 1, list.Total)

	rr, env = s.do(t, http.MethodGet, "/api/v1/products/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"totalStock":9`)

	rr, env = s.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, seller, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, envelope.CodeForbidden, env.ErrorCode)

	rr, env = s.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, common.MsgDeleted, env.Message)
	assert.Equal(t, "null", string(env.Data))

	rr, env = s.do(t, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, envelope.CodeResourceNotFound, env.ErrorCode)

	counter := s.deps.Metrics.EnvelopesTotal
	assert.Equal(t, float64(1), testutil.ToFloat64(counter.WithLabelValues("fail", envelope.CodeInsufficientStock)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter.WithLabelValues("success", "")), float64(6))
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	s := newTestServer(t, 1000, 1000)

	rr, env := s.do(t, http.MethodPost, "/api/v1/products", s.token(t, constants.RoleAdmin), map[string]any{
		"sku": "", "name": "Tea", "priceMinor": -1, "stock": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, envelope.StatusFail, env.Status)
	assert.Equal(t, envelope.CodeValidation, env.ErrorCode)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.Contains(t, details, "sku")
	assert.Contains(t, details, "priceMinor")

	rr, env = s.do(t, http.MethodPost, "/api/v1/products", s.token(t, constants.RoleAdmin), map[string]any{
		"sku": "X", "name": "Tea", "priceMinor": 1, "stock": 1, "colour": "red",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, envelope.CodeBadRequest, env.ErrorCode)

	rr, env = s.do(t, http.MethodGet, "/api/v1/products?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, envelope.CodeValidation, env.ErrorCode)
}

func TestRouter_AuthEnvelopes(t *testing.T) {
	s := newTestServer(t, 1000, 1000)
	body := dtos.CreateProductReq{SKU: "A", Name: "Apple", PriceMinor: 1, Stock: 1}

	rr, env := s.do(t, http.MethodPost, "/api/v1/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, envelope.CodeUnauthorized, env.ErrorCode)
	assert.Equal(t, constants.MsgMissingToken, env.Message)

	rr, env = s.do(t, http.MethodPost, "/api/v1/products", "garbage", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, constants.MsgInvalidToken, env.Message)

	rr, env = s.do(t, http.MethodPost, "/api/v1/products", s.token(t, constants.RoleBuyer), body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, envelope.StatusFail, env.Status)
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, 1000, 1000)

	rr, env := s.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, envelope.CodeEndpointNotFound, env.ErrorCode)
	assert.Equal(t, "null", string(env.Data))

	rr, env = s.do(t, http.MethodDelete, "/healthCheck", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, envelope.CodeMethodNotAllowed, env.ErrorCode)
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, 0.001, 2)

	for i := 0; i < 2; i++ {
		rr, _ := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr, env := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, envelope.StatusFail, env.Status)
	assert.Equal(t, envelope.CodeTooManyRequests, env.ErrorCode)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestRouter_HealthCheck(t *testing.T) {
	s := newTestServer(t, 1000, 1000)

	rr, env := s.do(t, http.MethodGet, "/healthCheck", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, constants.MsgHealthy, env.Message)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var health struct {
		Status   string                       `json:"status"`
		Services map[string]map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Services["database"]["status"])
	assert.Equal(t, "ok", health.Services["cache"]["status"])
}

func TestRouter_PanicIsEnvelopedAndCounted(t *testing.T) {
	s := newTestServer(t, 1000, 1000)
	s.handler.(*chi.Mux).Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})

	rr, env := s.do(t, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, envelope.StatusError, env.Status)
	assert.Equal(t, envelope.CodeUnknown, env.ErrorCode)

	requests := s.deps.Metrics.HTTPRequestsTotal.WithLabelValues("/boom", http.MethodGet, "500")
	assert.Equal(t, float64(1), testutil.ToFloat64(requests))
}

func TestRouter_ReserveRequiresAuth(t *testing.T) {
	s := newTestServer(t, 1000, 1000)

	rr, env := s.do(t, http.MethodPost, "/api/v1/products/"+uuid.New().String()+"/reserve", "", dtos.ReserveStockReq{Quantity: 1})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, envelope.CodeUnauthorized, env.ErrorCode)
}
