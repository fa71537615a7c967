package api

import (
	"context"
	"net/http"
	"time"

	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/models/entities"
	"quadramall/apienvelope/pkg/envelope"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck. A degraded service yields a
// 503 error envelope whose data still carries the per-service report.
func HealthCheckHandler(checks map[string]Pinger, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus, len(checks))
		overallStatus := "ok"
		for name, check := range checks {
			status := entities.ServiceStatus{Status: "ok", Details: "connected"}
			if err := check.Ping(ctx); err != nil {
				status = entities.ServiceStatus{Status: "down", Details: err.Error()}
				overallStatus = "down"
			}
			services[name] = status
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		if overallStatus != "ok" {
			body := envelope.NewError[entities.HealthCheckResponse](envelope.CodeUnavailable, constants.MsgDegraded)
			body.Data = resp
			common.RespondEnvelope(w, r, http.StatusServiceUnavailable, body)
			return
		}
		common.RespondOK(w, r, resp, constants.MsgHealthy)
	}
}
