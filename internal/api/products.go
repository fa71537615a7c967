package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/models/dtos"
	"quadramall/apienvelope/internal/models/entities"
	"quadramall/apienvelope/pkg/envelope"
)

// ProductCatalog is the service surface the product handlers need.
type ProductCatalog interface {
	List(ctx context.Context, limit, offset int) (*dtos.ProductListResponse, error)
	Get(ctx context.Context, id string) (*dtos.ProductResponse, error)
	Create(ctx context.Context, req dtos.CreateProductReq) (*dtos.ProductResponse, error)
	Update(ctx context.Context, id string, req dtos.UpdateProductReq) (*dtos.ProductResponse, error)
	Delete(ctx context.Context, id string) error
	Reserve(ctx context.Context, id string, req dtos.ReserveStockReq) (*dtos.ProductResponse, error)
	Stats(ctx context.Context) (*entities.ProductStats, error)
}

// ListProductsHandler handles GET /api/v1/products?limit=&offset=
func ListProductsHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		offset, err := queryInt(r, "offset")
		if err != nil {
			common.RespondError(w, r, err)
			return
		}

		list, err := svc.List(r.Context(), limit, offset)
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondOK(w, r, list, constants.MsgProductsListed)
	}
}

// GetProductHandler handles GET /api/v1/products/{id}
func GetProductHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondOK(w, r, p, constants.MsgProductFetched)
	}
}

// CreateProductHandler handles POST /api/v1/products
func CreateProductHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateProductReq
		if err := common.DecodeAndValidate(w, r, &req); err != nil {
			common.RespondError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), req)
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondCreated(w, r, p)
	}
}

// UpdateProductHandler handles PUT /api/v1/products/{id}
func UpdateProductHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateProductReq
		if err := common.DecodeAndValidate(w, r, &req); err != nil {
			common.RespondError(w, r, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondUpdated(w, r, p)
	}
}

// DeleteProductHandler handles DELETE /api/v1/products/{id}
func DeleteProductHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondDeleted(w, r)
	}
}

// ReserveStockHandler handles POST /api/v1/products/{id}/reserve
func ReserveStockHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ReserveStockReq
		if err := common.DecodeAndValidate(w, r, &req); err != nil {
			common.RespondError(w, r, err)
			return
		}

		p, err := svc.Reserve(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondOK(w, r, p, constants.MsgStockReserved)
	}
}

// ProductStatsHandler handles GET /api/v1/products/stats
func ProductStatsHandler(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			common.RespondError(w, r, err)
			return
		}
		common.RespondOK(w, r, stats)
	}
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		msg := name + " must be an integer"
		return 0, envelope.Validation(msg, map[string]string{name: msg})
	}
	return v, nil
}
