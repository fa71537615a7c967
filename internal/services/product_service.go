package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/internal/db/repositories"
	"quadramall/apienvelope/internal/logging"
	"quadramall/apienvelope/internal/metrics"
	"quadramall/apienvelope/internal/models/dtos"
	"quadramall/apienvelope/internal/models/entities"
	gormModels "quadramall/apienvelope/internal/models/gorm"
	"quadramall/apienvelope/pkg/envelope"
)

// ProductService holds the catalog rules. Every error it returns is an
// *envelope.APIError so handlers can hand it straight to RespondError.
type ProductService struct {
	repo    *repositories.ProductRepository
	stats   *repositories.ProductStatsRepo
	loader  *common.Loader
	metrics *metrics.MetricsRegistry
}

func NewProductService(repo *repositories.ProductRepository, stats *repositories.ProductStatsRepo, loader *common.Loader, m *metrics.MetricsRegistry) *ProductService {
	return &ProductService{repo: repo, stats: stats, loader: loader, metrics: m}
}

func (s *ProductService) List(ctx context.Context, limit, offset int) (*dtos.ProductListResponse, error) {
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	if offset < 0 {
		return nil, envelope.Validation("offset must be greater than or equal to 0", map[string]string{
			"offset": "offset must be greater than or equal to 0",
		})
	}

	products, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, envelope.Internal(err)
	}

	items := make([]dtos.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dtos.NewProductResponse(&products[i]))
	}

	return &dtos.ProductListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*dtos.ProductResponse, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	resp, err := common.Remember(ctx, s.loader, string(constants.CachePrefixProduct), constants.CachePrefixProduct.Key(id), constants.ProductCacheTTL,
		func(ctx context.Context) (*dtos.ProductResponse, error) {
			p, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, envelope.Internal(err)
			}
			if p == nil {
				return nil, envelope.NotFound(constants.MsgProductNotFound)
			}
			out := dtos.NewProductResponse(p)
			return &out, nil
		})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ProductService) Create(ctx context.Context, req dtos.CreateProductReq) (*dtos.ProductResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	p := &gormModels.Product{
		ID:         uuid.New().String(),
		SKU:        req.SKU,
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidate(ctx, "")

	logging.FromContext(ctx).Infow("Product created", "product_id", p.ID, "sku", p.SKU)
	out := dtos.NewProductResponse(p)
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req dtos.UpdateProductReq) (*dtos.ProductResponse, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	ok, err := s.repo.Update(ctx, &gormModels.Product{
		ID:         id,
		SKU:        req.SKU,
		Name:       req.Name,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !ok {
		return nil, envelope.NotFound(constants.MsgProductNotFound)
	}
	s.invalidate(ctx, id)

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, envelope.Internal(err)
	}
	if p == nil {
		return nil, envelope.NotFound(constants.MsgProductNotFound)
	}
	out := dtos.NewProductResponse(p)
	return &out, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return envelope.Internal(err)
	}
	if !ok {
		return envelope.NotFound(constants.MsgProductNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) Reserve(ctx context.Context, id string, req dtos.ReserveStockReq) (*dtos.ProductResponse, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Reserve(ctx, id, req.Quantity)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if p == nil {
		return nil, envelope.NotFound(constants.MsgProductNotFound)
	}
	s.invalidate(ctx, id)
	if s.metrics != nil {
		s.metrics.StockReservedTotal.Add(float64(req.Quantity))
	}

	out := dtos.NewProductResponse(p)
	return &out, nil
}

func (s *ProductService) Stats(ctx context.Context) (*entities.ProductStats, error) {
	return common.Remember(ctx, s.loader, string(constants.CachePrefixStats), string(constants.CachePrefixStats), constants.StatsCacheTTL,
		func(ctx context.Context) (*entities.ProductStats, error) {
			stats, err := s.stats.Get(ctx)
			if err != nil {
				return nil, envelope.Internal(err)
			}
			return stats, nil
		})
}

// RefreshStats recomputes the stats snapshot and replaces the cached copy.
func (s *ProductService) RefreshStats(ctx context.Context) error {
	err := common.Refresh(ctx, s.loader, string(constants.CachePrefixStats), constants.StatsCacheTTL, s.stats.Get)
	if err != nil {
		return fmt.Errorf("refresh stats: %w", err)
	}
	return nil
}

// invalidate drops the cached product (if id is set) and the stats snapshot.
func (s *ProductService) invalidate(ctx context.Context, id string) {
	if id != "" {
		s.loader.Invalidate(ctx, constants.CachePrefixProduct.Key(id))
	}
	s.loader.Invalidate(ctx, string(constants.CachePrefixStats))
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return envelope.Validation(constants.MsgInvalidProductID, map[string]string{"id": constants.MsgInvalidProductID})
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateSKU):
		return envelope.Conflict(constants.MsgDuplicateSKU)
	case errors.Is(err, repositories.ErrInsufficientStock):
		return envelope.InsufficientStock("")
	default:
		return envelope.Internal(fmt.Errorf("catalog: %w", err))
	}
}
