package dtos

import (
	"time"

	gormModels "quadramall/apienvelope/internal/models/gorm"
)

type CreateProductReq struct {
	SKU        string `json:"sku" validate:"required,max=64"`
	Name       string `json:"name" validate:"required,min=2,max=200"`
	PriceMinor int64  `json:"priceMinor" validate:"gt=0"`
	Stock      int    `json:"stock" validate:"gte=0"`
}

type UpdateProductReq struct {
	SKU        string `json:"sku" validate:"required,max=64"`
	Name       string `json:"name" validate:"required,min=2,max=200"`
	PriceMinor int64  `json:"priceMinor" validate:"gt=0"`
	Stock      int    `json:"stock" validate:"gte=0"`
}

type ReserveStockReq struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=1000"`
}

type ProductResponse struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	PriceMinor int64     `json:"priceMinor"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func NewProductResponse(p *gormModels.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		PriceMinor: p.PriceMinor,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
