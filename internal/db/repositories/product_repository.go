package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	gormModels "quadramall/apienvelope/internal/models/gorm"
)

var (
	// ErrDuplicateSKU is returned when a create or update collides on sku.
	ErrDuplicateSKU = errors.New("duplicate sku")
	// ErrInsufficientStock is returned when a reservation exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository handles products table operations using GORM
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns nil, nil when the product does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*gormModels.Product, error) {
	var p gormModels.Product

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	return &p, nil
}

// List returns one page ordered by creation time and the total row count.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]gormModels.Product, int64, error) {
	var (
		products []gormModels.Product
		total    int64
	)

	if err := r.db.WithContext(ctx).Model(&gormModels.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *gormModels.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the mutable columns. It returns false if no row matched.
func (r *ProductRepository) Update(ctx context.Context, p *gormModels.Product) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"sku":         p.SKU,
			"name":        p.Name,
			"price_minor": p.PriceMinor,
			"stock":       p.Stock,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, ErrDuplicateSKU
		}
		return false, fmt.Errorf("failed to update product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete returns false if no row matched.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Product{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Reserve decrements stock by quantity in a single conditional UPDATE so
// concurrent reservations cannot oversell. It returns the product after the
// change, nil if it does not exist, or ErrInsufficientStock.
func (r *ProductRepository) Reserve(ctx context.Context, id string, quantity int) (*gormModels.Product, error) {
	var out *gormModels.Product

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&gormModels.Product{}).
			Where("id = ? AND stock >= ?", id, quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve stock: %w", res.Error)
		}

		var p gormModels.Product
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to fetch product: %w", err)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
