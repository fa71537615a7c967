package gorm

import "time"

type Product struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid"`
	SKU        string    `gorm:"column:sku;uniqueIndex;not null"`
	Name       string    `gorm:"column:name;not null"`
	PriceMinor int64     `gorm:"column:price_minor;not null"`
	Stock      int       `gorm:"column:stock;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}
