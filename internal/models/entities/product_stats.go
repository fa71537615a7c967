package entities

type ProductStats struct {
	ProductCount int64 `db:"product_count" json:"productCount"`
	TotalStock   int64 `db:"total_stock" json:"totalStock"`
	OutOfStock   int64 `db:"out_of_stock" json:"outOfStock"`
}
