package constants

const (
	GetProductStats = `
		SELECT
			COUNT(*) AS product_count,
			COALESCE(SUM(stock), 0) AS total_stock,
			COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock
		FROM products`
)
