package store

import (
	"context"

	"github.com/alextreichler/grocerycart/internal/models"
)

// SumSoldByProduct aggregates total sold quantity per product name across all
// orders, for the analytics chart.
func (s *Store) SumSoldByProduct(ctx context.Context) ([]models.ProductSales, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.name, SUM(oi.qty) as sold
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.name
		ORDER BY p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.ProductSales
	for rows.Next() {
		var ps models.ProductSales
		if err := rows.Scan(&ps.Name, &ps.Sold); err != nil {
			return nil, err
		}
		sales = append(sales, ps)
	}
	return sales, rows.Err()
}
