package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alextreichler/grocerycart/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// InsertProduct adds a new product row. Values are taken as given; the admin
// form does no validation beyond type coercion.
func (s *Store) InsertProduct(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (name, category, price, stock) VALUES (?, ?, ?, ?)`
	res, err := s.DB.ExecContext(ctx, query, p.Name, p.Category, p.Price, p.Stock)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, COALESCE(category, '') as category, price, stock FROM products ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT id, name, COALESCE(category, '') as category, price, stock FROM products WHERE id = ?`
	var p models.Product
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}
