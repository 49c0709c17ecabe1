package models

import (
	"time"
)

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

type Order struct {
	ID           int       `json:"id"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
	// Price is the unit price captured when the order was placed, not the
	// product's live price.
	Price       float64 `json:"price"`
	ProductName string  `json:"product_name"` // For display convenience
}

// OrderWithItems bundles an order with its line items for the history page.
type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// ProductSales is one row of the per-product sold-quantity aggregation.
type ProductSales struct {
	Name string `json:"name"`
	Sold int    `json:"sold"`
}
