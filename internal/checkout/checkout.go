// Package checkout converts a session's cart into a durable order with a
// consistent stock decrement, or fails leaving all state unchanged.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/alextreichler/grocerycart/internal/cart"
	"github.com/alextreichler/grocerycart/internal/models"
	"github.com/alextreichler/grocerycart/internal/store"
)

// ErrEmptyCart signals a checkout attempt with nothing in the cart. It is a
// precondition failure, not an order failure; callers redirect to the listing.
var ErrEmptyCart = errors.New("cart is empty")

// OutOfStockError rejects a single add-to-cart whose quantity exceeds current
// stock. It is a courtesy check only; stock may still drop before checkout,
// which is why PlaceOrder revalidates independently.
type OutOfStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("requested %d of %s but only %d available", e.Requested, e.ProductName, e.Available)
}

// Storage is the slice of the relational store the workflow needs.
type Storage interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (int64, error)
}

type Service struct {
	store Storage
	carts *cart.Manager
}

func New(storage Storage, carts *cart.Manager) *Service {
	return &Service{store: storage, carts: carts}
}

// AddToCart adds qty units of a product after checking the request against
// current stock. Unknown products surface store.ErrProductNotFound.
func (s *Service) AddToCart(ctx context.Context, sessionID string, productID, qty int) error {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Stock {
		return &OutOfStockError{ProductName: p.Name, Requested: qty, Available: p.Stock}
	}
	return s.carts.Add(ctx, sessionID, strconv.Itoa(productID), qty)
}

// CartLine is one row of the rendered cart, with the subtotal precomputed.
type CartLine struct {
	ProductID string
	Name      string
	Price     float64
	Qty       int
	Subtotal  float64
}

// CartContents resolves the cart against live products for display. Entries
// whose product has vanished are skipped, matching PlaceOrder's lenience.
func (s *Service) CartContents(ctx context.Context, sessionID string) ([]CartLine, float64, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	var lines []CartLine
	total := decimal.Zero
	for _, pid := range sortedIDs(c) {
		qty := c[pid]
		p, err := s.lookup(ctx, pid)
		if err != nil {
			return nil, 0, err
		}
		if p == nil {
			continue
		}
		subtotal := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(subtotal)
		lines = append(lines, CartLine{
			ProductID: pid,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       qty,
			Subtotal:  subtotal.InexactFloat64(),
		})
	}
	return lines, total.InexactFloat64(), nil
}

// PlaceOrder turns the session's cart into an order:
//
//  1. An empty cart fails with ErrEmptyCart.
//  2. Entries whose product no longer exists are skipped silently; the product
//     may have been removed since it was added to the cart.
//  3. A quantity exceeding current stock fails the whole order with
//     *store.InsufficientStockError; no partial order or stock change occurs.
//     The same check rides inside the order transaction's conditional
//     decrement, so two simultaneous checkouts cannot oversell.
//  4. The order total is the sum of qty x current price over surviving
//     entries; each line item captures the unit price at purchase time.
//  5. The cart is cleared only after the transaction commits.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, customerName string) (int64, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if len(c) == 0 {
		return 0, ErrEmptyCart
	}

	var items []models.OrderItem
	total := decimal.Zero
	for _, pid := range sortedIDs(c) {
		qty := c[pid]
		p, err := s.lookup(ctx, pid)
		if err != nil {
			return 0, err
		}
		if p == nil {
			slog.Warn("Skipping vanished product at checkout", "product_id", pid)
			continue
		}
		if qty > p.Stock {
			return 0, &store.InsufficientStockError{ProductName: p.Name}
		}
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Qty:         qty,
			Price:       p.Price,
		})
	}
	if len(items) == 0 {
		// Every entry referenced a vanished product; nothing to order.
		return 0, ErrEmptyCart
	}

	order := &models.Order{
		CustomerName: customerName,
		Total:        total.InexactFloat64(),
	}
	orderID, err := s.store.CreateOrder(ctx, order, items)
	if err != nil {
		return 0, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already durable; a stale cart is recoverable.
		slog.Error("Failed to clear cart after order", "order_id", orderID, "error", err)
	}
	return orderID, nil
}

// lookup resolves a cart product id, returning (nil, nil) for entries that no
// longer resolve to a product.
func (s *Service) lookup(ctx context.Context, pid string) (*models.Product, error) {
	id, err := strconv.Atoi(pid)
	if err != nil {
		return nil, nil
	}
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// sortedIDs returns the cart's product ids in numeric order so order items
// and totals are deterministic.
func sortedIDs(c cart.Cart) []string {
	ids := make([]string, 0, len(c))
	for pid := range c {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}
