package cart

import (
	"context"
)

// Manager implements the cart operations as load-modify-save over any Store
// backend. It performs no stock validation; callers check stock before adding
// and checkout revalidates independently.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Load(ctx context.Context, sessionID string) (Cart, error) {
	return m.store.Load(ctx, sessionID)
}

// Add increases the quantity for a product, starting from zero when absent.
func (m *Manager) Add(ctx context.Context, sessionID, productID string, qty int) error {
	c, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	c[productID] += qty
	if c[productID] <= 0 {
		delete(c, productID)
	}
	return m.store.Save(ctx, sessionID, c)
}

// SetMany replaces the whole cart with the given entries, silently dropping
// any entry with a non-positive quantity.
func (m *Manager) SetMany(ctx context.Context, sessionID string, entries map[string]int) error {
	c := Cart{}
	for pid, qty := range entries {
		if qty > 0 {
			c[pid] = qty
		}
	}
	return m.store.Save(ctx, sessionID, c)
}

// Remove deletes one product's entry; removing an absent product is a no-op.
func (m *Manager) Remove(ctx context.Context, sessionID, productID string) error {
	c, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, ok := c[productID]; !ok {
		return nil
	}
	delete(c, productID)
	return m.store.Save(ctx, sessionID, c)
}

func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	return m.store.Clear(ctx, sessionID)
}
