// Package receipt caches order confirmations per device.
package receipt

import (
	"context"
	"sync"

	"storefront/internal/model"
)

// Cache stores receipts keyed by device and order id. Writes are
// insert-if-absent and entries are never updated or removed.
type Cache interface {
	// Save stores r unless a receipt with the same order id exists for the
	// device. It reports whether r was inserted.
	Save(ctx context.Context, deviceID string, r model.Receipt) (bool, error)

	// List returns the device's receipts, newest first.
	List(ctx context.Context, deviceID string) ([]model.Receipt, error)

	// Get returns one receipt, or nil when it is not cached.
	Get(ctx context.Context, deviceID, orderID string) (*model.Receipt, error)
}

// memoryCache implements Cache in process memory.
type memoryCache struct {
	mu      sync.RWMutex
	devices map[string]*deviceReceipts
}

type deviceReceipts struct {
	order []string
	byID  map[string]model.Receipt
}

// NewMemoryCache creates a Cache that lives as long as the process.
func NewMemoryCache() Cache {
	return &memoryCache{
		devices: make(map[string]*deviceReceipts),
	}
}

// Save stores r unless the order id is already cached for the device.
func (c *memoryCache) Save(ctx context.Context, deviceID string, r model.Receipt) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.devices[deviceID]
	if !ok {
		d = &deviceReceipts{byID: make(map[string]model.Receipt)}
		c.devices[deviceID] = d
	}

	if _, exists := d.byID[r.OrderID]; exists {
		return false, nil
	}

	d.byID[r.OrderID] = r
	d.order = append([]string{r.OrderID}, d.order...)
	return true, nil
}

// List returns the device's receipts, newest first.
func (c *memoryCache) List(ctx context.Context, deviceID string) ([]model.Receipt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.devices[deviceID]
	if !ok {
		return []model.Receipt{}, nil
	}

	out := make([]model.Receipt, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out, nil
}

// Get returns one receipt, or nil when it is not cached.
func (c *memoryCache) Get(ctx context.Context, deviceID, orderID string) (*model.Receipt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.devices[deviceID]
	if !ok {
		return nil, nil
	}
	r, ok := d.byID[orderID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}
