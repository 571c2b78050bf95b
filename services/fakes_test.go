package services

import (
	"GoldShop/models"
	"GoldShop/repository"
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the address, cart and order
// repositories with the same claim-then-clear semantics.
type memStore struct {
	mu        sync.Mutex
	addresses map[uint]models.Address
	lines     []models.CartLine
	orders    map[uint]*models.Order
	nextLine  uint
	nextOrder uint

	beforePlace func()
	finishErr   error
	placeErr    error
}

func newMemStore() *memStore {
	return &memStore{
		addresses: make(map[uint]models.Address),
		orders:    make(map[uint]*models.Order),
	}
}

func (m *memStore) addAddress(a models.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[a.ID] = a
}

func (m *memStore) addLine(userID uint, name, price string, qty int) models.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLine++
	line := models.CartLine{
		ID:       m.nextLine,
		UserID:   userID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
	m.lines = append(m.lines, line)
	return line
}

func (m *memStore) GetForUser(_ context.Context, userID, addressID uint) (*models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[addressID]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) ListLines(_ context.Context, userID uint) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CartLine{}
	for _, l := range m.lines {
		if l.UserID == userID && l.OrderID == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) AddOrMerge(_ context.Context, line *models.CartLine) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line.ProductID != nil {
		for i := range m.lines {
			l := &m.lines[i]
			if l.UserID == line.UserID && l.OrderID == nil && l.ProductID != nil && *l.ProductID == *line.ProductID {
				l.Quantity += line.Quantity
				*line = *l
				return true, nil
			}
		}
	}
	m.nextLine++
	line.ID = m.nextLine
	m.lines = append(m.lines, *line)
	return false, nil
}

func (m *memStore) Remove(_ context.Context, userID, lineID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lines {
		if l.ID == lineID && l.UserID == userID && l.OrderID == nil {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) Clear(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[:0]
	var n int64
	for _, l := range m.lines {
		if l.UserID == userID && l.OrderID == nil {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.lines = kept
	return n, nil
}

// claimAll simulates another checkout claiming the user's lines.
func (m *memStore) claimAll(userID, orderID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].UserID == userID && m.lines[i].OrderID == nil {
			id := orderID
			m.lines[i].OrderID = &id
		}
	}
}

func (m *memStore) PlaceOrder(_ context.Context, order *models.Order, lineIDs []uint) error {
	if m.beforePlace != nil {
		m.beforePlace()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeErr != nil {
		return m.placeErr
	}

	want := make(map[uint]bool, len(lineIDs))
	for _, id := range lineIDs {
		want[id] = true
	}
	matched := 0
	for _, l := range m.lines {
		if want[l.ID] && l.UserID == order.UserID && l.OrderID == nil {
			matched++
		}
	}
	if matched != len(lineIDs) {
		return repository.ErrCartChanged
	}

	m.nextOrder++
	order.ID = m.nextOrder
	for i := range m.lines {
		if want[m.lines[i].ID] {
			id := order.ID
			m.lines[i].OrderID = &id
		}
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &stored
	return nil
}

func (m *memStore) FinishCheckout(_ context.Context, orderID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishErr != nil {
		return m.finishErr
	}
	kept := m.lines[:0]
	for _, l := range m.lines {
		if l.OrderID != nil && *l.OrderID == orderID {
			continue
		}
		kept = append(kept, l)
	}
	m.lines = kept
	if o, ok := m.orders[orderID]; ok {
		o.CartCleared = true
	}
	return nil
}

func (m *memStore) claimed(orderID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.lines {
		if l.OrderID != nil && *l.OrderID == orderID {
			n++
		}
	}
	return n
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) Get(_ context.Context, orderID uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) sorted(filter func(*models.Order) bool, desc bool) []models.Order {
	out := []models.Order{}
	for _, o := range m.orders {
		if filter(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memStore) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(o *models.Order) bool { return o.UserID == userID }, false), nil
}

func (m *memStore) ListAll(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(*models.Order) bool { return true }, true), nil
}

func (m *memStore) ListUncleared(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(o *models.Order) bool { return !o.CartCleared }, false), nil
}

func (m *memStore) UpdateStatus(_ context.Context, orderID uint, from, to models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status != from {
		return repository.ErrStaleWrite
	}
	o.Status = to
	return nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[uint]*models.Product
	calls    int
}

func (c *fakeCatalog) Get(_ context.Context, id uint) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	p, ok := c.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
