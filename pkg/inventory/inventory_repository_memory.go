package inventory

import (
	"context"
	"github.com/google/uuid"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"sort"
	"sync"
	"time"
)

// InMemoryInventoryRepository keeps the ledger in process memory. Every method holds the
// repository lock for its whole body, so ApplyDecrements is atomic with respect to readers.
type InMemoryInventoryRepository struct {
	mu           sync.RWMutex
	items        map[uuid.UUID]*entities.InventoryItem
	order        []uuid.UUID
	transactions []*entities.StockTransaction
}

func NewInMemoryInventoryRepository() *InMemoryInventoryRepository {
	return &InMemoryInventoryRepository{
		items: make(map[uuid.UUID]*entities.InventoryItem),
	}
}

func (r *InMemoryInventoryRepository) CreateItem(ctx context.Context, item *entities.InventoryItem, txn *entities.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByKeyLocked(item.NameKey, item.Unit, uuid.Nil) != nil {
		return domain.ErrDuplicateItem
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	stored := *item
	r.items[item.ID] = &stored
	r.order = append(r.order, item.ID)
	r.journalLocked(txn, now)
	return nil
}

func (r *InMemoryInventoryRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrInventoryItemNotFound
	}
	return copyItem(item), nil
}

func (r *InMemoryInventoryRepository) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			items = append(items, copyItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.String() < items[j].ID.String() })
	return items, nil
}

func (r *InMemoryInventoryRepository) GetItemByNameKey(ctx context.Context, nameKey string, unit domain.Unit) (*entities.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.findByKeyLocked(nameKey, unit, uuid.Nil)
	if item == nil {
		return nil, domain.ErrInventoryItemNotFound
	}
	return copyItem(item), nil
}

func (r *InMemoryInventoryRepository) ListItems(ctx context.Context) ([]*entities.InventoryItem, error) {
	return r.list(func(*entities.InventoryItem) bool { return true }), nil
}

func (r *InMemoryInventoryRepository) ListLowStockItems(ctx context.Context) ([]*entities.InventoryItem, error) {
	return r.list((*entities.InventoryItem).IsLowStock), nil
}

func (r *InMemoryInventoryRepository) UpdateItem(ctx context.Context, item *entities.InventoryItem, expectedVersion int64, txn *entities.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return domain.ErrInventoryItemNotFound
	}
	if current.Version != expectedVersion {
		return ErrConcurrencyConflict
	}
	if r.findByKeyLocked(item.NameKey, item.Unit, item.ID) != nil {
		return domain.ErrDuplicateItem
	}

	now := time.Now()
	item.Version = expectedVersion + 1
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = now
	stored := *item
	r.items[item.ID] = &stored
	r.journalLocked(txn, now)
	return nil
}

func (r *InMemoryInventoryRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrInventoryItemNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemoryInventoryRepository) ApplyDecrements(ctx context.Context, decrements []StockDecrement, txns []*entities.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	// Verify the whole batch before touching any item.
	for _, d := range decrements {
		item, ok := r.items[d.ItemID]
		if !ok || item.Version != d.ExpectedVersion || item.Quantity < d.Amount {
			return ErrConcurrencyConflict
		}
	}

	now := time.Now()
	for _, d := range decrements {
		item := r.items[d.ItemID]
		item.Quantity -= d.Amount
		item.Version++
		item.UpdatedAt = now
	}
	for _, txn := range txns {
		r.journalLocked(txn, now)
	}
	return nil
}

func (r *InMemoryInventoryRepository) ListTransactions(ctx context.Context, itemID uuid.UUID, page, limit int) ([]*entities.StockTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entities.StockTransaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].ItemID == itemID {
			txn := *r.transactions[i]
			matched = append(matched, &txn)
		}
	}

	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []*entities.StockTransaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *InMemoryInventoryRepository) list(keep func(*entities.InventoryItem) bool) []*entities.InventoryItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.InventoryItem, 0, len(r.order))
	for _, id := range r.order {
		if item := r.items[id]; keep(item) {
			items = append(items, copyItem(item))
		}
	}
	return items
}

func (r *InMemoryInventoryRepository) findByKeyLocked(nameKey string, unit domain.Unit, except uuid.UUID) *entities.InventoryItem {
	for _, item := range r.items {
		if item.ID != except && item.NameKey == nameKey && item.Unit == unit {
			return item
		}
	}
	return nil
}

func (r *InMemoryInventoryRepository) journalLocked(txn *entities.StockTransaction, now time.Time) {
	if txn == nil {
		return
	}
	txn.CreatedAt, txn.UpdatedAt = now, now
	stored := *txn
	r.transactions = append(r.transactions, &stored)
}

func copyItem(item *entities.InventoryItem) *entities.InventoryItem {
	c := *item
	return &c
}
