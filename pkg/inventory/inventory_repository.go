package inventory

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"time"
)

// ErrConcurrencyConflict means a row changed between the ledger's read and its conditional write.
// It never leaves the ledger: the service retries and, when retries run out, reports insufficient stock.
var ErrConcurrencyConflict = errors.New("inventory concurrency conflict")

type (
	// StockDecrement is one conditional row update inside ApplyDecrements.
	StockDecrement struct {
		ItemID          uuid.UUID
		ExpectedVersion int64
		Amount          float64
	}

	InventoryRepository interface {
		CreateItem(ctx context.Context, item *entities.InventoryItem, txn *entities.StockTransaction) error
		GetItemByID(ctx context.Context, id uuid.UUID) (*entities.InventoryItem, error)
		GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.InventoryItem, error)
		GetItemByNameKey(ctx context.Context, nameKey string, unit domain.Unit) (*entities.InventoryItem, error)
		ListItems(ctx context.Context) ([]*entities.InventoryItem, error)
		ListLowStockItems(ctx context.Context) ([]*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, item *entities.InventoryItem, expectedVersion int64, txn *entities.StockTransaction) error
		DeleteItem(ctx context.Context, id uuid.UUID) error

		// ApplyDecrements commits every decrement and journal entry, or none of them.
		ApplyDecrements(ctx context.Context, decrements []StockDecrement, txns []*entities.StockTransaction) error

		ListTransactions(ctx context.Context, itemID uuid.UUID, page, limit int) ([]*entities.StockTransaction, int64, error)
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateItem(ctx context.Context, item *entities.InventoryItem, txn *entities.StockTransaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if txn != nil {
			return tx.Create(txn).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateItem
	}
	return err
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) GetItemByNameKey(ctx context.Context, nameKey string, unit domain.Unit) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("name_key = ? AND unit = ?", nameKey, unit).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) ListItems(ctx context.Context) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) ListLowStockItems(ctx context.Context) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("quantity <= min_quantity").
		Order("created_at asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, item *entities.InventoryItem, expectedVersion int64, txn *entities.StockTransaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&entities.InventoryItem{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":         item.Name,
				"name_key":     item.NameKey,
				"quantity":     item.Quantity,
				"unit":         item.Unit,
				"min_quantity": item.MinQuantity,
				"category":     item.Category,
				"version":      gorm.Expr("version + 1"),
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.missingOrConflict(tx, item.ID)
		}
		item.Version = expectedVersion + 1
		item.UpdatedAt = now
		if txn != nil {
			return tx.Create(txn).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateItem
	}
	return err
}

func (r *inventoryRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

func (r *inventoryRepository) ApplyDecrements(ctx context.Context, decrements []StockDecrement, txns []*entities.StockTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// Callers pass decrements sorted by id so concurrent batches take row locks in the same order.
		for _, d := range decrements {
			res := tx.Model(&entities.InventoryItem{}).
				Where("id = ? AND version = ? AND quantity >= ?", d.ItemID, d.ExpectedVersion, d.Amount).
				Updates(map[string]interface{}{
					"quantity":   gorm.Expr("quantity - ?", d.Amount),
					"version":    gorm.Expr("version + 1"),
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrencyConflict
			}
		}
		if len(txns) > 0 {
			if err := tx.Create(&txns).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *inventoryRepository) ListTransactions(ctx context.Context, itemID uuid.UUID, page, limit int) ([]*entities.StockTransaction, int64, error) {
	var txns []*entities.StockTransaction
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.StockTransaction{}).Where("item_id = ?", itemID)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, count, nil
}

func (r *inventoryRepository) missingOrConflict(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&entities.InventoryItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return ErrConcurrencyConflict
}
