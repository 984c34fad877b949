package inventory

import (
	"context"
	"errors"
	"fmt"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"io"
	"math"
	"sort"
	"strings"
)

const DefaultMaxRetries = 5

type (
	// LedgerView is the read side the recipe engine resolves ingredients against.
	LedgerView interface {
		FindByNameAndUnit(ctx context.Context, name string, unit domain.Unit) (*entities.InventoryItem, bool, error)
	}

	// Reference is journaled with every decrement of a batch.
	Reference struct {
		ID          *uuid.UUID
		Description string
	}

	InventoryService interface {
		LedgerView

		GetItem(ctx context.Context, id string) (*entities.InventoryItem, error)
		ListItems(ctx context.Context) ([]*entities.InventoryItem, error)
		CreateItem(ctx context.Context, draft domain.InventoryItemDraft) (*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, id string, draft domain.InventoryItemDraft) (*entities.InventoryItem, error)
		DeleteItem(ctx context.Context, id string) error
		AtomicDecrement(ctx context.Context, requests []domain.DecrementRequest, ref Reference) ([]domain.InventoryUpdate, error)
		LowStock(ctx context.Context) ([]*entities.InventoryItem, error)
		ListTransactions(ctx context.Context, itemID string, page, limit int) ([]*entities.StockTransaction, int64, error)
		Snapshot(ctx context.Context) (*Snapshot, error)
		ExportCSV(ctx context.Context, w io.Writer) error
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		maxRetries          int
	}
)

func NewInventoryService(inventoryRepository InventoryRepository, maxRetries int) InventoryService {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		maxRetries:          maxRetries,
	}
}

func (s *inventoryService) GetItem(ctx context.Context, id string) (*entities.InventoryItem, error) {
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}
	return s.inventoryRepository.GetItemByID(ctx, itemID)
}

func (s *inventoryService) ListItems(ctx context.Context) ([]*entities.InventoryItem, error) {
	return s.inventoryRepository.ListItems(ctx)
}

func (s *inventoryService) CreateItem(ctx context.Context, draft domain.InventoryItemDraft) (*entities.InventoryItem, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	item := &entities.InventoryItem{ID: uuid.New()}
	applyDraft(item, draft)

	txn := newTransaction(item, domain.ActionAdd, item.Quantity, Reference{Description: "Initial stock"})
	if err := s.inventoryRepository.CreateItem(ctx, item, txn); err != nil {
		return nil, err
	}

	zap.L().Info("inventory item created",
		zap.String("id", item.ID.String()),
		zap.String("name", item.Name),
		zap.Float64("quantity", item.Quantity),
		zap.String("unit", item.Unit.String()))
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, draft domain.InventoryItemDraft) (*entities.InventoryItem, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		current, err := s.inventoryRepository.GetItemByID(ctx, itemID)
		if err != nil {
			return nil, err
		}

		updated := *current
		applyDraft(&updated, draft)

		var txn *entities.StockTransaction
		if updated.Quantity != current.Quantity {
			txn = newTransaction(&updated, domain.ActionAdjust, updated.Quantity-current.Quantity, Reference{Description: "Manual update"})
		}

		err = s.inventoryRepository.UpdateItem(ctx, &updated, current.Version, txn)
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) || attempt >= s.maxRetries {
			return nil, err
		}
		zap.L().Debug("inventory update conflict, retrying", zap.String("id", id), zap.Int("attempt", attempt+1))
	}
}

func (s *inventoryService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := parseItemID(id)
	if err != nil {
		return err
	}
	return s.inventoryRepository.DeleteItem(ctx, itemID)
}

func (s *inventoryService) FindByNameAndUnit(ctx context.Context, name string, unit domain.Unit) (*entities.InventoryItem, bool, error) {
	item, err := s.inventoryRepository.GetItemByNameKey(ctx, NameKey(name), unit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return item, true, nil
}

// AtomicDecrement subtracts every requested amount in one storage transaction.
// Either all items change or none do; a shortfall on any item rejects the batch.
func (s *inventoryService) AtomicDecrement(ctx context.Context, requests []domain.DecrementRequest, ref Reference) ([]domain.InventoryUpdate, error) {
	batch, err := mergeRequests(requests)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return []domain.InventoryUpdate{}, nil
	}

	ids := make([]uuid.UUID, 0, len(batch))
	for _, b := range batch {
		ids = append(ids, b.ItemID)
	}

	var observed map[uuid.UUID]*entities.InventoryItem
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := s.inventoryRepository.GetItemsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("reading inventory items: %w", err)
		}
		observed = make(map[uuid.UUID]*entities.InventoryItem, len(items))
		for _, item := range items {
			observed[item.ID] = item
		}

		var shortfalls []domain.MissingIngredient
		decrements := make([]StockDecrement, 0, len(batch))
		updates := make([]domain.InventoryUpdate, 0, len(batch))
		txns := make([]*entities.StockTransaction, 0, len(batch))
		for _, b := range batch {
			item, ok := observed[b.ItemID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, b.ItemID)
			}
			if item.Quantity < b.Amount {
				shortfalls = append(shortfalls, shortfallOf(item, b.Amount))
				continue
			}

			newQuantity := item.Quantity - b.Amount
			decrements = append(decrements, StockDecrement{
				ItemID:          item.ID,
				ExpectedVersion: item.Version,
				Amount:          b.Amount,
			})
			updates = append(updates, domain.InventoryUpdate{
				ItemID:           item.ID.String(),
				Name:             item.Name,
				PreviousQuantity: item.Quantity,
				UsedQuantity:     b.Amount,
				NewQuantity:      newQuantity,
				Unit:             item.Unit,
			})
			after := *item
			after.Quantity = newQuantity
			txns = append(txns, newTransaction(&after, domain.ActionSubtract, b.Amount, ref))
		}
		if len(shortfalls) > 0 {
			return nil, domain.NewInsufficientStockError(shortfalls)
		}

		err = s.inventoryRepository.ApplyDecrements(ctx, decrements, txns)
		if err == nil {
			zap.L().Info("inventory decremented",
				zap.Int("items", len(updates)),
				zap.String("reference", ref.Description),
				zap.Int("attempt", attempt+1))
			return updates, nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) {
			return nil, fmt.Errorf("applying decrements: %w", err)
		}
		zap.L().Debug("inventory decrement conflict, retrying", zap.Int("attempt", attempt+1))
	}

	zap.L().Warn("inventory decrement retries exhausted", zap.Int("retries", s.maxRetries))
	shortfalls := make([]domain.MissingIngredient, 0, len(batch))
	for _, b := range batch {
		if item, ok := observed[b.ItemID]; ok {
			shortfalls = append(shortfalls, shortfallOf(item, b.Amount))
		}
	}
	return nil, domain.NewInsufficientStockError(shortfalls)
}

func (s *inventoryService) LowStock(ctx context.Context) ([]*entities.InventoryItem, error) {
	return s.inventoryRepository.ListLowStockItems(ctx)
}

func (s *inventoryService) ListTransactions(ctx context.Context, itemID string, page, limit int) ([]*entities.StockTransaction, int64, error) {
	id, err := parseItemID(itemID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.inventoryRepository.GetItemByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.inventoryRepository.ListTransactions(ctx, id, page, limit)
}

func (s *inventoryService) Snapshot(ctx context.Context) (*Snapshot, error) {
	items, err := s.inventoryRepository.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(items), nil
}

func (s *inventoryService) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.inventoryRepository.ListItems(ctx)
	if err != nil {
		return err
	}

	rows := make([]*domain.InventoryItemCSV, 0, len(items))
	for _, item := range items {
		rows = append(rows, &domain.InventoryItemCSV{
			ID:          item.ID.String(),
			Name:        item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit.String(),
			MinQuantity: item.MinQuantity,
			Category:    item.Category,
			LowStock:    item.IsLowStock(),
		})
	}
	return gocsv.Marshal(rows, w)
}

// ValidateDraft rejects drafts the ledger must never store.
func ValidateDraft(draft domain.InventoryItemDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return domain.ValidationErrorf("name is required")
	}
	if !draft.Unit.Valid() {
		return domain.ValidationErrorf("unit %q is not supported", draft.Unit)
	}
	if math.IsNaN(draft.Quantity) || math.IsInf(draft.Quantity, 0) || draft.Quantity < 0 {
		return domain.ValidationErrorf("quantity must be a non-negative number")
	}
	if math.IsNaN(draft.MinQuantity) || math.IsInf(draft.MinQuantity, 0) || draft.MinQuantity < 0 {
		return domain.ValidationErrorf("minQuantity must be a non-negative number")
	}
	return nil
}

func applyDraft(item *entities.InventoryItem, draft domain.InventoryItemDraft) {
	item.Name = strings.TrimSpace(draft.Name)
	item.NameKey = NameKey(draft.Name)
	item.Quantity = draft.Quantity
	item.Unit = draft.Unit
	item.MinQuantity = draft.MinQuantity
	item.Category = strings.TrimSpace(draft.Category)
	if item.Category == "" {
		item.Category = domain.DefaultCategory
	}
}

// mergeRequests sums amounts per item and sorts by id, the order rows are locked in.
func mergeRequests(requests []domain.DecrementRequest) ([]StockDecrement, error) {
	merged := make(map[uuid.UUID]float64, len(requests))
	for _, req := range requests {
		if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		id, err := parseItemID(req.ItemID)
		if err != nil {
			return nil, err
		}
		merged[id] += req.Amount
	}

	batch := make([]StockDecrement, 0, len(merged))
	for id, amount := range merged {
		batch = append(batch, StockDecrement{ItemID: id, Amount: amount})
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].ItemID.String() < batch[j].ItemID.String() })
	return batch, nil
}

func shortfallOf(item *entities.InventoryItem, required float64) domain.MissingIngredient {
	return domain.MissingIngredient{
		Name:      item.Name,
		Required:  required,
		Available: item.Quantity,
		Unit:      item.Unit,
	}
}

func newTransaction(item *entities.InventoryItem, action string, quantity float64, ref Reference) *entities.StockTransaction {
	return &entities.StockTransaction{
		ID:           uuid.New(),
		ItemID:       item.ID,
		ItemName:     item.Name,
		Action:       action,
		Quantity:     quantity,
		Unit:         item.Unit,
		BalanceAfter: item.Quantity,
		ReferenceID:  ref.ID,
		Description:  ref.Description,
	}
}

func parseItemID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInventoryItemNotFound, id)
	}
	return parsed, nil
}
