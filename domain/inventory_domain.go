package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessAddInventoryItem    = "inventory item added successfully"
	MessageSuccessUpdateInventoryItem = "inventory item updated successfully"
	MessageSuccessDeleteInventoryItem = "inventory item deleted successfully"
	MessageSuccessGetInventory        = "inventory retrieved successfully"
	MessageSuccessGetLowStock         = "low stock items retrieved successfully"
	MessageSuccessGetTransactions     = "stock transactions retrieved successfully"

	MessageFailedAddInventoryItem    = "failed to add inventory item"
	MessageFailedUpdateInventoryItem = "failed to update inventory item"
	MessageFailedDeleteInventoryItem = "failed to delete inventory item"
	MessageFailedGetInventory        = "failed to retrieve inventory"
	MessageFailedGetLowStock         = "failed to retrieve low stock items"
	MessageFailedGetTransactions     = "failed to retrieve stock transactions"
	MessageFailedExportInventory     = "failed to export inventory"

	ErrInventoryItemNotFound = fmt.Errorf("inventory item %w", ErrNotFound)
	ErrDuplicateItem         = fmt.Errorf("%w: an item with this name and unit already exists", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: decrement amount must be positive", ErrValidation)
)

const DefaultCategory = "Other"

// Stock transaction actions, as journaled by the ledger.
const (
	ActionAdd      = "add"
	ActionSubtract = "subtract"
	ActionAdjust   = "adjust"
)

type (
	// InventoryItemDraft is the full set of user-editable item fields for create and update.
	InventoryItemDraft struct {
		Name        string  `json:"name" validate:"required"`
		Quantity    float64 `json:"quantity" validate:"min=0"`
		Unit        Unit    `json:"unit" validate:"required,unit"`
		MinQuantity float64 `json:"minQuantity" validate:"min=0"`
		Category    string  `json:"category"`
	}

	InventoryItemResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Quantity    float64   `json:"quantity"`
		Unit        Unit      `json:"unit"`
		MinQuantity float64   `json:"minQuantity"`
		Category    string    `json:"category"`
		LowStock    bool      `json:"lowStock"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// InventoryItemCSV is one row of the ledger export.
	InventoryItemCSV struct {
		ID          string  `csv:"id"`
		Name        string  `csv:"name"`
		Quantity    float64 `csv:"quantity"`
		Unit        string  `csv:"unit"`
		MinQuantity float64 `csv:"min_quantity"`
		Category    string  `csv:"category"`
		LowStock    bool    `csv:"low_stock"`
	}

	// DecrementRequest asks the ledger to subtract Amount from one item.
	DecrementRequest struct {
		ItemID string
		Amount float64
	}

	// InventoryUpdate reports the effect of a committed decrement on one item.
	InventoryUpdate struct {
		ItemID           string  `json:"itemId"`
		Name             string  `json:"name"`
		PreviousQuantity float64 `json:"previousQuantity"`
		UsedQuantity     float64 `json:"usedQuantity"`
		NewQuantity      float64 `json:"newQuantity"`
		Unit             Unit    `json:"unit"`
	}

	StockTransactionResponse struct {
		ID           string    `json:"id"`
		ItemID       string    `json:"itemId"`
		ItemName     string    `json:"itemName"`
		Action       string    `json:"action"`
		Quantity     float64   `json:"quantity"`
		Unit         Unit      `json:"unit"`
		BalanceAfter float64   `json:"balanceAfter"`
		ReferenceID  string    `json:"referenceId,omitempty"`
		Description  string    `json:"description"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	StockTransactionListResponse struct {
		Transactions []StockTransactionResponse `json:"transactions"`
		Pagination   Pagination                 `json:"pagination"`
	}
)
