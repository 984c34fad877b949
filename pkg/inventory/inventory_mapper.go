package inventory

import (
	"inventra-backend/domain"
	"inventra-backend/entities"
)

func ToItemResponse(item *entities.InventoryItem) domain.InventoryItemResponse {
	return domain.InventoryItemResponse{
		ID:          item.ID.String(),
		Name:        item.Name,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		MinQuantity: item.MinQuantity,
		Category:    item.Category,
		LowStock:    item.IsLowStock(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func ToItemResponses(items []*entities.InventoryItem) []domain.InventoryItemResponse {
	res := make([]domain.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, ToItemResponse(item))
	}
	return res
}

func ToTransactionResponse(txn *entities.StockTransaction) domain.StockTransactionResponse {
	res := domain.StockTransactionResponse{
		ID:           txn.ID.String(),
		ItemID:       txn.ItemID.String(),
		ItemName:     txn.ItemName,
		Action:       txn.Action,
		Quantity:     txn.Quantity,
		Unit:         txn.Unit,
		BalanceAfter: txn.BalanceAfter,
		Description:  txn.Description,
		CreatedAt:    txn.CreatedAt,
	}
	if txn.ReferenceID != nil {
		res.ReferenceID = txn.ReferenceID.String()
	}
	return res
}

func ToTransactionResponses(txns []*entities.StockTransaction) []domain.StockTransactionResponse {
	res := make([]domain.StockTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		res = append(res, ToTransactionResponse(txn))
	}
	return res
}
