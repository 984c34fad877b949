package handlers

import (
	"bytes"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"inventra-backend/domain"
	"inventra-backend/internal/api/presenters"
	"inventra-backend/pkg/inventory"
)

type (
	InventoryHandler interface {
		AddInventoryItem(c *fiber.Ctx) error
		UpdateInventoryItem(c *fiber.Ctx) error
		DeleteInventoryItem(c *fiber.Ctx) error
		GetInventory(c *fiber.Ctx) error
		GetInventoryItem(c *fiber.Ctx) error
		GetLowStock(c *fiber.Ctx) error
		GetTransactions(c *fiber.Ctx) error
		ExportInventory(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) AddInventoryItem(c *fiber.Ctx) error {
	req := new(domain.InventoryItemDraft)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddInventoryItem, err)
	}

	item, err := h.inventoryService.CreateItem(c.Context(), *req)
	if err != nil {
		return respondError(c, domain.MessageFailedAddInventoryItem, err)
	}

	return presenters.SuccessResponse(c, inventory.ToItemResponse(item), fiber.StatusCreated, domain.MessageSuccessAddInventoryItem)
}

func (h *inventoryHandler) UpdateInventoryItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	req := new(domain.InventoryItemDraft)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateInventoryItem, err)
	}

	item, err := h.inventoryService.UpdateItem(c.Context(), itemID, *req)
	if err != nil {
		return respondError(c, domain.MessageFailedUpdateInventoryItem, err)
	}

	return presenters.SuccessResponse(c, inventory.ToItemResponse(item), fiber.StatusOK, domain.MessageSuccessUpdateInventoryItem)
}

func (h *inventoryHandler) DeleteInventoryItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	if err := h.inventoryService.DeleteItem(c.Context(), itemID); err != nil {
		return respondError(c, domain.MessageFailedDeleteInventoryItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteInventoryItem)
}

func (h *inventoryHandler) GetInventory(c *fiber.Ctx) error {
	items, err := h.inventoryService.ListItems(c.Context())
	if err != nil {
		return respondError(c, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, inventory.ToItemResponses(items), fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) GetInventoryItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	item, err := h.inventoryService.GetItem(c.Context(), itemID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetInventory, err)
	}

	return presenters.SuccessResponse(c, inventory.ToItemResponse(item), fiber.StatusOK, domain.MessageSuccessGetInventory)
}

func (h *inventoryHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.inventoryService.LowStock(c.Context())
	if err != nil {
		return respondError(c, domain.MessageFailedGetLowStock, err)
	}

	return presenters.SuccessResponse(c, inventory.ToItemResponses(items), fiber.StatusOK, domain.MessageSuccessGetLowStock)
}

func (h *inventoryHandler) GetTransactions(c *fiber.Ctx) error {
	itemID := c.Params("id")
	page, limit := pagination(c)

	txns, count, err := h.inventoryService.ListTransactions(c.Context(), itemID, page, limit)
	if err != nil {
		return respondError(c, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, domain.StockTransactionListResponse{
		Transactions: inventory.ToTransactionResponses(txns),
		Pagination:   domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func (h *inventoryHandler) ExportInventory(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.inventoryService.ExportCSV(c.Context(), &buf); err != nil {
		return respondError(c, domain.MessageFailedExportInventory, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
