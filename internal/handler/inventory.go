package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soletrack/internal/models"
	"soletrack/internal/repository"
	"soletrack/internal/service"
)

type InventoryHandler struct {
	Repo   repository.Repository
	Sales  *service.SalesService
	Logger *zap.Logger
}

func (h *InventoryHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/inventory")
	group.GET("", h.listItems)
	group.GET("/:id", h.getItem)
	group.POST("", h.createItem)
	group.PUT("/:id", h.updateItem)
	group.PUT("/:id/status", h.updateStatus)
	group.POST("/:id/sell", h.sellItem)
	group.DELETE("/:id", h.deleteItem)
}

// @Summary List inventory items
// @Tags inventory
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param status query string false "status"
// @Param style_id query string false "style id"
// @Param size query string false "size key"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory [get]
func (h *InventoryHandler) listItems(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListInventoryParams{
		Limit:   limit,
		Offset:  offset,
		Status:  strQueryPtr(c, "status"),
		StyleID: strQueryPtr(c, "style_id"),
		SizeKey: strQueryPtr(c, "size"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"created_at":     "created_at",
			"purchase_date":  "purchase_date",
			"purchase_price": "purchase_price",
			"style_id":       "style_id",
		}),
		Asc: boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListInventoryItems(c.Request.Context(), params)
	if err != nil {
		h.warn("list inventory failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountInventoryItems(c.Request.Context(), params)
	if err != nil {
		h.warn("count inventory failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get an inventory item
// @Tags inventory
// @Param id path int true "item id"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/{id} [get]
func (h *InventoryHandler) getItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetInventoryItemByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "inventory item not found", nil)
		return
	}
	Ok(c, item, nil)
}

type inventoryItemRequest struct {
	StyleID         string          `json:"style_id" binding:"required"`
	SizeKey         string          `json:"size" binding:"required"`
	Condition       string          `json:"condition"`
	PurchasePrice   decimal.Decimal `json:"purchase_price" binding:"required"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	Currency        string          `json:"currency"`
	PurchaseDate    *time.Time      `json:"purchase_date"`
	PlaceOfPurchase *string         `json:"place_of_purchase"`
	Notes           *string         `json:"notes"`
}

// @Summary Add an inventory item
// @Tags inventory
// @Param request body inventoryItemRequest true "item"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory [post]
func (h *InventoryHandler) createItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req inventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.PurchasePrice.IsNegative() || req.Tax.IsNegative() || req.Shipping.IsNegative() {
		Error(c, http.StatusBadRequest, "amounts must not be negative", nil)
		return
	}
	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		condition = "new"
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "GBP"
	}
	item := &models.InventoryItem{
		StyleID:         strings.ToUpper(strings.TrimSpace(req.StyleID)),
		SizeKey:         strings.TrimSpace(req.SizeKey),
		Condition:       condition,
		PurchasePrice:   req.PurchasePrice,
		Tax:             req.Tax,
		Shipping:        req.Shipping,
		Currency:        currency,
		PurchaseDate:    req.PurchaseDate,
		PlaceOfPurchase: req.PlaceOfPurchase,
		Status:          models.ItemStatusInStock,
		Notes:           req.Notes,
	}
	if err := h.Repo.InsertInventoryItem(c.Request.Context(), item); err != nil {
		h.warn("create inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update an inventory item
// @Tags inventory
// @Param id path int true "item id"
// @Param request body inventoryItemRequest true "item"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/{id} [put]
func (h *InventoryHandler) updateItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	existing, err := h.Repo.GetInventoryItemByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "inventory item not found", nil)
		return
	}
	var req inventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.PurchasePrice.IsNegative() || req.Tax.IsNegative() || req.Shipping.IsNegative() {
		Error(c, http.StatusBadRequest, "amounts must not be negative", nil)
		return
	}
	existing.StyleID = strings.ToUpper(strings.TrimSpace(req.StyleID))
	existing.SizeKey = strings.TrimSpace(req.SizeKey)
	if strings.TrimSpace(req.Condition) != "" {
		existing.Condition = strings.TrimSpace(req.Condition)
	}
	existing.PurchasePrice = req.PurchasePrice
	existing.Tax = req.Tax
	existing.Shipping = req.Shipping
	if strings.TrimSpace(req.Currency) != "" {
		existing.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	}
	existing.PurchaseDate = req.PurchaseDate
	existing.PlaceOfPurchase = req.PlaceOfPurchase
	existing.Notes = req.Notes
	if err := h.Repo.UpdateInventoryItem(c.Request.Context(), existing); err != nil {
		h.warn("update inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, existing, nil)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update item status
// @Tags inventory
// @Param id path int true "item id"
// @Param request body statusRequest true "status"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/{id}/status [put]
func (h *InventoryHandler) updateStatus(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.ItemStatusInStock, models.ItemStatusListed, models.ItemStatusSold, models.ItemStatusConsigned:
	default:
		Error(c, http.StatusBadRequest, "unknown status: "+status, nil)
		return
	}
	item, err := h.Repo.GetInventoryItemByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "inventory item not found", nil)
		return
	}
	if err := h.Repo.UpdateInventoryItemStatus(c.Request.Context(), id, status); err != nil {
		h.warn("update item status failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"id": id, "status": status}, nil)
}

type sellItemRequest struct {
	SoldPrice   decimal.Decimal `json:"sold_price" binding:"required"`
	Fees        decimal.Decimal `json:"fees"`
	ShippingOut decimal.Decimal `json:"shipping_out"`
	Platform    string          `json:"platform"`
	Currency    string          `json:"currency"`
	SoldAt      *time.Time      `json:"sold_at"`
}

// @Summary Sell an inventory item
// @Tags inventory
// @Param id path int true "item id"
// @Param request body sellItemRequest true "sale"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/{id}/sell [post]
func (h *InventoryHandler) sellItem(c *gin.Context) {
	if h.Sales == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req sellItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.SoldPrice.IsNegative() || req.Fees.IsNegative() || req.ShippingOut.IsNegative() {
		Error(c, http.StatusBadRequest, "amounts must not be negative", nil)
		return
	}
	input := service.SellItemInput{
		SoldPrice:   req.SoldPrice,
		Fees:        req.Fees,
		ShippingOut: req.ShippingOut,
		Platform:    strings.ToLower(strings.TrimSpace(req.Platform)),
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
	if req.SoldAt != nil {
		input.SoldAt = *req.SoldAt
	}
	sale, err := h.Sales.SellItem(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			Error(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrItemAlreadySold):
			Error(c, http.StatusConflict, err.Error(), nil)
		default:
			h.warn("sell item failed", err)
			Error(c, http.StatusBadGateway, err.Error(), nil)
		}
		return
	}
	Ok(c, sale, nil)
}

// @Summary Delete an inventory item
// @Tags inventory
// @Param id path int true "item id"
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/{id} [delete]
func (h *InventoryHandler) deleteItem(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteInventoryItem(c.Request.Context(), id); err != nil {
		h.warn("delete inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *InventoryHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
