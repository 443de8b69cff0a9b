package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

type ListingsHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *ListingsHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/listings")
	group.GET("", h.listListings)
	group.POST("", h.createListing)
	group.PUT("/:id", h.updateListing)
	group.PUT("/:id/status", h.updateStatus)
	group.DELETE("/:id", h.deleteListing)
}

// @Summary List marketplace listings
// @Tags listings
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param provider query string false "provider"
// @Param status query string false "status"
// @Param inventory_item_id query int false "inventory item id"
// @Success 200 {object} apiResponse
// @Router /api/v1/listings [get]
func (h *ListingsHandler) listListings(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	var itemID *uint64
	if raw := intQuery(c, "inventory_item_id", 0); raw > 0 {
		val := uint64(raw)
		itemID = &val
	}
	params := repository.ListListingsParams{
		Limit:           limit,
		Offset:          offset,
		Provider:        strQueryPtr(c, "provider"),
		Status:          strQueryPtr(c, "status"),
		InventoryItemID: itemID,
		Asc:             boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListListings(c.Request.Context(), params)
	if err != nil {
		h.warn("list listings failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountListings(c.Request.Context(), params)
	if err != nil {
		h.warn("count listings failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type listingRequest struct {
	InventoryItemID uint64          `json:"inventory_item_id" binding:"required"`
	Provider        string          `json:"provider" binding:"required"`
	ExternalID      *string         `json:"external_id"`
	AskPrice        decimal.Decimal `json:"ask_price" binding:"required"`
	Currency        string          `json:"currency"`
	IsFlex          bool            `json:"is_flex"`
	ListedAt        *time.Time      `json:"listed_at"`
}

// @Summary Create a listing
// @Tags listings
// @Param request body listingRequest true "listing"
// @Success 200 {object} apiResponse
// @Router /api/v1/listings [post]
func (h *ListingsHandler) createListing(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.AskPrice.IsNegative() {
		Error(c, http.StatusBadRequest, "ask_price must not be negative", nil)
		return
	}
	item, err := h.Repo.GetInventoryItemByID(c.Request.Context(), req.InventoryItemID)
	if err != nil {
		h.warn("get inventory item failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "inventory item not found", nil)
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = item.Currency
	}
	listing := &models.Listing{
		InventoryItemID: req.InventoryItemID,
		Provider:        strings.ToLower(strings.TrimSpace(req.Provider)),
		ExternalID:      req.ExternalID,
		AskPrice:        req.AskPrice,
		Currency:        currency,
		IsFlex:          req.IsFlex,
		Status:          models.ListingStatusActive,
		ListedAt:        req.ListedAt,
	}
	if err := h.Repo.InsertListing(c.Request.Context(), listing); err != nil {
		h.warn("create listing failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	// Flip the item to listed unless it is already further along.
	if item.Status == models.ItemStatusInStock {
		if err := h.Repo.UpdateInventoryItemStatus(c.Request.Context(), item.ID, models.ItemStatusListed); err != nil {
			h.warn("update item status failed", err)
		}
	}
	Ok(c, listing, nil)
}

// @Summary Update a listing
// @Tags listings
// @Param id path int true "listing id"
// @Param request body listingRequest true "listing"
// @Success 200 {object} apiResponse
// @Router /api/v1/listings/{id} [put]
func (h *ListingsHandler) updateListing(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	existing, err := h.Repo.GetListingByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get listing failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "listing not found", nil)
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.AskPrice.IsNegative() {
		Error(c, http.StatusBadRequest, "ask_price must not be negative", nil)
		return
	}
	existing.ExternalID = req.ExternalID
	existing.AskPrice = req.AskPrice
	if strings.TrimSpace(req.Currency) != "" {
		existing.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	}
	existing.IsFlex = req.IsFlex
	existing.ListedAt = req.ListedAt
	if err := h.Repo.UpdateListing(c.Request.Context(), existing); err != nil {
		h.warn("update listing failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, existing, nil)
}

// @Summary Update listing status
// @Tags listings
// @Param id path int true "listing id"
// @Param request body statusRequest true "status"
// @Success 200 {object} apiResponse
// @Router /api/v1/listings/{id}/status [put]
func (h *ListingsHandler) updateStatus(c *gin.Context) {
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
	case models.ListingStatusActive, models.ListingStatusPaused, models.ListingStatusSold,
		models.ListingStatusExpired, models.ListingStatusCancelled:
	default:
		Error(c, http.StatusBadRequest, "unknown status: "+status, nil)
		return
	}
	existing, err := h.Repo.GetListingByID(c.Request.Context(), id)
	if err != nil {
		h.warn("get listing failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "listing not found", nil)
		return
	}
	if err := h.Repo.UpdateListingStatus(c.Request.Context(), id, status); err != nil {
		h.warn("update listing status failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"id": id, "status": status}, nil)
}

// @Summary Delete a listing
// @Tags listings
// @Param id path int true "listing id"
// @Success 200 {object} apiResponse
// @Router /api/v1/listings/{id} [delete]
func (h *ListingsHandler) deleteListing(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteListing(c.Request.Context(), id); err != nil {
		h.warn("delete listing failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *ListingsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
