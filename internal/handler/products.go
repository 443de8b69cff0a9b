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

type ProductsHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *ProductsHandler) Register(r *gin.RouterGroup) {
	group := r.Group("/products")
	group.GET("", h.listProducts)
	group.GET("/:style_id", h.getProduct)
	group.PUT("", h.upsertProduct)
	group.DELETE("/:id", h.deleteProduct)
}

// @Summary List catalog products
// @Tags products
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param brand query string false "brand"
// @Param search query string false "title or style id contains"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/v1/products [get]
func (h *ProductsHandler) listProducts(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListProductsParams{
		Limit:  limit,
		Offset: offset,
		Brand:  strQueryPtr(c, "brand"),
		Search: strQueryPtr(c, "search"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"created_at":   "created_at",
			"title":        "title",
			"brand":        "brand",
			"release_date": "release_date",
		}),
		Asc: boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListProducts(c.Request.Context(), params)
	if err != nil {
		h.warn("list products failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountProducts(c.Request.Context(), params)
	if err != nil {
		h.warn("count products failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get a product by style ID
// @Tags products
// @Param style_id path string true "style id"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{style_id} [get]
func (h *ProductsHandler) getProduct(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	styleID := strings.TrimSpace(c.Param("style_id"))
	if styleID == "" {
		Error(c, http.StatusBadRequest, "style_id required", nil)
		return
	}
	item, err := h.Repo.GetProductByStyleID(c.Request.Context(), styleID)
	if err != nil {
		h.warn("get product failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "product not found", nil)
		return
	}
	Ok(c, item, nil)
}

type upsertProductRequest struct {
	StyleID     string           `json:"style_id" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Brand       string           `json:"brand"`
	Colorway    string           `json:"colorway"`
	RetailPrice *decimal.Decimal `json:"retail_price"`
	Currency    string           `json:"currency"`
	ReleaseDate *time.Time       `json:"release_date"`
	ImageURL    *string          `json:"image_url"`
}

// @Summary Create or update a product
// @Tags products
// @Param request body upsertProductRequest true "product"
// @Success 200 {object} apiResponse
// @Router /api/v1/products [put]
func (h *ProductsHandler) upsertProduct(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req upsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "GBP"
	}
	item := &models.Product{
		StyleID:     strings.ToUpper(strings.TrimSpace(req.StyleID)),
		Title:       strings.TrimSpace(req.Title),
		Brand:       strings.TrimSpace(req.Brand),
		Colorway:    strings.TrimSpace(req.Colorway),
		RetailPrice: req.RetailPrice,
		Currency:    currency,
		ReleaseDate: req.ReleaseDate,
		ImageURL:    req.ImageURL,
	}
	if err := h.Repo.UpsertProduct(c.Request.Context(), item); err != nil {
		h.warn("upsert product failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete a product
// @Tags products
// @Param id path int true "product id"
// @Success 200 {object} apiResponse
// @Router /api/v1/products/{id} [delete]
func (h *ProductsHandler) deleteProduct(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteProduct(c.Request.Context(), id); err != nil {
		h.warn("delete product failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *ProductsHandler) warn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
