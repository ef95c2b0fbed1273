package http

import (
	"net/http"
	"strconv"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/services/purchase/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	settlementUseCase usecase.SettlementUseCase
	logger            *logger.Logger
}

func NewPurchaseHandler(settlementUseCase usecase.SettlementUseCase, logger *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		settlementUseCase: settlementUseCase,
		logger:            logger,
	}
}

// PurchaseRequest carries only the product. The buyer is always the caller.
type PurchaseRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// Purchase godoc
// @Summary      Purchase a product
// @Description  Records the sale and the creator earning atomically. Buying an owned product returns the existing purchase.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseRequest true "Product to buy"
// @Success      201  {object}  entity.Receipt
// @Success      200  {object}  entity.Receipt "Already owned"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /purchases [post]
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.settlementUseCase.Purchase(c.Request.Context(), req.ProductID, c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	status := http.StatusCreated
	if receipt.AlreadyOwned() {
		status = http.StatusOK
	}
	c.JSON(status, receipt)
}

// ListPurchases godoc
// @Summary      Purchased products
// @Description  Everything the caller owns, including products the creator has deleted
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of purchases to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	limit := 20
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	owned, err := h.settlementUseCase.ListPurchases(c.Request.Context(), c.GetString(middleware.ContextUserID), limit, offset)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": owned, "limit": limit, "offset": offset})
}

// GetAccess godoc
// @Summary      Ownership check
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  map[string]bool
// @Router       /products/{id}/access [get]
func (h *PurchaseHandler) GetAccess(c *gin.Context) {
	owned, err := h.settlementUseCase.HasAccess(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"owned": owned})
}

// Download godoc
// @Summary      Download link
// @Description  Presigned link to the product file, valid for DOWNLOAD_URL_TTL
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  entity.DownloadGrant
// @Failure      403  {object}  map[string]string
// @Router       /products/{id}/download [get]
func (h *PurchaseHandler) Download(c *gin.Context) {
	grant, err := h.settlementUseCase.GrantDownload(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, grant)
}
