package http

import (
	"net/http"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/services/analytics/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	salesUseCase usecase.SalesUseCase
	logger       *logger.Logger
}

func NewSalesHandler(salesUseCase usecase.SalesUseCase, logger *logger.Logger) *SalesHandler {
	return &SalesHandler{
		salesUseCase: salesUseCase,
		logger:       logger,
	}
}

// GetSalesSummary godoc
// @Summary      Sales summary
// @Description  Revenue, platform fees and earnings of the caller's products with per-product totals and the latest sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.SalesSummary
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /sales/summary [get]
func (h *SalesHandler) GetSalesSummary(c *gin.Context) {
	creatorID := c.GetString(middleware.ContextUserID)
	if creatorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.salesUseCase.GetSalesSummary(c.Request.Context(), creatorID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, summary)
}
