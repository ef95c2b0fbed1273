package http

import (
	"net/http"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	payoutUseCase usecase.PayoutUseCase
	logger        *logger.Logger
}

func NewPayoutHandler(payoutUseCase usecase.PayoutUseCase, logger *logger.Logger) *PayoutHandler {
	return &PayoutHandler{
		payoutUseCase: payoutUseCase,
		logger:        logger,
	}
}

type SavePayoutRequest struct {
	AccountHolder string `json:"account_holder" binding:"required"`
	IFSC          string `json:"ifsc" binding:"required"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type" binding:"omitempty,oneof=individual business"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

// GetPayoutAccount godoc
// @Summary      Payout details
// @Description  Returns {"data": null} when nothing has been saved yet
// @Tags         payouts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /payouts [get]
func (h *PayoutHandler) GetPayoutAccount(c *gin.Context) {
	account, err := h.payoutUseCase.GetPayoutAccount(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// SavePayoutAccount godoc
// @Summary      Save payout details
// @Description  Upsert keyed on the caller. Omit account_number to keep the stored one.
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SavePayoutRequest true "Payout details"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /payouts [post]
func (h *PayoutHandler) SavePayoutAccount(c *gin.Context) {
	var req SavePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	account, err := h.payoutUseCase.SavePayoutAccount(c.Request.Context(), c.GetString(middleware.ContextUserID), entity.PayoutInput{
		AccountHolder: req.AccountHolder,
		IFSC:          req.IFSC,
		AccountNumber: req.AccountNumber,
		AccountType:   entity.AccountType(req.AccountType),
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": account})
}
