package http

import (
	"net/http"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	catalogUseCase usecase.CatalogUseCase
	logger         *logger.Logger
}

func NewRatingHandler(catalogUseCase usecase.CatalogUseCase, logger *logger.Logger) *RatingHandler {
	return &RatingHandler{
		catalogUseCase: catalogUseCase,
		logger:         logger,
	}
}

type RateProductRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"max=2000"`
}

// RateProduct godoc
// @Summary      Rate a purchased product
// @Description  One rating per buyer. Rating again replaces the previous one.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body RateProductRequest true "Rating"
// @Success      200  {object}  entity.Rating
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /products/{id}/rating [put]
func (h *RatingHandler) RateProduct(c *gin.Context) {
	var req RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.catalogUseCase.RateProduct(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), req.Rating, req.Review)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// GetMyRating godoc
// @Summary      Own rating
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /products/{id}/rating [get]
func (h *RatingHandler) GetMyRating(c *gin.Context) {
	rating, err := h.catalogUseCase.GetMyRating(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// GetRatings godoc
// @Summary      Rating summary
// @Description  Average, total and 5-to-1 star breakdown
// @Tags         ratings
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200  {object}  entity.RatingSummary
// @Router       /products/{id}/ratings [get]
func (h *RatingHandler) GetRatings(c *gin.Context) {
	summary, err := h.catalogUseCase.GetRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, summary)
}
