package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"creator-market/pkg/logger"
	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRateProduct(t *testing.T) {
	catalogUC := new(MockCatalogUseCase)
	handler := NewRatingHandler(catalogUC, logger.New())

	router := setupTestRouter()
	router.PUT("/products/:id/rating", asUser("buyer-1", handler.RateProduct))

	catalogUC.On("RateProduct", mock.Anything, "p1", "buyer-1", 5, "great").Return(&entity.Rating{ID: "r1", Rating: 5}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/products/p1/rating", bytes.NewBufferString(`{"rating":5,"review":"great"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	catalogUC.AssertExpectations(t)
}

func TestRateProduct_OutOfRange(t *testing.T) {
	catalogUC := new(MockCatalogUseCase)
	handler := NewRatingHandler(catalogUC, logger.New())

	router := setupTestRouter()
	router.PUT("/products/:id/rating", asUser("buyer-1", handler.RateProduct))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/products/p1/rating", bytes.NewBufferString(`{"rating":6}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	catalogUC.AssertNotCalled(t, "RateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateProduct_NotPurchased(t *testing.T) {
	catalogUC := new(MockCatalogUseCase)
	handler := NewRatingHandler(catalogUC, logger.New())

	router := setupTestRouter()
	router.PUT("/products/:id/rating", asUser("buyer-1", handler.RateProduct))

	catalogUC.On("RateProduct", mock.Anything, "p1", "buyer-1", 3, "").Return(nil, usecase.ErrNotPurchased)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/products/p1/rating", bytes.NewBufferString(`{"rating":3}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetRatings(t *testing.T) {
	catalogUC := new(MockCatalogUseCase)
	handler := NewRatingHandler(catalogUC, logger.New())

	router := setupTestRouter()
	router.GET("/products/:id/ratings", handler.GetRatings)

	summary := entity.SummarizeRatings(map[int]int{5: 1})
	catalogUC.On("GetRatings", mock.Anything, "p1").Return(&summary, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/p1/ratings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"average":5`)
}

func TestGetMyRating_None(t *testing.T) {
	catalogUC := new(MockCatalogUseCase)
	handler := NewRatingHandler(catalogUC, logger.New())

	router := setupTestRouter()
	router.GET("/products/:id/rating", asUser("buyer-1", handler.GetMyRating))

	catalogUC.On("GetMyRating", mock.Anything, "p1", "buyer-1").Return(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/p1/rating", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rating":null}`, w.Body.String())
}
