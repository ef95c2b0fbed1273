package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creator-market/pkg/jwt"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/pkg/validation"
	"creator-market/services/purchase/internal/entity"
	"creator-market/services/purchase/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const productID = "5f1c2a8e-3b4d-4c6e-8f90-1a2b3c4d5e6f"

type MockSettlementUseCase struct {
	mock.Mock
}

func (m *MockSettlementUseCase) Purchase(ctx context.Context, productID, buyerID string) (*entity.Receipt, error) {
	args := m.Called(ctx, productID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Receipt), args.Error(1)
}

func (m *MockSettlementUseCase) ListPurchases(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.OwnedProduct), args.Error(1)
}

func (m *MockSettlementUseCase) HasAccess(ctx context.Context, productID, buyerID string) (bool, error) {
	args := m.Called(ctx, productID, buyerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementUseCase) GrantDownload(ctx context.Context, productID, buyerID string) (*entity.DownloadGrant, error) {
	args := m.Called(ctx, productID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DownloadGrant), args.Error(1)
}

var _ usecase.SettlementUseCase = (*MockSettlementUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Register()
	return gin.New()
}

func asUser(userID string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, userID+"@example.com")
		c.Set(middleware.ContextTokenID, "token-"+userID)
		c.Set(middleware.ContextTokenExp, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		next(c)
	}
}

func TestPurchase_BuyerComesFromSession(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.POST("/purchases", asUser("buyer-b", handler.Purchase))

	settlementUC.On("Purchase", mock.Anything, productID, "buyer-b").Return(&entity.Receipt{
		Result:   entity.ResultSettled,
		Purchase: &entity.Purchase{ID: "purchase-1", VideoID: productID, BuyerID: "buyer-b", Amount: decimal.NewFromInt(100)},
		Earning:  &entity.Earning{Amount: decimal.NewFromInt(94), PlatformFee: decimal.NewFromInt(6)},
	}, nil)

	body := `{"product_id":"` + productID + `","buyer_id":"someone-else"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/purchases", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "settled", response["result"])
	settlementUC.AssertExpectations(t)
}

func TestPurchase_AlreadyOwnedReturns200(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.POST("/purchases", asUser("buyer-b", handler.Purchase))

	settlementUC.On("Purchase", mock.Anything, productID, "buyer-b").Return(&entity.Receipt{
		Result:   entity.ResultAlreadyOwned,
		Purchase: &entity.Purchase{ID: "purchase-1"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/purchases", bytes.NewBufferString(`{"product_id":"`+productID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already_owned")
}

func TestPurchase_InvalidProductID(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.POST("/purchases", asUser("buyer-b", handler.Purchase))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/purchases", bytes.NewBufferString(`{"product_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	settlementUC.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchase_UnauthenticatedRejectedBeforeSettlement(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.POST("/purchases", middleware.AuthMiddleware(jwt.NewService("test-secret"), nil), handler.Purchase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/purchases", bytes.NewBufferString(`{"product_id":"`+productID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	settlementUC.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownload_Forbidden(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.GET("/products/:id/download", asUser("buyer-b", handler.Download))

	settlementUC.On("GrantDownload", mock.Anything, "p1", "buyer-b").Return(nil, usecase.ErrNotPurchased)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/p1/download", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDownload_ReturnsLinkAndExpiry(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.GET("/products/:id/download", asUser("buyer-b", handler.Download))

	expires := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
	settlementUC.On("GrantDownload", mock.Anything, "p1", "buyer-b").Return(&entity.DownloadGrant{URL: "https://files.example/x", ExpiresAt: expires}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/p1/download", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://files.example/x","expires_at":"2026-05-01T11:00:00Z"}`, w.Body.String())
}

func TestGetAccess(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.GET("/products/:id/access", asUser("buyer-b", handler.GetAccess))

	settlementUC.On("HasAccess", mock.Anything, "p1", "buyer-b").Return(true, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/products/p1/access", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owned":true}`, w.Body.String())
}

func TestListPurchases(t *testing.T) {
	settlementUC := new(MockSettlementUseCase)
	handler := NewPurchaseHandler(settlementUC, logger.New())

	router := setupTestRouter()
	router.GET("/purchases", asUser("buyer-b", handler.ListPurchases))

	settlementUC.On("ListPurchases", mock.Anything, "buyer-b", 20, 0).Return([]*entity.OwnedProduct{
		{Purchase: &entity.Purchase{ID: "purchase-1"}, Product: &entity.Product{ID: "p1", Deleted: true}},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/purchases", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
