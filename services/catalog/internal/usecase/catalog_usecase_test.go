package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/services/catalog/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	products *MockProductRepository
	ratings  *MockRatingRepository
	assets   *fakeStore
	media    *fakeStore
	uc       *catalogUseCase
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products: new(MockProductRepository),
		ratings:  new(MockRatingRepository),
		assets:   newFakeStore(),
		media:    newFakeStore(),
	}
	f.uc = NewCatalogUseCase(f.products, f.ratings, f.assets, f.media, logger.New()).(*catalogUseCase)
	f.uc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func upload(name, content string) entity.Upload {
	return entity.Upload{Filename: name, ContentType: "application/octet-stream", Size: int64(len(content)), Body: strings.NewReader(content)}
}

func paidInput(price string) CreateProductInput {
	return CreateProductInput{
		Title:       "Lighting pack",
		Price:       decimal.RequireFromString(price),
		ProductType: entity.ProductTypeDigital,
	}
}

func TestCreateProduct_UploadsAndStores(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)

	thumb := upload("cover.png", "png")
	product, err := f.uc.CreateProduct(context.Background(), "creator-1", paidInput("12.50"), upload("pack.zip", "zip"), &thumb)

	require.NoError(t, err)
	assert.Equal(t, "product-new", product.ID)
	assert.Equal(t, "creator-1", product.CreatorID)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "digital/creator-1-1700000000000-pack.zip", product.AssetPath)
	assert.Contains(t, f.assets.objects, product.AssetPath)
	assert.Len(t, f.media.objects, 1)
	assert.True(t, strings.HasPrefix(product.ThumbnailURL, "https://media.example/"))
	f.products.AssertExpectations(t)
}

func TestCreateProduct_FreeProductWithPrice(t *testing.T) {
	f := newCatalogFixture()
	input := paidInput("5.00")
	input.IsFree = true

	_, err := f.uc.CreateProduct(context.Background(), "creator-1", input, upload("a.mp4", "x"), nil)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, f.assets.objects)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_PaidProductWithoutPrice(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.CreateProduct(context.Background(), "creator-1", paidInput("0"), upload("a.mp4", "x"), nil)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_RejectsSubCentPrice(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.CreateProduct(context.Background(), "creator-1", paidInput("1.005"), upload("a.mp4", "x"), nil)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_RequiresTitleTypeAndFile(t *testing.T) {
	f := newCatalogFixture()

	input := paidInput("1.00")
	input.Title = "   "
	_, err := f.uc.CreateProduct(context.Background(), "creator-1", input, upload("a.mp4", "x"), nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	input = paidInput("1.00")
	input.ProductType = "course"
	_, err = f.uc.CreateProduct(context.Background(), "creator-1", input, upload("a.mp4", "x"), nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.uc.CreateProduct(context.Background(), "creator-1", paidInput("1.00"), entity.Upload{}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateProduct_RemovesFilesWhenInsertFails(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	thumb := upload("cover.png", "png")
	_, err := f.uc.CreateProduct(context.Background(), "creator-1", paidInput("3.00"), upload("pack.zip", "zip"), &thumb)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, f.assets.objects)
	assert.Empty(t, f.media.objects)
}

func TestCreateProduct_UploadFailure(t *testing.T) {
	f := newCatalogFixture()
	f.assets.putErr = errors.New("s3 down")

	_, err := f.uc.CreateProduct(context.Background(), "creator-1", paidInput("3.00"), upload("pack.zip", "zip"), nil)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.uc.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProduct_OnlyOwner(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", CreatorID: "creator-1"}, nil)

	title := "Stolen"
	_, err := f.uc.UpdateProduct(context.Background(), "p1", "someone-else", entity.ProductUpdate{Title: &title})

	assert.ErrorIs(t, err, ErrNotOwner)
	f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_MakingFreeZeroesPrice(t *testing.T) {
	f := newCatalogFixture()
	existing := &entity.Product{ID: "p1", CreatorID: "creator-1", Price: decimal.RequireFromString("9.99")}
	f.products.On("GetByID", mock.Anything, "p1").Return(existing, nil)
	f.products.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.IsFree && p.Price.IsZero()
	})).Return(nil)

	free := true
	product, err := f.uc.UpdateProduct(context.Background(), "p1", "creator-1", entity.ProductUpdate{IsFree: &free})

	require.NoError(t, err)
	assert.True(t, product.IsFree)
	f.products.AssertExpectations(t)
}

func TestUpdateProduct_RejectsBrokenPricing(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", CreatorID: "creator-1", IsFree: true}, nil)

	price := decimal.RequireFromString("4.00")
	_, err := f.uc.UpdateProduct(context.Background(), "p1", "creator-1", entity.ProductUpdate{Price: &price})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct_KeepsFileForBuyers(t *testing.T) {
	f := newCatalogFixture()
	f.assets.objects["video/creator-1/1_a.mp4"] = []byte("x")
	f.products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", CreatorID: "creator-1", AssetPath: "video/creator-1/1_a.mp4"}, nil)
	f.products.On("SoftDelete", mock.Anything, "p1").Return(nil)
	f.products.On("CountPurchases", mock.Anything, "p1").Return(int64(2), nil)

	err := f.uc.DeleteProduct(context.Background(), "p1", "creator-1")

	require.NoError(t, err)
	assert.Empty(t, f.assets.deleted)
	f.products.AssertExpectations(t)
}

func TestDeleteProduct_RemovesUnsoldFile(t *testing.T) {
	f := newCatalogFixture()
	f.assets.objects["video/creator-1/1_a.mp4"] = []byte("x")
	f.products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", CreatorID: "creator-1", AssetPath: "video/creator-1/1_a.mp4"}, nil)
	f.products.On("SoftDelete", mock.Anything, "p1").Return(nil)
	f.products.On("CountPurchases", mock.Anything, "p1").Return(int64(0), nil)

	err := f.uc.DeleteProduct(context.Background(), "p1", "creator-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"video/creator-1/1_a.mp4"}, f.assets.deleted)
}

func TestDeleteProduct_NotOwner(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByID", mock.Anything, "p1").Return(&entity.Product{ID: "p1", CreatorID: "creator-1"}, nil)

	err := f.uc.DeleteProduct(context.Background(), "p1", "creator-2")

	assert.ErrorIs(t, err, ErrNotOwner)
	f.products.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestRateProduct_RequiresPurchase(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByIDUnscoped", mock.Anything, "p1").Return(&entity.Product{ID: "p1"}, nil)
	f.products.On("HasPurchase", mock.Anything, "p1", "buyer-1").Return(false, nil)

	_, err := f.uc.RateProduct(context.Background(), "p1", "buyer-1", 5, "great")

	assert.ErrorIs(t, err, ErrNotPurchased)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	f.ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRateProduct_OutOfRange(t *testing.T) {
	f := newCatalogFixture()

	for _, value := range []int{0, 6, -1} {
		_, err := f.uc.RateProduct(context.Background(), "p1", "buyer-1", value, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	f.products.AssertNotCalled(t, "GetByIDUnscoped", mock.Anything, mock.Anything)
}

func TestRateProduct_Saves(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByIDUnscoped", mock.Anything, "p1").Return(&entity.Product{ID: "p1"}, nil)
	f.products.On("HasPurchase", mock.Anything, "p1", "buyer-1").Return(true, nil)
	f.ratings.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entity.Rating) bool {
		return r.VideoID == "p1" && r.BuyerID == "buyer-1" && r.Rating == 4 && r.Review == "solid"
	})).Return(nil)

	rating, err := f.uc.RateProduct(context.Background(), "p1", "buyer-1", 4, "  solid ")

	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	f.ratings.AssertExpectations(t)
}

func TestRateProduct_DeletedProductStillRatableByBuyer(t *testing.T) {
	f := newCatalogFixture()
	deletedAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	f.products.On("GetByIDUnscoped", mock.Anything, "p1").Return(&entity.Product{ID: "p1", DeletedAt: &deletedAt}, nil)
	f.products.On("HasPurchase", mock.Anything, "p1", "buyer-1").Return(true, nil)
	f.ratings.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	rating, err := f.uc.RateProduct(context.Background(), "p1", "buyer-1", 5, "")

	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)
	f.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRateProduct_UnknownProduct(t *testing.T) {
	f := newCatalogFixture()
	f.products.On("GetByIDUnscoped", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.uc.RateProduct(context.Background(), "missing", "buyer-1", 3, "")

	assert.ErrorIs(t, err, ErrProductNotFound)
	f.products.AssertNotCalled(t, "HasPurchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetMyRating_NoneYet(t *testing.T) {
	f := newCatalogFixture()
	f.ratings.On("GetByBuyer", mock.Anything, "p1", "buyer-1").Return(nil, gorm.ErrRecordNotFound)

	rating, err := f.uc.GetMyRating(context.Background(), "p1", "buyer-1")

	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestGetRatings_Summarizes(t *testing.T) {
	f := newCatalogFixture()
	f.ratings.On("CountByStar", mock.Anything, "p1").Return(map[int]int{5: 3, 4: 1}, nil)

	summary, err := f.uc.GetRatings(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 4.8, summary.Average)
	assert.Equal(t, 75, summary.Breakdown[0].Percent)
}
