package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/pkg/validation"
	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	maxAssetSize     = 500 << 20
	maxThumbnailSize = 5 << 20
)

type ProductHandler struct {
	catalogUseCase usecase.CatalogUseCase
	logger         *logger.Logger
}

func NewProductHandler(catalogUseCase usecase.CatalogUseCase, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalogUseCase: catalogUseCase,
		logger:         logger,
	}
}

type CreateProductRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Description string `form:"description"`
	Price       string `form:"price" binding:"omitempty,money"`
	IsFree      bool   `form:"is_free"`
	ProductType string `form:"product_type" binding:"required,oneof=video digital"`
}

type UpdateProductRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Price       *string `json:"price" binding:"omitempty,money"`
	IsFree      *bool   `json:"is_free"`
}

// CreateProduct godoc
// @Summary      Create product
// @Description  Upload a video or digital file with an optional thumbnail
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Title"
// @Param        description formData string false "Description"
// @Param        price formData string false "Price with up to 2 decimals"
// @Param        is_free formData bool false "Free product"
// @Param        product_type formData string true "video or digital"
// @Param        file formData file true "Product file"
// @Param        thumbnail formData file false "Thumbnail image"
// @Success      201  {object}  entity.Product
// @Failure      400  {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		price, _ = validation.ParseMoney(req.Price)
	}

	assetHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product file is required"})
		return
	}
	if assetHeader.Size > maxAssetSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product file must be 500MB or smaller"})
		return
	}
	asset, err := openUpload(assetHeader)
	if err != nil {
		h.logger.Error("Failed to open product file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read product file"})
		return
	}
	defer closeUpload(asset)

	var thumbnail *entity.Upload
	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		if thumbHeader.Size > maxThumbnailSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thumbnail must be 5MB or smaller"})
			return
		}
		thumb, err := openUpload(thumbHeader)
		if err != nil {
			h.logger.Error("Failed to open thumbnail: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read thumbnail"})
			return
		}
		defer closeUpload(thumb)
		thumbnail = &thumb
	}

	product, err := h.catalogUseCase.CreateProduct(c.Request.Context(), c.GetString(middleware.ContextUserID), usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		IsFree:      req.IsFree,
		ProductType: entity.ProductType(req.ProductType),
	}, asset, thumbnail)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// ListProducts godoc
// @Summary      Browse products
// @Description  Newest first, optional title search
// @Tags         products
// @Produce      json
// @Param        q query string false "Title search"
// @Param        limit query int false "Number of products to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c)

	products, err := h.catalogUseCase.ListProducts(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "limit": limit, "offset": offset})
}

// ListCreatorProducts godoc
// @Summary      Creator's products
// @Tags         products
// @Produce      json
// @Param        creator_id path string true "Creator ID"
// @Param        limit query int false "Number of products to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /creators/{creator_id}/products [get]
func (h *ProductHandler) ListCreatorProducts(c *gin.Context) {
	h.listByCreator(c, c.Param("creator_id"))
}

// ListMyProducts godoc
// @Summary      Own products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of products to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /me/products [get]
func (h *ProductHandler) ListMyProducts(c *gin.Context) {
	h.listByCreator(c, c.GetString(middleware.ContextUserID))
}

func (h *ProductHandler) listByCreator(c *gin.Context, creatorID string) {
	limit, offset := pagination(c)

	products, err := h.catalogUseCase.ListCreatorProducts(c.Request.Context(), creatorID, limit, offset)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "limit": limit, "offset": offset})
}

// GetProduct godoc
// @Summary      Product details
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogUseCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Update product
// @Description  Creator only. Free products must have price 0.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body UpdateProductRequest true "Fields to change"
// @Success      200  {object}  entity.Product
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := entity.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsFree:      req.IsFree,
	}
	if req.Price != nil {
		price, _ := validation.ParseMoney(*req.Price)
		update.Price = &price
	}

	product, err := h.catalogUseCase.UpdateProduct(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), update)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete product
// @Description  Hides the product. Buyers keep access.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogUseCase.DeleteProduct(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID)); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func openUpload(header *multipart.FileHeader) (entity.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return entity.Upload{}, err
	}
	return entity.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, nil
}

func closeUpload(upload entity.Upload) {
	if closer, ok := upload.Body.(io.Closer); ok {
		_ = closer.Close()
	}
}

func pagination(c *gin.Context) (int, int) {
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

	return limit, offset
}
