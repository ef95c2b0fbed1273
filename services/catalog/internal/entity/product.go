package entity

import (
	"errors"
	"io"
	"time"

	"creator-market/pkg/money"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeVideo   ProductType = "video"
	ProductTypeDigital ProductType = "digital"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeVideo || t == ProductTypeDigital
}

var (
	ErrFreeProductPriced = errors.New("free products must have price 0")
	ErrPaidProductNoCost = errors.New("paid products must have a price above 0")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrPriceScale        = errors.New("price can have at most 2 decimal places")
)

type Product struct {
	ID           string          `json:"id"`
	CreatorID    string          `json:"creator_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	IsFree       bool            `json:"is_free"`
	ProductType  ProductType     `json:"product_type"`
	AssetPath    string          `json:"-"`
	ThumbnailURL string          `json:"thumbnail_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// ValidatePricing enforces is_free <=> price == 0 and cent precision.
func ValidatePricing(price decimal.Decimal, isFree bool) error {
	switch {
	case price.IsNegative():
		return ErrNegativePrice
	case !money.HasValidScale(price):
		return ErrPriceScale
	case isFree && !price.IsZero():
		return ErrFreeProductPriced
	case !isFree && !price.IsPositive():
		return ErrPaidProductNoCost
	}
	return nil
}

type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	IsFree      *bool
}

// Upload is a file received from a creator.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}
