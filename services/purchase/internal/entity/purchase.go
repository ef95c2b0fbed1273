package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettlementResult string

const (
	ResultSettled      SettlementResult = "settled"
	ResultFree         SettlementResult = "free"
	ResultAlreadyOwned SettlementResult = "already_owned"
	ResultFailed       SettlementResult = "failed"
)

// Product is what settlement needs to know about a catalog item.
type Product struct {
	ID           string          `json:"id"`
	CreatorID    string          `json:"creator_id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	IsFree       bool            `json:"is_free"`
	ProductType  string          `json:"product_type"`
	AssetPath    string          `json:"-"`
	ThumbnailURL string          `json:"thumbnail_url"`
	Deleted      bool            `json:"deleted"`
}

type Purchase struct {
	ID        string          `json:"id"`
	VideoID   string          `json:"video_id"`
	BuyerID   string          `json:"buyer_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type Earning struct {
	ID          string          `json:"id"`
	PurchaseID  string          `json:"purchase_id"`
	CreatorID   string          `json:"creator_id"`
	VideoID     string          `json:"video_id"`
	Amount      decimal.Decimal `json:"amount"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Settlement is everything written for one sale. Earning is nil for free
// products.
type Settlement struct {
	Purchase *Purchase
	Earning  *Earning
}

// Receipt is returned to the buyer after a purchase attempt.
type Receipt struct {
	Result   SettlementResult `json:"result"`
	Purchase *Purchase        `json:"purchase"`
	Earning  *Earning         `json:"earning,omitempty"`
}

func (r *Receipt) AlreadyOwned() bool {
	return r.Result == ResultAlreadyOwned
}

// OwnedProduct pairs a purchase with the product it unlocked, including
// products the creator has since deleted.
type OwnedProduct struct {
	Purchase *Purchase `json:"purchase"`
	Product  *Product  `json:"product"`
}

type DownloadGrant struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
