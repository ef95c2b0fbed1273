// Package money holds the arithmetic shared by settlement and reporting so
// both sides always agree to the cent.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every stored amount.
const Scale = 2

// DefaultPlatformFeeRate is the share of every paid sale kept by the platform.
const DefaultPlatformFeeRate = 0.06

// Split divides a sale amount into the platform fee and the creator share.
// The fee is rounded to the cent and the share is the remainder, so
// fee + share == amount exactly.
func Split(amount decimal.Decimal, feeRate float64) (platformFee, creatorShare decimal.Decimal) {
	amount = amount.Round(Scale)
	platformFee = amount.Mul(decimal.NewFromFloat(feeRate)).Round(Scale)
	creatorShare = amount.Sub(platformFee)
	return platformFee, creatorShare
}

// HasValidScale reports whether amount has at most two fractional digits.
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(Scale))
}

func Zero() decimal.Decimal {
	return decimal.Zero.Round(Scale)
}
