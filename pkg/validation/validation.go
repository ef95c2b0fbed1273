// Package validation registers the marketplace's binding rules on gin's
// validator engine.
package validation

import (
	"regexp"
	"strings"
	"sync"

	"creator-market/pkg/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

var registerOnce sync.Once

// Register installs the "username" and "money" tags. Safe to call from every
// service's router setup.
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("username", validateUsername)
			_ = v.RegisterValidation("money", validateMoney)
		}
	})
}

// NormalizeUsername trims and lower-cases a requested username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ParseMoney accepts a non-negative amount with at most two decimals.
func ParseMoney(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() || !money.HasValidScale(amount) {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func validateUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(NormalizeUsername(fl.Field().String()))
}

func validateMoney(fl validator.FieldLevel) bool {
	_, ok := ParseMoney(fl.Field().String())
	return ok
}
