package entity

import "time"

type AccountType string

const (
	AccountTypeIndividual AccountType = "individual"
	AccountTypeBusiness   AccountType = "business"
)

// PayoutAccount is the read view of a creator's bank details. The account
// number is only ever exposed masked.
type PayoutAccount struct {
	UserID              string      `json:"user_id"`
	AccountHolder       string      `json:"account_holder"`
	IFSC                string      `json:"ifsc"`
	AccountNumberMasked string      `json:"account_number_masked"`
	HasAccountNumber    bool        `json:"has_account_number"`
	AccountType         AccountType `json:"account_type"`
	Street              string      `json:"street"`
	City                string      `json:"city"`
	PostalCode          string      `json:"postal_code"`
	UpdatedAt           time.Time   `json:"updated_at"`

	AccountNumberEncrypted string `json:"-"`
}

type PayoutInput struct {
	AccountHolder string
	IFSC          string
	AccountNumber string
	AccountType   AccountType
	Street        string
	City          string
	PostalCode    string
}
