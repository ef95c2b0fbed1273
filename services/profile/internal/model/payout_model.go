package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutAccountModel struct {
	ID                     string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID                 string    `gorm:"type:uuid;not null;uniqueIndex:payout_accounts_user_id_key" json:"user_id"`
	AccountHolder          string    `gorm:"type:varchar(255);not null" json:"account_holder"`
	IFSC                   string    `gorm:"column:ifsc;type:varchar(20);not null" json:"ifsc"`
	AccountNumberEncrypted string    `gorm:"type:text" json:"-"`
	AccountType            string    `gorm:"type:varchar(20);not null" json:"account_type"`
	Street                 string    `gorm:"type:varchar(255)" json:"street"`
	City                   string    `gorm:"type:varchar(100)" json:"city"`
	PostalCode             string    `gorm:"type:varchar(20)" json:"postal_code"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (PayoutAccountModel) TableName() string {
	return "payout_accounts"
}

func (p *PayoutAccountModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
