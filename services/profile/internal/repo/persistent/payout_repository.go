package persistent

import (
	"context"

	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.PayoutAccount, error)
	Upsert(ctx context.Context, account *entity.PayoutAccount) error
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) GetByUserID(ctx context.Context, userID string) (*entity.PayoutAccount, error) {
	var accountModel model.PayoutAccountModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&accountModel).Error; err != nil {
		return nil, err
	}
	return ToPayoutAccountEntity(&accountModel), nil
}

// Upsert keys on user_id. An empty encrypted account number keeps the stored one.
func (r *payoutRepository) Upsert(ctx context.Context, account *entity.PayoutAccount) error {
	accountModel := ToPayoutAccountModel(account)

	updates := []string{"account_holder", "ifsc", "account_type", "street", "city", "postal_code", "updated_at"}
	if accountModel.AccountNumberEncrypted != "" {
		updates = append(updates, "account_number_encrypted")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(accountModel).Error
}
