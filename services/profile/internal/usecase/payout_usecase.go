package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"creator-market/pkg/apperr"
	"creator-market/pkg/crypto"
	"creator-market/pkg/logger"
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/repo/persistent"

	"gorm.io/gorm"
)

var (
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{6,20}$`)
)

// Sealer encrypts account numbers before they reach the database.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(ciphertext string) (string, error)
}

type PayoutUseCase interface {
	// GetPayoutAccount returns nil without error when the creator has not
	// saved payout details yet.
	GetPayoutAccount(ctx context.Context, userID string) (*entity.PayoutAccount, error)
	SavePayoutAccount(ctx context.Context, userID string, input entity.PayoutInput) (*entity.PayoutAccount, error)
}

type payoutUseCase struct {
	payoutRepo persistent.PayoutRepository
	sealer     Sealer
	logger     *logger.Logger
}

func NewPayoutUseCase(payoutRepo persistent.PayoutRepository, sealer Sealer, logger *logger.Logger) PayoutUseCase {
	return &payoutUseCase{
		payoutRepo: payoutRepo,
		sealer:     sealer,
		logger:     logger,
	}
}

func (uc *payoutUseCase) GetPayoutAccount(ctx context.Context, userID string) (*entity.PayoutAccount, error) {
	account, err := uc.payoutRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		uc.logger.Error("Failed to load payout account for %s: %v", userID, err)
		return nil, apperr.Internal("failed to load payout account", err)
	}

	uc.mask(account)
	return account, nil
}

func (uc *payoutUseCase) SavePayoutAccount(ctx context.Context, userID string, input entity.PayoutInput) (*entity.PayoutAccount, error) {
	account := &entity.PayoutAccount{
		UserID:        userID,
		AccountHolder: strings.TrimSpace(input.AccountHolder),
		IFSC:          strings.ToUpper(strings.TrimSpace(input.IFSC)),
		AccountType:   input.AccountType,
		Street:        strings.TrimSpace(input.Street),
		City:          strings.TrimSpace(input.City),
		PostalCode:    strings.TrimSpace(input.PostalCode),
	}

	if account.AccountHolder == "" || account.IFSC == "" {
		return nil, apperr.Validation("account_holder and ifsc are required")
	}
	if !ifscPattern.MatchString(account.IFSC) {
		return nil, apperr.Validation("ifsc is not valid")
	}
	if account.AccountType == "" {
		account.AccountType = entity.AccountTypeIndividual
	}
	if account.AccountType != entity.AccountTypeIndividual && account.AccountType != entity.AccountTypeBusiness {
		return nil, apperr.Validation("account_type must be individual or business")
	}

	if number := strings.ReplaceAll(strings.TrimSpace(input.AccountNumber), " ", ""); number != "" {
		if !accountNumberPattern.MatchString(number) {
			return nil, apperr.Validation("account_number must be 6-20 digits")
		}
		if uc.sealer == nil {
			return nil, apperr.Internal("payout encryption is not configured", errors.New("missing payout encryption key"))
		}
		sealed, err := uc.sealer.Seal(number)
		if err != nil {
			uc.logger.Error("Failed to encrypt account number for %s: %v", userID, err)
			return nil, apperr.Internal("failed to save payout account", err)
		}
		account.AccountNumberEncrypted = sealed
	}

	if err := uc.payoutRepo.Upsert(ctx, account); err != nil {
		uc.logger.Error("Failed to save payout account for %s: %v", userID, err)
		return nil, apperr.Internal("failed to save payout account", err)
	}

	uc.logger.Info("Payout account saved for user %s", userID)
	return uc.GetPayoutAccount(ctx, userID)
}

func (uc *payoutUseCase) mask(account *entity.PayoutAccount) {
	defer func() { account.AccountNumberEncrypted = "" }()

	if account.AccountNumberEncrypted == "" || uc.sealer == nil {
		return
	}
	number, err := uc.sealer.Open(account.AccountNumberEncrypted)
	if err != nil {
		uc.logger.Warn("Stored account number for %s cannot be decrypted: %v", account.UserID, err)
		return
	}
	account.AccountNumberMasked = crypto.Mask(number)
}
