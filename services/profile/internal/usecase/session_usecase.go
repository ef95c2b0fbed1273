package usecase

import (
	"context"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/services/profile/internal/entity"
)

// Revoker invalidates a bearer token before its natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type SessionUseCase interface {
	CurrentUser(userID, email string) (*entity.Identity, error)
	SignOut(ctx context.Context, userID, tokenID string, expiresAt time.Time) error
}

type sessionUseCase struct {
	revoker Revoker
	logger  *logger.Logger
}

func NewSessionUseCase(revoker Revoker, logger *logger.Logger) SessionUseCase {
	return &sessionUseCase{revoker: revoker, logger: logger}
}

func (uc *sessionUseCase) CurrentUser(userID, email string) (*entity.Identity, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("not signed in")
	}
	return &entity.Identity{ID: userID, Email: email}, nil
}

func (uc *sessionUseCase) SignOut(ctx context.Context, userID, tokenID string, expiresAt time.Time) error {
	if userID == "" || tokenID == "" {
		return apperr.Unauthorized("not signed in")
	}
	if err := uc.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		uc.logger.Error("Failed to revoke session for %s: %v", userID, err)
		return apperr.Internal("failed to sign out", err)
	}
	uc.logger.Info("User %s signed out", userID)
	return nil
}
