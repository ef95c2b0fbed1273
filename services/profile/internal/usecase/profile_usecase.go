package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/s3"
	"creator-market/pkg/validation"
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/repo/persistent"

	"gorm.io/gorm"
)

const (
	maxFullNameLength = 255
	maxBioLength      = 2000
	maxAboutLinks     = 10
)

var (
	ErrProfileNotFound = apperr.NotFound("profile not found")
	ErrUsernameTaken   = apperr.Conflict("username already taken")
	ErrInvalidUsername = apperr.Validation("username must be 3-30 characters using a-z, 0-9, underscore or dot")
)

var allowedMediaExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true, "gif": true}

// MediaStore is the public bucket holding avatars and covers.
type MediaStore interface {
	Put(key string, body io.ReadSeeker, contentType string) error
	PublicURL(key string) string
}

type ProfileUseCase interface {
	GetMyProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID string, fields entity.ProfileFields) (*entity.Profile, error)
	UploadMedia(ctx context.Context, userID string, kind entity.MediaKind, filename, contentType string, body io.ReadSeeker) (*entity.Profile, error)
	GetPublicProfile(ctx context.Context, username string) (*entity.Profile, error)
	WatchProfile(ctx context.Context, username string) (*entity.Profile, <-chan entity.ProfileChange, func(), error)
}

type profileUseCase struct {
	profileRepo persistent.ProfileRepository
	mediaStore  MediaStore
	broker      ChangeBroker
	logger      *logger.Logger
	now         func() time.Time
}

func NewProfileUseCase(profileRepo persistent.ProfileRepository, mediaStore MediaStore, broker ChangeBroker, logger *logger.Logger) ProfileUseCase {
	return &profileUseCase{
		profileRepo: profileRepo,
		mediaStore:  mediaStore,
		broker:      broker,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *profileUseCase) GetMyProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to load profile %s: %v", userID, err)
		return nil, apperr.Internal("failed to load profile", err)
	}
	return uc.withPostCount(ctx, profile)
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, userID string, fields entity.ProfileFields) (*entity.Profile, error) {
	// Media URLs only change through UploadMedia.
	fields.AvatarURL = nil
	fields.CoverURL = nil

	fields, err := uc.normalize(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	if _, err := uc.profileRepo.GetOrCreate(ctx, userID); err != nil {
		uc.logger.Error("Failed to load profile %s: %v", userID, err)
		return nil, apperr.Internal("failed to load profile", err)
	}

	return uc.apply(ctx, userID, fields)
}

func (uc *profileUseCase) UploadMedia(ctx context.Context, userID string, kind entity.MediaKind, filename, contentType string, body io.ReadSeeker) (*entity.Profile, error) {
	if kind != entity.MediaAvatar && kind != entity.MediaCover {
		return nil, apperr.Validation("media kind must be avatar or cover")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !allowedMediaExt[ext] {
		return nil, apperr.Validation("image must be jpg, jpeg, png, webp or gif")
	}

	if _, err := uc.profileRepo.GetOrCreate(ctx, userID); err != nil {
		uc.logger.Error("Failed to load profile %s: %v", userID, err)
		return nil, apperr.Internal("failed to load profile", err)
	}

	key := s3.ProfileMediaKey(userID, string(kind), ext)
	if err := uc.mediaStore.Put(key, body, contentType); err != nil {
		uc.logger.Error("Failed to upload %s for %s: %v", kind, userID, err)
		return nil, apperr.Internal("failed to upload image", err)
	}

	// The key never changes, so viewers need a cache-buster to see the new image.
	publicURL := fmt.Sprintf("%s?t=%d", uc.mediaStore.PublicURL(key), uc.now().Unix())

	var fields entity.ProfileFields
	if kind == entity.MediaAvatar {
		fields.AvatarURL = &publicURL
	} else {
		fields.CoverURL = &publicURL
	}

	return uc.apply(ctx, userID, fields)
}

func (uc *profileUseCase) GetPublicProfile(ctx context.Context, username string) (*entity.Profile, error) {
	username = validation.NormalizeUsername(username)
	if username == "" {
		return nil, ErrProfileNotFound
	}

	profile, err := uc.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		uc.logger.Error("Failed to look up profile %s: %v", username, err)
		return nil, apperr.Internal("failed to load profile", err)
	}

	return uc.withPostCount(ctx, profile)
}

// WatchProfile returns the current profile and a stream of subsequent changes.
// The subscription is opened before the snapshot is read so no change
// committed in between is missed.
func (uc *profileUseCase) WatchProfile(ctx context.Context, username string) (*entity.Profile, <-chan entity.ProfileChange, func(), error) {
	if uc.broker == nil {
		return nil, nil, nil, apperr.Internal("live updates unavailable", errors.New("no change broker configured"))
	}

	profile, err := uc.GetPublicProfile(ctx, username)
	if err != nil {
		return nil, nil, nil, err
	}

	changes, unsubscribe, err := uc.broker.Subscribe(ctx, profile.ID)
	if err != nil {
		uc.logger.Error("Failed to subscribe to profile %s: %v", profile.ID, err)
		return nil, nil, nil, apperr.Internal("failed to subscribe", err)
	}

	snapshot, err := uc.profileRepo.GetByID(ctx, profile.ID)
	if err != nil {
		unsubscribe()
		uc.logger.Error("Failed to reload profile %s: %v", profile.ID, err)
		return nil, nil, nil, apperr.Internal("failed to load profile", err)
	}
	snapshot.PostCount = profile.PostCount

	return snapshot, changes, unsubscribe, nil
}

func (uc *profileUseCase) apply(ctx context.Context, userID string, fields entity.ProfileFields) (*entity.Profile, error) {
	profile, err := uc.profileRepo.Update(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, persistent.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		uc.logger.Error("Failed to update profile %s: %v", userID, err)
		return nil, apperr.Internal("failed to update profile", err)
	}

	if !fields.IsEmpty() && uc.broker != nil {
		change := entity.ProfileChange{ProfileID: userID, Fields: fields, UpdatedAt: profile.UpdatedAt}
		if err := uc.broker.Publish(ctx, change); err != nil {
			uc.logger.Warn("Failed to publish profile change for %s: %v", userID, err)
		}
	}

	return uc.withPostCount(ctx, profile)
}

func (uc *profileUseCase) normalize(ctx context.Context, userID string, fields entity.ProfileFields) (entity.ProfileFields, error) {
	if fields.Username != nil {
		username := validation.NormalizeUsername(*fields.Username)
		if !validation.IsValidUsername(username) {
			return fields, ErrInvalidUsername
		}
		taken, err := uc.profileRepo.IsUsernameTaken(ctx, username, userID)
		if err != nil {
			uc.logger.Error("Failed to check username %s: %v", username, err)
			return fields, apperr.Internal("failed to check username", err)
		}
		if taken {
			return fields, ErrUsernameTaken
		}
		fields.Username = &username
	}

	if fields.FullName != nil {
		fullName := strings.TrimSpace(*fields.FullName)
		if len(fullName) > maxFullNameLength {
			return fields, apperr.Validation("full_name is too long")
		}
		fields.FullName = &fullName
	}

	if fields.Bio != nil && len(*fields.Bio) > maxBioLength {
		return fields, apperr.Validation("bio is too long")
	}

	if fields.AboutLinks != nil {
		links := *fields.AboutLinks
		if len(links) > maxAboutLinks {
			return fields, apperr.Validation(fmt.Sprintf("at most %d links are allowed", maxAboutLinks))
		}
		cleaned := make([]entity.AboutLink, 0, len(links))
		for _, link := range links {
			label := strings.TrimSpace(link.Label)
			rawURL := strings.TrimSpace(link.URL)
			if label == "" || !isHTTPURL(rawURL) {
				return fields, apperr.Validation("each link needs a label and an http(s) url")
			}
			cleaned = append(cleaned, entity.AboutLink{Label: label, URL: rawURL})
		}
		fields.AboutLinks = &cleaned
	}

	return fields, nil
}

func (uc *profileUseCase) withPostCount(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	count, err := uc.profileRepo.CountProducts(ctx, profile.ID)
	if err != nil {
		uc.logger.Error("Failed to count products for %s: %v", profile.ID, err)
		return nil, apperr.Internal("failed to load profile", err)
	}
	profile.PostCount = count
	return profile, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
