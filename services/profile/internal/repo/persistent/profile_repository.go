package persistent

import (
	"context"
	"errors"

	"creator-market/pkg/database"
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUsernameTaken = errors.New("username already taken")

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, id string) (*entity.Profile, error)
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUsername(ctx context.Context, username string) (*entity.Profile, error)
	IsUsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	Update(ctx context.Context, id string, fields entity.ProfileFields) (*entity.Profile, error)
	CountProducts(ctx context.Context, creatorID string) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate inserts an empty profile on the first visit. Concurrent first
// visits race on the primary key and both read back the same row.
func (r *profileRepository) GetOrCreate(ctx context.Context, id string) (*entity.Profile, error) {
	empty := &model.ProfileModel{ID: id}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(empty).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profileModel model.ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profileModel).Error; err != nil {
		return nil, err
	}
	return ToProfileEntity(&profileModel), nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	var profileModel model.ProfileModel
	if err := r.db.WithContext(ctx).Where("lower(username) = lower(?)", username).First(&profileModel).Error; err != nil {
		return nil, err
	}
	return ToProfileEntity(&profileModel), nil
}

func (r *profileRepository) IsUsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProfileModel{}).
		Where("lower(username) = lower(?) AND id <> ?", username, exceptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes only the columns present in fields.
func (r *profileRepository) Update(ctx context.Context, id string, fields entity.ProfileFields) (*entity.Profile, error) {
	columns := ToProfileColumns(fields)
	if len(columns) > 0 {
		result := r.db.WithContext(ctx).Model(&model.ProfileModel{ID: id}).Updates(columns)
		if result.Error != nil {
			if database.IsUniqueViolation(result.Error, "profiles_username_key") {
				return nil, ErrUsernameTaken
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *profileRepository) CountProducts(ctx context.Context, creatorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("products").
		Where("creator_id = ? AND deleted_at IS NULL", creatorID).
		Count(&count).Error
	return count, err
}
