package persistent

import (
	"context"

	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Upsert(ctx context.Context, rating *entity.Rating) error
	GetByBuyer(ctx context.Context, productID, buyerID string) (*entity.Rating, error)
	CountByStar(ctx context.Context, productID string) (map[int]int, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert keys on (video_id, buyer_id) so a buyer only ever has one rating.
func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	ratingModel := ToRatingModel(rating)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "buyer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(ratingModel).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByBuyer(ctx, rating.VideoID, rating.BuyerID)
	if err != nil {
		return err
	}
	*rating = *stored
	return nil
}

func (r *ratingRepository) GetByBuyer(ctx context.Context, productID, buyerID string) (*entity.Rating, error) {
	var ratingModel model.RatingModel
	err := r.db.WithContext(ctx).
		Where("video_id = ? AND buyer_id = ?", productID, buyerID).
		First(&ratingModel).Error
	if err != nil {
		return nil, err
	}
	return ToRatingEntity(&ratingModel), nil
}

func (r *ratingRepository) CountByStar(ctx context.Context, productID string) (map[int]int, error) {
	var rows []model.StarCountRow
	err := r.db.WithContext(ctx).Model(&model.RatingModel{}).
		Select("rating, COUNT(*) AS count").
		Where("video_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}
