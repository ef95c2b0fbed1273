package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	VideoID   string    `gorm:"type:uuid;not null;uniqueIndex:ratings_video_id_buyer_id_key" json:"video_id"`
	BuyerID   string    `gorm:"type:uuid;not null;uniqueIndex:ratings_video_id_buyer_id_key" json:"buyer_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Review    string    `gorm:"type:text" json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RatingModel) TableName() string {
	return "ratings"
}

func (r *RatingModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// StarCountRow is one row of the per-star aggregate.
type StarCountRow struct {
	Rating int
	Count  int
}
