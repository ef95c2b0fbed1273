package model

import (
	"time"

	"gorm.io/datatypes"
)

type AboutLinkModel struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ProfileModel shares its primary key with the identity provider's user id.
type ProfileModel struct {
	ID         string                              `gorm:"type:uuid;primary_key" json:"id"`
	Username   *string                             `gorm:"type:varchar(30);uniqueIndex:profiles_username_key" json:"username"`
	FullName   string                              `gorm:"type:varchar(255)" json:"full_name"`
	Bio        string                              `gorm:"type:text" json:"bio"`
	AvatarURL  string                              `gorm:"type:varchar(500)" json:"avatar_url"`
	CoverURL   string                              `gorm:"type:varchar(500)" json:"cover_url"`
	AboutLinks datatypes.JSONSlice[AboutLinkModel] `gorm:"type:jsonb" json:"about_links"`
	CreatedAt  time.Time                           `json:"created_at"`
	UpdatedAt  time.Time                           `json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}
