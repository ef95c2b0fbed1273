package persistent

import (
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/model"

	"gorm.io/datatypes"
)

func ToProfileEntity(m *model.ProfileModel) *entity.Profile {
	if m == nil {
		return nil
	}

	profile := &entity.Profile{
		ID:         m.ID,
		Username:   m.Username,
		FullName:   m.FullName,
		Bio:        m.Bio,
		AvatarURL:  m.AvatarURL,
		CoverURL:   m.CoverURL,
		AboutLinks: make([]entity.AboutLink, 0, len(m.AboutLinks)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}

	for _, link := range m.AboutLinks {
		profile.AboutLinks = append(profile.AboutLinks, entity.AboutLink{Label: link.Label, URL: link.URL})
	}

	return profile
}

func ToAboutLinkModels(links []entity.AboutLink) []model.AboutLinkModel {
	out := make([]model.AboutLinkModel, 0, len(links))
	for _, link := range links {
		out = append(out, model.AboutLinkModel{Label: link.Label, URL: link.URL})
	}
	return out
}

// ToProfileColumns converts a sparse update into the column map handed to
// gorm, so absent fields are never written.
func ToProfileColumns(f entity.ProfileFields) map[string]interface{} {
	columns := make(map[string]interface{})
	if f.Username != nil {
		columns["username"] = *f.Username
	}
	if f.FullName != nil {
		columns["full_name"] = *f.FullName
	}
	if f.Bio != nil {
		columns["bio"] = *f.Bio
	}
	if f.AvatarURL != nil {
		columns["avatar_url"] = *f.AvatarURL
	}
	if f.CoverURL != nil {
		columns["cover_url"] = *f.CoverURL
	}
	if f.AboutLinks != nil {
		columns["about_links"] = datatypes.JSONSlice[model.AboutLinkModel](ToAboutLinkModels(*f.AboutLinks))
	}
	return columns
}

func ToPayoutAccountEntity(m *model.PayoutAccountModel) *entity.PayoutAccount {
	if m == nil {
		return nil
	}

	return &entity.PayoutAccount{
		UserID:           m.UserID,
		AccountHolder:    m.AccountHolder,
		IFSC:             m.IFSC,
		HasAccountNumber: m.AccountNumberEncrypted != "",
		AccountType:      entity.AccountType(m.AccountType),
		Street:           m.Street,
		City:             m.City,
		PostalCode:       m.PostalCode,
		UpdatedAt:        m.UpdatedAt,

		AccountNumberEncrypted: m.AccountNumberEncrypted,
	}
}

func ToPayoutAccountModel(e *entity.PayoutAccount) *model.PayoutAccountModel {
	if e == nil {
		return nil
	}

	return &model.PayoutAccountModel{
		UserID:                 e.UserID,
		AccountHolder:          e.AccountHolder,
		IFSC:                   e.IFSC,
		AccountNumberEncrypted: e.AccountNumberEncrypted,
		AccountType:            string(e.AccountType),
		Street:                 e.Street,
		City:                   e.City,
		PostalCode:             e.PostalCode,
	}
}
