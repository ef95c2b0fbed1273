package entity

import "time"

// Identity is the session principal resolved from the bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AboutLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Profile struct {
	ID         string      `json:"id"`
	Username   *string     `json:"username"`
	FullName   string      `json:"full_name"`
	Bio        string      `json:"bio"`
	AvatarURL  string      `json:"avatar_url"`
	CoverURL   string      `json:"cover_url"`
	AboutLinks []AboutLink `json:"about_links"`
	PostCount  int64       `json:"post_count"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ProfileFields is a sparse set of profile columns. A nil field is absent and
// must be left untouched by whoever applies it.
type ProfileFields struct {
	Username   *string      `json:"username,omitempty"`
	FullName   *string      `json:"full_name,omitempty"`
	Bio        *string      `json:"bio,omitempty"`
	AvatarURL  *string      `json:"avatar_url,omitempty"`
	CoverURL   *string      `json:"cover_url,omitempty"`
	AboutLinks *[]AboutLink `json:"about_links,omitempty"`
}

func (f ProfileFields) IsEmpty() bool {
	return f.Username == nil && f.FullName == nil && f.Bio == nil &&
		f.AvatarURL == nil && f.CoverURL == nil && f.AboutLinks == nil
}

// ProfileChange is published to live viewers after an update commits.
type ProfileChange struct {
	ProfileID string        `json:"profile_id"`
	Fields    ProfileFields `json:"fields"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Apply merges the change into p. Fields absent from the change are kept.
func (c ProfileChange) Apply(p *Profile) {
	if p == nil || p.ID != c.ProfileID {
		return
	}
	f := c.Fields
	if f.Username != nil {
		username := *f.Username
		p.Username = &username
	}
	if f.FullName != nil {
		p.FullName = *f.FullName
	}
	if f.Bio != nil {
		p.Bio = *f.Bio
	}
	if f.AvatarURL != nil {
		p.AvatarURL = *f.AvatarURL
	}
	if f.CoverURL != nil {
		p.CoverURL = *f.CoverURL
	}
	if f.AboutLinks != nil {
		p.AboutLinks = append([]AboutLink(nil), (*f.AboutLinks)...)
	}
	if c.UpdatedAt.After(p.UpdatedAt) {
		p.UpdatedAt = c.UpdatedAt
	}
}

type MediaKind string

const (
	MediaAvatar MediaKind = "avatar"
	MediaCover  MediaKind = "cover"
)
