package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestProfileChange_ApplyOnlyPresentFields(t *testing.T) {
	profile := &Profile{
		ID:        "p-1",
		Username:  strPtr("maker"),
		FullName:  "Maker One",
		Bio:       "old bio",
		AvatarURL: "https://cdn/avatar.png",
	}

	ProfileChange{
		ProfileID: "p-1",
		Fields:    ProfileFields{Bio: strPtr("new bio")},
	}.Apply(profile)

	assert.Equal(t, "new bio", profile.Bio)
	assert.Equal(t, "maker", *profile.Username)
	assert.Equal(t, "Maker One", profile.FullName)
	assert.Equal(t, "https://cdn/avatar.png", profile.AvatarURL)
}

func TestProfileChange_ApplyNeverNullsOut(t *testing.T) {
	profile := &Profile{
		ID:         "p-1",
		FullName:   "Maker One",
		AboutLinks: []AboutLink{{Label: "site", URL: "https://maker.dev"}},
	}

	ProfileChange{ProfileID: "p-1"}.Apply(profile)

	assert.Equal(t, "Maker One", profile.FullName)
	assert.Len(t, profile.AboutLinks, 1)
}

func TestProfileChange_ApplyEmptyStringIsAValue(t *testing.T) {
	profile := &Profile{ID: "p-1", Bio: "something"}

	ProfileChange{ProfileID: "p-1", Fields: ProfileFields{Bio: strPtr("")}}.Apply(profile)

	assert.Equal(t, "", profile.Bio)
}

func TestProfileChange_ApplyIgnoresOtherProfile(t *testing.T) {
	profile := &Profile{ID: "p-1", Bio: "mine"}

	ProfileChange{ProfileID: "p-2", Fields: ProfileFields{Bio: strPtr("theirs")}}.Apply(profile)

	assert.Equal(t, "mine", profile.Bio)
}

func TestProfileChange_ApplySequentialEditsLastWriterWinsPerField(t *testing.T) {
	profile := &Profile{ID: "p-1"}
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	ProfileChange{ProfileID: "p-1", Fields: ProfileFields{FullName: strPtr("A"), Bio: strPtr("bio A")}, UpdatedAt: t1}.Apply(profile)
	ProfileChange{ProfileID: "p-1", Fields: ProfileFields{FullName: strPtr("B")}, UpdatedAt: t1.Add(time.Second)}.Apply(profile)

	assert.Equal(t, "B", profile.FullName)
	assert.Equal(t, "bio A", profile.Bio)
	assert.Equal(t, t1.Add(time.Second), profile.UpdatedAt)
}

func TestProfileChange_ApplyCopiesLinks(t *testing.T) {
	links := []AboutLink{{Label: "x", URL: "https://x.example"}}
	profile := &Profile{ID: "p-1"}

	ProfileChange{ProfileID: "p-1", Fields: ProfileFields{AboutLinks: &links}}.Apply(profile)
	links[0].Label = "changed"

	assert.Equal(t, "x", profile.AboutLinks[0].Label)
}

func TestProfileFields_IsEmpty(t *testing.T) {
	assert.True(t, ProfileFields{}.IsEmpty())
	assert.False(t, ProfileFields{Bio: strPtr("")}.IsEmpty())
}
