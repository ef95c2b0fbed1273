package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	goose.SetBaseFS(FS)
	defer goose.SetBaseFS(nil)

	found, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, found, 4)

	for i, m := range found {
		assert.Equal(t, int64(i+1), m.Version)
	}
}

func TestMigrationsDeclareUpAndDown(t *testing.T) {
	entries, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, name := range entries {
		data, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		body := string(data)
		assert.True(t, strings.Contains(body, "-- +goose Up"), name)
		assert.True(t, strings.Contains(body, "-- +goose Down"), name)
	}
}

func TestMigrationsCreateUniqueIndexes(t *testing.T) {
	var all strings.Builder
	entries, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	for _, name := range entries {
		data, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		all.Write(data)
	}

	for _, index := range []string{
		"profiles_username_key",
		"payout_accounts_user_id_key",
		"purchases_video_id_buyer_id_key",
		"ratings_video_id_buyer_id_key",
		"outbox_events_pending_idx",
	} {
		assert.Contains(t, all.String(), index)
	}
	assert.Contains(t, all.String(), "CHECK (rating BETWEEN 1 AND 5)")
}
