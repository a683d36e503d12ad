package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

func ownerID(v int64) *int64 { return &v }

func TestStore_SavedTables(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	private, err := store.CreateSavedTable(ctx, &models.SavedTable{
		UserID:          ownerID(1),
		Name:            "Private",
		MarkdownContent: "| a |\n| --- |\n| 1 |",
		Styles:          models.StyleBlob(`{"fontSize":16}`),
	})
	require.NoError(t, err)
	public, err := store.CreateSavedTable(ctx, &models.SavedTable{
		UserID:   ownerID(1),
		Name:     "Public",
		IsPublic: true,
	})
	require.NoError(t, err)
	_, err = store.CreateSavedTable(ctx, &models.SavedTable{Name: "Anonymous", IsPublic: true})
	require.NoError(t, err)

	t.Run("ids are assigned", func(t *testing.T) {
		assert.Equal(t, int64(1), private.ID)
		assert.Equal(t, int64(2), public.ID)
		assert.False(t, private.CreatedAt.IsZero())
	})

	t.Run("public listing excludes private records", func(t *testing.T) {
		tables, err := store.ListPublicSavedTables(ctx)
		require.NoError(t, err)
		require.Len(t, tables, 2)
		for _, tbl := range tables {
			assert.True(t, tbl.IsPublic)
			assert.NotEqual(t, private.ID, tbl.ID)
		}
		assert.Equal(t, "Anonymous", tables[0].Name)
	})

	t.Run("user listing includes private records", func(t *testing.T) {
		tables, err := store.ListUserSavedTables(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, tables, 2)

		tables, err = store.ListUserSavedTables(ctx, 2)
		require.NoError(t, err)
		assert.NotNil(t, tables)
		assert.Empty(t, tables)
	})

	t.Run("non-owner update returns not found and leaves record unchanged", func(t *testing.T) {
		name := "Stolen"
		_, err := store.UpdateSavedTable(ctx, private.ID, 2, models.SavedTablePatch{Name: &name})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := store.GetSavedTable(ctx, private.ID)
		require.NoError(t, err)
		assert.Equal(t, "Private", got.Name)
	})

	t.Run("owner update applies patch", func(t *testing.T) {
		name := "Renamed"
		got, err := store.UpdateSavedTable(ctx, private.ID, 1, models.SavedTablePatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "| a |\n| --- |\n| 1 |", got.MarkdownContent)
		assert.JSONEq(t, `{"fontSize":16}`, string(got.Styles))
	})

	t.Run("returned records do not alias stored state", func(t *testing.T) {
		got, err := store.GetSavedTable(ctx, private.ID)
		require.NoError(t, err)
		*got.UserID = 99
		got.Name = "Mutated"

		again, err := store.GetSavedTable(ctx, private.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), *again.UserID)
		assert.Equal(t, "Renamed", again.Name)
	})

	t.Run("non-owner delete returns not found and keeps record", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteSavedTable(ctx, public.ID, 2), repository.ErrNotFound)
		_, err := store.GetSavedTable(ctx, public.ID)
		assert.NoError(t, err)
	})

	t.Run("anonymous records cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteSavedTable(ctx, 3, 1), repository.ErrNotFound)
	})

	t.Run("owner delete", func(t *testing.T) {
		require.NoError(t, store.DeleteSavedTable(ctx, public.ID, 1))
		_, err := store.GetSavedTable(ctx, public.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, store.DeleteSavedTable(ctx, public.ID, 1), repository.ErrNotFound)
	})
}

func TestStore_CustomThemes(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	theme, err := store.CreateCustomTheme(ctx, &models.CustomTheme{UserID: ownerID(4), Name: "Mine"})
	require.NoError(t, err)
	_, err = store.CreateCustomTheme(ctx, &models.CustomTheme{UserID: ownerID(5), Name: "Shared", IsPublic: true})
	require.NoError(t, err)

	public, err := store.ListPublicCustomThemes(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Shared", public[0].Name)

	mine, err := store.ListUserCustomThemes(ctx, 4)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	assert.ErrorIs(t, store.DeleteCustomTheme(ctx, theme.ID, 5), repository.ErrNotFound)
	require.NoError(t, store.DeleteCustomTheme(ctx, theme.ID, 4))
	_, err = store.GetCustomTheme(ctx, theme.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	user, err := store.CreateUser(ctx, &models.User{Username: "ada", Password: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = store.CreateUser(ctx, &models.User{Username: "ada"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := store.GetUserByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.GetUser(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, store.Ping(ctx))
}
