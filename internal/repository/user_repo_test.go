package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidstream/internal/database"
	"vidstream/internal/domain"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewUserRepository(db)
}

func newTestUser(username, email string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$2a$10$fakefakefakefakefakefa.fakefakefakefakefakefakefakefa",
		AvatarURL:    "https://cdn.example.com/a.png",
	}
}

func TestCreate_NormalizesIdentifiers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("  Alice ", "Alice@Example.COM")
	require.NoError(t, repo.Create(ctx, u))

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotZero(t, u.ID)
}

func TestCreate_DuplicateUsernameRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("alice", "alice@example.com")))

	err := repo.Create(ctx, newTestUser("alice", "other@example.com"))
	assert.Error(t, err)

	err = repo.Create(ctx, newTestUser("other", "alice@example.com"))
	assert.Error(t, err)
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("alice", "alice@example.com")))

	byUsername, err := repo.GetByUsernameOrEmail(ctx, "ALICE", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", byUsername.Username)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "", "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byEmail.Email)

	_, err = repo.GetByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetRefreshToken_SetAndClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	tok := "refresh-token-value"
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, &tok))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, tok, *got.RefreshToken)

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, nil))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}

func TestUpdatePassword_ClearsRefreshToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	tok := "refresh-token-value"
	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, &tok))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.RefreshToken)
}

func TestUpdateFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateFields(ctx, u.ID, map[string]any{"full_name": "Alice B."}))
	require.NoError(t, repo.UpdateFields(ctx, u.ID, nil))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.FullName)
}

func TestWatchHistory_OrderedNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	base := time.Now().Add(-time.Hour)
	for i, videoID := range []int64{101, 102, 103} {
		entry := &domain.WatchEntry{
			UserID:    u.ID,
			VideoID:   videoID,
			WatchedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.db.WithContext(ctx).Create(entry).Error)
	}

	entries, err := repo.WatchHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(103), entries[0].VideoID)
	assert.Equal(t, int64(101), entries[2].VideoID)
}

func TestAppendWatchEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.AppendWatchEntry(ctx, u.ID, 555))

	entries, err := repo.WatchHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(555), entries[0].VideoID)
}
