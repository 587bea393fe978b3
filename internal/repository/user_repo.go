package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"vidstream/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Create persists a new user. Username and email are normalized to
// lowercase; the unique indexes are the final backstop against duplicate
// registration races.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Username = normalize(u.Username)
	u.Email = normalize(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsernameOrEmail matches either identifier in a single query. Used
// both for login lookup and as the pre-create conflict probe.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", normalize(username), normalize(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetRefreshToken replaces the stored refresh token in one atomic update.
// Passing nil clears it (logout / revocation).
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int64, tok *string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("refresh_token", tok).Error
}

// UpdatePassword swaps the password hash and clears the refresh token in
// a single atomic update, so a password change revokes the session.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash": hash,
			"refresh_token": nil,
		}).Error
}

// UpdateFields applies presence-checked profile mutations.
func (r *UserRepository) UpdateFields(ctx context.Context, userID int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

func (r *UserRepository) WatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error) {
	var entries []domain.WatchEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *UserRepository) AppendWatchEntry(ctx context.Context, userID, videoID int64) error {
	return r.db.WithContext(ctx).Create(&domain.WatchEntry{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}).Error
}
