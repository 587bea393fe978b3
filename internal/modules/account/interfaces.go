package account

import (
	"context"

	"vidstream/internal/domain"
)

// UserRepositoryInterface — only the methods the account service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	SetRefreshToken(ctx context.Context, userID int64, tok *string) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	UpdateFields(ctx context.Context, userID int64, fields map[string]any) error
	WatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error)
}

// MediaStore turns a local temp file into a durable URL. The temp file is
// deleted by the store on every outcome.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
