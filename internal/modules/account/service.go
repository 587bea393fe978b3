package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"vidstream/internal/domain"
	"vidstream/internal/pkg/password"
	"vidstream/internal/pkg/token"
	"vidstream/internal/pkg/validator"
)

type tokenIssuer interface {
	IssueAccess(u *domain.User) (string, error)
	IssueRefresh(userID int64) (string, error)
	VerifyRefresh(tokenStr string) (*token.RefreshClaims, error)
}

// Service carries the session lifecycle: registration, login, logout,
// refresh-token rotation, password change and profile mutation. No session
// object is persisted; state is reconstructed from token plus user record.
type Service struct {
	users  UserRepositoryInterface
	media  MediaStore
	tokens tokenIssuer
	log    *slog.Logger
}

func NewService(users UserRepositoryInterface, media MediaStore, tokens tokenIssuer, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		media:  media,
		tokens: tokens,
		log:    log,
	}
}

// Register creates a user with a hashed password and an uploaded avatar.
// The avatar is mandatory; the cover image is optional and its upload
// failure is tolerated. The created record is re-read so no secret field
// ever leaves this boundary.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrMissingFields
	}

	// Conflict probe in one query; the unique indexes remain the final
	// backstop for the narrow race between probe and create.
	if _, err := s.users.GetByUsernameOrEmail(ctx, req.Username, req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.AvatarPath == "" {
		return nil, ErrMissingAvatar
	}
	avatarURL, err := s.media.Upload(ctx, req.AvatarPath)
	if err != nil || avatarURL == "" {
		s.log.Error("avatar upload failed", "username", req.Username, "error", err)
		return nil, ErrUploadFailed
	}

	var coverURL string
	if req.CoverImagePath != "" {
		coverURL, err = s.media.Upload(ctx, req.CoverImagePath)
		if err != nil {
			s.log.Warn("cover image upload failed, continuing without", "username", req.Username, "error", err)
			coverURL = ""
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInternal
		}
		return nil, err
	}
	return created.Sanitized(), nil
}

// Login verifies credentials, mints a fresh access/refresh pair and
// persists the refresh token, overwriting any prior value.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" && req.Email == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := password.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user.Sanitized(), Tokens: pair}, nil
}

// Logout clears the stored refresh token. Safe to call twice.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// Refresh validates a presented refresh token against both its signature
// and the stored value, then rotates the pair. A rotated-out token is
// rejected even if not yet expired.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		s.log.Info("refresh token rejected", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		s.log.Info("stale refresh token presented", "user_id", user.ID)
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// ChangePassword swaps the hash after verifying the old password. The
// stored refresh token is revoked in the same update.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ok, err := password.Verify(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile applies presence-checked field mutations.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(req.FullName); v != "" {
		fields["full_name"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		fields["email"] = v
	}
	if len(fields) == 0 {
		return nil, ErrMissingFields
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return s.CurrentUser(ctx, userID)
}

func (s *Service) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "avatar_url")
}

func (s *Service) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "cover_image_url")
}

func (s *Service) updateImage(ctx context.Context, userID int64, localPath, column string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrMissingFields
	}
	url, err := s.media.Upload(ctx, localPath)
	if err != nil || url == "" {
		s.log.Error("image upload failed", "user_id", userID, "column", column, "error", err)
		return nil, ErrUploadFailed
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{column: url}); err != nil {
		return nil, err
	}
	return s.CurrentUser(ctx, userID)
}

func (s *Service) WatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error) {
	return s.users.WatchHistory(ctx, userID)
}

func (s *Service) issuePair(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
