package domain

import "time"

// User is the account identity record. Username and email are stored
// lowercase and unique. PasswordHash and RefreshToken never serialize.
type User struct {
	ID            int64        `json:"id" gorm:"column:id;primaryKey"`
	Username      string       `json:"username" gorm:"column:username;uniqueIndex"`
	Email         string       `json:"email" gorm:"column:email;uniqueIndex"`
	FullName      string       `json:"full_name" gorm:"column:full_name"`
	PasswordHash  string       `json:"-" gorm:"column:password_hash"`
	AvatarURL     string       `json:"avatar_url" gorm:"column:avatar_url"`
	CoverImageURL string       `json:"cover_image_url,omitempty" gorm:"column:cover_image_url"`
	RefreshToken  *string      `json:"-" gorm:"column:refresh_token"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	WatchHistory  []WatchEntry `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string { return "users" }

// Sanitized returns a copy safe to hand to transport: no password hash,
// no stored refresh token.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	u.WatchHistory = nil
	return &u
}

// WatchEntry is one video reference in a user's watch history.
type WatchEntry struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	UserID    int64     `json:"-" gorm:"column:user_id;index"`
	VideoID   int64     `json:"video_id" gorm:"column:video_id"`
	WatchedAt time.Time `json:"watched_at" gorm:"column:watched_at"`
}

func (WatchEntry) TableName() string { return "watch_history" }
