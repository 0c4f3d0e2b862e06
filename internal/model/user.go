// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 新規ユーザーに付与する初期ポイント
const InitialPoints = 2000

// User はプレイヤーの基本情報を表します。
// 認証 (トークン検証) は外部のIDプロバイダが行い、ここには検証済みの
// AuthID (プロバイダ発行の不透明なID) だけを保持します。
type User struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	AuthID    string         `gorm:"uniqueIndex;not null" json:"-"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"index" json:"-"` // 招待通知用 (任意)
	Avatar    string         `gorm:"not null;default:default" json:"avatar"`
	Points    int            `gorm:"not null" json:"points"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// SignupRequest は新規登録APIのリクエストボディの構造体 (DTO)
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=20"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateUserRequest はプロフィール更新のリクエストボディ
type UpdateUserRequest struct {
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,min=1,max=20"`
}

// UserResponse はクライアントに返すユーザー情報の構造体
type UserResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	Points   int       `json:"points"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Points:   u.Points,
	}
}

// UsernameCheckResponse はユーザー名の利用可否チェックのレスポンス
type UsernameCheckResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
