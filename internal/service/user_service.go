// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"regexp"

	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// usernameRe はユーザー名に使える文字の定義です (英数字・アンダースコア・ウムラウト)
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_äöüÄÖÜß]+$`)

type UserService interface {
	Signup(ctx context.Context, authID string, req *model.SignupRequest) (*model.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	CheckUsername(ctx context.Context, username string) (*model.UsernameCheckResponse, error)
	ResolveUserID(ctx context.Context, authID string) (uuid.UUID, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

// Signup は検証済みの authID に対してアプリケーション内のユーザーを作成します。
// 初期ポイントはここで付与します。
func (s *userService) Signup(ctx context.Context, authID string, req *model.SignupRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	if !usernameRe.MatchString(req.Username) {
		return nil, model.NewAppError("INVALID_USERNAME", "ユーザー名に使用できない文字が含まれています。", "username", model.ErrInvalidInput)
	}

	var created *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同じ authID での二重登録チェック
		if _, err := s.userRepo.FindByAuthID(ctx, tx, authID); err == nil {
			logger.Warn("User already registered for this auth ID")
			return model.NewAppError("ALREADY_REGISTERED", "このアカウントはすでに登録されています。", "", model.ErrConflict)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		exists, err := s.userRepo.UsernameExists(ctx, tx, req.Username)
		if err != nil {
			return err
		}
		if exists {
			return model.NewAppError("DUPLICATE_USERNAME", "そのユーザー名は既に使用されています。", "username", model.ErrConflict)
		}

		user := &model.User{
			UserID:   uuid.New(),
			AuthID:   authID,
			Username: req.Username,
			Email:    req.Email,
			Avatar:   "default",
			Points:   model.InitialPoints,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// 一意制約違反 (レースコンディション) は重複として返す
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_USERNAME", "そのユーザー名は既に使用されています。", "username", model.ErrConflict)
			}
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User signed up", "user_id", created.UserID.String(), "username", created.Username)
	return created, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.FindByID(ctx, s.db, userID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	updates := map[string]interface{}{}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, s.db, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.userRepo.FindByID(ctx, s.db, userID)
}

// CheckUsername はユーザー名が形式的に妥当で、かつ未使用かを返します
func (s *userService) CheckUsername(ctx context.Context, username string) (*model.UsernameCheckResponse, error) {
	resp := &model.UsernameCheckResponse{Username: username}

	if username == "" || len(username) > 20 {
		resp.Reason = "length"
		return resp, nil
	}
	if !usernameRe.MatchString(username) {
		resp.Reason = "invalid_characters"
		return resp, nil
	}

	exists, err := s.userRepo.UsernameExists(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if exists {
		resp.Reason = "taken"
		return resp, nil
	}

	resp.Available = true
	return resp, nil
}

// ResolveUserID は認証ミドルウェアから呼ばれ、authID をユーザーIDに解決します
func (s *userService) ResolveUserID(ctx context.Context, authID string) (uuid.UUID, error) {
	user, err := s.userRepo.FindByAuthID(ctx, s.db, authID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.UserID, nil
}
