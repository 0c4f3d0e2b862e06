//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"semantus/internal/middleware"
	"semantus/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository はユーザーテーブルへのアクセスを提供します。
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByAuthID(ctx context.Context, db *gorm.DB, authID string) (*model.User, error)
	UsernameExists(ctx context.Context, db *gorm.DB, username string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
	AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

// uniqueViolation はPostgreSQLの一意制約違反 (23505) かどうかを判定します。
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(user)
	if result.Error != nil {
		// ユーザー名・auth_id の一意制約違反は競合として返す
		if uniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB",
			"error", result.Error,
			"username", user.Username,
		)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByAuthID(ctx context.Context, db *gorm.DB, authID string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User
	result := db.WithContext(ctx).Where("auth_id = ?", authID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by auth ID in DB", "error", result.Error)
		return nil, fmt.Errorf("gormUserRepository.FindByAuthID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) UsernameExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count)
	if result.Error != nil {
		logger.Error("Error checking username existence in DB",
			"error", result.Error,
			"username", username,
		)
		return false, fmt.Errorf("gormUserRepository.UsernameExists: %w", result.Error)
	}
	return count > 0, nil
}

func (r *gormUserRepository) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		if uniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return fmt.Errorf("gormUserRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		logger.Error("Error adding points in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"delta", delta,
		)
		return fmt.Errorf("gormUserRepository.AddPoints: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
