//go:generate mockery --name GameRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"semantus/internal/middleware"
	"semantus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameRepository はゲームセッションとその周辺テーブル (参加者・招待・推測ログ)
// へのアクセスを提供します。ゲームの進行状態はインメモリのセッションが正で、
// ここは履歴と再起動後の参照のための永続化層です。
type GameRepository interface {
	CreateSession(ctx context.Context, tx *gorm.DB, session *model.GameSession) error
	FindSession(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*model.GameSession, error)
	UpdateSessionStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, updates map[string]interface{}) error

	CreateParticipant(ctx context.Context, tx *gorm.DB, participant *model.Participant) error
	UpdateParticipant(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID, updates map[string]interface{}) error

	CreateInvitation(ctx context.Context, tx *gorm.DB, invitation *model.Invitation) error
	UpdateInvitationStatus(ctx context.Context, tx *gorm.DB, sessionID, inviteeID uuid.UUID, status string) error

	CreateGuess(ctx context.Context, tx *gorm.DB, guess *model.GuessRecord) error
}

type gormGameRepository struct{}

func NewGormGameRepository() GameRepository {
	return &gormGameRepository{}
}

func (r *gormGameRepository) CreateSession(ctx context.Context, tx *gorm.DB, session *model.GameSession) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.Error("Error creating game session in DB",
			"error", result.Error,
			"session_id", session.SessionID.String(),
		)
		return fmt.Errorf("gormGameRepository.CreateSession: %w", result.Error)
	}
	return nil
}

func (r *gormGameRepository) FindSession(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (*model.GameSession, error) {
	logger := middleware.GetLogger(ctx)
	var session model.GameSession
	result := db.WithContext(ctx).
		Preload("Participants").
		Preload("Guesses", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("session_id = ?", sessionID).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding game session in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
		)
		return nil, fmt.Errorf("gormGameRepository.FindSession: %w", result.Error)
	}
	return &session, nil
}

func (r *gormGameRepository) UpdateSessionStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.GameSession{}).Where("session_id = ?", sessionID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating game session in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
		)
		return fmt.Errorf("gormGameRepository.UpdateSessionStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGameRepository) CreateParticipant(ctx context.Context, tx *gorm.DB, participant *model.Participant) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(participant)
	if result.Error != nil {
		if uniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating participant in DB",
			"error", result.Error,
			"session_id", participant.SessionID.String(),
			"user_id", participant.UserID.String(),
		)
		return fmt.Errorf("gormGameRepository.CreateParticipant: %w", result.Error)
	}
	return nil
}

func (r *gormGameRepository) UpdateParticipant(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Participant{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating participant in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
			"user_id", userID.String(),
		)
		return fmt.Errorf("gormGameRepository.UpdateParticipant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGameRepository) CreateInvitation(ctx context.Context, tx *gorm.DB, invitation *model.Invitation) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(invitation)
	if result.Error != nil {
		if uniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating invitation in DB",
			"error", result.Error,
			"session_id", invitation.SessionID.String(),
			"invitee_id", invitation.InviteeID.String(),
		)
		return fmt.Errorf("gormGameRepository.CreateInvitation: %w", result.Error)
	}
	return nil
}

func (r *gormGameRepository) UpdateInvitationStatus(ctx context.Context, tx *gorm.DB, sessionID, inviteeID uuid.UUID, status string) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Invitation{}).
		Where("session_id = ? AND invitee_id = ?", sessionID, inviteeID).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Error updating invitation in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
			"invitee_id", inviteeID.String(),
		)
		return fmt.Errorf("gormGameRepository.UpdateInvitationStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrInvitationNotFound
	}
	return nil
}

func (r *gormGameRepository) CreateGuess(ctx context.Context, tx *gorm.DB, guess *model.GuessRecord) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(guess)
	if result.Error != nil {
		// セッション内レンマの一意制約はインメモリの重複チェックの保険
		if uniqueViolation(result.Error) {
			return model.ErrDuplicateGuess
		}
		logger.Error("Error creating guess in DB",
			"error", result.Error,
			"session_id", guess.SessionID.String(),
			"lemma", guess.Lemma,
		)
		return fmt.Errorf("gormGameRepository.CreateGuess: %w", result.Error)
	}
	return nil
}
