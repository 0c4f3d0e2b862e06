//go:generate mockery --name WordRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"semantus/internal/middleware"
	"semantus/internal/model"

	"gorm.io/gorm"
)

// WordRepository は語彙テーブルへのアクセスを提供します。
// 語彙はインデックス構築済みのレンマを永続化したもので、更新や削除はありません。
type WordRepository interface {
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	BulkCreate(ctx context.Context, tx *gorm.DB, words []*model.Word) error
	FindAllLemmas(ctx context.Context, db *gorm.DB) ([]string, error)
}

type gormWordRepository struct{}

func NewGormWordRepository() WordRepository {
	return &gormWordRepository{}
}

func (r *gormWordRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Word{}).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting words in DB", "error", result.Error)
		return 0, fmt.Errorf("gormWordRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormWordRepository) BulkCreate(ctx context.Context, tx *gorm.DB, words []*model.Word) error {
	logger := middleware.GetLogger(ctx)
	if len(words) == 0 {
		return nil
	}
	// 語彙は数万件になり得るためバッチで挿入する
	result := tx.WithContext(ctx).CreateInBatches(words, 500)
	if result.Error != nil {
		logger.Error("Error bulk creating words in DB",
			"error", result.Error,
			"count", len(words),
		)
		return fmt.Errorf("gormWordRepository.BulkCreate: %w", result.Error)
	}
	return nil
}

func (r *gormWordRepository) FindAllLemmas(ctx context.Context, db *gorm.DB) ([]string, error) {
	logger := middleware.GetLogger(ctx)
	var lemmas []string
	result := db.WithContext(ctx).Model(&model.Word{}).Order("lemma ASC").Pluck("lemma", &lemmas)
	if result.Error != nil {
		logger.Error("Error finding lemmas in DB", "error", result.Error)
		return nil, fmt.Errorf("gormWordRepository.FindAllLemmas: %w", result.Error)
	}
	return lemmas, nil
}
