// internal/service/vocab_service.go
package service

import (
	"context"

	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/repository"

	"gorm.io/gorm"
)

// VocabService はインデックス構築済みの語彙をDBに永続化します。
// ゲーム自体はインメモリのインデックスだけで動くため、ここは管理用の
// 参照 (語彙の一覧・件数) のためのものです。
type VocabService interface {
	PopulateWords(ctx context.Context, lemmas []string) (int, error)
	CountWords(ctx context.Context) (int64, error)
}

type vocabService struct {
	db       *gorm.DB
	wordRepo repository.WordRepository
}

func NewVocabService(db *gorm.DB, wordRepo repository.WordRepository) VocabService {
	return &vocabService{db: db, wordRepo: wordRepo}
}

// PopulateWords は語彙テーブルを投入します。冪等で、すでに投入済みなら
// 何もせず 0 を返します。
func (s *vocabService) PopulateWords(ctx context.Context, lemmas []string) (int, error) {
	logger := middleware.GetLogger(ctx)

	count, err := s.wordRepo.Count(ctx, s.db)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Words table already populated, skipping", "count", count)
		return 0, nil
	}

	words := make([]*model.Word, 0, len(lemmas))
	for _, l := range lemmas {
		words = append(words, &model.Word{Lemma: l})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.wordRepo.BulkCreate(ctx, tx, words)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Words table populated", "count", len(words))
	return len(words), nil
}

func (s *vocabService) CountWords(ctx context.Context) (int64, error) {
	return s.wordRepo.Count(ctx, s.db)
}
