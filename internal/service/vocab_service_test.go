// internal/service/vocab_service_test.go
package service

import (
	"context"
	"testing"

	"semantus/internal/model"
	"semantus/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVocabService_PopulateWords(t *testing.T) {
	ctx := context.Background()
	lemmas := []string{"Baum", "Haus", "Wald"}

	t.Run("正常系: 空のテーブルには全レンマが投入される", func(t *testing.T) {
		db := setupTestDB()
		mockWordRepo := new(mocks.WordRepository)
		mockWordRepo.On("Count", ctx, mock.AnythingOfType("*gorm.DB")).
			Return(int64(0), nil).Once()
		mockWordRepo.On("BulkCreate", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]*model.Word")).
			Run(func(args mock.Arguments) {
				words := args.Get(2).([]*model.Word)
				require.Len(t, words, 3)
				assert.Equal(t, "Baum", words[0].Lemma)
			}).Return(nil).Once()

		vocabService := NewVocabService(db, mockWordRepo)
		created, err := vocabService.PopulateWords(ctx, lemmas)
		require.NoError(t, err)
		assert.Equal(t, 3, created)
		mockWordRepo.AssertExpectations(t)
	})

	t.Run("正常系: 投入済みなら何もしない (冪等)", func(t *testing.T) {
		db := setupTestDB()
		mockWordRepo := new(mocks.WordRepository)
		mockWordRepo.On("Count", ctx, mock.AnythingOfType("*gorm.DB")).
			Return(int64(3), nil).Once()

		vocabService := NewVocabService(db, mockWordRepo)
		created, err := vocabService.PopulateWords(ctx, lemmas)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		mockWordRepo.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything, mock.Anything)
	})
}
