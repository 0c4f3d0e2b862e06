// internal/game/processor.go
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"semantus/internal/embedding"
	"semantus/internal/lemma"
	"semantus/internal/model"

	"github.com/google/uuid"
)

// Outcome は1回の推測の処理結果です。Duplicate の場合、Guess には
// 既存レコードの類似度・順位がそのまま入ります (UIでの表示用)。
type Outcome struct {
	Guess     Guess
	IsWin     bool
	Duplicate bool
	Status    model.GameStatus
}

// Processor は1件の推測を検証・採点してセッションに反映します。
// レンマ化と類似度・順位の計算はセッションのロックを取得する前に
// 済ませ、ロック内では重複チェックと追記だけを行います。
type Processor struct {
	idx    *embedding.Index
	engine *embedding.SimilarityEngine
	lem    lemma.Lemmatizer
}

func NewProcessor(idx *embedding.Index, engine *embedding.SimilarityEngine, lem lemma.Lemmatizer) *Processor {
	return &Processor{idx: idx, engine: engine, lem: lem}
}

// Process は推測を処理します。返すエラーはすべて model のセンチネル
// エラーに解決でき、どれもセッションを壊しません。
func (p *Processor) Process(ctx context.Context, s *Session, userID uuid.UUID, surface string) (*Outcome, error) {
	// 終端状態の判定が最優先。入力の検証より先に即座に拒否する
	if s.Status().Terminal() {
		return nil, model.ErrSessionClosed
	}

	surface = strings.TrimSpace(surface)
	if surface == "" {
		return nil, model.ErrEmptyGuess
	}

	base, err := p.lem.Lemmatize(ctx, surface)
	if err != nil {
		if errors.Is(err, model.ErrUnparseableWord) || errors.Is(err, model.ErrDependencyUnavailable) {
			return nil, err
		}
		// 解析器の想定外の失敗は外部依存の障害として区別する
		return nil, fmt.Errorf("lemmatize %q: %w", surface, model.ErrDependencyUnavailable)
	}

	isWin := base == s.TargetLemma()

	var similarity float64
	var rank int
	if isWin {
		similarity = 1.0
		rank = embedding.ExactMatchRank
	} else {
		if !p.idx.Contains(base) {
			return nil, model.ErrUnknownWord
		}
		similarity, err = p.engine.Similarity(base, s.TargetLemma())
		if err != nil {
			return nil, err
		}
		rank, err = p.engine.Rank(base, s.TargetLemma())
		if err != nil {
			return nil, err
		}
	}

	g, err := s.ApplyGuess(userID, surface, base, similarity, rank, isWin)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateGuess) && g != nil {
			// 既存レコードの類似度・順位をそのまま返す
			return &Outcome{Guess: *g, Duplicate: true, Status: s.Status()}, err
		}
		return nil, err
	}

	return &Outcome{Guess: *g, IsWin: isWin, Status: s.Status()}, nil
}
