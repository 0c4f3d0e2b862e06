// internal/embedding/similarity_test.go
package embedding

import (
	"context"
	"strings"
	"testing"

	"semantus/internal/lemma"
	"semantus/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T, corpus string) *Index {
	t.Helper()
	idx, err := Build(context.Background(), strings.NewReader(corpus), lemma.NewStaticLemmatizer(nil))
	require.NoError(t, err)
	return idx
}

func TestSimilarityEngine_Similarity(t *testing.T) {
	idx := buildTestIndex(t,
		"hot 1 0\n"+
			"warm 1 0\n"+
			"cold 0 1\n"+
			"zero 0 0\n")
	engine := NewSimilarityEngine(idx)

	t.Run("正常系: 同一方向のベクトルは類似度1", func(t *testing.T) {
		got, err := engine.Similarity("hot", "warm")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("正常系: 直交するベクトルは類似度0", func(t *testing.T) {
		got, err := engine.Similarity("hot", "cold")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("正常系: ゼロベクトルとの類似度は0", func(t *testing.T) {
		got, err := engine.Similarity("hot", "zero")
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("異常系: 語彙にない語", func(t *testing.T) {
		_, err := engine.Similarity("hot", "missing")
		assert.ErrorIs(t, err, model.ErrUnknownWord)
	})
}

func TestSimilarityEngine_Rank(t *testing.T) {
	// aa と ab は出題語と同一方向 (同率)、ac は直交
	idx := buildTestIndex(t,
		"target 1 0\n"+
			"aa 2 0\n"+
			"ab 3 0\n"+
			"ac 0 1\n")
	engine := NewSimilarityEngine(idx)

	t.Run("正常系: 出題語そのものは番兵値0", func(t *testing.T) {
		got, err := engine.Rank("target", "target")
		require.NoError(t, err)
		assert.Equal(t, ExactMatchRank, got)
	})

	t.Run("正常系: 類似度の降順で1始まりの順位", func(t *testing.T) {
		got, err := engine.Rank("ac", "target")
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("正常系: 同率は辞書順で決定的に解決される", func(t *testing.T) {
		r1, err := engine.Rank("aa", "target")
		require.NoError(t, err)
		r2, err := engine.Rank("ab", "target")
		require.NoError(t, err)
		assert.Equal(t, 1, r1)
		assert.Equal(t, 2, r2)
	})

	t.Run("正常系: 同じ出題語への再計算はキャッシュと一致する", func(t *testing.T) {
		first, err := engine.Rank("aa", "target")
		require.NoError(t, err)
		second, err := engine.Rank("aa", "target")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("異常系: 語彙にない推測語", func(t *testing.T) {
		_, err := engine.Rank("missing", "target")
		assert.ErrorIs(t, err, model.ErrUnknownWord)
	})

	t.Run("異常系: 語彙にない出題語", func(t *testing.T) {
		_, err := engine.Rank("aa", "missing")
		assert.ErrorIs(t, err, model.ErrUnknownWord)
	})
}

// 順位表キャッシュは参照カウントで寿命管理され、最後の参照の解放で破棄される
func TestSimilarityEngine_AcquireRelease(t *testing.T) {
	idx := buildTestIndex(t,
		"target 1 0\n"+
			"aa 2 0\n"+
			"ac 0 1\n")
	engine := NewSimilarityEngine(idx)

	// 同じ出題語を2つのセッションが共有するケース
	engine.Acquire("target")
	engine.Acquire("target")

	_, err := engine.Rank("aa", "target")
	require.NoError(t, err)
	assert.True(t, engine.HasRanking("target"))

	// 片方の解放ではキャッシュは残る
	engine.Release("target")
	assert.True(t, engine.HasRanking("target"))

	// 最後の参照の解放でキャッシュごと破棄される
	engine.Release("target")
	assert.False(t, engine.HasRanking("target"))

	// 未登録の出題語の解放は無害
	engine.Release("missing")
}
