// internal/embedding/index_test.go
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

func TestBuild(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		corpus  string
		table   map[string]string
		wantErr error
		check   func(t *testing.T, idx *Index)
	}{
		{
			name: "正常系: 単一の表層形はそのままのベクトルを持つ",
			corpus: "Baum 1 0\n" +
				"Haus 0 1\n",
			check: func(t *testing.T, idx *Index) {
				assert.Equal(t, 2, idx.Len())
				assert.Equal(t, 2, idx.Dimension())
				wv, err := idx.Lookup("Baum")
				require.NoError(t, err)
				assert.Equal(t, []float64{1, 0}, wv.Vector)
			},
		},
		{
			name: "正常系: 同じレンマの表層形は成分ごとの平均になる",
			corpus: "Baum 1 0\n" +
				"Bäume 3 0\n",
			table: map[string]string{"Bäume": "Baum"},
			check: func(t *testing.T, idx *Index) {
				assert.Equal(t, 1, idx.Len())
				wv, err := idx.Lookup("Baum")
				require.NoError(t, err)
				assert.Equal(t, []float64{2, 0}, wv.Vector)
				assert.False(t, idx.Contains("Bäume"))
			},
		},
		{
			name: "正常系: 平均は6桁に丸められる",
			corpus: "x1 0\n" +
				"x2 0\n" +
				"x3 1\n",
			table: map[string]string{"x1": "x", "x2": "x", "x3": "x"},
			check: func(t *testing.T, idx *Index) {
				wv, err := idx.Lookup("x")
				require.NoError(t, err)
				assert.Equal(t, []float64{0.333333}, wv.Vector)
			},
		},
		{
			name:   "正常系: パーセントエンコードされた表層形は復号される",
			corpus: "New%20York 1 1\n",
			check: func(t *testing.T, idx *Index) {
				assert.True(t, idx.Contains("New York"))
			},
		},
		{
			name:   "正常系: 空行は無視される",
			corpus: "\nBaum 1 0\n\n",
			check: func(t *testing.T, idx *Index) {
				assert.Equal(t, 1, idx.Len())
			},
		},
		{
			name: "異常系: 次元が揃わない",
			corpus: "Baum 1 0\n" +
				"Haus 0 1 2\n",
			wantErr: model.ErrCorpusFormat,
		},
		{
			name:    "異常系: 成分が数値でない",
			corpus:  "Baum 1 abc\n",
			wantErr: model.ErrCorpusFormat,
		},
		{
			name:    "異常系: ベクトルのない行",
			corpus:  "Baum\n",
			wantErr: model.ErrCorpusFormat,
		},
		{
			name:    "異常系: 不正なパーセントエンコーディング",
			corpus:  "Ba%zzum 1 0\n",
			wantErr: model.ErrCorpusFormat,
		},
		{
			name:    "異常系: 空のコーパス",
			corpus:  "",
			wantErr: model.ErrCorpusFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lem := lemma.NewStaticLemmatizer(tt.table)
			idx, err := Build(ctx, strings.NewReader(tt.corpus), lem)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, idx)
		})
	}
}

func TestIndex_Lookup_NotFound(t *testing.T) {
	idx, err := Build(context.Background(), strings.NewReader("Baum 1 0\n"), lemma.NewStaticLemmatizer(nil))
	require.NoError(t, err)

	_, err = idx.Lookup("Haus")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestIndex_Lemmas_SortedCopy(t *testing.T) {
	corpus := "b 1\na 2\nc 3\n"
	idx, err := Build(context.Background(), strings.NewReader(corpus), lemma.NewStaticLemmatizer(nil))
	require.NoError(t, err)

	lemmas := idx.Lemmas()
	assert.Equal(t, []string{"a", "b", "c"}, lemmas)

	// 返り値を書き換えても内部状態は変わらない
	lemmas[0] = "zzz"
	assert.Equal(t, []string{"a", "b", "c"}, idx.Lemmas())
}

func TestIndex_RandomLemma(t *testing.T) {
	idx, err := Build(context.Background(), strings.NewReader("a 1\nb 2\n"), lemma.NewStaticLemmatizer(nil))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.True(t, idx.Contains(idx.RandomLemma()))
	}
}
