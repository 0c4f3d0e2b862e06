// internal/embedding/similarity.go
package embedding

import (
	"math"
	"sort"
	"sync"

	"semantus/internal/model"
)

// ExactMatchRank は出題語そのものを推測した場合の順位の番兵値です
const ExactMatchRank = 0

// rankingEntry は出題語1つ分の順位表キャッシュです。
// refs はこの出題語を使っている生きたセッションの数で、0になった時点で
// エントリごと破棄されます。順位表の構築は once で一度だけ行い、
// 構築中もエンジン全体のロックは保持しません。
type rankingEntry struct {
	refs    int
	once    sync.Once
	ranking map[string]int
	err     error
}

// SimilarityEngine は出題語に対する類似度と順位を計算します。
// 順位計算は全語彙との比較を要するため、出題語ごとの順位表を一度だけ
// 構築してキャッシュします。出題語はセッション中に変わらないので、
// 同じセッションの後続の推測はすべてキャッシュを再利用できます。
// キャッシュは Acquire/Release の参照カウントで寿命管理され、
// 出題語を使う最後のセッションが破棄されると順位表も解放されます。
type SimilarityEngine struct {
	idx *Index

	mu      sync.Mutex
	entries map[string]*rankingEntry // target lemma -> 順位表キャッシュ
}

func NewSimilarityEngine(idx *Index) *SimilarityEngine {
	return &SimilarityEngine{
		idx:     idx,
		entries: make(map[string]*rankingEntry),
	}
}

// Acquire は出題語への参照を登録します。セッション作成時に呼び、
// セッションの破棄時の Release と対にします。
func (e *SimilarityEngine) Acquire(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[target]
	if !ok {
		ent = &rankingEntry{}
		e.entries[target] = ent
	}
	ent.refs++
}

// Release は出題語への参照を解放します。参照が無くなった出題語の
// 順位表はキャッシュから破棄されます。
func (e *SimilarityEngine) Release(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[target]
	if !ok {
		return
	}
	ent.refs--
	if ent.refs <= 0 {
		delete(e.entries, target)
	}
}

// HasRanking は出題語の順位表がキャッシュされているかを返します
func (e *SimilarityEngine) HasRanking(target string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[target]
	return ok && ent.ranking != nil
}

// Similarity は2つのレンマのコサイン類似度 ([-1, 1]) を返します。
// どちらかが語彙に無い場合は model.ErrUnknownWord です。
func (e *SimilarityEngine) Similarity(a, b string) (float64, error) {
	va, err := e.idx.Lookup(a)
	if err != nil {
		return 0, model.ErrUnknownWord
	}
	vb, err := e.idx.Lookup(b)
	if err != nil {
		return 0, model.ErrUnknownWord
	}
	return cosine(va.Vector, vb.Vector), nil
}

// Rank は出題語への類似度の降順で全語彙を並べたときの base の順位
// (1始まり) を返します。同率は文字列の辞書順で決定的に解決します。
// base == target の場合は番兵値 ExactMatchRank (0) を返します。
func (e *SimilarityEngine) Rank(base, target string) (int, error) {
	if !e.idx.Contains(target) {
		return 0, model.ErrUnknownWord
	}
	if base == target {
		return ExactMatchRank, nil
	}

	ranking, err := e.ranking(target)
	if err != nil {
		return 0, err
	}
	rank, ok := ranking[base]
	if !ok {
		return 0, model.ErrUnknownWord
	}
	return rank, nil
}

type scoredLemma struct {
	lemma string
	score float64
}

// ranking は出題語に対する順位表を返します (なければ構築してキャッシュ)。
// ロックはエントリの取得だけを覆い、重い構築自体は once の中で行うため、
// ある出題語の初回構築が他の出題語の推測を待たせることはありません。
func (e *SimilarityEngine) ranking(target string) (map[string]int, error) {
	e.mu.Lock()
	ent, ok := e.entries[target]
	if !ok {
		ent = &rankingEntry{}
		e.entries[target] = ent
	}
	e.mu.Unlock()

	ent.once.Do(func() {
		ent.ranking, ent.err = e.buildRanking(target)
	})
	return ent.ranking, ent.err
}

// buildRanking は全語彙を出題語への類似度の降順に並べた順位表を構築します
func (e *SimilarityEngine) buildRanking(target string) (map[string]int, error) {
	tv, err := e.idx.Lookup(target)
	if err != nil {
		return nil, model.ErrUnknownWord
	}

	scored := make([]scoredLemma, 0, e.idx.Len()-1)
	for _, l := range e.idx.lemmas {
		if l == target {
			continue
		}
		wv := e.idx.vectors[l]
		scored = append(scored, scoredLemma{lemma: l, score: cosine(tv.Vector, wv.Vector)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].lemma < scored[j].lemma
	})

	ranking := make(map[string]int, len(scored))
	for i, s := range scored {
		ranking[s.lemma] = i + 1
	}
	return ranking, nil
}

// cosine はコサイン類似度を計算します。ゼロベクトルとの類似度は 0 とします
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
