// internal/embedding/index.go
package embedding

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"semantus/internal/lemma"
	"semantus/internal/model"
)

// WordVector は見出し語とその埋め込みベクトルの不変ペアです
type WordVector struct {
	Lemma  string
	Vector []float64
}

// Index はレンマ -> ベクトルの読み取り専用マップです。
// Build 完了後は一切変更されないため、ロックなしで任意個の
// ゴルーチンから同時に参照できます。
type Index struct {
	dim     int
	vectors map[string]WordVector
	lemmas  []string // 決定的な列挙のためソート済みで保持
}

// 平均ベクトルの丸め桁数 (再現性のため固定)
const meanPrecision = 6

type accumulator struct {
	sum   []float64
	count int
}

// Build はコーパスを読み込んでインデックスを構築します。
// 各行は「エスケープ済み表層形 + D個の浮動小数点成分」で、表層形は
// レンマ化してから集約します。同じレンマに解決された複数の表層形の
// ベクトルは成分ごとの算術平均に置き換えます (6桁丸め)。
// 行が解釈できない場合・次元が揃わない場合は model.ErrCorpusFormat です。
func Build(ctx context.Context, r io.Reader, lem lemma.Lemmatizer) (*Index, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	acc := make(map[string]*accumulator)
	dim := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and vector components: %w", lineNo, model.ErrCorpusFormat)
		}

		// 表層形はパーセントエンコーディングでエスケープされている場合がある
		surface, err := url.QueryUnescape(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: cannot decode surface word %q: %w", lineNo, fields[0], model.ErrCorpusFormat)
		}

		if dim == 0 {
			dim = len(fields) - 1
		} else if len(fields)-1 != dim {
			return nil, fmt.Errorf("line %d: dimension %d does not match declared dimension %d: %w",
				lineNo, len(fields)-1, dim, model.ErrCorpusFormat)
		}

		vec := make([]float64, dim)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: component %d is not numeric: %w", lineNo, i+1, model.ErrCorpusFormat)
			}
			vec[i] = v
		}

		base, err := lem.Lemmatize(ctx, surface)
		if err != nil {
			if errors.Is(err, model.ErrUnparseableWord) {
				// 解析器が解釈できない表層形は、その語自身をレンマとして扱う
				base = surface
			} else {
				return nil, fmt.Errorf("line %d: lemmatize %q: %w", lineNo, surface, err)
			}
		}

		a, ok := acc[base]
		if !ok {
			a = &accumulator{sum: make([]float64, dim)}
			acc[base] = a
		}
		for i, v := range vec {
			a.sum[i] += v
		}
		a.count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	if len(acc) == 0 {
		return nil, fmt.Errorf("corpus contains no entries: %w", model.ErrCorpusFormat)
	}

	vectors := make(map[string]WordVector, len(acc))
	lemmas := make([]string, 0, len(acc))
	for base, a := range acc {
		vec := a.sum
		if a.count > 1 {
			mean := make([]float64, dim)
			for i, s := range a.sum {
				mean[i] = roundTo(s/float64(a.count), meanPrecision)
			}
			vec = mean
		}
		vectors[base] = WordVector{Lemma: base, Vector: vec}
		lemmas = append(lemmas, base)
	}
	sort.Strings(lemmas)

	return &Index{dim: dim, vectors: vectors, lemmas: lemmas}, nil
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}

// Lookup はレンマのベクトルを返します。未登録なら model.ErrNotFound です
func (idx *Index) Lookup(base string) (WordVector, error) {
	wv, ok := idx.vectors[base]
	if !ok {
		return WordVector{}, model.ErrNotFound
	}
	return wv, nil
}

// Contains はレンマが語彙に含まれるかを返します
func (idx *Index) Contains(base string) bool {
	_, ok := idx.vectors[base]
	return ok
}

// Dimension はベクトルの次元数を返します
func (idx *Index) Dimension() int {
	return idx.dim
}

// Len は語彙数を返します
func (idx *Index) Len() int {
	return len(idx.lemmas)
}

// Lemmas は語彙の全レンマをソート済みのコピーで返します
func (idx *Index) Lemmas() []string {
	out := make([]string, len(idx.lemmas))
	copy(out, idx.lemmas)
	return out
}

// RandomLemma は出題語の抽選用に語彙から一様に1語を選びます
func (idx *Index) RandomLemma() string {
	return idx.lemmas[rand.Intn(len(idx.lemmas))]
}
