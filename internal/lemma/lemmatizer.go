// internal/lemma/lemmatizer.go
package lemma

import (
	"context"
	"strings"

	"semantus/internal/config"
	"semantus/internal/model"
)

// Lemmatizer は表層形の単語を見出し語 (レンマ) に正規化する外部能力です。
// 解析器が語を解釈できない場合は model.ErrUnparseableWord を、
// 解析器自体が利用できない場合は model.ErrDependencyUnavailable を返します。
type Lemmatizer interface {
	Lemmatize(ctx context.Context, word string) (string, error)
}

// StaticLemmatizer はテーブル参照によるレンマ化の実装です。
// 開発・テスト用で、テーブルにない語は小文字化せずそのまま返します。
type StaticLemmatizer struct {
	table map[string]string
}

func NewStaticLemmatizer(table map[string]string) *StaticLemmatizer {
	if table == nil {
		table = map[string]string{}
	}
	return &StaticLemmatizer{table: table}
}

func (l *StaticLemmatizer) Lemmatize(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", model.ErrUnparseableWord
	}
	if base, ok := l.table[word]; ok {
		return base, nil
	}
	return word, nil
}

// New は設定に応じた Lemmatizer を生成するファクトリです
func New(cfg *config.Config) (Lemmatizer, error) {
	switch cfg.Lemmatizer.Type {
	case "static":
		return NewStaticLemmatizer(nil), nil
	default:
		return NewKagomeLemmatizer()
	}
}
