// internal/lemma/kagome.go
package lemma

import (
	"context"
	"fmt"
	"strings"

	"semantus/internal/model"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeLemmatizer は kagome の形態素解析で基本形を引く実装です
type KagomeLemmatizer struct {
	t *tokenizer.Tokenizer
}

func NewKagomeLemmatizer() (*KagomeLemmatizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("lemma: init tokenizer: %w", model.ErrDependencyUnavailable)
	}
	return &KagomeLemmatizer{t: t}, nil
}

func (l *KagomeLemmatizer) Lemmatize(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", model.ErrUnparseableWord
	}

	tokens := l.t.Tokenize(word)
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA辞書の素性: インデックス6が基本形 (レンマ)。"*" は基本形なし
		features := token.Features()
		if len(features) > 6 && features[6] != "*" {
			return features[6], nil
		}
		return token.Surface, nil
	}

	// 解析結果にトークンが1つも無い
	return "", model.ErrUnparseableWord
}
