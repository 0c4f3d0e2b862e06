// internal/model/word.go
package model

import (
	"time"
)

// Word は語彙テーブルの1エントリ (見出し語 = レンマ) を表します。
// 埋め込みコーパスの取り込み時に一度だけ投入され、以後は読み取り専用です。
type Word struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Lemma     string    `gorm:"uniqueIndex;not null" json:"lemma"`
	CreatedAt time.Time `json:"created_at"`
}

func (Word) TableName() string {
	return "words"
}
