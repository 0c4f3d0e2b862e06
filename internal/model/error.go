// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用

	// コーパス取り込みのエラー。そのビルドは失敗するが、修正後の再実行で回復可能
	ErrCorpusFormat = errors.New("corpus format error")

	// 推測処理のエラー (すべてユーザー起因・回復可能)
	ErrEmptyGuess      = errors.New("guess is empty")
	ErrUnparseableWord = errors.New("word could not be analyzed")
	ErrUnknownWord     = errors.New("word not in vocabulary")
	ErrDuplicateGuess  = errors.New("lemma already guessed in this session")

	// セッション操作のエラー
	ErrInvalidMode        = errors.New("operation not allowed in this game mode")
	ErrInvitationNotFound = errors.New("no pending invitation")
	ErrSessionClosed      = errors.New("session is already completed or abandoned")

	// 外部依存 (形態素解析サービス等) の障害。UnparseableWord とは区別する
	ErrDependencyUnavailable = errors.New("external dependency unavailable")
)

// AppError はエラーコード・メッセージ・対象フィールドを持つAPI向けのエラーです。
// Unwrap で根本原因のセンチネルエラーを返すため、errors.Is での判定が可能です。
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorDetail はAPIエラーレスポンスに含めるエラー情報です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
