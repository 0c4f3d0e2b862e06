// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"semantus/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
// これがアプリケーションのエラーハンドリングの中心となります。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	// エラーの根本原因に基づいてHTTPステータスコードを決定
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	// エラーがカスタムエラー型 AppError かどうかを判定
	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{Code: appErr.Code, Message: appErr.Message, Field: appErr.Field},
		}
	} else if code, message, ok := describeSentinel(err); ok {
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{Code: code, Message: message},
		}
	} else {
		// ハンドリングされていない予期せぬエラー
		logger.Error("Unhandled error", "error", err)
		errResp = model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "サーバー内部でエラーが発生しました。",
			},
		}
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", "status", statusCode, "error", err)
	}

	RespondWithJSON(w, logger, statusCode, errResp)
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	// AppErrorの場合は、ラップされたエラーで判定する
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrInvitationNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrEmptyGuess),
		errors.Is(err, model.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnknownWord),
		errors.Is(err, model.ErrUnparseableWord):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrDuplicateGuess),
		errors.Is(err, model.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		// ハンドリングされていないエラーは内部サーバーエラーとして扱う
		return http.StatusInternalServerError
	}
}

// describeSentinel は剥き出しのセンチネルエラーに対するコードとメッセージを返します。
// サービス層が AppError に包まずに返した場合でも意味のあるレスポンスになるようにします。
func describeSentinel(err error) (code, message string, ok bool) {
	switch {
	case errors.Is(err, model.ErrEmptyGuess):
		return "EMPTY_GUESS", "推測する単語を入力してください。", true
	case errors.Is(err, model.ErrUnknownWord):
		return "UNKNOWN_WORD", "その単語は語彙に含まれていません。", true
	case errors.Is(err, model.ErrUnparseableWord):
		return "UNPARSEABLE_WORD", "その単語は解析できませんでした。", true
	case errors.Is(err, model.ErrDuplicateGuess):
		return "DUPLICATE_GUESS", "その単語はすでに推測されています。", true
	case errors.Is(err, model.ErrInvalidMode):
		return "INVALID_MODE", "このゲームモードでは実行できない操作です。", true
	case errors.Is(err, model.ErrInvitationNotFound):
		return "INVITATION_NOT_FOUND", "招待が見つかりません。", true
	case errors.Is(err, model.ErrSessionClosed):
		return "SESSION_CLOSED", "このゲームはすでに終了しています。", true
	case errors.Is(err, model.ErrDependencyUnavailable):
		return "DEPENDENCY_UNAVAILABLE", "外部サービスが一時的に利用できません。", true
	case errors.Is(err, model.ErrNotFound):
		return "NOT_FOUND", "リソースが見つかりません。", true
	case errors.Is(err, model.ErrForbidden):
		return "FORBIDDEN", "この操作を行う権限がありません。", true
	case errors.Is(err, model.ErrConflict):
		return "CONFLICT", "リソースが競合しています。", true
	case errors.Is(err, model.ErrInvalidInput):
		return "INVALID_INPUT", "リクエストの内容が正しくありません。", true
	default:
		return "", "", false
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR", "message":"レスポンス生成中にエラーが発生しました。"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string

	for _, err := range errs {
		field := err.Field()
		message := err.Translate(Trans)
		fields = append(fields, field)
		messages = append(messages, message)
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, " "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}

// DecodeAndValidate はリクエストボディのデコードとバリデーションをまとめて行います
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	if err := Validator.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return NewValidationErrorResponse(validationErrs)
		}
		return fmt.Errorf("validate request: %w", model.ErrInvalidInput)
	}
	return nil
}
