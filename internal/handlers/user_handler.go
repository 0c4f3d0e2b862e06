// internal/handlers/user_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/service"
	"semantus/internal/webutil"
)

type UserHandler struct {
	service  service.UserService
	verifier middleware.TokenVerifier // nil なら開発モード (X-Auth-ID ヘッダー)
	logger   *slog.Logger
}

func NewUserHandler(s service.UserService, verifier middleware.TokenVerifier, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		service:  s,
		verifier: verifier,
		logger:   logger,
	}
}

// authIDFromRequest はサインアップ用に認証基盤のIDを取り出します。
// サインアップ時点ではまだユーザーが存在しないため、通常の認証ミドルウェア
// (トークン -> ユーザー解決) は通れず、ここでトークンだけを検証します。
func (h *UserHandler) authIDFromRequest(r *http.Request) (string, error) {
	if h.verifier == nil {
		authID := r.Header.Get("X-Auth-ID")
		if authID == "" {
			return "", model.NewAppError("UNAUTHORIZED", "[DEV] X-Auth-IDヘッダーが必要です。", "", model.ErrForbidden)
		}
		return authID, nil
	}

	authHeader := r.Header.Get("Authorization")
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrForbidden)
	}
	return h.verifier.Verify(r.Context(), headerParts[1])
}

// PostSignup は新規ユーザーを登録するハンドラ
func (h *UserHandler) PostSignup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSignup"))

	authID, err := h.authIDFromRequest(r)
	if err != nil {
		logger.Warn("Signup auth failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SignupRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid signup request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.Signup(r.Context(), authID, &req)
	if err != nil {
		logger.Warn("Signup rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User signed up successfully", slog.String("user_id", user.UserID.String()))
	webutil.RespondWithJSON(w, logger, http.StatusCreated, model.NewUserResponse(user))
}

// GetMe は認証済みユーザー自身の情報を返すハンドラ
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMe"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusOK, model.NewUserResponse(user))
}

// PutMe はプロフィール (アバター) を更新するハンドラ
func (h *UserHandler) PutMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutMe"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateUserRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid update request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusOK, model.NewUserResponse(user))
}

// GetUsernameCheck はユーザー名の利用可否を返す公開ハンドラ
func (h *UserHandler) GetUsernameCheck(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetUsernameCheck"))

	username := r.URL.Query().Get("username")
	resp, err := h.service.CheckUsername(r.Context(), username)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusOK, resp)
}
