// internal/handlers/game_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/service"
	"semantus/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type GameHandler struct {
	service service.GameService
	logger  *slog.Logger
}

func NewGameHandler(s service.GameService, logger *slog.Logger) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		service: s,
		logger:  logger,
	}
}

// sessionIDFromURL はURLパラメータからセッションIDを取り出します
func sessionIDFromURL(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "session_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", "session_idの形式が正しくありません。", "session_id", model.ErrInvalidInput)
	}
	return id, nil
}

// PostGame は新しいゲームセッションを作成するハンドラ
func (h *GameHandler) PostGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGame"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.CreateGameRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create game request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.CreateGame(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating game in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game created successfully", slog.String("session_id", resp.SessionID.String()))
	webutil.RespondWithJSON(w, logger, http.StatusCreated, resp)
}

// GetGame はセッションの状態を取得するハンドラ
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGame"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := sessionIDFromURL(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.GetGame(r.Context(), sessionID, userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusOK, resp)
}

// PostGuess は推測を投稿するハンドラ。同じレンマへの2回目の推測は
// 409 Conflict で、既存レコードを載せたレスポンスを返します。
func (h *GameHandler) PostGuess(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGuess"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	sessionID, err := sessionIDFromURL(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.GuessRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid guess request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SubmitGuess(r.Context(), sessionID, userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateGuess) && resp != nil {
			logger.Info("Duplicate guess", slog.String("lemma", resp.Lemma))
			webutil.RespondWithJSON(w, logger, http.StatusConflict, resp)
			return
		}
		logger.Warn("Guess rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusCreated, resp)
}

// PostInvite はセッションへの招待を発行するハンドラ
func (h *GameHandler) PostInvite(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostInvite"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := sessionIDFromURL(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.InviteRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid invite request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Invite(r.Context(), sessionID, userID, &req); err != nil {
		logger.Warn("Invite rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PostInvitationResponse は自分宛の招待への応答を処理するハンドラ
func (h *GameHandler) PostInvitationResponse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostInvitationResponse"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := sessionIDFromURL(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.InvitationResponseRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Invalid invitation response body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.RespondInvitation(r.Context(), sessionID, userID, &req)
	if err != nil {
		logger.Warn("Invitation response rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, logger, http.StatusOK, resp)
}

// DeleteGame はセッションを放棄するハンドラ (作成者のみ)
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteGame"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	sessionID, err := sessionIDFromURL(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.AbandonGame(r.Context(), sessionID, userID); err != nil {
		logger.Warn("Abandon rejected", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
