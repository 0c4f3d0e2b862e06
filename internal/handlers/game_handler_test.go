// internal/handlers/game_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"semantus/internal/handlers"
	"semantus/internal/middleware"
	"semantus/internal/model"
	"semantus/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newGameRouter は本番と同じパス構成でゲームAPIのルーターを組み立てます
func newGameRouter(svc *mocks.MockGameService) *chi.Mux {
	gameHandler := handlers.NewGameHandler(svc, nil)
	router := chi.NewRouter()
	router.Route("/api/v1/games", func(r chi.Router) {
		r.Use(middleware.DevUserContextMiddleware)
		r.Post("/", gameHandler.PostGame)
		r.Get("/{session_id}", gameHandler.GetGame)
		r.Delete("/{session_id}", gameHandler.DeleteGame)
		r.Post("/{session_id}/guesses", gameHandler.PostGuess)
		r.Post("/{session_id}/invitations", gameHandler.PostInvite)
		r.Post("/{session_id}/invitations/response", gameHandler.PostInvitationResponse)
	})
	return router
}

func sessionResponse(sessionID, userID uuid.UUID, status model.GameStatus) *model.GameSessionResponse {
	return &model.GameSessionResponse{
		SessionID: sessionID,
		Mode:      model.ModeSingleplayer,
		Status:    status,
		CreatorID: userID,
		CreatedAt: time.Now(),
		Participants: []model.ParticipantView{
			{UserID: userID, JoinedAt: time.Now()},
		},
		Guesses: []model.GuessResponse{},
	}
}

func TestGameHandler_PostGame(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	validBody := model.CreateGameRequest{Mode: "singleplayer"}

	tests := []struct {
		name          string
		userID        *uuid.UUID
		body          interface{}
		setupMock     func(svc *mocks.MockGameService)
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:   "正常系: ゲームが作成される",
			userID: &userID,
			body:   validBody,
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("CreateGame", mock.Anything, userID, &validBody).
					Return(sessionResponse(sessionID, userID, model.StatusActive), nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:          "異常系: 認証ヘッダーなし",
			userID:        nil,
			body:          validBody,
			setupMock:     func(svc *mocks.MockGameService) {},
			wantStatus:    http.StatusForbidden,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name:          "異常系: modeが欠けたリクエスト",
			userID:        &userID,
			body:          map[string]string{},
			setupMock:     func(svc *mocks.MockGameService) {},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
		},
		{
			name:   "異常系: サービスがモード不正を返す",
			userID: &userID,
			body:   model.CreateGameRequest{Mode: "versus"},
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("CreateGame", mock.Anything, userID, mock.Anything).
					Return(nil, model.ErrInvalidMode).Once()
			},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_MODE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockGameService(t)
			tc.setupMock(svc)
			router := newGameRouter(svc)

			req := createRequest(t, "POST", "/api/v1/games/", tc.body, tc.userID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantErrorCode != "" {
				verifyErrorBody(t, rr.Body.Bytes(), tc.wantErrorCode)
			} else {
				var resp model.GameSessionResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, sessionID, resp.SessionID)
				assert.Equal(t, model.StatusActive, resp.Status)
			}
		})
	}
}

func TestGameHandler_GetGame(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name          string
		path          string
		setupMock     func(svc *mocks.MockGameService)
		wantStatus    int
		wantErrorCode string
	}{
		{
			name: "正常系: セッションが返る",
			path: gamePath(sessionID, ""),
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("GetGame", mock.Anything, sessionID, userID).
					Return(sessionResponse(sessionID, userID, model.StatusActive), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "異常系: 参加していないセッション",
			path: gamePath(sessionID, ""),
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("GetGame", mock.Anything, sessionID, userID).
					Return(nil, model.ErrForbidden).Once()
			},
			wantStatus:    http.StatusForbidden,
			wantErrorCode: "FORBIDDEN",
		},
		{
			name: "異常系: 存在しないセッション",
			path: gamePath(sessionID, ""),
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("GetGame", mock.Anything, sessionID, userID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantStatus:    http.StatusNotFound,
			wantErrorCode: "NOT_FOUND",
		},
		{
			name:          "異常系: UUIDでないセッションID",
			path:          "/api/v1/games/not-a-uuid",
			setupMock:     func(svc *mocks.MockGameService) {},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "INVALID_URL_PARAM",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockGameService(t)
			tc.setupMock(svc)
			router := newGameRouter(svc)

			req := createRequest(t, "GET", tc.path, nil, &userID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			verifyErrorBody(t, rr.Body.Bytes(), tc.wantErrorCode)
		})
	}
}

func TestGameHandler_PostGuess(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	validBody := model.GuessRequest{Word: "Wald"}
	rank := 1

	accepted := &model.GuessResponse{
		SessionID:   sessionID,
		UserID:      userID,
		SurfaceWord: "Wald",
		Lemma:       "Wald",
		Similarity:  0.99,
		Rank:        &rank,
		Sequence:    1,
		Status:      model.StatusActive,
	}
	duplicate := &model.GuessResponse{
		SessionID:   sessionID,
		UserID:      userID,
		SurfaceWord: "Wälder",
		Lemma:       "Wald",
		Similarity:  0.99,
		Rank:        &rank,
		Sequence:    1,
		Duplicate:   true,
		Status:      model.StatusActive,
	}

	tests := []struct {
		name          string
		body          interface{}
		setupMock     func(svc *mocks.MockGameService)
		wantStatus    int
		wantErrorCode string
		wantDuplicate bool
	}{
		{
			name: "正常系: 推測が受理される",
			body: validBody,
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("SubmitGuess", mock.Anything, sessionID, userID, &validBody).
					Return(accepted, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "正常系: 重複推測は409と既存レコード",
			body: validBody,
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("SubmitGuess", mock.Anything, sessionID, userID, &validBody).
					Return(duplicate, model.ErrDuplicateGuess).Once()
			},
			wantStatus:    http.StatusConflict,
			wantDuplicate: true,
		},
		{
			name: "異常系: 語彙にない語",
			body: model.GuessRequest{Word: "Auto"},
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("SubmitGuess", mock.Anything, sessionID, userID, mock.Anything).
					Return(nil, model.ErrUnknownWord).Once()
			},
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorCode: "UNKNOWN_WORD",
		},
		{
			name: "異常系: 終了済みセッションへの推測",
			body: validBody,
			setupMock: func(svc *mocks.MockGameService) {
				svc.On("SubmitGuess", mock.Anything, sessionID, userID, &validBody).
					Return(nil, model.ErrSessionClosed).Once()
			},
			wantStatus:    http.StatusConflict,
			wantErrorCode: "SESSION_CLOSED",
		},
		{
			name:          "異常系: wordが欠けたリクエスト",
			body:          map[string]string{},
			setupMock:     func(svc *mocks.MockGameService) {},
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "VALIDATION_ERROR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockGameService(t)
			tc.setupMock(svc)
			router := newGameRouter(svc)

			req := createRequest(t, "POST", gamePath(sessionID, "guesses"), tc.body, &userID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantErrorCode != "" {
				verifyErrorBody(t, rr.Body.Bytes(), tc.wantErrorCode)
				return
			}

			var resp model.GuessResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "Wald", resp.Lemma)
			assert.Equal(t, tc.wantDuplicate, resp.Duplicate)
		})
	}
}

func TestGameHandler_PostInvite(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	inviteeID := uuid.New()
	validBody := model.InviteRequest{InviteeID: inviteeID}

	t.Run("正常系: 招待が発行される", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("Invite", mock.Anything, sessionID, userID, &validBody).
			Return(nil).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "POST", gamePath(sessionID, "invitations"), validBody, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("異常系: Singleplayerへの招待", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("Invite", mock.Anything, sessionID, userID, &validBody).
			Return(model.ErrInvalidMode).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "POST", gamePath(sessionID, "invitations"), validBody, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		verifyErrorBody(t, rr.Body.Bytes(), "INVALID_MODE")
	})
}

func TestGameHandler_PostInvitationResponse(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	t.Run("正常系: 承諾でセッションが返る", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("RespondInvitation", mock.Anything, sessionID, userID, &model.InvitationResponseRequest{Accept: true}).
			Return(sessionResponse(sessionID, userID, model.StatusActive), nil).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "POST", gamePath(sessionID, "invitations/response"),
			model.InvitationResponseRequest{Accept: true}, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp model.GameSessionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, model.StatusActive, resp.Status)
	})

	t.Run("異常系: 自分宛の招待がない", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("RespondInvitation", mock.Anything, sessionID, userID, mock.Anything).
			Return(nil, model.ErrInvitationNotFound).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "POST", gamePath(sessionID, "invitations/response"),
			model.InvitationResponseRequest{Accept: true}, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		verifyErrorBody(t, rr.Body.Bytes(), "INVITATION_NOT_FOUND")
	})
}

func TestGameHandler_DeleteGame(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	t.Run("正常系: セッションが放棄される", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("AbandonGame", mock.Anything, sessionID, userID).
			Return(nil).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "DELETE", gamePath(sessionID, ""), nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("異常系: 作成者以外の放棄", func(t *testing.T) {
		svc := mocks.NewMockGameService(t)
		svc.On("AbandonGame", mock.Anything, sessionID, userID).
			Return(model.ErrForbidden).Once()
		router := newGameRouter(svc)

		req := createRequest(t, "DELETE", gamePath(sessionID, ""), nil, &userID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		verifyErrorBody(t, rr.Body.Bytes(), "FORBIDDEN")
	})
}
