package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"semantus/internal/config"
	"semantus/internal/model"
	"semantus/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenVerifier は認証トークンを検証し、外部の認証基盤が払い出した
// ユーザー識別子 (auth_id) を返します。トークンの発行・失効の管理は
// アプリケーションの責務外です。
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (authID string, err error)
}

// JWTVerifier は HS256 署名のJWTを検証する TokenVerifier 実装です。
type JWTVerifier struct {
	secretKey []byte
}

func NewJWTVerifier(cfg *config.Config) *JWTVerifier {
	return &JWTVerifier{secretKey: []byte(cfg.JWT.SecretKey)}
}

// Verify は署名と有効期限を検証し、subject クレームを返します。
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 署名アルゴリズムが期待通り(HS256)かチェック
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrForbidden)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", model.NewAppError("INVALID_TOKEN", "トークンにユーザー情報が含まれていません。", "", model.ErrForbidden)
	}
	return subject, nil
}

// UserResolver は auth_id からアプリケーション内のユーザーIDを解決します。
// service.UserService がこれを実装します。
type UserResolver interface {
	ResolveUserID(ctx context.Context, authID string) (uuid.UUID, error)
}

// AuthMiddleware は Authorization ヘッダーの Bearer トークンを検証し、
// 解決したユーザーIDをコンテキストに設定するミドルウェアです。
func AuthMiddleware(verifier TokenVerifier, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			// 1. Authorization ヘッダーからトークンを取得
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// "Bearer {token}" の形式を検証
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("Auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 2. トークンを検証して auth_id を取得
			authID, err := verifier.Verify(r.Context(), headerParts[1])
			if err != nil {
				logger.Warn("Auth failed: Token verification failed", "error", err)
				webutil.HandleError(w, logger, err)
				return
			}

			// 3. auth_id からユーザーを解決
			userID, err := resolver.ResolveUserID(r.Context(), authID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					// 認証は通ったが未登録。サインアップを促す
					appErr := model.NewAppError("USER_NOT_REGISTERED", "ユーザー登録が完了していません。", "", model.ErrForbidden)
					webutil.HandleError(w, logger, appErr)
					return
				}
				logger.Error("Auth failed: Could not resolve user", "error", err)
				webutil.HandleError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext はコンテキストから認証済みユーザーIDを取得します。
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		// ミドルウェアが正しく適用されていない場合の内部エラー
		return uuid.Nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コンテキストからユーザー情報を取得できませんでした。", "", model.ErrInternalServer)
	}
	return value, nil
}
