// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"semantus/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createRequest はテスト用のHTTPリクエストを組み立てます。
// userID が nil ならX-User-IDヘッダーを付けません (未認証のケース)。
func createRequest(t *testing.T, method, path string, body interface{}, userID *uuid.UUID) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			reqBody = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBody = bytes.NewBuffer(b)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	return req
}

// verifyErrorBody はエラーレスポンスのコードを検証します
func verifyErrorBody(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()
	if expectedCode == "" {
		return
	}
	var errResp model.APIErrorResponse
	err := json.Unmarshal(bodyBytes, &errResp)
	require.NoError(t, err, "Failed to unmarshal error response body: %s", string(bodyBytes))
	assert.Equal(t, expectedCode, errResp.Error.Code)
	assert.NotEmpty(t, errResp.Error.Message)
}

// gamePath はセッション配下のパスを組み立てます
func gamePath(sessionID uuid.UUID, suffix string) string {
	path := "/api/v1/games/" + sessionID.String()
	if suffix != "" {
		path += "/" + strings.TrimPrefix(suffix, "/")
	}
	return path
}
