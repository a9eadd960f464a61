package password

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/password"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/store"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := ratelimit.NewLimiter(store.NewMemoryStore(), ratelimit.PasswordProfile(), logger.NewNop())
	h := NewHandler(password.NewPolicy(), model.DefaultPasswordRequirements(), limiter, nil)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func checkPassword(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/password/check", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckPassword_StrongCandidate(t *testing.T) {
	r := newTestRouter(t)

	w := checkPassword(t, r, map[string]string{"password": "Tr0ub4dor&3xyz!"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string                         `json:"status"`
		Data   model.PasswordValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Data.IsValid)
	assert.Empty(t, resp.Data.Errors)
}

func TestCheckPassword_RejectsPersonalInfo(t *testing.T) {
	r := newTestRouter(t)

	w := checkPassword(t, r, map[string]string{
		"password": "Alice!Secret99x",
		"name":     "Alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.PasswordValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.IsValid)
	assert.Contains(t, resp.Data.Errors, "password must not contain your name or email")
}

func TestCheckPassword_MissingPassword(t *testing.T) {
	r := newTestRouter(t)

	w := checkPassword(t, r, map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckPassword_LockedOutAfterRepeatedFailures(t *testing.T) {
	r := newTestRouter(t)

	// "short" fails validation, so every check consumes quota.
	for i := 0; i < 5; i++ {
		w := checkPassword(t, r, map[string]string{"password": fmt.Sprintf("short%d", i)})
		require.Equal(t, http.StatusOK, w.Code, "attempt %d should still be allowed", i+1)
	}

	w := checkPassword(t, r, map[string]string{"password": "short6"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCheckPassword_ValidCandidateClearsQuota(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 4; i++ {
		checkPassword(t, r, map[string]string{"password": fmt.Sprintf("short%d", i)})
	}

	// A valid candidate resets the counter, so failures can resume.
	w := checkPassword(t, r, map[string]string{"password": "Tr0ub4dor&3xyz!"})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 5; i++ {
		w = checkPassword(t, r, map[string]string{"password": fmt.Sprintf("again%d", i)})
		require.Equal(t, http.StatusOK, w.Code, "attempt %d after reset should be allowed", i+1)
	}
}
