package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserFinder struct {
	users map[string]dom.User
}

func (f *fakeUserFinder) GetByAddress(_ context.Context, address string) (dom.User, error) {
	u, ok := f.users[address]
	if !ok {
		return dom.User{}, errors.New("no rows")
	}
	return u, nil
}

func newTestRouter(t *testing.T, tokens *TokenService, users UserFinder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireToken(tokens, users), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"sui_address": u.SuiAddress})
	})
	return r
}

func TestRequireToken(t *testing.T) {
	tokens, err := NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	finder := &fakeUserFinder{users: map[string]dom.User{
		"0xabc": {ID: 1, SuiAddress: "0xabc", IsActive: true},
		"0xdead": {ID: 2, SuiAddress: "0xdead", IsActive: false},
	}}
	r := newTestRouter(t, tokens, finder)

	get := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		w := get("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := get("Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := get("Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, err := tokens.Issue("0xnobody")
		require.NoError(t, err)
		w := get("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		token, err := tokens.Issue("0xdead")
		require.NoError(t, err)
		w := get("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token resolves user", func(t *testing.T) {
		token, err := tokens.Issue("0xabc")
		require.NoError(t, err)
		w := get("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sui_address":"0xabc"}`, w.Body.String())
	})
}

func TestAuthorizeOwner(t *testing.T) {
	t.Parallel()

	assert.NoError(t, AuthorizeOwner(7, 7))
	assert.ErrorIs(t, AuthorizeOwner(7, 8), ErrForbidden)
}
