package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"
	"github.com/AHKAYY007/Property-finder-dapp/internal/service"
	"github.com/AHKAYY007/Property-finder-dapp/internal/sui"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stand-ins for postgres, redis, IPFS and the fullnode. The
// services and handlers on top are the real ones.

type memUserRepo struct {
	byAddress map[string]dom.User
	nextID    int64
}

func (r *memUserRepo) GetByAddress(_ context.Context, address string) (dom.User, error) {
	u, ok := r.byAddress[address]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memUserRepo) Create(_ context.Context, address string) (dom.User, error) {
	u := dom.User{ID: r.nextID, SuiAddress: address, IsActive: true, CreatedAt: time.Now()}
	r.nextID++
	r.byAddress[address] = u
	return u, nil
}

func (r *memUserRepo) TouchLogin(_ context.Context, _ int64) error { return nil }

func (r *memUserRepo) UpdateProfile(_ context.Context, id int64, patch repo.ProfilePatch) (dom.User, error) {
	for addr, u := range r.byAddress {
		if u.ID != id {
			continue
		}
		if patch.Username != nil {
			u.Username = patch.Username
		}
		if patch.Email != nil {
			u.Email = patch.Email
		}
		if patch.AvatarURL != nil {
			u.AvatarURL = patch.AvatarURL
		}
		if patch.Bio != nil {
			u.Bio = patch.Bio
		}
		r.byAddress[addr] = u
		return u, nil
	}
	return dom.User{}, pgx.ErrNoRows
}

type memPropertyRepo struct {
	byID      map[int64]dom.Property
	nextID    int64
	favorites map[[2]int64]bool
}

func (r *memPropertyRepo) Create(_ context.Context, p dom.Property) (dom.Property, error) {
	p.ID = r.nextID
	r.nextID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = p
	return p, nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id int64) (dom.Property, error) {
	p, ok := r.byID[id]
	if !ok {
		return dom.Property{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *memPropertyRepo) Search(_ context.Context, _ dom.PropertyFilter) ([]dom.Property, error) {
	out := make([]dom.Property, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPropertyRepo) Update(_ context.Context, id int64, patch dom.Property) (dom.Property, error) {
	if _, ok := r.byID[id]; !ok {
		return dom.Property{}, pgx.ErrNoRows
	}
	patch.ID = id
	patch.UpdatedAt = time.Now()
	r.byID[id] = patch
	return patch, nil
}

func (r *memPropertyRepo) AppendImages(_ context.Context, id int64, cids []string) (dom.Property, error) {
	p := r.byID[id]
	p.Images = append(p.Images, cids...)
	r.byID[id] = p
	return p, nil
}

func (r *memPropertyRepo) AppendDocuments(_ context.Context, id int64, cids []string) (dom.Property, error) {
	p := r.byID[id]
	p.Documents = append(p.Documents, cids...)
	r.byID[id] = p
	return p, nil
}

func (r *memPropertyRepo) SetTokenID(_ context.Context, id int64, tokenID string) (dom.Property, error) {
	p := r.byID[id]
	p.TokenID = &tokenID
	r.byID[id] = p
	return p, nil
}

func (r *memPropertyRepo) SetListed(_ context.Context, id int64, listed bool) (dom.Property, error) {
	p := r.byID[id]
	p.IsListed = listed
	r.byID[id] = p
	return p, nil
}

func (r *memPropertyRepo) AddFavorite(_ context.Context, userID, propertyID int64) error {
	r.favorites[[2]int64{userID, propertyID}] = true
	return nil
}

func (r *memPropertyRepo) RemoveFavorite(_ context.Context, userID, propertyID int64) error {
	delete(r.favorites, [2]int64{userID, propertyID})
	return nil
}

func (r *memPropertyRepo) ListFavorites(_ context.Context, userID int64) ([]dom.Property, error) {
	var out []dom.Property
	for key := range r.favorites {
		if key[0] == userID {
			out = append(out, r.byID[key[1]])
		}
	}
	return out, nil
}

type memNonceStore struct {
	next  uint64
	alive map[string]bool
}

func (s *memNonceStore) Issue(_ context.Context) (uint64, error) {
	s.next++
	s.alive[strconv.FormatUint(s.next, 10)] = true
	return s.next, nil
}

func (s *memNonceStore) Consume(_ context.Context, nonce string) (bool, error) {
	if !s.alive[nonce] {
		return false, nil
	}
	delete(s.alive, nonce)
	return true, nil
}

type alwaysValid struct{}

func (alwaysValid) VerifySignature(_ context.Context, _, _ string) bool { return true }

type memFileStore struct {
	n     int
	sizes []int
}

func (f *memFileStore) Add(_ context.Context, _ string, content []byte) (string, error) {
	f.n++
	f.sizes = append(f.sizes, len(content))
	return fmt.Sprintf("QmCID%d", f.n), nil
}

type stubChain struct{}

func (stubChain) MintPropertyNFT(_ context.Context, _ int64) (string, error) {
	return "", sui.ErrNotImplemented
}

func (stubChain) ListProperty(_ context.Context, _ string) error {
	return sui.ErrNotImplemented
}

// newTestServer wires the real router shape over the in-memory backends.
func newTestServer(t *testing.T) *gin.Engine {
	r, _ := newTestServerWithFiles(t)
	return r
}

func newTestServerWithFiles(t *testing.T) (*gin.Engine, *memFileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserRepo{byAddress: map[string]dom.User{}, nextID: 1}
	properties := &memPropertyRepo{byID: map[int64]dom.Property{}, nextID: 1, favorites: map[[2]int64]bool{}}
	nonces := &memNonceStore{alive: map[string]bool{}}
	files := &memFileStore{}

	tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	authSvc := service.NewAuthService(users, nonces, alwaysValid{}, tokens)
	userSvc := service.NewUserService(users)
	propSvc := service.NewPropertyService(properties, nil, files, stubChain{})

	authH := NewAuthHandler(authSvc)
	userH := NewUserHandler(userSvc, propSvc)
	propH := NewPropertyHandler(propSvc)

	r := gin.New()
	api := r.Group("/api/v1")

	api.POST("/auth/nonce", authH.Nonce)
	api.POST("/auth/verify", authH.Verify)
	api.GET("/properties", propH.Search)
	api.GET("/properties/:id", propH.GetByID)

	protected := api.Group("", auth.RequireToken(tokens, users))
	protected.GET("/users/me", userH.Me)
	protected.PATCH("/users/me", userH.UpdateMe)
	protected.GET("/users/me/favorites", userH.Favorites)
	protected.POST("/properties", propH.Create)
	protected.PUT("/properties/:id", propH.Update)
	protected.POST("/properties/:id/images", propH.UploadImages)
	protected.POST("/properties/:id/documents", propH.UploadDocuments)
	protected.POST("/properties/:id/mint", propH.Mint)
	protected.POST("/properties/:id/list", propH.List)
	protected.POST("/properties/:id/favorite", propH.AddFavorite)
	protected.DELETE("/properties/:id/favorite", propH.RemoveFavorite)

	return r, files
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signIn runs the nonce + verify flow and returns a bearer token.
func signIn(t *testing.T, r *gin.Engine, address string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/nonce", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nonceResp struct {
		Nonce uint64 `json:"nonce"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nonceResp))

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/verify", "", gin.H{
		"message":   "hello",
		"signature": "c2lnbmF0dXJl",
		"address":   address,
		"nonce":     strconv.FormatUint(nonceResp.Nonce, 10),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	require.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)
	return tokenResp.AccessToken
}

func TestSignInFlow(t *testing.T) {
	r := newTestServer(t)
	token := signIn(t, r, "0xAAA1")

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		SuiAddress string `json:"sui_address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "0xaaa1", me.SuiAddress)
}

func TestVerifyRejectsReusedNonce(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/nonce", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nonceResp struct {
		Nonce uint64 `json:"nonce"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nonceResp))

	body := gin.H{
		"message":   "hello",
		"signature": "c2ln",
		"address":   "0xaaa1",
		"nonce":     strconv.FormatUint(nonceResp.Nonce, 10),
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/verify", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/verify", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/properties", "", gin.H{"title": "x", "price": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func createProperty(t *testing.T, r *gin.Engine, token string) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/properties", token, gin.H{
		"title":         "Two-bedroom flat",
		"description":   "Close to the waterfront",
		"price":         250000,
		"location":      "Lagos",
		"bedrooms":      2,
		"bathrooms":     1,
		"area":          78.5,
		"property_type": "apartment",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func TestPropertyLifecycle(t *testing.T) {
	r := newTestServer(t)
	ownerToken := signIn(t, r, "0xaaa1")
	id := createProperty(t, r, ownerToken)

	t.Run("public read", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", id), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodGet, "/api/v1/properties?property_type=apartment", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner updates", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/properties/%d", id), ownerToken, gin.H{"price": 240000})
		require.Equal(t, http.StatusOK, w.Code)
		var updated struct {
			Price float64 `json:"price"`
			Title string  `json:"title"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 240000.0, updated.Price)
		assert.Equal(t, "Two-bedroom flat", updated.Title)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		otherToken := signIn(t, r, "0xbbb2")
		w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/properties/%d", id), otherToken, gin.H{"price": 1})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/properties/999", ownerToken, gin.H{"price": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("mint is not implemented", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/properties/%d/mint", id), ownerToken, nil)
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("list requires mint", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/properties/%d/list", id), ownerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func uploadFile(t *testing.T, r *gin.Engine, token string, id int64, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/properties/%d/images", id), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImages(t *testing.T) {
	r := newTestServer(t)
	token := signIn(t, r, "0xaaa1")
	id := createProperty(t, r, token)

	w := uploadFile(t, r, token, id, "front.jpg", []byte("jpeg bytes"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Hashes []string `json:"hashes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"QmCID1"}, resp.Hashes)
}

func TestUploadSizeLimit(t *testing.T) {
	r, files := newTestServerWithFiles(t)
	token := signIn(t, r, "0xaaa1")
	id := createProperty(t, r, token)

	t.Run("oversized file is rejected whole", func(t *testing.T) {
		w := uploadFile(t, r, token, id, "huge.jpg", make([]byte, maxUploadBytes+100))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, files.sizes, "nothing may reach the file store")
	})

	t.Run("file at the limit is stored intact", func(t *testing.T) {
		w := uploadFile(t, r, token, id, "exact.jpg", make([]byte, maxUploadBytes))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, files.sizes, 1)
		assert.Equal(t, maxUploadBytes, files.sizes[0])
	})
}

func TestFavoritesFlow(t *testing.T) {
	r := newTestServer(t)
	ownerToken := signIn(t, r, "0xaaa1")
	id := createProperty(t, r, ownerToken)
	buyerToken := signIn(t, r, "0xbbb2")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/properties/%d/favorite", id), buyerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/me/favorites", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favs struct {
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favs))
	require.Len(t, favs.Items, 1)
	assert.Equal(t, id, favs.Items[0].ID)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/properties/%d/favorite", id), buyerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	r := newTestServer(t)
	token := signIn(t, r, "0xaaa1")

	w := doJSON(t, r, http.MethodPatch, "/api/v1/users/me", token, gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.NotNil(t, me.Username)
	assert.Equal(t, "alice", *me.Username)
}
