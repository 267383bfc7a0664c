package handlers

import (
	"errors"
	"net/http"

	"github.com/AHKAYY007/Property-finder-dapp/internal/dto"
	"github.com/AHKAYY007/Property-finder-dapp/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the sign-in-with-sui endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Nonce godoc
// @Summary      Issue a sign-in nonce
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.NonceResponse
// @Failure      500  {object}  map[string]string
// @Router       /auth/nonce [post]
func (h *AuthHandler) Nonce(c *gin.Context) {
	nonce, err := h.authSvc.Nonce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue nonce"})
		return
	}
	c.JSON(http.StatusOK, dto.NonceResponse{Nonce: nonce})
}

// Verify godoc
// @Summary      Verify a signed message and issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyRequest  true  "Signed message"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, _, err := h.authSvc.VerifySignIn(c.Request.Context(), req.Message, req.Signature, req.Address, req.Nonce)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sui address"})
		case errors.Is(err, service.ErrInvalidNonce), errors.Is(err, service.ErrInvalidSignature):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
