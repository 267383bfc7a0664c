package handlers

import (
	"errors"
	"net/http"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/dto"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"
	"github.com/AHKAYY007/Property-finder-dapp/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated user's own profile and favorites.
type UserHandler struct {
	userSvc *service.UserService
	propSvc *service.PropertyService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(userSvc *service.UserService, propSvc *service.PropertyService) *UserHandler {
	return &UserHandler{userSvc: userSvc, propSvc: propSvc}
}

// Me godoc
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateProfileRequest  true  "Partial profile update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.userSvc.UpdateProfile(c.Request.Context(), user.ID, repo.ProfilePatch{
		Username:  req.Username,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, userToResponse(updated))
}

// Favorites godoc
// @Summary      List current user's favorite properties
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListPropertiesResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me/favorites [get]
func (h *UserHandler) Favorites(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	list, err := h.propSvc.Favorites(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListPropertiesResponse{Items: propertiesToResponses(list)})
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		SuiAddress: u.SuiAddress,
		Username:   u.Username,
		Email:      u.Email,
		AvatarURL:  u.AvatarURL,
		Bio:        u.Bio,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}
