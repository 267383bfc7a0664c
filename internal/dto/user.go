package dto

import "time"

// NonceResponse is returned by POST /auth/nonce.
type NonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

// VerifyRequest is the JSON body for POST /auth/verify: the signed SIWS
// message plus the claimed address and the previously issued nonce.
type VerifyRequest struct {
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

// UpdateProfileRequest is the JSON body for PATCH /users/me. nil = не менять.
type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=32"`
	Email     *string `json:"email" binding:"omitempty,email"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID         int64      `json:"id"`
	SuiAddress string     `json:"sui_address"`
	Username   *string    `json:"username"`
	Email      *string    `json:"email"`
	AvatarURL  *string    `json:"avatar_url"`
	Bio        *string    `json:"bio"`
	IsVerified bool       `json:"is_verified"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`
}
