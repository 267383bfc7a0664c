package service

import (
	"context"
	"errors"
	"log"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"
	"github.com/AHKAYY007/Property-finder-dapp/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidNonce     = errors.New("invalid or expired nonce")
	ErrInvalidAddress   = errors.New("invalid sui address")
)

// SignatureVerifier is the external source of truth for wallet signatures.
// It decides, it does not fail: unreachable RPC means false.
type SignatureVerifier interface {
	VerifySignature(ctx context.Context, message, signature string) bool
}

// AuthService runs the sign-in-with-sui flow: nonce issuance, signature
// verification, lazy user creation and token issuance.
type AuthService struct {
	users    repo.UserRepo
	nonces   auth.NonceStore
	verifier SignatureVerifier
	tokens   *auth.TokenService
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repo.UserRepo, nonces auth.NonceStore, verifier SignatureVerifier, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, nonces: nonces, verifier: verifier, tokens: tokens}
}

// Nonce issues a fresh single-use sign-in nonce.
func (s *AuthService) Nonce(ctx context.Context) (uint64, error) {
	return s.nonces.Issue(ctx)
}

// VerifySignIn authenticates a signed message for the claimed address and
// returns a bearer token plus the (possibly just created) user.
func (s *AuthService) VerifySignIn(ctx context.Context, message, signature, address, nonce string) (string, dom.User, error) {
	address, err := utils.NormalizeSuiAddress(address)
	if err != nil {
		return "", dom.User{}, ErrInvalidAddress
	}

	ok, err := s.nonces.Consume(ctx, nonce)
	if err != nil {
		return "", dom.User{}, err
	}
	if !ok {
		return "", dom.User{}, ErrInvalidNonce
	}

	if !s.verifier.VerifySignature(ctx, message, signature) {
		return "", dom.User{}, ErrInvalidSignature
	}

	user, err := s.getOrCreate(ctx, address)
	if err != nil {
		return "", dom.User{}, err
	}

	// Best-effort: a failed last_login update must not fail the sign-in.
	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		log.Printf("auth: touch login for user %d: %v", user.ID, err)
	}

	token, err := s.tokens.Issue(user.SuiAddress)
	if err != nil {
		return "", dom.User{}, err
	}
	return token, user, nil
}

// getOrCreate looks the address up and creates the user on first sign-in.
// Two requests racing on the same fresh address both end up with the single
// row the unique constraint lets through: the loser re-looks-up instead of
// surfacing the conflict.
func (s *AuthService) getOrCreate(ctx context.Context, address string) (dom.User, error) {
	user, err := s.users.GetByAddress(ctx, address)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}

	user, err = s.users.Create(ctx, address)
	if err == nil {
		return user, nil
	}
	if utils.IsPGUniqueViolation(err) {
		return s.users.GetByAddress(ctx, address)
	}
	return dom.User{}, err
}
