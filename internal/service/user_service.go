package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"
	"github.com/AHKAYY007/Property-finder-dapp/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// UserService handles profile reads and updates. Identity (the sui address)
// is immutable and not part of any patch.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// GetByAddress returns the user for a sui address.
func (s *UserService) GetByAddress(ctx context.Context, address string) (dom.User, error) {
	u, err := s.repo.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile applies the patch to the user's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch repo.ProfilePatch) (dom.User, error) {
	if patch.Username != nil {
		trimmed := strings.TrimSpace(*patch.Username)
		patch.Username = &trimmed
	}
	u, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, uniqueViolationError(err)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// uniqueViolationError maps the violated constraint to a domain error.
func uniqueViolationError(err error) error {
	var pge *pgconn.PgError
	if errors.As(err, &pge) && strings.Contains(pge.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
