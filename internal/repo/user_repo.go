package repo

import (
	"context"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. Uniqueness of sui_address (and of
// username/email when set) is enforced by DB constraints, not in code.
type UserRepo interface {
	GetByAddress(ctx context.Context, address string) (dom.User, error)
	Create(ctx context.Context, address string) (dom.User, error)
	TouchLogin(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (dom.User, error)
}

// ProfilePatch holds optional profile fields; nil = leave unchanged.
type ProfilePatch struct {
	Username  *string
	Email     *string
	AvatarURL *string
	Bio       *string
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, sui_address, username, email, avatar_url, bio,
	is_verified, is_active, created_at, updated_at, last_login`

// GetByAddress returns the user by sui address.
func (r *PGUserRepo) GetByAddress(ctx context.Context, address string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE sui_address = $1`,
		address,
	).Scan(&u.ID, &u.SuiAddress, &u.Username, &u.Email, &u.AvatarURL, &u.Bio,
		&u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin)
	return u, err
}

// Create inserts a new user with default profile fields and returns it.
// A concurrent insert for the same address fails with a unique violation;
// callers re-lookup instead of surfacing it.
func (r *PGUserRepo) Create(ctx context.Context, address string) (dom.User, error) {
	query := `
		INSERT INTO users (sui_address)
		VALUES ($1)
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, address).Scan(
		&u.ID, &u.SuiAddress, &u.Username, &u.Email, &u.AvatarURL, &u.Bio,
		&u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	return u, err
}

// TouchLogin sets last_login to now. Best-effort for callers.
func (r *PGUserRepo) TouchLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// UpdateProfile applies non-nil patch fields and returns the updated user.
func (r *PGUserRepo) UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (dom.User, error) {
	query := `
		UPDATE users SET
			username   = COALESCE($2, username),
			email      = COALESCE($3, email),
			avatar_url = COALESCE($4, avatar_url),
			bio        = COALESCE($5, bio),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, patch.Username, patch.Email, patch.AvatarURL, patch.Bio).Scan(
		&u.ID, &u.SuiAddress, &u.Username, &u.Email, &u.AvatarURL, &u.Bio,
		&u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	return u, err
}
