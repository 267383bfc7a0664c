package service

import (
	"context"
	"testing"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	fakeUserRepo
	updated    map[int64]repo.ProfilePatch
	profileErr error
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, id int64, patch repo.ProfilePatch) (dom.User, error) {
	if r.profileErr != nil {
		return dom.User{}, r.profileErr
	}
	if r.updated == nil {
		r.updated = map[int64]repo.ProfilePatch{}
	}
	r.updated[id] = patch
	u := dom.User{ID: id, SuiAddress: "0xabc", IsActive: true}
	u.Username = patch.Username
	u.Email = patch.Email
	return u, nil
}

func TestUserGetByAddress(t *testing.T) {
	users := newFakeUserRepo()
	users.byAddress["0xabc"] = dom.User{ID: 1, SuiAddress: "0xabc"}
	svc := NewUserService(users)

	u, err := svc.GetByAddress(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = svc.GetByAddress(context.Background(), "0xmissing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("trims username", func(t *testing.T) {
		users := &fakeProfileRepo{}
		svc := NewUserService(users)

		name := "  alice  "
		u, err := svc.UpdateProfile(context.Background(), 1, repo.ProfilePatch{Username: &name})
		require.NoError(t, err)
		require.NotNil(t, u.Username)
		assert.Equal(t, "alice", *u.Username)
	})

	t.Run("username conflict", func(t *testing.T) {
		users := &fakeProfileRepo{profileErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}}
		svc := NewUserService(users)

		name := "alice"
		_, err := svc.UpdateProfile(context.Background(), 1, repo.ProfilePatch{Username: &name})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("email conflict", func(t *testing.T) {
		users := &fakeProfileRepo{profileErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}
		svc := NewUserService(users)

		email := "a@b.c"
		_, err := svc.UpdateProfile(context.Background(), 1, repo.ProfilePatch{Email: &email})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}
