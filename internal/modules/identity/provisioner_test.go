package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	existing map[string]bool
	inserted []User
	failWith error
}

func (f *fakeUserStore) InsertUser(_ context.Context, u *User) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.existing[u.Email] {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	f.existing[u.Email] = true
	f.inserted = append(f.inserted, *u)
	return nil
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{existing: map[string]bool{}}
}

func TestProvisionGuest_NewEmail(t *testing.T) {
	store := newFakeUserStore()
	p := NewProvisioner(store)

	res, err := p.ProvisionGuest(context.Background(), " Guest@X.com ")
	require.NoError(t, err)
	require.NotNil(t, res.IdentityID)
	assert.False(t, res.AlreadyExists)

	require.Len(t, store.inserted, 1)
	u := store.inserted[0]
	assert.Equal(t, "guest@x.com", u.Email)
	assert.NotNil(t, u.EmailVerifiedAt, "guest accounts are pre-verified")
	// credential is a real bcrypt hash, not the raw secret
	cost, err := bcrypt.Cost([]byte(u.PasswordHash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, bcrypt.DefaultCost)
}

func TestProvisionGuest_ExistingEmailIsNotAnError(t *testing.T) {
	store := newFakeUserStore()
	store.existing["guest@x.com"] = true
	p := NewProvisioner(store)

	// twice: stable outcome, never an error, never a second identity
	for i := 0; i < 2; i++ {
		res, err := p.ProvisionGuest(context.Background(), "guest@x.com")
		require.NoError(t, err)
		assert.Nil(t, res.IdentityID, "existing id must never be resolved or leaked")
		assert.True(t, res.AlreadyExists)
	}
	assert.Empty(t, store.inserted)
}

func TestProvisionGuest_OtherFailurePropagates(t *testing.T) {
	store := newFakeUserStore()
	store.failWith = errors.New("connection refused")
	p := NewProvisioner(store)

	_, err := p.ProvisionGuest(context.Background(), "guest@x.com")
	assert.ErrorIs(t, err, ErrProvisionFailed)
}

func TestCallerHasRole(t *testing.T) {
	c := Caller{IdentityID: "u1", Roles: []string{"admin"}}
	assert.True(t, c.HasRole(RoleAdmin))
	assert.False(t, Caller{}.HasRole(RoleAdmin))
}
