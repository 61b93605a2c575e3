package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"subbazar.com/app/internal/shared/dbconn"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return u, err
}

func (r *Repo) RolesByUser(ctx context.Context, userID string) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).Model(&UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	return roles, err
}

// Authenticate verifies email+password for login. Constant outcome for
// unknown email vs wrong password.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// TrustedUserStore backs the guest provisioner with the elevated credential.
type TrustedUserStore struct{ db dbconn.Trusted }

func NewTrustedUserStore(db dbconn.Trusted) *TrustedUserStore { return &TrustedUserStore{db: db} }

func (s *TrustedUserStore) InsertUser(ctx context.Context, u *User) error {
	return s.db.WithContext(ctx).Create(u).Error
}
