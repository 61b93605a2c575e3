package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInserter is the single write the provisioner performs. The gorm
// implementation runs on the trusted credential: an anonymous guest cannot
// insert a users row under the normal row policy.
type UserInserter interface {
	InsertUser(ctx context.Context, u *User) error
}

type Provisioner struct {
	store UserInserter
}

func NewProvisioner(store UserInserter) *Provisioner { return &Provisioner{store: store} }

type ProvisionResult struct {
	IdentityID    *string
	AlreadyExists bool
}

// ProvisionGuest creates a minimal pre-verified account for a checkout email.
// When the email is already registered it reports AlreadyExists with a nil id
// and performs no lookup of the existing account: checkout must not be able
// to tell which emails have accounts, only that the order will stay unlinked
// until the customer logs in.
func (p *Provisioner) ProvisionGuest(ctx context.Context, email string) (ProvisionResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Random unguessable credential; the customer resets it later if they
	// ever want to log in.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	now := time.Now()
	u := User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    string(hash),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.store.InsertUser(ctx, &u); err != nil {
		if isDuplicateEmail(err) {
			log.Printf("ProvisionGuest: email already registered, proceeding unlinked")
			return ProvisionResult{IdentityID: nil, AlreadyExists: true}, nil
		}
		return ProvisionResult{}, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	return ProvisionResult{IdentityID: &u.ID, AlreadyExists: false}, nil
}

func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
