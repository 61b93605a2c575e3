package identity

import "time"

type User struct {
	ID              string     `gorm:"type:char(36);primaryKey"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash    string     `gorm:"type:varchar(128);not null"`
	EmailVerifiedAt *time.Time `gorm:"type:datetime(3)"`
	CreatedAt       time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt       time.Time  `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }

const RoleAdmin = "admin"

// UserRole is a pure gate; this workflow reads it and never writes it.
type UserRole struct {
	UserID    string    `gorm:"type:char(36);primaryKey"`
	Role      string    `gorm:"type:varchar(32);primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (UserRole) TableName() string { return "user_roles" }

// Caller is the per-request identity value built once at the HTTP boundary
// and passed explicitly into operations that gate on it.
type Caller struct {
	IdentityID string
	Email      string
	Roles      []string
}

func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
