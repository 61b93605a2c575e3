package middleware

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"subbazar.com/app/internal/modules/identity"
)

// SessionCfg holds configuration for session middleware.
type SessionCfg struct {
	DB         *gorm.DB
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Session is a database-backed session model.
type Session struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	UserID     string    `gorm:"type:char(36);not null;index:ix_sessions_user_id"`
	TokenHash  []byte    `gorm:"type:binary(32);not null;uniqueIndex:ux_sessions_token_hash"`
	ExpiresAt  time.Time `gorm:"type:datetime(3);not null"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt  time.Time `gorm:"type:datetime(3);not null"`
	LastSeenAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Session) TableName() string { return "sessions" }

// SessionMiddleware loads the session from the database and builds the
// request's Caller value: identity, email and roles resolved once at the
// boundary, never read from ambient state further down.
func SessionMiddleware(cfg SessionCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		var sess Session
		if err := cfg.DB.Where("id = ? AND expires_at > ?", sessionID, time.Now()).First(&sess).Error; err != nil {
			// invalid or expired session, clear cookie
			c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
			c.Next()
			return
		}

		c.Set("session", &sess)
		c.Set("user_id", sess.UserID)

		var userEmail string
		if err := cfg.DB.Table("users").Select("email").Where("id = ?", sess.UserID).Scan(&userEmail).Error; err == nil {
			c.Set("user_email", userEmail)
		}

		var roles []string
		if err := cfg.DB.Table("user_roles").Where("user_id = ?", sess.UserID).Pluck("role", &roles).Error; err == nil {
			c.Set("user_roles", roles)
		}

		c.Next()
	}
}

// CreateSession creates a new session for the given user.
func CreateSession(cfg SessionCfg, userID string) (*Session, error) {
	tokenHash, _ := generateTokenHash()
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  tokenHash,
		ExpiresAt:  now.Add(cfg.TTL),
		CreatedAt:  now,
		UpdatedAt:  now,
		LastSeenAt: now,
	}
	if err := cfg.DB.Create(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

// DeleteSession removes a session by ID.
func DeleteSession(cfg SessionCfg, sessionID string) error {
	return cfg.DB.Delete(&Session{}, "id = ?", sessionID).Error
}

func generateTokenHash() ([]byte, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	return b, err
}

// Caller retrieves the authenticated caller from the gin context. Returns
// the caller and true if authenticated, zero value and false otherwise.
func Caller(c *gin.Context) (identity.Caller, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return identity.Caller{}, false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return identity.Caller{}, false
	}

	out := identity.Caller{IdentityID: userID}
	if email, ok := c.Get("user_email"); ok && email != nil {
		out.Email, _ = email.(string)
	}
	if roles, ok := c.Get("user_roles"); ok && roles != nil {
		out.Roles, _ = roles.([]string)
	}
	return out, true
}
