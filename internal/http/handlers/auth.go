package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/http/middleware"
	"subbazar.com/app/internal/http/validation"
	"subbazar.com/app/internal/modules/identity"
	"subbazar.com/app/internal/modules/orders"
	"subbazar.com/app/internal/shared/apperr"
)

type AuthHandler struct {
	Users      *identity.Repo
	Orders     *orders.Repo
	SessionCfg middleware.SessionCfg
}

func NewAuthHandler(users *identity.Repo, ordersRepo *orders.Repo, sessCfg middleware.SessionCfg) *AuthHandler {
	return &AuthHandler{Users: users, Orders: ordersRepo, SessionCfg: sessCfg}
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Check the form fields.", errs))
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := h.Users.Authenticate(c.Request.Context(), email, in.Password)
	if err != nil {
		middleware.Fail(c, asAppErr(err))
		return
	}

	sess, err := middleware.CreateSession(h.SessionCfg, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.SetCookie(h.SessionCfg.CookieName, sess.ID, int(h.SessionCfg.TTL.Seconds()), "/", "", h.SessionCfg.Secure, true)

	// claim guest orders placed with this email before the account login
	if _, err := h.Orders.LinkToUser(c.Request.Context(), u.ID, u.Email); err != nil {
		// login still succeeds; the claim re-runs on the next login
		_ = c.Error(err)
	}

	roles, _ := h.Users.RolesByUser(c.Request.Context(), u.ID)
	c.JSON(http.StatusOK, gin.H{
		"user_id": u.ID,
		"email":   u.Email,
		"roles":   roles,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.SessionCfg.CookieName); err == nil && sessionID != "" {
		_ = middleware.DeleteSession(h.SessionCfg, sessionID)
	}
	c.SetCookie(h.SessionCfg.CookieName, "", -1, "/", "", h.SessionCfg.Secure, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       caller.IdentityID,
		"email":         caller.Email,
		"roles":         caller.Roles,
	})
}
