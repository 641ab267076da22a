package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/http/validation"
	emailmod "github.com/chesterOps/meetro/internal/modules/email"
	"github.com/chesterOps/meetro/internal/modules/users"
	"github.com/chesterOps/meetro/internal/shared/apperr"
)

type AuthHandler struct {
	Logger   *slog.Logger
	Users    *users.Service
	Sessions middleware.SessionCfg
	Sender   emailmod.Sender // nil disables the welcome mail
}

func NewAuthHandler(logger *slog.Logger, usersSvc *users.Service, sessions middleware.SessionCfg, sender emailmod.Sender) *AuthHandler {
	return &AuthHandler{Logger: logger, Users: usersSvc, Sessions: sessions, Sender: sender}
}

type registerInput struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid registration data.", errs))
		return
	}

	u, err := h.Users.Register(c.Request.Context(), users.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		failMapped(c, err)
		return
	}

	if h.Sender != nil {
		go func(addr, name string) {
			if err := emailmod.SendWelcome(context.Background(), h.Sender, addr, name); err != nil {
				h.Logger.Warn("welcome mail failed", "email", addr, "err", err)
			}
		}(u.Email, u.Name)
	}

	if err := h.startSession(c, u.ID); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "name": u.Name, "email": u.Email})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid login data.", errs))
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		failMapped(c, err)
		return
	}

	if err := h.startSession(c, u.ID); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "email": u.Email})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.Sessions.CookieName); err == nil && sessionID != "" {
		_ = middleware.DeleteSession(h.Sessions, sessionID)
	}
	c.SetCookie(h.Sessions.CookieName, "", -1, "/", "", h.Sessions.Secure, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "email": u.Email})
}

func (h *AuthHandler) startSession(c *gin.Context, userID string) error {
	sess, err := middleware.CreateSession(h.Sessions, userID)
	if err != nil {
		return err
	}
	c.SetCookie(h.Sessions.CookieName, sess.ID, int(h.Sessions.TTL.Seconds()), "/", "", h.Sessions.Secure, true)
	return nil
}
