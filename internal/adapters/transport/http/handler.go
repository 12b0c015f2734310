package http

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/campushq/account-service/internal/adapters/transport/http/dto"
	"github.com/campushq/account-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/campushq/account-service/internal/app/account/service"
	accountErrors "github.com/campushq/account-service/internal/domain/account/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc appsvc.Service
	log *zap.Logger
}

func NewHandler(svc appsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes wires the public auth endpoints and the authenticated
// account endpoints onto the engine. authmw is the identity-resolution
// middleware guarding everything under /users.
func (h *Handler) RegisterRoutes(r *gin.Engine, authmw gin.HandlerFunc) {
	auth := r.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/token", h.login)
	auth.POST("/refresh", h.refresh)

	users := r.Group("/users", authmw)
	users.GET("/me", h.currentAccount)
	users.PATCH("/me", h.updateProfile)
	users.DELETE("/me", h.deleteAccount)
	users.PATCH("/me/change-password", h.changePassword)
}

// register acknowledges the new account and nothing more: tokens are only
// handed out by an explicit login.
func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Info("/auth/register",
		zap.String("user", emailDigest(body.Email)),
	)

	if _, err := h.svc.Register(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Info("/auth/token",
		zap.String("user", emailDigest(body.Email)),
	)

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

func (h *Handler) currentAccount(c *gin.Context) {
	acct, ok := middleware.CurrentAccount(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(acct))
}

func (h *Handler) updateProfile(c *gin.Context) {
	acct, ok := middleware.CurrentAccount(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body dto.UpdateProfileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), acct, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info("profile updated", zap.String("user", emailDigest(updated.Email)))

	c.JSON(http.StatusOK, dto.NewAccountResponse(updated))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	acct, ok := middleware.CurrentAccount(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), acct); err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info("account deleted", zap.String("user", emailDigest(acct.Email)))

	c.Status(http.StatusNoContent)
}

func (h *Handler) changePassword(c *gin.Context) {
	acct, ok := middleware.CurrentAccount(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body dto.ChangePasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), acct, body); err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info("password changed", zap.String("user", emailDigest(acct.Email)))

	c.Status(http.StatusNoContent)
}

// handleError maps the domain taxonomy onto status codes. Internal detail
// goes to the log, never into the response body.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case accountErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case accountErrors.IsInvalidCredentials(err):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case accountErrors.IsInvalidToken(err):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case accountErrors.IsInvalidPassword(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
	case accountErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "account with this email already exists"})
	case accountErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// emailDigest keeps addresses out of log lines while still letting related
// entries be correlated.
func emailDigest(email string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(email)))
}
