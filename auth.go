package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/auth"
)

// login checks the owner password and returns the bearer token.
// POST /api/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	creds, _, err := auth.Load(c, h.store)
	if err != nil {
		slog.Error("loading credentials failed", "error", err)
		apiError(c, http.StatusInternalServerError, "failed to load credentials")
		return
	}

	// CheckPassword runs bcrypt even when no password was ever set, so
	// response time does not reveal whether the instance is configured.
	if !creds.CheckPassword(body.Password) {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": creds.Token})
}

// authMiddleware validates the Bearer token against the stored credentials.
// Credentials are read per request so a token rotated by set-password
// takes effect without a restart.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		creds, ok, err := auth.Load(c, h.store)
		if err != nil {
			slog.Error("loading credentials failed", "error", err)
			apiError(c, http.StatusInternalServerError, "failed to load credentials")
			c.Abort()
			return
		}
		if !ok || !creds.ValidToken(token) {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}
