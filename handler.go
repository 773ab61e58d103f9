package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/ai"
	"github.com/thetunix/Calzen/internal/auth"
	"github.com/thetunix/Calzen/internal/tracker"
)

// Handler holds shared dependencies (state, blob store, AI client) for all route handlers.
type Handler struct {
	state    *tracker.Manager
	store    auth.Store
	ai       *ai.Client
	aiAPIKey string // used when settings hold no key
}

/* ─── Response helpers ───────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// stateError maps tracker errors to HTTP statuses. Anything unknown is a
// failed save and gets logged.
func stateError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, tracker.ErrFoodInvalid),
		errors.Is(err, tracker.ErrFavoriteInvalid),
		errors.Is(err, tracker.ErrMissingWeights):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	default:
		slog.Error("state update failed", "action", what, "error", err)
		apiError(c, http.StatusInternalServerError, "failed to "+what)
	}
}

// dayParam resolves the :date path parameter. "today" maps to the current
// local day. Writes a 400 and returns false on a bad date.
func (h *Handler) dayParam(c *gin.Context) (tracker.DayKey, bool) {
	raw := c.Param("date")
	if raw == "" || raw == "today" {
		return h.state.Today(), true
	}
	key, err := tracker.ParseDayKey(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD or today")
		return "", false
	}
	return key, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/healthz", h.healthz)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/session", h.startSession)
	api.GET("/days/:date", h.getDay)
	api.DELETE("/days/:date", h.resetDay)
	api.POST("/days/:date/foods", h.addFood)
	api.POST("/days/:date/foods/from-favorite/:index", h.addFoodFromFavorite)
	api.DELETE("/days/:date/foods/:id", h.deleteFood)
	api.POST("/days/:date/water", h.addWater)
	api.GET("/progress", h.getProgress)
	api.GET("/settings", h.getSettings)
	api.PATCH("/settings", h.patchSettings)
	api.POST("/settings/auto-goals", h.autoGoals)
	api.GET("/favorites", h.listFavorites)
	api.POST("/favorites", h.saveFavorite)
	api.GET("/favorites/:index", h.getFavorite)
	api.DELETE("/favorites/:index", h.deleteFavorite)
	api.GET("/achievements", h.listAchievements)
	api.POST("/ai/estimate", h.estimateMacros)
	api.POST("/ai/advice", h.getAdvice)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
