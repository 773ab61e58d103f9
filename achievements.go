package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// startSession runs the daily streak check. Clients call it once on startup;
// repeated calls on the same day leave the streak unchanged.
// POST /api/session.
func (h *Handler) startSession(c *gin.Context) {
	streak, err := h.state.StartSession(c)
	if err != nil {
		stateError(c, err, "start session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak, "today": h.state.Today()})
}

// listAchievements returns the whole catalog with unlock state.
// GET /api/achievements.
func (h *Handler) listAchievements(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Achievements())
}
