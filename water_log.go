package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/tracker"
)

// addWater adds water to the day; with no body it adds the default 0.25 L step.
// POST /api/days/:date/water.
func (h *Handler) addWater(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}

	var body addWaterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.Liters < 0 {
		apiError(c, http.StatusBadRequest, "liters must not be negative")
		return
	}
	if body.Liters > 0 && !tracker.IsWaterStep(body.Liters) {
		apiError(c, http.StatusBadRequest, "liters must be a multiple of 0.25")
		return
	}

	water, err := h.state.AddWater(c, day, body.Liters)
	if err != nil {
		stateError(c, err, "add water")
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": day, "water": water})
}
