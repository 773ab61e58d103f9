package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/tracker"
)

// getDay returns the day's foods, water, totals against goals and any
// achievements unlocked by this view.
// GET /api/days/:date (date is YYYY-MM-DD or "today").
func (h *Handler) getDay(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}

	view, err := h.state.Day(c, day)
	if err != nil {
		stateError(c, err, "load day")
		return
	}

	c.JSON(http.StatusOK, view)
}

// addFood logs a food entry. A blank name becomes "Food"; an entry needs
// kcal or protein.
// POST /api/days/:date/foods.
func (h *Handler) addFood(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}

	var body addFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.state.AddFood(c, day, tracker.FoodEntry{Name: body.Name, Macros: body.Macros})
	if err != nil {
		stateError(c, err, "add food")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// addFoodFromFavorite logs favorite number :index as a new entry.
// POST /api/days/:date/foods/from-favorite/:index.
func (h *Handler) addFoodFromFavorite(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid favorite index")
		return
	}

	entry, err := h.state.AddFavoriteToDay(c, day, index)
	if err != nil {
		stateError(c, err, "add food")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteFood removes an entry by id. Returns 204 on success.
// DELETE /api/days/:date/foods/:id.
func (h *Handler) deleteFood(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid food id")
		return
	}

	removed, err := h.state.RemoveFood(c, day, id)
	if err != nil {
		stateError(c, err, "delete food")
		return
	}
	if !removed {
		apiError(c, http.StatusNotFound, "food not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// resetDay empties the day. Destructive, so the client must pass confirm=true.
// DELETE /api/days/:date?confirm=true.
func (h *Handler) resetDay(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	if confirm, _ := strconv.ParseBool(c.Query("confirm")); !confirm {
		apiError(c, http.StatusBadRequest, "reset requires confirm=true")
		return
	}

	if err := h.state.ResetDay(c, day); err != nil {
		stateError(c, err, "reset day")
		return
	}

	c.Status(http.StatusNoContent)
}

// getProgress returns per-day totals for days with data in [start, end].
// GET /api/progress?start=YYYY-MM-DD&end=YYYY-MM-DD (defaults to the last 7 days).
func (h *Handler) getProgress(c *gin.Context) {
	end := h.state.Today()
	if s := c.Query("end"); s != "" {
		k, err := tracker.ParseDayKey(s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
		end = k
	}
	start := end.Shift(-6)
	if s := c.Query("start"); s != "" {
		k, err := tracker.ParseDayKey(s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return
		}
		start = k
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	c.JSON(http.StatusOK, progressResponse{
		Start: start,
		End:   end,
		Days:  h.state.RangeSummary(start, end),
	})
}
