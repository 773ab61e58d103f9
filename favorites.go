package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/tracker"
)

// listFavorites returns all saved food templates in order. Index is the id.
// GET /api/favorites.
func (h *Handler) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Favorites())
}

// saveFavorite stores a template. Name and kcal are required; duplicates are fine.
// POST /api/favorites.
func (h *Handler) saveFavorite(c *gin.Context) {
	var body saveFavoriteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Kcal == nil {
		apiError(c, http.StatusBadRequest, "k (kcal) is required")
		return
	}

	fav := tracker.FavoriteItem{
		Name:   body.Name,
		Macros: tracker.Macros{Kcal: *body.Kcal, Protein: body.Protein, Fat: body.Fat, Carbs: body.Carbs},
	}
	if err := h.state.AddFavorite(c, fav); err != nil {
		stateError(c, err, "save favorite")
		return
	}

	c.JSON(http.StatusCreated, h.state.Favorites())
}

// getFavorite returns one favorite so the client can prefill the add-food form.
// GET /api/favorites/:index.
func (h *Handler) getFavorite(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid favorite index")
		return
	}
	fav, err := h.state.Favorite(index)
	if err != nil {
		stateError(c, err, "load favorite")
		return
	}
	c.JSON(http.StatusOK, fav)
}

// deleteFavorite removes favorite number :index. Later indexes shift down.
// DELETE /api/favorites/:index.
func (h *Handler) deleteFavorite(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid favorite index")
		return
	}
	if err := h.state.RemoveFavorite(c, index); err != nil {
		stateError(c, err, "delete favorite")
		return
	}
	c.Status(http.StatusNoContent)
}
