package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thetunix/Calzen/internal/tracker"
)

// getSettings returns profile, goals, streak and unlocks. The API key is
// reported only as set or not.
// GET /api/settings.
func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, newSettingsResponse(h.state.Settings()))
}

// patchSettings updates only the provided fields.
// PATCH /api/settings. Uses pointer fields in the request body to
// distinguish "not provided" from zero.
func (h *Handler) patchSettings(c *gin.Context) {
	var body patchSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Resolve a named activity level before validating.
	if body.ActivityLevel != nil {
		factor, ok := tracker.ActivityLevels[*body.ActivityLevel]
		if !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
			return
		}
		body.Activity = &factor
	}
	if msg := validateSettingsPatch(body); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	s, err := h.state.UpdateSettings(c, func(s *tracker.Settings) error {
		applySettingsPatch(s, body)
		return nil
	})
	if err != nil {
		stateError(c, err, "save settings")
		return
	}

	c.JSON(http.StatusOK, newSettingsResponse(s))
}

// validateSettingsPatch returns a user-facing message for the first invalid
// field, or "" when the patch is acceptable.
func validateSettingsPatch(b patchSettingsRequest) string {
	for name, v := range map[string]*float64{
		"curWeight":    b.CurWeight,
		"targetWeight": b.TargetWeight,
		"height":       b.Height,
		"age":          b.Age,
	} {
		if v != nil && *v < 0 {
			return name + " must not be negative"
		}
	}
	if b.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*b.Gender))
		if g != "male" && g != "female" {
			return "gender must be male or female"
		}
	}
	if b.Activity != nil && *b.Activity <= 0 {
		return "activity must be positive"
	}
	if b.ProteinMode != nil && *b.ProteinMode <= 0 {
		return "proteinMode must be positive"
	}
	if g := b.Goals; g != nil {
		for _, v := range []*int{g.Kcal, g.Protein, g.Fat, g.Carbs} {
			if v != nil && *v < 0 {
				return "goals must not be negative"
			}
		}
	}
	return ""
}

func applySettingsPatch(s *tracker.Settings, b patchSettingsRequest) {
	if b.CurWeight != nil {
		s.CurWeight = *b.CurWeight
	}
	if b.TargetWeight != nil {
		s.TargetWeight = *b.TargetWeight
	}
	if b.Height != nil {
		s.Height = *b.Height
	}
	if b.Age != nil {
		s.Age = *b.Age
	}
	if b.Gender != nil {
		s.Gender = strings.ToLower(strings.TrimSpace(*b.Gender))
	}
	if b.Activity != nil {
		s.Activity = tracker.Factor(*b.Activity)
	}
	if b.ProteinMode != nil {
		s.ProteinMode = tracker.Factor(*b.ProteinMode)
	}
	if g := b.Goals; g != nil {
		if g.Kcal != nil {
			s.Goals.Kcal = *g.Kcal
		}
		if g.Protein != nil {
			s.Goals.Protein = *g.Protein
		}
		if g.Fat != nil {
			s.Goals.Fat = *g.Fat
		}
		if g.Carbs != nil {
			s.Goals.Carbs = *g.Carbs
		}
	}
	if b.APIKey != nil {
		s.APIKey = strings.TrimSpace(*b.APIKey)
	}
}

// autoGoals recomputes daily goals from the stored body profile.
// POST /api/settings/auto-goals. Fails with 400 when weights are unset.
func (h *Handler) autoGoals(c *gin.Context) {
	s, err := h.state.AutoGoals(c)
	if err != nil {
		stateError(c, err, "compute goals")
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(s))
}
