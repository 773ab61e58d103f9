package main

import "github.com/thetunix/Calzen/internal/tracker"

/* ─── Request bodies ─────────────────────────────────────────────────── */

type loginRequest struct {
	Password string `json:"password"`
}

// addFoodRequest is the body of POST /api/days/:date/foods. Macros use the
// short k/p/f/c keys.
type addFoodRequest struct {
	Name string `json:"name"`
	tracker.Macros
}

// addWaterRequest is optional; an empty body adds the default step.
type addWaterRequest struct {
	Liters float64 `json:"liters"`
}

// saveFavoriteRequest uses a pointer for kcal so a missing value is
// distinguishable from an explicit 0.
type saveFavoriteRequest struct {
	Name    string   `json:"name"`
	Kcal    *float64 `json:"k"`
	Protein float64  `json:"p"`
	Fat     float64  `json:"f"`
	Carbs   float64  `json:"c"`
}

type goalsPatch struct {
	Kcal    *int `json:"kcal"`
	Protein *int `json:"p"`
	Fat     *int `json:"f"`
	Carbs   *int `json:"c"`
}

// patchSettingsRequest uses pointer fields so only provided fields change.
// activity_level is a named shorthand for activity.
type patchSettingsRequest struct {
	CurWeight     *float64    `json:"curWeight"`
	TargetWeight  *float64    `json:"targetWeight"`
	Height        *float64    `json:"height"`
	Age           *float64    `json:"age"`
	Gender        *string     `json:"gender"`
	Activity      *float64    `json:"activity"`
	ActivityLevel *string     `json:"activity_level"`
	ProteinMode   *float64    `json:"proteinMode"`
	Goals         *goalsPatch `json:"goals"`
	APIKey        *string     `json:"apiKey"`
}

type estimateRequest struct {
	Name string `json:"name"`
}

type adviceRequest struct {
	Date string `json:"date"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// settingsResponse never echoes the stored API key back.
type settingsResponse struct {
	tracker.Settings
	APIKeySet bool `json:"apiKeySet"`
}

func newSettingsResponse(s tracker.Settings) settingsResponse {
	set := s.APIKey != ""
	s.APIKey = ""
	return settingsResponse{Settings: s, APIKeySet: set}
}

type progressResponse struct {
	Start tracker.DayKey       `json:"start"`
	End   tracker.DayKey       `json:"end"`
	Days  []tracker.DaySummary `json:"days"`
}

type estimateResponse struct {
	Name string `json:"name"`
	tracker.Macros
}

type adviceResponse struct {
	Date       tracker.DayKey `json:"date"`
	Advice     string         `json:"advice"`
	AdviceHTML string         `json:"advice_html"`
}
