package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/thetunix/Calzen/internal/ai"
	"github.com/thetunix/Calzen/internal/tracker"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown converts model output to HTML safe to inject into a page.
func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// apiKey prefers the key saved in settings over the server-wide fallback.
func (h *Handler) apiKey() string {
	if k := h.state.Settings().APIKey; k != "" {
		return k
	}
	return h.aiAPIKey
}

// aiError answers a failed AI call. A missing key tells the client to open
// settings; everything else is an upstream failure.
func aiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrAPIKeyMissing):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "set an AI API key in settings first", "action": "open_settings"})
	case errors.Is(err, ai.ErrNoJSONObject):
		slog.Warn("AI reply had no macros", "error", err)
		apiError(c, http.StatusBadGateway, "AI reply did not contain macros")
	default:
		slog.Error("AI request failed", "error", err)
		apiError(c, http.StatusBadGateway, "AI request failed: "+err.Error())
	}
}

// estimateMacros asks the AI for per-100 g macros of a food name. The client
// prefills its add-food form with the result; nothing is logged here.
// POST /api/ai/estimate.
func (h *Handler) estimateMacros(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}

	m, err := h.ai.EstimateMacros(c.Request.Context(), h.apiKey(), name)
	if err != nil {
		aiError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimateResponse{Name: name, Macros: m})
}

// getAdvice asks the AI what to eat to close the day's calorie and protein gap.
// POST /api/ai/advice. The body is optional; date defaults to today.
func (h *Handler) getAdvice(c *gin.Context) {
	var req adviceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	day := h.state.Today()
	if req.Date != "" && req.Date != "today" {
		k, err := tracker.ParseDayKey(req.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = k
	}

	goals := h.state.Settings().Goals
	totals := h.state.Totals(day)
	advice, err := h.ai.Advise(c.Request.Context(), h.apiKey(), ai.AdviceInput{
		KcalLeft:     float64(goals.Kcal) - totals.Kcal,
		ProteinGoal:  goals.Protein,
		ProteinEaten: totals.Protein,
	})
	if err != nil {
		aiError(c, err)
		return
	}

	rendered, err := renderMarkdown(advice)
	if err != nil {
		slog.Warn("rendering advice markdown failed", "error", err)
	}

	c.JSON(http.StatusOK, adviceResponse{Date: day, Advice: advice, AdviceHTML: rendered})
}
