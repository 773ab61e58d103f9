// Package ai talks to an OpenAI-compatible chat completion endpoint to
// estimate food macros and give short dietary advice.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"

	"github.com/thetunix/Calzen/internal/tracker"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "deepseek/deepseek-r1-0528:free"
)

// ErrAPIKeyMissing is returned before any request when no key is configured.
var ErrAPIKeyMissing = errors.New("AI API key is not set")

/* ─── Prompts ────────────────────────────────────────────────────────── */

const estimateSystemPrompt = `You are a dietitian. Reply ONLY with a JSON object. No reasoning, no other text.
Format: {"k":kcal,"p":protein,"f":fat,"c":carbs} per 100 g of the product.`

var estimateUserPrompt = prompts.NewPromptTemplate(
	`Product: "{{.name}}". Give its macros as JSON.`,
	[]string{"name"},
)

var advicePrompt = prompts.NewPromptTemplate(
	`I am on a diet. Calories left today: {{.kcal_left}} kcal. Protein goal: {{.protein_goal}} g (eaten {{.protein_eaten}} g).
Suggest ONE affordable dish or product (for example chicken or cottage cheese) to close the gap. Answer very briefly, without reasoning tags.`,
	[]string{"kcal_left", "protein_goal", "protein_eaten"},
)

/* ─── Client ─────────────────────────────────────────────────────────── */

// Client issues one-shot chat completion calls. The API key is passed per
// call since it lives in the user's settings and may change at any time.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for baseURL and model; empty values fall back to the
// OpenRouter defaults.
func New(baseURL, model string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// complete sends messages and returns the first choice's content.
func (c *Client) complete(ctx context.Context, apiKey string, messages []llms.MessageContent) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithBaseURL(c.baseURL),
		openai.WithModel(c.model),
	}
	if c.httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(c.httpClient))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return "", fmt.Errorf("create llm client: %w", err)
	}

	resp, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices in response")
	}
	return resp.Choices[0].Content, nil
}

// EstimateMacros asks for per-100 g macros of foodName.
func (c *Client) EstimateMacros(ctx context.Context, apiKey, foodName string) (tracker.Macros, error) {
	user, err := estimateUserPrompt.Format(map[string]any{"name": strings.TrimSpace(foodName)})
	if err != nil {
		return tracker.Macros{}, fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.complete(ctx, apiKey, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, estimateSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	})
	if err != nil {
		return tracker.Macros{}, err
	}
	return ParseMacroReply(content)
}

// AdviceInput is the day's gap the advice is based on.
type AdviceInput struct {
	KcalLeft     float64
	ProteinGoal  int
	ProteinEaten float64
}

// Advise returns a short free-text suggestion with any reasoning block removed.
func (c *Client) Advise(ctx context.Context, apiKey string, in AdviceInput) (string, error) {
	prompt, err := advicePrompt.Format(map[string]any{
		"kcal_left":     fmt.Sprintf("%.0f", in.KcalLeft),
		"protein_goal":  in.ProteinGoal,
		"protein_eaten": fmt.Sprintf("%.0f", in.ProteinEaten),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.complete(ctx, apiKey, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", err
	}
	return StripThinking(content), nil
}
