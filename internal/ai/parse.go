package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thetunix/Calzen/internal/tracker"
)

// ErrNoJSONObject means the model reply held no {...} object to decode.
var ErrNoJSONObject = errors.New("no JSON object in AI reply")

var (
	thinkRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	objectRe = regexp.MustCompile(`(?s)\{.*?\}`)
)

// StripThinking removes <think>...</think> blocks some reasoning models emit
// and trims the rest.
func StripThinking(s string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(s, ""))
}

// ParseMacroReply extracts the first JSON object from a reply and decodes it
// as {k,p,f,c}. Text around the object is ignored.
func ParseMacroReply(reply string) (tracker.Macros, error) {
	obj := objectRe.FindString(StripThinking(reply))
	if obj == "" {
		return tracker.Macros{}, ErrNoJSONObject
	}

	var m tracker.Macros
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return tracker.Macros{}, fmt.Errorf("decode macros %q: %w", obj, err)
	}
	if m.Kcal < 0 || m.Protein < 0 || m.Fat < 0 || m.Carbs < 0 {
		return tracker.Macros{}, fmt.Errorf("decode macros %q: negative value", obj)
	}
	return m, nil
}
