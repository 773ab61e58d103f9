package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day-key format used everywhere: history keys, URLs, lastLogin.
const DateLayout = "2006-01-02"

// legacyLoginLayout is the Date.toDateString() shape older data stored in lastLogin.
const legacyLoginLayout = "Mon Jan 02 2006"

/* ─── Day keys ───────────────────────────────────────────────────────── */

// DayKey identifies one calendar day in local time, formatted YYYY-MM-DD.
type DayKey string

// DayKeyOf returns the local calendar day containing t.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Local().Format(DateLayout))
}

// ParseDayKey validates s as a YYYY-MM-DD date.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DayKey(t.Format(DateLayout)), nil
}

// Time returns local midnight of the day. An invalid key yields the zero time.
func (k DayKey) Time() time.Time {
	t, err := time.ParseInLocation(DateLayout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Shift moves the key by delta calendar days. AddDate keeps month and DST
// boundaries correct where adding 24h would not.
func (k DayKey) Shift(delta int) DayKey {
	return DayKey(k.Time().AddDate(0, 0, delta).Format(DateLayout))
}

func (k DayKey) String() string { return string(k) }

/* ─── Domain structs ─────────────────────────────────────────────────── */

// Macros holds kcal and macro grams. JSON keys are the short k/p/f/c form
// used by stored history and by the AI estimate contract.
type Macros struct {
	Kcal    float64 `json:"k"`
	Protein float64 `json:"p"`
	Fat     float64 `json:"f"`
	Carbs   float64 `json:"c"`
}

// Add returns the element-wise sum.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Kcal:    m.Kcal + o.Kcal,
		Protein: m.Protein + o.Protein,
		Fat:     m.Fat + o.Fat,
		Carbs:   m.Carbs + o.Carbs,
	}
}

func (m Macros) negative() bool {
	return m.Kcal < 0 || m.Protein < 0 || m.Fat < 0 || m.Carbs < 0
}

// FoodEntry is one logged food. Entries are created and deleted, never edited.
type FoodEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Macros
}

// DayRecord is everything logged for one calendar day.
type DayRecord struct {
	Foods []FoodEntry `json:"foods"`
	Water float64     `json:"water"`
}

func (r *DayRecord) clone() *DayRecord {
	foods := make([]FoodEntry, len(r.Foods))
	copy(foods, r.Foods)
	return &DayRecord{Foods: foods, Water: r.Water}
}

func (r *DayRecord) empty() bool {
	return len(r.Foods) == 0 && r.Water == 0
}

// History maps day keys to their records. Days never touched are absent.
type History map[DayKey]*DayRecord

// UnmarshalJSON accepts both the current {foods, water} value shape and the
// legacy shape where a day was a bare array of entries.
func (h *History) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(History, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}

		rec := &DayRecord{}
		if value[0] == '[' {
			if err := json.Unmarshal(value, &rec.Foods); err != nil {
				return fmt.Errorf("day %s: %w", key, err)
			}
		} else if err := json.Unmarshal(value, rec); err != nil {
			return fmt.Errorf("day %s: %w", key, err)
		}
		if rec.Foods == nil {
			rec.Foods = []FoodEntry{}
		}
		if rec.Water < 0 {
			rec.Water = 0
		}
		out[DayKey(key)] = rec
	}

	*h = out
	return nil
}

func (h History) clone() History {
	out := make(History, len(h))
	for k, v := range h {
		out[k] = v.clone()
	}
	return out
}

// FavoriteItem is a saved food template. No id; duplicates are allowed.
type FavoriteItem struct {
	Name string `json:"name"`
	Macros
}

// Goals are the daily targets. Stored as whole numbers.
type Goals struct {
	Kcal    int `json:"kcal"`
	Protein int `json:"p"`
	Fat     int `json:"f"`
	Carbs   int `json:"c"`
}

// Factor is a float that also decodes from a quoted number, which is how
// older settings stored activity and protein mode.
type Factor float64

func (f *Factor) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid factor %s: %w", b, err)
	}
	*f = Factor(v)
	return nil
}

// Settings is the single persisted settings record: body profile, goals,
// AI key, streak and unlocked achievements.
type Settings struct {
	CurWeight    float64  `json:"curWeight"`
	TargetWeight float64  `json:"targetWeight"`
	Height       float64  `json:"height"`
	Age          float64  `json:"age"`
	Gender       string   `json:"gender"`
	Activity     Factor   `json:"activity"`
	ProteinMode  Factor   `json:"proteinMode"`
	Goals        Goals    `json:"goals"`
	APIKey       string   `json:"apiKey"`
	Streak       int      `json:"streak"`
	LastLogin    string   `json:"lastLogin"`
	Unlocked     []string `json:"unlockedTrophies"`
}

// DefaultSettings are the values any missing stored key falls back to.
func DefaultSettings() Settings {
	return Settings{
		CurWeight:    80,
		TargetWeight: 75,
		Height:       175,
		Age:          25,
		Gender:       "male",
		Activity:     1.375,
		ProteinMode:  2.0,
		Goals:        Goals{Kcal: 2000, Protein: 160, Fat: 80, Carbs: 200},
		Unlocked:     []string{},
	}
}

func (s Settings) clone() Settings {
	s.Unlocked = append([]string{}, s.Unlocked...)
	return s
}

// Profile extracts the body metrics the goal calculator needs.
func (s Settings) Profile() Profile {
	return Profile{
		CurrentWeight: s.CurWeight,
		TargetWeight:  s.TargetWeight,
		Height:        s.Height,
		Age:           s.Age,
		Gender:        s.Gender,
		Activity:      float64(s.Activity),
		ProteinPerKg:  float64(s.ProteinMode),
	}
}

// HasAchievement reports whether id is in the unlocked set.
func (s Settings) HasAchievement(id string) bool {
	for _, u := range s.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}
