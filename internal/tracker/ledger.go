package tracker

import (
	"math"
	"sort"
	"time"
)

// WaterStep is the default water increment in liters.
const WaterStep = 0.25

// Ledger reads and mutates the day records of a History. It does not
// persist; callers flush through the Manager after every mutation.
type Ledger struct {
	days History
	now  func() time.Time
}

// NewLedger wraps days. now supplies entry ids and defaults to time.Now.
func NewLedger(days History, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{days: days, now: now}
}

// RecordForDate returns the day's record, creating and storing an empty one
// when the day has none yet.
func (l *Ledger) RecordForDate(key DayKey) *DayRecord {
	rec, ok := l.days[key]
	if !ok || rec == nil {
		rec = &DayRecord{Foods: []FoodEntry{}}
		l.days[key] = rec
	}
	if rec.Foods == nil {
		rec.Foods = []FoodEntry{}
	}
	return rec
}

// AddFood appends entry to the day. An entry without an id gets the current
// millisecond timestamp, bumped until unique within the day.
func (l *Ledger) AddFood(key DayKey, entry FoodEntry) FoodEntry {
	rec := l.RecordForDate(key)
	if entry.ID == 0 {
		entry.ID = l.now().UnixMilli()
	}
	for hasID(rec.Foods, entry.ID) {
		entry.ID++
	}
	rec.Foods = append(rec.Foods, entry)
	return entry
}

func hasID(foods []FoodEntry, id int64) bool {
	for _, f := range foods {
		if f.ID == id {
			return true
		}
	}
	return false
}

// RemoveFood deletes the first entry with id. Reports whether one was removed.
func (l *Ledger) RemoveFood(key DayKey, id int64) bool {
	rec := l.RecordForDate(key)
	for i, f := range rec.Foods {
		if f.ID == id {
			rec.Foods = append(rec.Foods[:i:i], rec.Foods[i+1:]...)
			return true
		}
	}
	return false
}

// AddWater adds delta liters and returns the new total. delta is rounded to
// the nearest WaterStep, never below one step, so the total stays on the grid.
func (l *Ledger) AddWater(key DayKey, delta float64) float64 {
	steps := math.Round(delta / WaterStep)
	if steps < 1 {
		steps = 1
	}
	rec := l.RecordForDate(key)
	rec.Water = round2(math.Round(rec.Water/WaterStep+steps) * WaterStep)
	return rec.Water
}

// IsWaterStep reports whether liters is a whole multiple of WaterStep.
func IsWaterStep(liters float64) bool {
	steps := liters / WaterStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// ResetDay replaces the day with an empty record.
func (l *Ledger) ResetDay(key DayKey) {
	l.days[key] = &DayRecord{Foods: []FoodEntry{}}
}

// Totals sums the day's foods. A day with no entries yields zeros.
func (l *Ledger) Totals(key DayKey) Macros {
	var t Macros
	for _, f := range l.RecordForDate(key).Foods {
		t = t.Add(f.Macros)
	}
	return t
}

// DaySummary is one day's totals in a range query.
type DaySummary struct {
	Date   DayKey  `json:"date"`
	Totals Macros  `json:"totals"`
	Water  float64 `json:"water"`
	Foods  int     `json:"foods"`
}

// RangeSummary returns per-day totals for days in [start, end] with any
// activity, oldest first. Days without data are left out.
func (l *Ledger) RangeSummary(start, end DayKey) []DaySummary {
	out := []DaySummary{}
	for key, rec := range l.days {
		if rec == nil || rec.empty() || key < start || key > end {
			continue
		}
		var t Macros
		for _, f := range rec.Foods {
			t = t.Add(f.Macros)
		}
		out = append(out, DaySummary{Date: key, Totals: t, Water: rec.Water, Foods: len(rec.Foods)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Progress is value/goal clamped to [0,1]. A zero or negative goal yields 0.
func Progress(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := value / goal
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// DayLabel names key relative to today for the day switcher.
func DayLabel(key, today DayKey) string {
	switch key {
	case today:
		return "today"
	case today.Shift(-1):
		return "yesterday"
	case today.Shift(1):
		return "tomorrow"
	}
	return key.Time().Format("2 January")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
