package tracker

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func TestLedger_AddFoodAndTotals(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)

	foods := []Macros{
		{Kcal: 250, Protein: 20, Fat: 10, Carbs: 15},
		{Kcal: 120.5, Protein: 3, Fat: 0.5, Carbs: 25},
		{Kcal: 0, Protein: 30, Fat: 1, Carbs: 0},
	}
	for _, m := range foods {
		l.AddFood(day, FoodEntry{Name: "x", Macros: m})
	}

	got := l.Totals(day)
	want := Macros{Kcal: 370.5, Protein: 53, Fat: 11.5, Carbs: 40}
	if got != want {
		t.Errorf("totals = %+v, want %+v", got, want)
	}
}

func TestLedger_EmptyDayTotalsZero(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	if got := l.Totals("2026-01-01"); got != (Macros{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

// TestLedger_IDsUniqueWithinDay verifies that entries added in the same
// millisecond still get distinct ids.
func TestLedger_IDsUniqueWithinDay(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)

	a := l.AddFood(day, FoodEntry{Name: "a", Macros: Macros{Kcal: 1}})
	b := l.AddFood(day, FoodEntry{Name: "b", Macros: Macros{Kcal: 1}})
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %d", a.ID)
	}
	if a.ID != fixedNow.UnixMilli() {
		t.Errorf("expected first id to be the timestamp %d, got %d", fixedNow.UnixMilli(), a.ID)
	}
}

func TestLedger_RemoveFood(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)
	a := l.AddFood(day, FoodEntry{Name: "a", Macros: Macros{Kcal: 100}})
	b := l.AddFood(day, FoodEntry{Name: "b", Macros: Macros{Kcal: 50}})

	if !l.RemoveFood(day, a.ID) {
		t.Fatal("expected removal to report true")
	}
	foods := l.RecordForDate(day).Foods
	if len(foods) != 1 || foods[0].ID != b.ID {
		t.Errorf("expected only %d left, got %+v", b.ID, foods)
	}
	if l.Totals(day).Kcal != 50 {
		t.Errorf("expected 50 kcal after removal, got %v", l.Totals(day).Kcal)
	}

	if l.RemoveFood(day, 12345) {
		t.Error("removing an unknown id should report false")
	}
	if len(l.RecordForDate(day).Foods) != 1 {
		t.Error("removing an unknown id must not change the day")
	}
}

func TestLedger_WaterStepsDoNotDrift(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)

	var w float64
	for i := 0; i < 11; i++ {
		w = l.AddWater(day, 0)
	}
	if w != 2.75 {
		t.Errorf("expected 2.75 after 11 steps, got %v", w)
	}
}

func TestLedger_WaterSnapsToSteps(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)

	if w := l.AddWater(day, 0.1); w != 0.25 {
		t.Errorf("expected 0.1 to add one step, got %v", w)
	}
	if w := l.AddWater(day, 0.333); w != 0.5 {
		t.Errorf("expected 0.333 to round to one step, got %v", w)
	}
	if w := l.AddWater(day, 0.6); w != 1 {
		t.Errorf("expected 0.6 to round to two steps, got %v", w)
	}
	if !IsWaterStep(1.75) || IsWaterStep(0.1) {
		t.Error("IsWaterStep misclassified a value")
	}
}

func TestLedger_ResetDay(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	day := DayKeyOf(fixedNow)
	l.AddFood(day, FoodEntry{Name: "a", Macros: Macros{Kcal: 100}})
	l.AddWater(day, 1)

	l.ResetDay(day)

	rec := l.RecordForDate(day)
	if len(rec.Foods) != 0 || rec.Water != 0 {
		t.Errorf("expected empty day after reset, got %+v", rec)
	}
}

func TestLedger_RangeSummarySkipsEmptyDays(t *testing.T) {
	l := NewLedger(History{}, fixedClock)
	l.AddFood("2026-10-15", FoodEntry{Name: "a", Macros: Macros{Kcal: 300}})
	l.RecordForDate("2026-10-16")
	l.AddWater("2026-10-17", 0.5)
	l.AddFood("2026-10-20", FoodEntry{Name: "out of range", Macros: Macros{Kcal: 10}})

	got := l.RangeSummary("2026-10-14", "2026-10-18")
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d: %+v", len(got), got)
	}
	if got[0].Date != "2026-10-15" || got[0].Totals.Kcal != 300 || got[0].Foods != 1 {
		t.Errorf("unexpected first day %+v", got[0])
	}
	if got[1].Date != "2026-10-17" || got[1].Water != 0.5 {
		t.Errorf("unexpected second day %+v", got[1])
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		value, goal, want float64
	}{
		{50, 100, 0.5},
		{150, 100, 1},
		{10, 0, 0},
		{10, -5, 0},
		{-10, 100, 0},
	}
	for _, tc := range cases {
		if got := Progress(tc.value, tc.goal); got != tc.want {
			t.Errorf("Progress(%v, %v) = %v, want %v", tc.value, tc.goal, got, tc.want)
		}
	}
}

func TestDayKey_ShiftAcrossMonth(t *testing.T) {
	if got := DayKey("2026-02-28").Shift(1); got != "2026-03-01" {
		t.Errorf("expected 2026-03-01, got %s", got)
	}
	if got := DayKey("2026-01-01").Shift(-1); got != "2025-12-31" {
		t.Errorf("expected 2025-12-31, got %s", got)
	}
}

func TestDayLabel(t *testing.T) {
	today := DayKey("2026-10-17")
	cases := map[DayKey]string{
		"2026-10-17": "today",
		"2026-10-16": "yesterday",
		"2026-10-18": "tomorrow",
		"2026-10-01": "1 October",
	}
	for key, want := range cases {
		if got := DayLabel(key, today); got != want {
			t.Errorf("DayLabel(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestParseDayKey(t *testing.T) {
	if _, err := ParseDayKey("2026-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := ParseDayKey("yesterday"); err == nil {
		t.Error("expected error for non-date")
	}
	k, err := ParseDayKey(" 2026-10-17 ")
	if err != nil || k != "2026-10-17" {
		t.Errorf("expected 2026-10-17, got %q (%v)", k, err)
	}
}
