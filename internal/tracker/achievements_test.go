package tracker

import "testing"

func ids(as []Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range as {
		out[a.ID] = true
	}
	return out
}

func TestEvaluateAchievements_FirstStepOnce(t *testing.T) {
	s := DefaultSettings()

	first := EvaluateAchievements(&s, Macros{Kcal: 100}, 0)
	if len(first) != 1 || first[0].ID != AchievementFirstStep {
		t.Fatalf("expected only first_step, got %+v", first)
	}

	again := EvaluateAchievements(&s, Macros{Kcal: 100}, 0)
	if len(again) != 0 {
		t.Errorf("expected no repeat unlocks, got %+v", again)
	}
	if len(s.Unlocked) != 1 {
		t.Errorf("expected one unlocked id, got %v", s.Unlocked)
	}
}

func TestEvaluateAchievements_PerfectDay(t *testing.T) {
	s := DefaultSettings()
	totals := Macros{Kcal: 2000, Protein: 160, Fat: 80, Carbs: 200}

	got := ids(EvaluateAchievements(&s, totals, 2.5))
	for _, id := range []string{AchievementFirstStep, AchievementWaterMaster, AchievementProteinKing, AchievementPerfectDay} {
		if !got[id] {
			t.Errorf("expected %s to unlock", id)
		}
	}
	if got[AchievementStreak3] {
		t.Error("streak_3 should not unlock with streak 0")
	}
}

func TestEvaluateAchievements_OverGoalIsNotPerfect(t *testing.T) {
	s := DefaultSettings()
	got := ids(EvaluateAchievements(&s, Macros{Kcal: 2300, Protein: 160, Fat: 80}, 0))
	if got[AchievementPerfectDay] {
		t.Error("2300 kcal is more than 10% over a 2000 goal")
	}
	if !got[AchievementProteinKing] {
		t.Error("expected protein_king")
	}
}

func TestEvaluateAchievements_ZeroGoalsSkipRelativeRules(t *testing.T) {
	s := DefaultSettings()
	s.Goals = Goals{}

	got := ids(EvaluateAchievements(&s, Macros{Kcal: 10, Protein: 0, Fat: 0}, 0))
	if got[AchievementProteinKing] || got[AchievementPerfectDay] {
		t.Errorf("goal-relative achievements unlocked against zero goals: %v", got)
	}
}

func TestEvaluateAchievements_Streaks(t *testing.T) {
	s := DefaultSettings()
	s.Streak = 7
	got := ids(EvaluateAchievements(&s, Macros{}, 0))
	if !got[AchievementStreak3] || !got[AchievementStreak7] {
		t.Errorf("expected both streak achievements, got %v", got)
	}
}

func TestAchievementList(t *testing.T) {
	s := DefaultSettings()
	s.Unlocked = []string{AchievementWaterMaster}

	list := AchievementList(s)
	if len(list) != len(Catalog) {
		t.Fatalf("expected %d entries, got %d", len(Catalog), len(list))
	}
	for _, st := range list {
		if st.Unlocked != (st.ID == AchievementWaterMaster) {
			t.Errorf("%s unlocked = %v", st.ID, st.Unlocked)
		}
	}
}

func TestSanitizeUnlocked(t *testing.T) {
	got := sanitizeUnlocked([]string{"first_step", "bogus", "first_step", "streak_3"})
	if len(got) != 2 || got[0] != "first_step" || got[1] != "streak_3" {
		t.Errorf("unexpected sanitized ids %v", got)
	}
}
