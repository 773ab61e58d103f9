package tracker

// Achievement is one entry of the fixed badge catalog.
type Achievement struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementStatus pairs a catalog entry with its unlock state.
type AchievementStatus struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

const (
	AchievementFirstStep   = "first_step"
	AchievementWaterMaster = "water_master"
	AchievementProteinKing = "protein_king"
	AchievementStreak3     = "streak_3"
	AchievementStreak7     = "streak_7"
	AchievementPerfectDay  = "perfect_day"
)

// Catalog lists every achievement in display order.
var Catalog = []Achievement{
	{ID: AchievementFirstStep, Icon: "🏁", Name: "First Step", Description: "Log your first food"},
	{ID: AchievementWaterMaster, Icon: "💧", Name: "Water Master", Description: "Drink 2.5 L of water in a day"},
	{ID: AchievementProteinKing, Icon: "🥩", Name: "Protein King", Description: "Reach your protein goal"},
	{ID: AchievementStreak3, Icon: "🔥", Name: "On Fire", Description: "3-day streak"},
	{ID: AchievementStreak7, Icon: "🚀", Name: "Full Week", Description: "7-day streak"},
	{ID: AchievementPerfectDay, Icon: "💎", Name: "Perfect Day", Description: "Hit calories and macros within 10%"},
}

func catalogEntry(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// EvaluateAchievements checks today's totals and water against the catalog
// rules and adds any newly met ids to s.Unlocked. It returns only the
// achievements unlocked by this call, so an already held one is never
// reported twice. Unlocks are never revoked.
//
// Rules relative to a goal are skipped while that goal is zero.
func EvaluateAchievements(s *Settings, totals Macros, water float64) []Achievement {
	g := s.Goals
	kcalGoal := float64(g.Kcal)
	proteinGoal := float64(g.Protein)
	fatGoal := float64(g.Fat)

	met := map[string]bool{
		AchievementFirstStep:   totals.Kcal > 0,
		AchievementWaterMaster: water >= 2.5,
		AchievementProteinKing: proteinGoal > 0 && totals.Protein >= proteinGoal*0.95,
		AchievementStreak3:     s.Streak >= 3,
		AchievementStreak7:     s.Streak >= 7,
		AchievementPerfectDay: kcalGoal > 0 && proteinGoal > 0 && fatGoal > 0 &&
			totals.Kcal >= kcalGoal*0.9 && totals.Kcal <= kcalGoal*1.1 &&
			totals.Protein >= proteinGoal*0.9 &&
			totals.Fat >= fatGoal*0.9,
	}

	var fresh []Achievement
	for _, a := range Catalog {
		if !met[a.ID] || s.HasAchievement(a.ID) {
			continue
		}
		s.Unlocked = append(s.Unlocked, a.ID)
		fresh = append(fresh, a)
	}
	return fresh
}

// AchievementList returns the full catalog with unlock state.
func AchievementList(s Settings) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(Catalog))
	for _, a := range Catalog {
		out = append(out, AchievementStatus{Achievement: a, Unlocked: s.HasAchievement(a.ID)})
	}
	return out
}

// sanitizeUnlocked drops unknown and duplicate ids, keeping first-seen order.
func sanitizeUnlocked(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := catalogEntry(id); !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
