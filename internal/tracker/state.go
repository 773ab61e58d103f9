package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Blob names in the durable store.
const (
	BlobSettings  = "settings"
	BlobHistory   = "history"
	BlobFavorites = "favorites"
	// BlobLegacyLog is the single-day food log written before history existed.
	BlobLegacyLog = "log"
)

var (
	ErrFoodInvalid     = errors.New("food needs kcal or protein, and no negative values")
	ErrFavoriteInvalid = errors.New("favorite needs a name and kcal, and no negative values")
	ErrNotFound        = errors.New("not found")
)

// BlobStore is the persistence the Manager needs: named JSON blobs.
type BlobStore interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	PutMany(ctx context.Context, blobs map[string][]byte) error
}

// State is the whole application state.
type State struct {
	Settings  Settings       `json:"settings"`
	History   History        `json:"history"`
	Favorites []FavoriteItem `json:"favorites"`
}

func newState() State {
	return State{Settings: DefaultSettings(), History: History{}, Favorites: []FavoriteItem{}}
}

func (s State) clone() State {
	return State{
		Settings:  s.Settings.clone(),
		History:   s.History.clone(),
		Favorites: append([]FavoriteItem{}, s.Favorites...),
	}
}

// Manager owns the application state and its load/save lifecycle. Every
// mutating method persists before returning; if persisting fails the
// in-memory state is rolled back, so a failed action leaves prior state.
type Manager struct {
	mu    sync.RWMutex
	store BlobStore
	state State
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store BlobStore, opts ...Option) *Manager {
	m := &Manager{store: store, state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Today is the current local day key.
func (m *Manager) Today() DayKey {
	return DayKeyOf(m.now())
}

/* ─── Load / save ────────────────────────────────────────────────────── */

// Load reads all blobs. Settings merge over defaults; legacy day shapes are
// normalized; a legacy single-day log with no history becomes today's record.
func (m *Manager) Load(ctx context.Context) error {
	st := newState()

	setRaw, hasSettings, err := m.store.Get(ctx, BlobSettings)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if hasSettings {
		if err := json.Unmarshal(setRaw, &st.Settings); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
	}
	st.Settings.Unlocked = sanitizeUnlocked(st.Settings.Unlocked)
	if st.Settings.Streak < 0 {
		st.Settings.Streak = 0
	}

	histRaw, hasHistory, err := m.store.Get(ctx, BlobHistory)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	migrated := false
	if hasHistory {
		if err := json.Unmarshal(histRaw, &st.History); err != nil {
			return fmt.Errorf("decode history: %w", err)
		}
		if st.History == nil {
			st.History = History{}
		}
	} else {
		logRaw, hasLog, err := m.store.Get(ctx, BlobLegacyLog)
		if err != nil {
			return fmt.Errorf("load legacy log: %w", err)
		}
		if hasLog {
			rec, err := migrateLegacyLog(logRaw, setRaw)
			if err != nil {
				return err
			}
			st.History[m.Today()] = rec
			migrated = true
		}
	}

	favRaw, hasFavs, err := m.store.Get(ctx, BlobFavorites)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	if hasFavs {
		if err := json.Unmarshal(favRaw, &st.Favorites); err != nil {
			return fmt.Errorf("decode favorites: %w", err)
		}
		if st.Favorites == nil {
			st.Favorites = []FavoriteItem{}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st

	if migrated {
		slog.Info("migrated legacy food log into history", "date", m.Today(), "foods", len(st.History[m.Today()].Foods))
		return m.save(ctx)
	}
	return nil
}

// migrateLegacyLog turns the old single-day log into a DayRecord. Water came
// from a "water" field of the old settings record, when present.
func migrateLegacyLog(logRaw, settingsRaw []byte) (*DayRecord, error) {
	var foods []FoodEntry
	if err := json.Unmarshal(logRaw, &foods); err != nil {
		return nil, fmt.Errorf("decode legacy log: %w", err)
	}
	if foods == nil {
		foods = []FoodEntry{}
	}

	var legacy struct {
		Water float64 `json:"water"`
	}
	if len(settingsRaw) > 0 {
		// Best effort: settings already decoded successfully above.
		_ = json.Unmarshal(settingsRaw, &legacy)
	}
	water := round2(legacy.Water)
	if water < 0 {
		water = 0
	}
	return &DayRecord{Foods: foods, Water: water}, nil
}

// Save persists all three state blobs.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.save(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	blobs := make(map[string][]byte, 3)
	for name, v := range map[string]any{
		BlobSettings:  m.state.Settings,
		BlobHistory:   m.state.History,
		BlobFavorites: m.state.Favorites,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		blobs[name] = b
	}
	if err := m.store.PutMany(ctx, blobs); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// undo holds what a mutation may change: settings, favorites and the
// listed days. Other days are left uncopied, so the cost does not grow with
// history.
type undo struct {
	settings  Settings
	favorites []FavoriteItem
	days      map[DayKey]*DayRecord // nil value: the day was absent
}

func (s *State) checkpoint(days []DayKey) undo {
	u := undo{
		settings:  s.Settings.clone(),
		favorites: append([]FavoriteItem{}, s.Favorites...),
		days:      make(map[DayKey]*DayRecord, len(days)),
	}
	for _, k := range days {
		if rec, ok := s.History[k]; ok && rec != nil {
			u.days[k] = rec.clone()
		} else {
			u.days[k] = nil
		}
	}
	return u
}

func (s *State) restore(u undo) {
	s.Settings = u.settings
	s.Favorites = u.favorites
	for k, rec := range u.days {
		if rec == nil {
			delete(s.History, k)
		} else {
			s.History[k] = rec
		}
	}
}

// mutate runs fn under the write lock and saves. fn may change settings,
// favorites and the listed days only. On any error those are restored to
// what they were before fn ran.
func (m *Manager) mutate(ctx context.Context, days []DayKey, fn func(s *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.state.checkpoint(days)
	if err := fn(&m.state); err != nil {
		m.state.restore(before)
		return err
	}
	if err := m.save(ctx); err != nil {
		m.state.restore(before)
		return err
	}
	return nil
}

func (m *Manager) ledger(s *State) *Ledger {
	return NewLedger(s.History, m.now)
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

/* ─── Session / streak ───────────────────────────────────────────────── */

// StartSession runs the streak check for today and returns the streak.
func (m *Manager) StartSession(ctx context.Context) (int, error) {
	var streak int
	err := m.mutate(ctx, nil, func(s *State) error {
		CheckStreak(&s.Settings, m.Today())
		streak = s.Settings.Streak
		return nil
	})
	return streak, err
}

/* ─── Days ───────────────────────────────────────────────────────────── */

// DayView is everything a client needs to render one day.
type DayView struct {
	Date            DayKey        `json:"date"`
	Label           string        `json:"label"`
	Prev            DayKey        `json:"prev"`
	Next            DayKey        `json:"next"`
	Foods           []FoodEntry   `json:"foods"`
	Water           float64       `json:"water"`
	Totals          Macros        `json:"totals"`
	Goals           Goals         `json:"goals"`
	KcalLeft        float64       `json:"kcal_left"`
	Progress        Macros        `json:"progress"`
	Streak          int           `json:"streak"`
	NewAchievements []Achievement `json:"new_achievements"`
}

// Day computes the view for key. When key is today the achievement
// evaluator runs too; new unlocks are saved and listed once in the view.
// Viewing alone creates the day's record in memory but does not persist it.
func (m *Manager) Day(ctx context.Context, key DayKey) (DayView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := m.Today()
	before := m.state.Settings.clone()
	l := m.ledger(&m.state)
	rec := l.RecordForDate(key)
	totals := l.Totals(key)
	g := m.state.Settings.Goals

	fresh := []Achievement{}
	if key == today {
		fresh = append(fresh, EvaluateAchievements(&m.state.Settings, totals, rec.Water)...)
	}
	if len(fresh) > 0 {
		if err := m.save(ctx); err != nil {
			m.state.Settings = before
			return DayView{}, err
		}
	}

	return DayView{
		Date:     key,
		Label:    DayLabel(key, today),
		Prev:     key.Shift(-1),
		Next:     key.Shift(1),
		Foods:    append([]FoodEntry{}, rec.Foods...),
		Water:    rec.Water,
		Totals:   totals,
		Goals:    g,
		KcalLeft: float64(g.Kcal) - totals.Kcal,
		Progress: Macros{
			Kcal:    Progress(totals.Kcal, float64(g.Kcal)),
			Protein: Progress(totals.Protein, float64(g.Protein)),
			Fat:     Progress(totals.Fat, float64(g.Fat)),
			Carbs:   Progress(totals.Carbs, float64(g.Carbs)),
		},
		Streak:          m.state.Settings.Streak,
		NewAchievements: fresh,
	}, nil
}

// Totals returns the day's totals without touching state.
func (m *Manager) Totals(key DayKey) Macros {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var t Macros
	if rec := m.state.History[key]; rec != nil {
		for _, f := range rec.Foods {
			t = t.Add(f.Macros)
		}
	}
	return t
}

// AddFood logs a food on key. A blank name becomes "Food". An entry with
// neither kcal nor protein is rejected.
func (m *Manager) AddFood(ctx context.Context, key DayKey, entry FoodEntry) (FoodEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		entry.Name = "Food"
	}
	if entry.negative() || (entry.Kcal == 0 && entry.Protein == 0) {
		return FoodEntry{}, ErrFoodInvalid
	}
	entry.ID = 0

	var added FoodEntry
	err := m.mutate(ctx, []DayKey{key}, func(s *State) error {
		added = m.ledger(s).AddFood(key, entry)
		return nil
	})
	return added, err
}

// AddFavoriteToDay logs favorite number index on key as a new entry.
func (m *Manager) AddFavoriteToDay(ctx context.Context, key DayKey, index int) (FoodEntry, error) {
	var added FoodEntry
	err := m.mutate(ctx, []DayKey{key}, func(s *State) error {
		if index < 0 || index >= len(s.Favorites) {
			return fmt.Errorf("favorite %d: %w", index, ErrNotFound)
		}
		fav := s.Favorites[index]
		added = m.ledger(s).AddFood(key, FoodEntry{Name: fav.Name, Macros: fav.Macros})
		return nil
	})
	return added, err
}

// RemoveFood deletes entry id from key. Removing a missing id is a no-op
// reported as false.
func (m *Manager) RemoveFood(ctx context.Context, key DayKey, id int64) (bool, error) {
	var removed bool
	err := m.mutate(ctx, []DayKey{key}, func(s *State) error {
		removed = m.ledger(s).RemoveFood(key, id)
		return nil
	})
	return removed, err
}

// AddWater adds delta liters, rounded to whole WaterSteps (at least one).
func (m *Manager) AddWater(ctx context.Context, key DayKey, delta float64) (float64, error) {
	var water float64
	err := m.mutate(ctx, []DayKey{key}, func(s *State) error {
		water = m.ledger(s).AddWater(key, delta)
		return nil
	})
	return water, err
}

// ResetDay empties key. Confirmation is the caller's job.
func (m *Manager) ResetDay(ctx context.Context, key DayKey) error {
	return m.mutate(ctx, []DayKey{key}, func(s *State) error {
		m.ledger(s).ResetDay(key)
		return nil
	})
}

// RangeSummary returns per-day totals for days with data in [start, end].
func (m *Manager) RangeSummary(start, end DayKey) []DaySummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewLedger(m.state.History, m.now).RangeSummary(start, end)
}

/* ─── Settings / goals ───────────────────────────────────────────────── */

// Settings returns a copy of the settings.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Settings.clone()
}

// UpdateSettings applies fn to the settings and saves. If fn fails nothing
// changes.
func (m *Manager) UpdateSettings(ctx context.Context, fn func(s *Settings) error) (Settings, error) {
	var out Settings
	err := m.mutate(ctx, nil, func(s *State) error {
		if err := fn(&s.Settings); err != nil {
			return err
		}
		out = s.Settings.clone()
		return nil
	})
	return out, err
}

// AutoGoals recomputes goals from the stored profile and saves them.
func (m *Manager) AutoGoals(ctx context.Context) (Settings, error) {
	return m.UpdateSettings(ctx, func(s *Settings) error {
		g, err := CalculateGoals(s.Profile())
		if err != nil {
			return err
		}
		s.Goals = g
		return nil
	})
}

// Achievements lists the catalog with unlock state.
func (m *Manager) Achievements() []AchievementStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return AchievementList(m.state.Settings)
}

/* ─── Favorites ──────────────────────────────────────────────────────── */

// Favorites returns a copy of the saved favorites.
func (m *Manager) Favorites() []FavoriteItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FavoriteItem{}, m.state.Favorites...)
}

// Favorite returns favorite number index.
func (m *Manager) Favorite(index int) (FavoriteItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.state.Favorites) {
		return FavoriteItem{}, fmt.Errorf("favorite %d: %w", index, ErrNotFound)
	}
	return m.state.Favorites[index], nil
}

func validFavorite(f FavoriteItem) bool {
	return strings.TrimSpace(f.Name) != "" && !f.negative()
}

// AddFavorite appends a template. Duplicates are allowed.
func (m *Manager) AddFavorite(ctx context.Context, fav FavoriteItem) error {
	fav.Name = strings.TrimSpace(fav.Name)
	if !validFavorite(fav) {
		return ErrFavoriteInvalid
	}
	return m.mutate(ctx, nil, func(s *State) error {
		s.Favorites = append(s.Favorites, fav)
		return nil
	})
}

// ImportFavorites appends every valid item and returns how many were added.
func (m *Manager) ImportFavorites(ctx context.Context, items []FavoriteItem) (int, error) {
	var added int
	err := m.mutate(ctx, nil, func(s *State) error {
		for _, f := range items {
			f.Name = strings.TrimSpace(f.Name)
			if !validFavorite(f) {
				continue
			}
			s.Favorites = append(s.Favorites, f)
			added++
		}
		return nil
	})
	return added, err
}

// RemoveFavorite deletes favorite number index.
func (m *Manager) RemoveFavorite(ctx context.Context, index int) error {
	return m.mutate(ctx, nil, func(s *State) error {
		if index < 0 || index >= len(s.Favorites) {
			return fmt.Errorf("favorite %d: %w", index, ErrNotFound)
		}
		s.Favorites = append(s.Favorites[:index:index], s.Favorites[index+1:]...)
		return nil
	})
}
