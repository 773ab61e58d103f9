package favimport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thetunix/Calzen/internal/tracker"
)

type recordingImporter struct {
	mu    sync.Mutex
	items []tracker.FavoriteItem
	calls int
}

func (r *recordingImporter) ImportFavorites(_ context.Context, items []tracker.FavoriteItem) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.items = append(r.items, items...)
	return len(items), nil
}

func (r *recordingImporter) snapshot() (int, []tracker.FavoriteItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, append([]tracker.FavoriteItem(nil), r.items...)
}

const sampleCSV = "Name,Kcal,Protein,Fat,Carbs\nSkyr,63,11,0.2,4\n\"Chicken, grilled\",165,31,3.6,\n"

func TestParse(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Skyr" || items[0].Protein != 11 || items[0].Fat != 0.2 {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Name != "Chicken, grilled" || items[1].Kcal != 165 || items[1].Carbs != 0 {
		t.Errorf("unexpected second item %+v", items[1])
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"wrong header", "Food,Kcal,Protein,Fat,Carbs\nEgg,78,6,5,0\n"},
		{"short header", "Name,Kcal\nEgg,78\n"},
		{"bad number", "Name,Kcal,Protein,Fat,Carbs\nEgg,lots,6,5,0\n"},
		{"short row", "Name,Kcal,Protein,Fat,Carbs\nEgg,78\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleFile_ImportsAndRenames(t *testing.T) {
	dir := t.TempDir()
	imp := &recordingImporter{}
	w, err := NewWatcher(dir, imp)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.watcher.Close()

	path := filepath.Join(dir, "favs.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	w.HandleFile(context.Background(), path)
	w.HandleFile(context.Background(), path)

	calls, items := imp.snapshot()
	if calls != 1 || len(items) != 2 {
		t.Errorf("expected one import of 2 items, got %d calls and %d items", calls, len(items))
	}
	if _, err := os.Stat(path + ImportedSuffix); err != nil {
		t.Errorf("expected renamed file: %v", err)
	}
}

func TestHandleFile_BadFileIsLeftInPlace(t *testing.T) {
	dir := t.TempDir()
	imp := &recordingImporter{}
	w, err := NewWatcher(dir, imp)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.watcher.Close()

	path := filepath.Join(dir, "broken.csv")
	os.WriteFile(path, []byte("nope\n"), 0o644)

	w.HandleFile(context.Background(), path)

	if calls, _ := imp.snapshot(); calls != 0 {
		t.Errorf("expected no import, got %d calls", calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("bad file should stay for the user to fix: %v", err)
	}
}

func TestRun_ImportsExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "before.csv"), []byte(sampleCSV), 0o644)

	imp := &recordingImporter{}
	w, err := NewWatcher(dir, imp)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitFor(t, func() bool { _, items := imp.snapshot(); return len(items) == 2 })

	// Write to a temp name and rename so the watcher sees a complete file.
	tmp := filepath.Join(dir, "after.tmp")
	os.WriteFile(tmp, []byte("Name,Kcal,Protein,Fat,Carbs\nEgg,78,6,5,0.6\n"), 0o644)
	os.Rename(tmp, filepath.Join(dir, "after.csv"))

	waitFor(t, func() bool { _, items := imp.snapshot(); return len(items) == 3 })
}

func TestRun_WaitsForFileToSettle(t *testing.T) {
	dir := t.TempDir()
	imp := &recordingImporter{}
	w, err := NewWatcher(dir, imp)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.Settle = 300 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	path := filepath.Join(dir, "slow.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.WriteString("Name,Kcal,Protein,Fat,Carbs\nSkyr,63,11,0.2,4\n")
	time.Sleep(50 * time.Millisecond)
	f.WriteString("Egg,78,6,5,0.6\n")
	f.Close()

	waitFor(t, func() bool { _, items := imp.snapshot(); return len(items) > 0 })
	time.Sleep(2 * w.Settle)
	calls, items := imp.snapshot()
	if calls != 1 || len(items) != 2 {
		t.Errorf("expected one import of both rows, got %d calls with %d rows", calls, len(items))
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met within 5s")
}
