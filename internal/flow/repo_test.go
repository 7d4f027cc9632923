package flow

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileRepositoryEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "session.json"))
	sess, stage, err := repo.Load()
	if err != nil {
		t.Fatalf("loading an absent state file should not fail: %v", err)
	}
	if sess != nil {
		t.Fatal("expected no session")
	}
	if stage != StageSelection {
		t.Fatalf("expected selection stage, got %s", stage)
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state", "session.json"))

	in := &Session{
		ID:           "abc",
		SelectedName: "Ninou",
		Timestamp:    time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC),
		Revealed:     true,
		MatchData:    &MatchData{Match: "Habiba", Message: "Joyeux Noël!"},
	}
	if err := repo.Save(in, StageReveal); err != nil {
		t.Fatalf("save should succeed: %v", err)
	}

	sess, stage, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if stage != StageReveal {
		t.Fatalf("expected reveal stage, got %s", stage)
	}
	if sess == nil {
		t.Fatal("expected a session")
	}
	if sess.SelectedName != "Ninou" || !sess.Revealed {
		t.Fatalf("session fields lost in round-trip: %+v", sess)
	}
	if sess.MatchData == nil || sess.MatchData.Match != "Habiba" || sess.MatchData.Message != "Joyeux Noël!" {
		t.Fatalf("cached match data lost in round-trip: %+v", sess.MatchData)
	}
}

func TestFileRepositoryClear(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "session.json"))
	if err := repo.Save(&Session{SelectedName: "Suley"}, StageMessage); err != nil {
		t.Fatal(err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatal(err)
	}
	sess, stage, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil || stage != StageSelection {
		t.Fatalf("clear should drop everything, got %+v / %s", sess, stage)
	}

	// clearing twice is fine
	if err := repo.Clear(); err != nil {
		t.Fatalf("repeat clear should be a no-op: %v", err)
	}
}

func TestMemoryRepositoryCopies(t *testing.T) {
	repo := NewMemoryRepository()
	in := &Session{SelectedName: "Ninou", MatchData: &MatchData{Match: "Habiba"}}
	if err := repo.Save(in, StageReveal); err != nil {
		t.Fatal(err)
	}

	out, _, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	out.MatchData.Match = "tampered"

	again, _, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if again.MatchData.Match != "Habiba" {
		t.Fatal("loaded session should be a copy, not shared state")
	}
}
