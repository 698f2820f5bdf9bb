package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ElvisLo030/RA-bot/internal/model"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("open missing file: %v", err)
	}
	if len(s.Gamers) != 0 || len(s.Events) != 0 || len(s.Submissions) != 0 {
		t.Fatal("expected empty store")
	}
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	card := "RA12CD34"
	g := model.NewGamer(123456789012345678)
	g.CardNumber = &card
	g.JoinedEvents = append(g.JoinedEvents, "RAE1A2")
	g.EventsPoints["RAE1A2"] = 7
	g.HistoryPts = append(g.HistoryPts, 7)
	g.RedeemedPrizes["RAE1A2"] = []int{1}
	s.Gamers[g.ID] = g

	s.Events["RAE1A2"] = &model.Event{
		Code:      "RAE1A2",
		Name:      "Autumn event",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
		Tasks: []*model.Task{{
			ID: 1, Name: "post", Points: 7,
			AssignedUsers: []int64{g.ID},
			CheckedUsers:  []int64{g.ID},
		}},
		Prizes:    []*model.Prize{{ID: 1, Name: "sticker", PointsRequired: 5}},
		GamerList: []int64{g.ID},
		MaxPoints: 7,
	}

	s.Submissions[g.ID] = []*model.Submission{{
		ID: "sub-1", Filename: "a.png", GamerID: g.ID,
		EventCode: "RAE1A2", TaskID: 1, Status: model.StatusApproved,
		UploadedAt: "2026-09-02T10:00:00+08:00",
	}}

	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Gamer map keys must serialize as strings and come back as int64.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"123456789012345678"`) {
		t.Fatal("expected gamer id serialized as a string key")
	}

	loaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	lg, ok := loaded.Gamers[g.ID]
	if !ok {
		t.Fatalf("gamer %d missing after reload", g.ID)
	}
	if lg.CardNumber == nil || *lg.CardNumber != card {
		t.Fatalf("card number not round-tripped, got %v", lg.CardNumber)
	}
	if lg.EventsPoints["RAE1A2"] != 7 {
		t.Fatalf("expected 7 event points, got %d", lg.EventsPoints["RAE1A2"])
	}
	ev, ok := loaded.Events["RAE1A2"]
	if !ok {
		t.Fatal("event missing after reload")
	}
	if ev.MaxPoints != 7 || len(ev.Tasks) != 1 || ev.Tasks[0].Points != 7 {
		t.Fatal("event tasks not round-tripped")
	}
	subs := loaded.Submissions[g.ID]
	if len(subs) != 1 || subs[0].Filename != "a.png" || subs[0].Status != model.StatusApproved {
		t.Fatal("submissions not round-tripped")
	}
}

func TestOpenNormalizesLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	// A minimal record as older data files carry it: no collection fields.
	legacy := `{
		"gamers": {"1": {"gamer_id": 1}},
		"events": {"RAE1A2": {"event_code": "RAE1A2", "tasks": [{"task_id": 1}]}}
	}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	g := s.Gamers[1]
	if g.JoinedEvents == nil || g.JoinedAt == nil || g.EventsPoints == nil ||
		g.HistoryPts == nil || g.PointsHistory == nil || g.RedeemedPrizes == nil {
		t.Fatal("gamer collections not normalized")
	}
	g.EventsPoints["RAE1A2"] += 5 // must not panic on a nil map

	ev := s.Events["RAE1A2"]
	if ev.Tasks == nil || ev.Prizes == nil || ev.GamerList == nil {
		t.Fatal("event collections not normalized")
	}
	if ev.Tasks[0].AssignedUsers == nil || ev.Tasks[0].CheckedUsers == nil {
		t.Fatal("task collections not normalized")
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".snapshot-") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestBackupTo(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	backupDir := filepath.Join(dir, "backups")
	path, err := s.BackupTo(backupDir)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
}
