package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestValidCardNumber(t *testing.T) {
	valid := []string{"RA12CD34", "a1b2c3d4", "1234567A"}
	for _, card := range valid {
		if !ValidCardNumber(card) {
			t.Fatalf("expected %q to be valid", card)
		}
	}
	invalid := []string{"", "12345678", "abcdefgh", "RA12CD3", "RA12CD345", "RA12CD3!"}
	for _, card := range invalid {
		if ValidCardNumber(card) {
			t.Fatalf("expected %q to be invalid", card)
		}
	}
}

func TestBindCard(t *testing.T) {
	svc := NewGamerService(newTestStore(t))

	if err := svc.BindCard(1, "bad"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.BindCard(1, "RA12CD34"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	card, err := svc.QueryCard(1)
	if err != nil || card != "RA12CD34" {
		t.Fatalf("query after bind: %q, %v", card, err)
	}

	// Re-binding the same number to the same gamer is fine.
	if err := svc.BindCard(1, "RA12CD34"); err != nil {
		t.Fatalf("rebind own card: %v", err)
	}

	// The same number on a different gamer is a conflict.
	if err := svc.BindCard(2, "RA12CD34"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Overwriting with a fresh number frees nothing for gamer 2 implicitly.
	if err := svc.BindCard(1, "ZZ99YY88"); err != nil {
		t.Fatalf("overwrite own card: %v", err)
	}
	if err := svc.BindCard(2, "RA12CD34"); err != nil {
		t.Fatalf("bind freed card: %v", err)
	}
}

func TestQueryCardUnbound(t *testing.T) {
	svc := NewGamerService(newTestStore(t))
	if _, err := svc.QueryCard(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestBlockedGamerCannotBind(t *testing.T) {
	svc := NewGamerService(newTestStore(t))
	if err := svc.SetBlocked(1, true); err != nil {
		t.Fatal(err)
	}
	if err := svc.BindCard(1, "RA12CD34"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected blocked gamer refusal, got %v", err)
	}
	// The administrator override still applies.
	if err := svc.SetCard(1, "RA12CD34"); err != nil {
		t.Fatalf("admin set card: %v", err)
	}
}

func TestClearCard(t *testing.T) {
	svc := NewGamerService(newTestStore(t))
	if err := svc.ClearCard(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := svc.SetCard(1, "RA12CD34"); err != nil {
		t.Fatal(err)
	}
	if err := svc.ClearCard(1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := svc.QueryCard(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cleared card, got %v", err)
	}
}

func TestGetByCard(t *testing.T) {
	svc := NewGamerService(newTestStore(t))
	if err := svc.SetCard(7, "RA12CD34"); err != nil {
		t.Fatal(err)
	}
	g, err := svc.GetByCard("RA12CD34")
	if err != nil || g.ID != 7 {
		t.Fatalf("get by card: %v, %v", g, err)
	}
	if _, err := svc.GetByCard("ZZ99YY88"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListFilter(t *testing.T) {
	svc := NewGamerService(newTestStore(t))
	if err := svc.SetCard(1, "RA12CD34"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetCard(2, "ZZ99YY88"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Ensure(3); err != nil {
		t.Fatal(err)
	}

	all := svc.List("")
	if len(all) != 3 {
		t.Fatalf("expected 3 gamers, got %d", len(all))
	}
	if all[0].ID != 1 || all[1].ID != 2 || all[2].ID != 3 {
		t.Fatal("expected gamers ordered by id")
	}

	filtered := svc.List("12CD")
	if len(filtered) != 1 || filtered[0].ID != 1 {
		t.Fatalf("expected only gamer 1, got %d results", len(filtered))
	}
}

func TestGetReturnsDetachedCopy(t *testing.T) {
	st := newTestStore(t)
	svc := NewGamerService(st)
	if err := svc.SetCard(1, "RA12CD34"); err != nil {
		t.Fatal(err)
	}

	g, err := svc.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	g.EventsPoints["RAE1A2"] = 99
	*g.CardNumber = "ZZ99YY88"

	live := st.Gamers[1]
	if len(live.EventsPoints) != 0 || *live.CardNumber != "RA12CD34" {
		t.Fatal("read result aliases store memory")
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := NewGamerService(st)

	g1, err := svc.Ensure(5)
	if err != nil {
		t.Fatal(err)
	}
	if g1.ID != 5 || g1.EventsPoints == nil {
		t.Fatal("ensure did not return an initialized record")
	}
	st.Gamers[5].EventsPoints["RAE1A2"] = 3

	g2, err := svc.Ensure(5)
	if err != nil {
		t.Fatal(err)
	}
	if g2.EventsPoints["RAE1A2"] != 3 {
		t.Fatal("ensure replaced an existing record")
	}
}
