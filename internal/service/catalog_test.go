package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/store"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, Timezone)

func newTestCatalog(t *testing.T) (*CatalogService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	svc := NewCatalogService(st)
	svc.clock = fixedClock(testNow)
	return svc, st
}

func createEvent(t *testing.T, svc *CatalogService, code string) *model.Event {
	t.Helper()
	ev, err := svc.CreateEvent(&model.CreateEventRequest{
		Code:      code,
		Name:      "Test event",
		StartDate: "2026-08-01",
		EndDate:   "2026-09-30",
	})
	if err != nil {
		t.Fatalf("create event %s: %v", code, err)
	}
	return ev
}

func TestValidEventCode(t *testing.T) {
	for _, code := range []string{"RAE1A2", "RAE001", "a1b2"} {
		if !ValidEventCode(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}
	for _, code := range []string{"bad", "RAE", "123456", "ABCDEF", "RAE-001", "RAE0012345X"} {
		if ValidEventCode(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}

func TestCreateEvent(t *testing.T) {
	svc, _ := newTestCatalog(t)

	ev, err := svc.CreateEvent(&model.CreateEventRequest{
		Code:        "RAE1A2",
		Name:        "Autumn fair",
		Description: "seasonal",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-30",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.Name != "Autumn fair" || ev.Description != "seasonal" ||
		ev.StartDate != "2026-09-01" || ev.EndDate != "2026-09-30" {
		t.Fatal("event fields do not reflect the request")
	}
	if ev.MaxPoints != 0 {
		t.Fatalf("expected max_points 0 for a taskless event, got %d", ev.MaxPoints)
	}

	got, err := svc.GetEvent("RAE1A2")
	if err != nil || got.Code != "RAE1A2" {
		t.Fatalf("lookup after create: %v", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := newTestCatalog(t)

	if _, err := svc.CreateEvent(&model.CreateEventRequest{
		Code: "bad", Name: "x", StartDate: "2026-08-01", EndDate: "2026-09-30",
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for code, got %v", err)
	}

	if _, err := svc.CreateEvent(&model.CreateEventRequest{
		Code: "RAE1A2", Name: "x", StartDate: "2026-08-01", EndDate: "not-a-date",
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for date, got %v", err)
	}

	if _, err := svc.CreateEvent(&model.CreateEventRequest{
		Code: "RAE1A2", Name: "x", StartDate: "2026-01-01", EndDate: "2026-07-31",
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for past end date, got %v", err)
	}

	createEvent(t, svc, "RAE1A2")
	if _, err := svc.CreateEvent(&model.CreateEventRequest{
		Code: "RAE1A2", Name: "again", StartDate: "2026-08-01", EndDate: "2026-09-30",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}
}

func TestCreateEventInlineTasks(t *testing.T) {
	svc, _ := newTestCatalog(t)

	ev, err := svc.CreateEvent(&model.CreateEventRequest{
		Code: "RAE1A2", Name: "x", StartDate: "2026-08-01", EndDate: "2026-09-30",
		Tasks: []model.InlineTaskRequest{
			{Name: "first", Points: 5},
			{Name: "second", Points: 10},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(ev.Tasks) != 2 || ev.Tasks[0].ID != 1 || ev.Tasks[1].ID != 2 {
		t.Fatal("inline tasks not numbered from 1")
	}
	if ev.MaxPoints != 15 {
		t.Fatalf("expected max_points 15, got %d", ev.MaxPoints)
	}
}

func TestMaxPointsFollowsTasks(t *testing.T) {
	svc, st := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")
	ev := st.Events["RAE1A2"]

	if _, err := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "a", Points: 5}); err != nil {
		t.Fatal(err)
	}
	tb, err := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "b", Points: 10})
	if err != nil {
		t.Fatal(err)
	}
	if ev.MaxPoints != 15 {
		t.Fatalf("expected max_points 15, got %d", ev.MaxPoints)
	}

	if err := svc.DeleteTask("RAE1A2", tb.ID); err != nil {
		t.Fatal(err)
	}
	if ev.MaxPoints != 5 {
		t.Fatalf("expected max_points 5 after delete, got %d", ev.MaxPoints)
	}

	if _, err := svc.EditTask("RAE1A2", 1, &model.TaskRequest{Name: "a", Points: 8}); err != nil {
		t.Fatal(err)
	}
	if ev.MaxPoints != 8 {
		t.Fatalf("expected max_points 8 after edit, got %d", ev.MaxPoints)
	}
}

func TestTaskIDsDoNotCollide(t *testing.T) {
	svc, _ := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")

	t1, _ := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "a", Points: 1})
	t2, _ := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "b", Points: 1})
	if t1.ID != 1 || t2.ID != 2 {
		t.Fatal("expected sequential ids")
	}
	if err := svc.DeleteTask("RAE1A2", t2.ID); err != nil {
		t.Fatal(err)
	}
	// Next id is one past the highest live id; it must not collide with
	// task 1 even though the slice shrank.
	t3, _ := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "c", Points: 1})
	if t3.ID != 2 {
		t.Fatalf("unexpected id %d", t3.ID)
	}
}

func TestEditEventPartial(t *testing.T) {
	svc, _ := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")

	name := "Renamed"
	ev, err := svc.EditEvent("RAE1A2", &model.UpdateEventRequest{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Name != "Renamed" || ev.StartDate != "2026-08-01" {
		t.Fatal("partial edit touched unrelated fields")
	}

	badDate := "31/12/2026"
	if _, err := svc.EditEvent("RAE1A2", &model.UpdateEventRequest{EndDate: &badDate}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.EditEvent("NOPE1", &model.UpdateEventRequest{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestJoinEvent(t *testing.T) {
	svc, st := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")

	if err := svc.JoinEvent(1, "NOPE1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := svc.JoinEvent(1, "RAE1A2"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.JoinEvent(1, "RAE1A2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on double join, got %v", err)
	}

	g := st.Gamers[1]
	if g == nil || !g.HasJoined("RAE1A2") {
		t.Fatal("join not recorded on gamer")
	}
	if g.JoinedAt["RAE1A2"] == "" {
		t.Fatal("join timestamp missing")
	}
	if !st.Events["RAE1A2"].HasGamer(1) {
		t.Fatal("join not recorded on event")
	}
}

func TestAssignTask(t *testing.T) {
	svc, st := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")
	task, _ := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "a", Points: 5})
	live := st.Events["RAE1A2"].Task(task.ID)

	if err := svc.AssignTask(1, "RAE1A2", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found before joining, got %v", err)
	}
	if err := svc.JoinEvent(1, "RAE1A2"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AssignTask(1, "RAE1A2", task.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	// Selecting again is a quiet no-op.
	if err := svc.AssignTask(1, "RAE1A2", task.ID); err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if len(live.AssignedUsers) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(live.AssignedUsers))
	}

	live.CheckedUsers = append(live.CheckedUsers, 1)
	if err := svc.AssignTask(1, "RAE1A2", task.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict after pass, got %v", err)
	}
}

func TestPrizes(t *testing.T) {
	svc, st := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")
	ev := st.Events["RAE1A2"]

	p, err := svc.AddPrize("RAE1A2", &model.PrizeRequest{Name: "mug", PointsRequired: 5})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 1 {
		t.Fatalf("expected prize id 1, got %d", p.ID)
	}
	if _, err := svc.EditPrize("RAE1A2", p.ID, &model.PrizeRequest{Name: "cup", PointsRequired: 6}); err != nil {
		t.Fatal(err)
	}
	if ev.Prizes[0].Name != "cup" || ev.Prizes[0].PointsRequired != 6 {
		t.Fatal("prize edit not applied")
	}
	if err := svc.DeletePrize("RAE1A2", p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeletePrize("RAE1A2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReadsReturnDetachedCopies(t *testing.T) {
	svc, st := newTestCatalog(t)
	createEvent(t, svc, "RAE1A2")
	if _, err := svc.AddTask("RAE1A2", &model.TaskRequest{Name: "a", Points: 5}); err != nil {
		t.Fatal(err)
	}

	ev, err := svc.GetEvent("RAE1A2")
	if err != nil {
		t.Fatal(err)
	}
	// Mutating a read result must not leak into the store; handlers marshal
	// these after the lock is released.
	ev.Name = "mutated"
	ev.Tasks[0].Points = 99
	ev.Tasks = append(ev.Tasks, &model.Task{ID: 99})
	ev.GamerList = append(ev.GamerList, 42)

	live := st.Events["RAE1A2"]
	if live.Name == "mutated" || live.Tasks[0].Points == 99 ||
		len(live.Tasks) != 1 || len(live.GamerList) != 0 {
		t.Fatal("read result aliases store memory")
	}

	// And the copy stays stable while the store moves on.
	name := "Renamed"
	if _, err := svc.EditEvent("RAE1A2", &model.UpdateEventRequest{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if ev.Name != "mutated" {
		t.Fatal("edit reached a previously returned copy")
	}
}

func TestDeleteEventCascades(t *testing.T) {
	st := newTestStore(t)
	catalog := NewCatalogService(st)
	catalog.clock = fixedClock(testNow)
	ledger := NewLedgerService(st)
	ledger.clock = fixedClock(testNow)

	createEvent(t, catalog, "RAE1A2")
	createEvent(t, catalog, "RAE3B4")
	task, _ := catalog.AddTask("RAE1A2", &model.TaskRequest{Name: "a", Points: 5})
	prize, _ := catalog.AddPrize("RAE1A2", &model.PrizeRequest{Name: "mug", PointsRequired: 5})

	if err := catalog.JoinEvent(1, "RAE1A2"); err != nil {
		t.Fatal(err)
	}
	if err := catalog.JoinEvent(1, "RAE3B4"); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Submit(1, "RAE1A2", task.ID, "a.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Review("a.png", task.ID, true); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Redeem(1, "RAE1A2", prize.ID); err != nil {
		t.Fatal(err)
	}
	if err := ledger.GrantEventPoints(1, "RAE3B4", 2); err != nil {
		t.Fatal(err)
	}

	if err := catalog.DeleteEvent("RAE1A2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	g := st.Gamers[1]
	if g.HasJoined("RAE1A2") {
		t.Fatal("joined_events still references the deleted event")
	}
	if _, ok := g.EventsPoints["RAE1A2"]; ok {
		t.Fatal("events_points still references the deleted event")
	}
	if _, ok := g.RedeemedPrizes["RAE1A2"]; ok {
		t.Fatal("redeemed_prizes still references the deleted event")
	}
	if _, ok := g.JoinedAt["RAE1A2"]; ok {
		t.Fatal("joined_at still references the deleted event")
	}
	for _, e := range g.PointsHistory {
		if e.EventCode == "RAE1A2" {
			t.Fatal("points_history still references the deleted event")
		}
	}
	for _, subs := range st.Submissions {
		for _, sub := range subs {
			if sub.EventCode == "RAE1A2" {
				t.Fatal("submissions still reference the deleted event")
			}
		}
	}

	// The other event is untouched.
	if !g.HasJoined("RAE3B4") || g.EventsPoints["RAE3B4"] != 2 {
		t.Fatal("cascade touched an unrelated event")
	}
	if err := catalog.DeleteEvent("RAE1A2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}
