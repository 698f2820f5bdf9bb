package service

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/store"
)

var eventCodeCharset = regexp.MustCompile(`^[A-Za-z0-9]{4,10}$`)

// ValidEventCode reports whether the code is 4-10 alphanumerics containing
// at least one letter and one digit.
func ValidEventCode(code string) bool {
	return eventCodeCharset.MatchString(code) &&
		strings.ContainsAny(code, "0123456789") &&
		strings.IndexFunc(code, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		}) >= 0
}

// CatalogService manages events and their nested tasks and prizes.
type CatalogService struct {
	store *store.Store
	clock func() time.Time
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st, clock: time.Now}
}

// CreateEvent registers a new event. Inline tasks get sequential ids
// starting at 1 and the obtainable-points aggregate is derived from them.
func (s *CatalogService) CreateEvent(req *model.CreateEventRequest) (*model.Event, error) {
	if !ValidEventCode(req.Code) {
		return nil, ErrInvalidEventCode
	}
	if _, err := time.ParseInLocation(dateLayout, req.StartDate, Timezone); err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, Timezone)
	if err != nil {
		return nil, ErrInvalidDate
	}
	today, _ := time.ParseInLocation(dateLayout, s.clock().In(Timezone).Format(dateLayout), Timezone)
	if end.Before(today) {
		return nil, ErrEndDateInPast
	}
	for _, t := range req.Tasks {
		if t.Points < 0 {
			return nil, ErrNegativePoints
		}
	}

	s.store.Lock()
	defer s.store.Unlock()

	if _, ok := s.store.Events[req.Code]; ok {
		return nil, ErrEventExists
	}

	ev := &model.Event{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Tasks:       []*model.Task{},
		Prizes:      []*model.Prize{},
		GamerList:   []int64{},
	}
	for i, t := range req.Tasks {
		ev.Tasks = append(ev.Tasks, &model.Task{
			ID:            i + 1,
			Name:          t.Name,
			Description:   t.Description,
			Points:        t.Points,
			AssignedUsers: []int64{},
			CheckedUsers:  []int64{},
		})
	}
	ev.RecomputeMaxPoints()
	s.store.Events[req.Code] = ev

	return ev.Clone(), persist(s.store)
}

// EditEvent overwrites only the supplied fields. Date fields are
// re-validated for parseability; the code itself is immutable.
func (s *CatalogService) EditEvent(code string, req *model.UpdateEventRequest) (*model.Event, error) {
	if req.StartDate != nil {
		if _, err := time.ParseInLocation(dateLayout, *req.StartDate, Timezone); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if req.EndDate != nil {
		if _, err := time.ParseInLocation(dateLayout, *req.EndDate, Timezone); err != nil {
			return nil, ErrInvalidDate
		}
	}

	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	if req.Name != nil {
		ev.Name = *req.Name
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.StartDate != nil {
		ev.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		ev.EndDate = *req.EndDate
	}

	return ev.Clone(), persist(s.store)
}

// DeleteEvent removes the event and every reference to it: joined-event
// sets, per-event balances, redeemed-prize checklists, ledger entries
// carrying the code, and the event's submissions. No gamer record may point
// at a nonexistent event afterwards.
func (s *CatalogService) DeleteEvent(code string) error {
	s.store.Lock()
	defer s.store.Unlock()

	if _, ok := s.store.Events[code]; !ok {
		return ErrEventNotFound
	}
	delete(s.store.Events, code)

	for _, g := range s.store.Gamers {
		joined := g.JoinedEvents[:0]
		for _, c := range g.JoinedEvents {
			if c != code {
				joined = append(joined, c)
			}
		}
		g.JoinedEvents = joined
		delete(g.JoinedAt, code)
		delete(g.EventsPoints, code)
		delete(g.RedeemedPrizes, code)

		history := g.PointsHistory[:0]
		for _, e := range g.PointsHistory {
			if e.EventCode != code {
				history = append(history, e)
			}
		}
		g.PointsHistory = history
	}

	for id, subs := range s.store.Submissions {
		kept := subs[:0]
		for _, sub := range subs {
			if sub.EventCode != code {
				kept = append(kept, sub)
			}
		}
		if len(kept) == 0 {
			delete(s.store.Submissions, id)
		} else {
			s.store.Submissions[id] = kept
		}
	}

	return persist(s.store)
}

// GetEvent returns a copy of the event with the given code. Reads return
// copies so callers never alias store memory outside the lock.
func (s *CatalogService) GetEvent(code string) (*model.Event, error) {
	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	return ev.Clone(), nil
}

// ListEvents returns copies of all events ordered by code.
func (s *CatalogService) ListEvents() []*model.Event {
	s.store.Lock()
	defer s.store.Unlock()

	out := make([]*model.Event, 0, len(s.store.Events))
	for _, ev := range s.store.Events {
		out = append(out, ev.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// AddTask appends a task to the event and re-derives max_points.
func (s *CatalogService) AddTask(code string, req *model.TaskRequest) (*model.Task, error) {
	if req.Points < 0 {
		return nil, ErrNegativePoints
	}

	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	t := &model.Task{
		ID:            ev.NextTaskID(),
		Name:          req.Name,
		Description:   req.Description,
		Points:        req.Points,
		AssignedUsers: []int64{},
		CheckedUsers:  []int64{},
	}
	ev.Tasks = append(ev.Tasks, t)
	ev.RecomputeMaxPoints()

	return t.Clone(), persist(s.store)
}

// EditTask overwrites the task's fields and re-derives max_points.
func (s *CatalogService) EditTask(code string, taskID int, req *model.TaskRequest) (*model.Task, error) {
	if req.Points < 0 {
		return nil, ErrNegativePoints
	}

	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	t := ev.Task(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	t.Name = req.Name
	t.Description = req.Description
	t.Points = req.Points
	ev.RecomputeMaxPoints()

	return t.Clone(), persist(s.store)
}

// DeleteTask removes the task and re-derives max_points. Task ids are not
// renumbered, so history stays unambiguous.
func (s *CatalogService) DeleteTask(code string, taskID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return ErrEventNotFound
	}
	for i, t := range ev.Tasks {
		if t.ID == taskID {
			ev.Tasks = append(ev.Tasks[:i], ev.Tasks[i+1:]...)
			ev.RecomputeMaxPoints()
			return persist(s.store)
		}
	}
	return ErrTaskNotFound
}

// AddPrize appends a prize to the event.
func (s *CatalogService) AddPrize(code string, req *model.PrizeRequest) (*model.Prize, error) {
	if req.PointsRequired < 0 {
		return nil, ErrNegativePoints
	}

	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	p := &model.Prize{
		ID:             ev.NextPrizeID(),
		Name:           req.Name,
		PointsRequired: req.PointsRequired,
	}
	ev.Prizes = append(ev.Prizes, p)

	out := *p
	return &out, persist(s.store)
}

// EditPrize overwrites the prize's fields.
func (s *CatalogService) EditPrize(code string, prizeID int, req *model.PrizeRequest) (*model.Prize, error) {
	if req.PointsRequired < 0 {
		return nil, ErrNegativePoints
	}

	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return nil, ErrEventNotFound
	}
	p := ev.Prize(prizeID)
	if p == nil {
		return nil, ErrPrizeNotFound
	}
	p.Name = req.Name
	p.PointsRequired = req.PointsRequired

	out := *p
	return &out, persist(s.store)
}

// DeletePrize removes the prize from the event.
func (s *CatalogService) DeletePrize(code string, prizeID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return ErrEventNotFound
	}
	for i, p := range ev.Prizes {
		if p.ID == prizeID {
			ev.Prizes = append(ev.Prizes[:i], ev.Prizes[i+1:]...)
			return persist(s.store)
		}
	}
	return ErrPrizeNotFound
}

// JoinEvent adds the gamer to the event's roster and the event to the
// gamer's joined set. Joining twice is a conflict, not a duplicate.
func (s *CatalogService) JoinEvent(gamerID int64, code string) error {
	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return ErrEventNotFound
	}
	if g, ok := s.store.Gamers[gamerID]; ok && g.IsBlocked {
		return ErrGamerBlocked
	}
	if ev.HasGamer(gamerID) {
		return ErrAlreadyJoined
	}

	g := ensure(s.store, gamerID)
	ev.GamerList = append(ev.GamerList, gamerID)
	g.JoinedEvents = append(g.JoinedEvents, code)
	if g.JoinedAt == nil {
		g.JoinedAt = map[string]string{}
	}
	g.JoinedAt[code] = stamp(s.clock)

	return persist(s.store)
}

// AssignTask records the gamer's selection of a task ahead of uploading
// proof. Selecting an already-selected task is a no-op; a task the gamer
// already passed cannot be selected again.
func (s *CatalogService) AssignTask(gamerID int64, code string, taskID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	ev, ok := s.store.Events[code]
	if !ok {
		return ErrEventNotFound
	}
	if !ev.HasGamer(gamerID) {
		return ErrGamerNotFound
	}
	if g, ok := s.store.Gamers[gamerID]; ok && g.IsBlocked {
		return ErrGamerBlocked
	}
	t := ev.Task(taskID)
	if t == nil {
		return ErrTaskNotFound
	}
	if t.HasChecked(gamerID) {
		return ErrTaskCompleted
	}
	if t.HasAssigned(gamerID) {
		return nil
	}
	t.AssignedUsers = append(t.AssignedUsers, gamerID)

	return persist(s.store)
}
