package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/store"
)

// LedgerService is the accounting layer: point grants, image submissions
// and review, prize redemption, and the merged per-gamer history.
type LedgerService struct {
	store *store.Store
	clock func() time.Time
}

func NewLedgerService(st *store.Store) *LedgerService {
	return &LedgerService{store: st, clock: time.Now}
}

// grant appends the delta to the flat history list and a kind-tagged ledger
// entry. The caller must hold the store lock.
func (s *LedgerService) grant(g *model.Gamer, kind string, points int, eventCode string) {
	g.HistoryPts = append(g.HistoryPts, points)
	g.PointsHistory = append(g.PointsHistory, model.LedgerEntry{
		Kind:      kind,
		Points:    points,
		EventCode: eventCode,
		Time:      stamp(s.clock),
	})
}

// GrantGlobalPoints credits points outside any event.
func (s *LedgerService) GrantGlobalPoints(gamerID int64, points int) error {
	s.store.Lock()
	defer s.store.Unlock()

	g := ensure(s.store, gamerID)
	s.grant(g, model.EntryGlobal, points, "")
	return persist(s.store)
}

// GrantAPIPoints is GrantGlobalPoints for grants arriving over the HTTP
// API; only the ledger-entry kind differs.
func (s *LedgerService) GrantAPIPoints(gamerID int64, points int) error {
	s.store.Lock()
	defer s.store.Unlock()

	g := ensure(s.store, gamerID)
	s.grant(g, model.EntryAPI, points, "")
	return persist(s.store)
}

// GrantEventPoints credits points scoped to an event. The per-event balance
// is created at zero when absent and never goes negative.
func (s *LedgerService) GrantEventPoints(gamerID int64, code string, points int) error {
	s.store.Lock()
	defer s.store.Unlock()

	if _, ok := s.store.Events[code]; !ok {
		return ErrEventNotFound
	}
	g := ensure(s.store, gamerID)
	if g.EventsPoints[code]+points < 0 {
		return ErrNegativePoints
	}
	g.EventsPoints[code] += points
	s.grant(g, model.EntryEvent, points, code)
	return persist(s.store)
}

// Submit records a pending proof-of-completion image for a task. A gamer
// who already passed the task cannot submit again; a gamer whose last
// submission was rejected can.
func (s *LedgerService) Submit(gamerID int64, code string, taskID int, filename string) (*model.Submission, error) {
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
	if g, ok := s.store.Gamers[gamerID]; ok && g.IsBlocked {
		return nil, ErrGamerBlocked
	}
	if t.HasChecked(gamerID) {
		return nil, ErrTaskCompleted
	}

	ensure(s.store, gamerID)
	sub := &model.Submission{
		ID:         uuid.NewString(),
		Filename:   filename,
		GamerID:    gamerID,
		EventCode:  code,
		TaskID:     taskID,
		Status:     model.StatusPending,
		UploadedAt: stamp(s.clock),
	}
	s.store.Submissions[gamerID] = append(s.store.Submissions[gamerID], sub)

	out := *sub
	return &out, persist(s.store)
}

// Review settles a pending submission identified by filename and task id.
// Terminal submissions never transition again, so a second review of the
// same record reports not-found. Approval credits the task's point value
// and marks the gamer as passed; rejection only stamps the record.
func (s *LedgerService) Review(filename string, taskID int, approve bool) (*model.Submission, error) {
	s.store.Lock()
	defer s.store.Unlock()

	var sub *model.Submission
	for _, subs := range s.store.Submissions {
		for _, candidate := range subs {
			if candidate.Filename == filename && candidate.TaskID == taskID &&
				candidate.Status == model.StatusPending {
				sub = candidate
				break
			}
		}
		if sub != nil {
			break
		}
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}

	if !approve {
		sub.Status = model.StatusRejected
		sub.ReviewedAt = stamp(s.clock)
		out := *sub
		return &out, persist(s.store)
	}

	ev, ok := s.store.Events[sub.EventCode]
	if !ok {
		return nil, ErrEventNotFound
	}
	t := ev.Task(sub.TaskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	// Another pending copy may have been approved first.
	if t.HasChecked(sub.GamerID) {
		return nil, ErrTaskCompleted
	}

	sub.Status = model.StatusApproved
	sub.ReviewedAt = stamp(s.clock)
	t.CheckedUsers = append(t.CheckedUsers, sub.GamerID)

	g := ensure(s.store, sub.GamerID)
	g.EventsPoints[sub.EventCode] += t.Points
	s.grant(g, model.EntryEvent, t.Points, sub.EventCode)

	out := *sub
	return &out, persist(s.store)
}

// Redeem marks a prize as redeemed for the gamer. The earned balance is not
// debited; redeemed prizes are tracked as a separate checklist, and
// redeeming the same prize twice is a silent no-op.
func (s *LedgerService) Redeem(gamerID int64, code string, prizeID int) error {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[gamerID]
	if !ok {
		return ErrGamerNotFound
	}
	ev, ok := s.store.Events[code]
	if !ok {
		return ErrEventNotFound
	}
	p := ev.Prize(prizeID)
	if p == nil {
		return ErrPrizeNotFound
	}
	if g.IsBlocked {
		return ErrGamerBlocked
	}
	if g.EventsPoints[code] < p.PointsRequired {
		return ErrInsufficientPoints
	}
	if g.HasRedeemed(code, prizeID) {
		return nil
	}

	if g.RedeemedPrizes == nil {
		g.RedeemedPrizes = map[string][]int{}
	}
	g.RedeemedPrizes[code] = append(g.RedeemedPrizes[code], prizeID)
	g.PointsHistory = append(g.PointsHistory, model.LedgerEntry{
		Kind:      model.EntryAdminRedeem,
		Points:    p.PointsRequired,
		EventCode: code,
		PrizeID:   prizeID,
		Time:      stamp(s.clock),
	})

	return persist(s.store)
}

// Submissions returns copies of the gamer's submissions in upload order.
func (s *LedgerService) Submissions(gamerID int64) []*model.Submission {
	s.store.Lock()
	defer s.store.Unlock()

	out := make([]*model.Submission, len(s.store.Submissions[gamerID]))
	for i, sub := range s.store.Submissions[gamerID] {
		cp := *sub
		out[i] = &cp
	}
	return out
}

// History merges ledger entries, event joins, and submission uploads into
// one chronological audit trail. Entries without a parseable timestamp are
// dropped; ties keep input order.
func (s *LedgerService) History(gamerID int64) ([]model.HistoryItem, error) {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[gamerID]
	if !ok {
		return nil, ErrGamerNotFound
	}

	type stamped struct {
		at   time.Time
		item model.HistoryItem
	}
	var items []stamped

	add := func(ts, detail string) {
		at, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return
		}
		items = append(items, stamped{at: at, item: model.HistoryItem{Time: ts, Detail: detail}})
	}

	for _, e := range g.PointsHistory {
		switch e.Kind {
		case model.EntryEvent:
			add(e.Time, fmt.Sprintf("%+d points in event %s", e.Points, e.EventCode))
		case model.EntryAdminRedeem:
			add(e.Time, fmt.Sprintf("redeemed prize %d in event %s (%d points)", e.PrizeID, e.EventCode, e.Points))
		case model.EntryAPI:
			add(e.Time, fmt.Sprintf("%+d points (api)", e.Points))
		default:
			add(e.Time, fmt.Sprintf("%+d points", e.Points))
		}
	}
	for _, code := range g.JoinedEvents {
		if ts, ok := g.JoinedAt[code]; ok {
			add(ts, fmt.Sprintf("joined event %s", code))
		}
	}
	for _, sub := range s.store.Submissions[gamerID] {
		add(sub.UploadedAt, fmt.Sprintf("uploaded %s for task %d of event %s", sub.Filename, sub.TaskID, sub.EventCode))
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].at.Before(items[j].at) })

	out := make([]model.HistoryItem, len(items))
	for i, s := range items {
		out[i] = s.item
	}
	return out, nil
}

// TotalPoints is the gamer's global balance: the sum of all grants.
func (s *LedgerService) TotalPoints(gamerID int64) (int, error) {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[gamerID]
	if !ok {
		return 0, ErrGamerNotFound
	}
	return g.TotalPoints(), nil
}
