package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/store"
)

var cardCharset = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// ValidCardNumber reports whether the number is 8 alphanumerics containing
// at least one letter and one digit.
func ValidCardNumber(number string) bool {
	return cardCharset.MatchString(number) &&
		strings.ContainsAny(number, "0123456789") &&
		strings.IndexFunc(number, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		}) >= 0
}

// GamerService manages player records and card bindings.
type GamerService struct {
	store *store.Store
}

func NewGamerService(st *store.Store) *GamerService {
	return &GamerService{store: st}
}

// ensure returns the gamer record, creating a default one when absent. The
// caller must hold the store lock.
func ensure(st *store.Store, id int64) *model.Gamer {
	g, ok := st.Gamers[id]
	if !ok {
		g = model.NewGamer(id)
		st.Gamers[id] = g
	}
	return g
}

// Ensure creates a default record for the gamer if none exists.
func (s *GamerService) Ensure(id int64) (*model.Gamer, error) {
	s.store.Lock()
	defer s.store.Unlock()

	if g, ok := s.store.Gamers[id]; ok {
		return g.Clone(), nil
	}
	g := ensure(s.store, id)
	return g.Clone(), persist(s.store)
}

// BindCard sets the gamer's card number. Re-binding the gamer's own number
// is a no-op success; a number held by someone else is a conflict.
func (s *GamerService) BindCard(id int64, number string) error {
	if !ValidCardNumber(number) {
		return ErrInvalidCard
	}

	s.store.Lock()
	defer s.store.Unlock()

	if g, ok := s.store.Gamers[id]; ok && g.IsBlocked {
		return ErrGamerBlocked
	}
	for _, other := range s.store.Gamers {
		if other.ID != id && other.CardNumber != nil && *other.CardNumber == number {
			return ErrCardTaken
		}
	}

	g := ensure(s.store, id)
	g.CardNumber = &number
	return persist(s.store)
}

// SetCard is the administrator override of BindCard: same format and
// uniqueness rules, no blocked check.
func (s *GamerService) SetCard(id int64, number string) error {
	if !ValidCardNumber(number) {
		return ErrInvalidCard
	}

	s.store.Lock()
	defer s.store.Unlock()

	for _, other := range s.store.Gamers {
		if other.ID != id && other.CardNumber != nil && *other.CardNumber == number {
			return ErrCardTaken
		}
	}

	g := ensure(s.store, id)
	g.CardNumber = &number
	return persist(s.store)
}

// ClearCard removes the gamer's card binding.
func (s *GamerService) ClearCard(id int64) error {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[id]
	if !ok || g.CardNumber == nil {
		return ErrCardNotBound
	}
	g.CardNumber = nil
	return persist(s.store)
}

// QueryCard returns the gamer's bound card number.
func (s *GamerService) QueryCard(id int64) (string, error) {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[id]
	if !ok || g.CardNumber == nil {
		return "", ErrCardNotBound
	}
	return *g.CardNumber, nil
}

// SetBlocked toggles the gamer's block flag, creating the record if needed.
func (s *GamerService) SetBlocked(id int64, blocked bool) error {
	s.store.Lock()
	defer s.store.Unlock()

	g := ensure(s.store, id)
	g.IsBlocked = blocked
	return persist(s.store)
}

// Get returns a copy of the gamer record. Reads return copies so callers
// never alias store memory outside the lock.
func (s *GamerService) Get(id int64) (*model.Gamer, error) {
	s.store.Lock()
	defer s.store.Unlock()

	g, ok := s.store.Gamers[id]
	if !ok {
		return nil, ErrGamerNotFound
	}
	return g.Clone(), nil
}

// GetByCard returns a copy of the gamer whose card number matches exactly.
func (s *GamerService) GetByCard(number string) (*model.Gamer, error) {
	s.store.Lock()
	defer s.store.Unlock()

	for _, g := range s.store.Gamers {
		if g.CardNumber != nil && *g.CardNumber == number {
			return g.Clone(), nil
		}
	}
	return nil, ErrGamerNotFound
}

// List returns copies of gamers whose card number contains filter, ordered
// by id. An empty filter returns everyone.
func (s *GamerService) List(filter string) []*model.Gamer {
	s.store.Lock()
	defer s.store.Unlock()

	var out []*model.Gamer
	for _, g := range s.store.Gamers {
		if filter != "" {
			if g.CardNumber == nil || !strings.Contains(*g.CardNumber, filter) {
				continue
			}
		}
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
