package model

// Gamer is one participant, keyed by their Discord user id. Records are
// created lazily on first interaction and never hard-deleted.
type Gamer struct {
	ID             int64             `json:"gamer_id"`
	CardNumber     *string           `json:"gamer_card_number"`
	IsBlocked      bool              `json:"gamer_is_blocked"`
	JoinedEvents   []string          `json:"joined_events"`
	JoinedAt       map[string]string `json:"joined_at,omitempty"`
	EventsPoints   map[string]int    `json:"events_points"`
	HistoryPts     []int             `json:"history_event_pts_list"`
	PointsHistory  []LedgerEntry     `json:"points_history"`
	RedeemedPrizes map[string][]int  `json:"redeemed_prizes"`
}

// Ledger entry kinds.
const (
	EntryGlobal      = "global"
	EntryEvent       = "event"
	EntryAPI         = "api"
	EntryAdminRedeem = "admin_redeem"
)

// LedgerEntry is one timestamped point grant or prize redemption.
type LedgerEntry struct {
	Kind      string `json:"kind"`
	Points    int    `json:"points"`
	EventCode string `json:"event_code,omitempty"`
	PrizeID   int    `json:"prize_id,omitempty"`
	Time      string `json:"time"`
}

// HistoryItem is one line of a gamer's merged audit history.
type HistoryItem struct {
	Time   string `json:"time"`
	Detail string `json:"detail"`
}

func NewGamer(id int64) *Gamer {
	return &Gamer{
		ID:             id,
		JoinedEvents:   []string{},
		JoinedAt:       map[string]string{},
		EventsPoints:   map[string]int{},
		HistoryPts:     []int{},
		PointsHistory:  []LedgerEntry{},
		RedeemedPrizes: map[string][]int{},
	}
}

// Clone returns a deep copy that is safe to read, marshal, or hand to a
// front end after the store lock is released.
func (g *Gamer) Clone() *Gamer {
	c := *g
	if g.CardNumber != nil {
		n := *g.CardNumber
		c.CardNumber = &n
	}
	c.JoinedEvents = append([]string{}, g.JoinedEvents...)
	c.JoinedAt = make(map[string]string, len(g.JoinedAt))
	for k, v := range g.JoinedAt {
		c.JoinedAt[k] = v
	}
	c.EventsPoints = make(map[string]int, len(g.EventsPoints))
	for k, v := range g.EventsPoints {
		c.EventsPoints[k] = v
	}
	c.HistoryPts = append([]int{}, g.HistoryPts...)
	c.PointsHistory = append([]LedgerEntry{}, g.PointsHistory...)
	c.RedeemedPrizes = make(map[string][]int, len(g.RedeemedPrizes))
	for k, v := range g.RedeemedPrizes {
		c.RedeemedPrizes[k] = append([]int{}, v...)
	}
	return &c
}

// HasJoined reports whether the gamer has joined the event.
func (g *Gamer) HasJoined(code string) bool {
	for _, c := range g.JoinedEvents {
		if c == code {
			return true
		}
	}
	return false
}

// TotalPoints is the sum of the flat grant history (global balance).
func (g *Gamer) TotalPoints() int {
	total := 0
	for _, p := range g.HistoryPts {
		total += p
	}
	return total
}

// HasRedeemed reports whether the prize was already redeemed for the event.
func (g *Gamer) HasRedeemed(code string, prizeID int) bool {
	for _, id := range g.RedeemedPrizes[code] {
		if id == prizeID {
			return true
		}
	}
	return false
}
