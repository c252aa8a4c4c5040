package models

import "time"

type GameVariant string
type TablePhase string
type BettingRound string

const (
	VariantBlackjack GameVariant = "blackjack"
	VariantPoker     GameVariant = "poker"
)

const (
	PhaseWaiting    TablePhase = "waiting"
	PhasePlaying    TablePhase = "playing"
	PhaseResolution TablePhase = "resolution"
)

const (
	RoundPreFlop BettingRound = "preflop"
	RoundFlop    BettingRound = "flop"
	RoundTurn    BettingRound = "turn"
	RoundRiver   BettingRound = "river"
)

const MaxSeats = 3

type TableConfig struct {
	Variant    GameVariant `json:"variant"`
	MaxSeats   int         `json:"maxSeats"`
	MinBet     int         `json:"minBet"`     // blackjack flat stake per round
	SmallBlind int         `json:"smallBlind"` // poker
	BigBlind   int         `json:"bigBlind"`   // poker
	MinBuyIn   int         `json:"minBuyIn"`

	StartDelay        time.Duration `json:"-"`
	ActionTimeout     time.Duration `json:"-"`
	BreakDelay        time.Duration `json:"-"`
	BuyInTimeout      time.Duration `json:"-"`
	InactivityTimeout time.Duration `json:"-"`
}

func DefaultConfig(variant GameVariant) TableConfig {
	return TableConfig{
		Variant:           variant,
		MaxSeats:          MaxSeats,
		MinBet:            100,
		SmallBlind:        5,
		BigBlind:          10,
		MinBuyIn:          100,
		StartDelay:        10 * time.Second,
		ActionTimeout:     30 * time.Second,
		BreakDelay:        5 * time.Second,
		BuyInTimeout:      30 * time.Second,
		InactivityTimeout: 3 * time.Minute,
	}
}

// Table is the aggregate root for one session. Every mutation goes through
// the engine's per-table lock; nothing here is safe for concurrent use on
// its own.
type Table struct {
	ID      string      `json:"id"`
	Variant GameVariant `json:"variant"`
	Phase   TablePhase  `json:"phase"`
	Config  TableConfig `json:"config"`

	Players       []*Player    `json:"players"` // join order, non-dealer
	Dealer        *Player      `json:"dealer,omitempty"`
	OccupiedSeats map[int]bool `json:"-"`

	// CurrentActorIndex indexes Players while an action phase is running,
	// -1 otherwise. TurnSeq increments on every actor change so a stale
	// timer can recognize a turn it no longer owns.
	CurrentActorIndex int    `json:"currentActorIndex"`
	TurnSeq           uint64 `json:"-"`

	Shoe *Shoe `json:"-"`

	TurnStartedAt time.Time `json:"turnStartedAt,omitempty"`
	LastActionAt  time.Time `json:"lastActionAt,omitempty"`

	// Poker round state.
	Pot              int          `json:"pot"`
	CurrentBet       int          `json:"currentBet"`
	BettingRound     BettingRound `json:"bettingRound,omitempty"`
	CommunityCards   []Card       `json:"communityCards"`
	DealerButtonSeat int          `json:"dealerButtonSeat"`
	SmallBlindSeat   int          `json:"smallBlindSeat"`
	BigBlindSeat     int          `json:"bigBlindSeat"`

	CreatedAt  time.Time `json:"createdAt"`
	EmptySince time.Time `json:"-"`
}

func NewTable(id string, config TableConfig) *Table {
	t := &Table{
		ID:                id,
		Variant:           config.Variant,
		Phase:             PhaseWaiting,
		Config:            config,
		Players:           make([]*Player, 0, config.MaxSeats),
		OccupiedSeats:     make(map[int]bool),
		CurrentActorIndex: -1,
		Shoe:              NewShoe(),
		CommunityCards:    make([]Card, 0, 5),
		DealerButtonSeat:  -1,
		CreatedAt:         time.Now(),
		EmptySince:        time.Now(),
	}
	if config.Variant == VariantBlackjack {
		t.Dealer = NewDealer()
	}
	return t
}

func (t *Table) PlayerByID(id string) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) PlayerBySeat(seat int) *Player {
	for _, p := range t.Players {
		if p.SeatNumber == seat {
			return p
		}
	}
	return nil
}

// CurrentActor returns the player whose turn it is, or nil outside an action
// phase.
func (t *Table) CurrentActor() *Player {
	if t.CurrentActorIndex < 0 || t.CurrentActorIndex >= len(t.Players) {
		return nil
	}
	return t.Players[t.CurrentActorIndex]
}

func (t *Table) SeatedCount() int {
	return len(t.Players)
}

// ActiveCount counts seated players who are dealt into the current or next
// round.
func (t *Table) ActiveCount() int {
	n := 0
	for _, p := range t.Players {
		if p.State == StateActive {
			n++
		}
	}
	return n
}

// ResetToWaiting returns an emptied or between-rounds table to its initial
// phase with a fresh shoe.
func (t *Table) ResetToWaiting() {
	t.Phase = PhaseWaiting
	t.CurrentActorIndex = -1
	fresh := NewShoe()
	fresh.onReshuffle = t.Shoe.onReshuffle
	t.Shoe = fresh
	t.Pot = 0
	t.CurrentBet = 0
	t.BettingRound = ""
	t.CommunityCards = t.CommunityCards[:0]
	for _, p := range t.Players {
		p.ResetForRound()
	}
	if t.Dealer != nil {
		t.Dealer.ResetForRound()
	}
	if len(t.Players) == 0 {
		t.EmptySince = time.Now()
	}
}
