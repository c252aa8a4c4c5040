package models

import "time"

type PlayerState string

const (
	StateActive           PlayerState = "active"
	StateObserving        PlayerState = "observing"
	StateSittingOut       PlayerState = "sitting_out"
	StateWaitingNextRound PlayerState = "waiting_next_round"
	StateAwaitingBuyIn    PlayerState = "awaiting_buyin"
)

type Action string

const (
	// Blackjack moves.
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
	ActionSplit  Action = "split"
	// Poker moves.
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
)

// Player is a seated participant or, for blackjack, the virtual dealer
// (IsDealer true, no seat). Timer handles are never stored here; the
// scheduler owns them keyed by table, player and kind.
type Player struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	SeatNumber int         `json:"seatNumber"` // 1..MaxSeats, 0 for the dealer
	Balance    int         `json:"balance"`
	Hands      []*Hand     `json:"hands"`
	State      PlayerState `json:"state"`
	IsDealer   bool        `json:"isDealer"`

	// Round-scoped fields for the poker variant.
	CurrentBet        int    `json:"currentBet"`
	TotalBet          int    `json:"totalBet"`
	HasFolded         bool   `json:"hasFolded"`
	IsAllIn           bool   `json:"isAllIn"`
	LastAction        Action `json:"lastAction,omitempty"`
	HasActedThisRound bool   `json:"-"`
	HasSplit          bool   `json:"-"`

	LastActivity time.Time `json:"-"`
	JoinedAt     time.Time `json:"-"`
}

func NewPlayer(id, name string, seatNumber, balance int) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		SeatNumber:   seatNumber,
		Balance:      balance,
		Hands:        make([]*Hand, 0, 2),
		State:        StateActive,
		LastActivity: time.Now(),
		JoinedAt:     time.Now(),
	}
}

func NewDealer() *Player {
	p := NewPlayer("dealer", "Dealer", 0, 0)
	p.IsDealer = true
	return p
}

// ResetForRound clears all round-scoped state ahead of a new deal.
func (p *Player) ResetForRound() {
	p.Hands = p.Hands[:0]
	p.CurrentBet = 0
	p.TotalBet = 0
	p.HasFolded = false
	p.IsAllIn = false
	p.LastAction = ""
	p.HasActedThisRound = false
	p.HasSplit = false
}

func (p *Player) Touch() {
	p.LastActivity = time.Now()
}

// ActiveHand returns the leftmost unfinished hand, or nil when every hand is
// done. Split hands are played left to right.
func (p *Player) ActiveHand() *Hand {
	for _, h := range p.Hands {
		if !h.IsFinished {
			return h
		}
	}
	return nil
}
