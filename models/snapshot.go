package models

import "time"

// CardView hides the identity of face-down cards in outward snapshots.
type CardView struct {
	Rank   Rank `json:"rank,omitempty"`
	Suit   Suit `json:"suit,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
}

type HandView struct {
	Cards      []CardView `json:"cards"`
	Bet        int        `json:"bet"`
	IsFinished bool       `json:"isFinished"`
	Result     HandResult `json:"result,omitempty"`
}

type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	SeatNumber int         `json:"seatNumber"`
	Balance    int         `json:"balance"`
	State      PlayerState `json:"state"`
	IsDealer   bool        `json:"isDealer,omitempty"`
	CurrentBet int         `json:"currentBet"`
	TotalBet   int         `json:"totalBet"`
	HasFolded  bool        `json:"hasFolded"`
	IsAllIn    bool        `json:"isAllIn"`
	LastAction Action      `json:"lastAction,omitempty"`
	Hands      []HandView  `json:"hands"`
}

// TableSnapshot is the sanitized table state handed to the transport layer.
// It carries no shoe contents and no timer handles.
type TableSnapshot struct {
	ID               string       `json:"id"`
	Variant          GameVariant  `json:"variant"`
	Phase            TablePhase   `json:"phase"`
	Players          []PlayerView `json:"players"`
	Dealer           *PlayerView  `json:"dealer,omitempty"`
	CurrentActorID   string       `json:"currentActorId,omitempty"`
	Pot              int          `json:"pot"`
	CurrentBet       int          `json:"currentBet"`
	BettingRound     BettingRound `json:"bettingRound,omitempty"`
	CommunityCards   []CardView   `json:"communityCards"`
	DealerButtonSeat int          `json:"dealerButtonSeat"`
	SmallBlindSeat   int          `json:"smallBlindSeat"`
	BigBlindSeat     int          `json:"bigBlindSeat"`
	TurnStartedAt    time.Time    `json:"turnStartedAt,omitempty"`
}

func viewCard(c Card, reveal bool) CardView {
	if !c.FaceUp && !reveal {
		return CardView{Hidden: true}
	}
	return CardView{Rank: c.Rank, Suit: c.Suit}
}

func viewCards(cards []Card, reveal bool) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = viewCard(c, reveal)
	}
	return out
}

func viewPlayer(p *Player, revealHands bool) PlayerView {
	v := PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		SeatNumber: p.SeatNumber,
		Balance:    p.Balance,
		State:      p.State,
		IsDealer:   p.IsDealer,
		CurrentBet: p.CurrentBet,
		TotalBet:   p.TotalBet,
		HasFolded:  p.HasFolded,
		IsAllIn:    p.IsAllIn,
		LastAction: p.LastAction,
		Hands:      make([]HandView, 0, len(p.Hands)),
	}
	for _, h := range p.Hands {
		v.Hands = append(v.Hands, HandView{
			Cards:      viewCards(h.Cards, revealHands),
			Bet:        h.Bet,
			IsFinished: h.IsFinished,
			Result:     h.Result,
		})
	}
	return v
}

// Snapshot builds the public view of the table: every face-down card is
// masked. Safe to broadcast to anyone.
func (t *Table) Snapshot() TableSnapshot {
	return t.SnapshotFor("")
}

// SnapshotFor builds the view for one player: their own face-down cards are
// revealed, everyone else's stay hidden. The dealer's hole card is never
// revealed early.
func (t *Table) SnapshotFor(viewerID string) TableSnapshot {
	snap := TableSnapshot{
		ID:               t.ID,
		Variant:          t.Variant,
		Phase:            t.Phase,
		Players:          make([]PlayerView, 0, len(t.Players)),
		Pot:              t.Pot,
		CurrentBet:       t.CurrentBet,
		BettingRound:     t.BettingRound,
		CommunityCards:   viewCards(t.CommunityCards, false),
		DealerButtonSeat: t.DealerButtonSeat,
		SmallBlindSeat:   t.SmallBlindSeat,
		BigBlindSeat:     t.BigBlindSeat,
		TurnStartedAt:    t.TurnStartedAt,
	}
	for _, p := range t.Players {
		snap.Players = append(snap.Players, viewPlayer(p, viewerID != "" && p.ID == viewerID))
	}
	if t.Dealer != nil {
		dv := viewPlayer(t.Dealer, false)
		snap.Dealer = &dv
	}
	if actor := t.CurrentActor(); actor != nil {
		snap.CurrentActorID = actor.ID
	}
	return snap
}
