package engine

import "github.com/RebelsBlocks/wars-of-cards-backend/models"

// PokerRules runs the four-street betting loop. Chips move into the pot the
// moment they are paid; per-player CurrentBet only tracks what has been
// matched this street. Showdown is deliberately naive: last player standing
// takes the pot, otherwise an even split — real hand ranking is pending
// product clarification.
type PokerRules struct{}

func (PokerRules) Variant() models.GameVariant { return models.VariantPoker }

func (PokerRules) MinPlayers() int { return 2 }

func (PokerRules) MinStake(t *models.Table) int { return 1 }

// payIntoPot moves chips from balance to pot, clamped to the balance. A
// player whose balance hits zero is all-in.
func payIntoPot(t *models.Table, p *models.Player, amount int) int {
	if amount > p.Balance {
		amount = p.Balance
	}
	if amount <= 0 {
		return 0
	}
	p.Balance -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	t.Pot += amount
	if p.Balance == 0 {
		p.IsAllIn = true
	}
	return amount
}

func (r PokerRules) BeginRound(t *models.Table) error {
	t.BettingRound = models.RoundPreFlop
	t.CommunityCards = t.CommunityCards[:0]
	t.Pot = 0

	r.rotateButton(t)
	r.postBlinds(t)
	t.CurrentBet = t.Config.BigBlind

	for seat := 1; seat <= t.Config.MaxSeats; seat++ {
		p := t.PlayerBySeat(seat)
		if p == nil || !inRound(p) {
			continue
		}
		hand := models.NewHand(0)
		for i := 0; i < 2; i++ {
			card := t.Shoe.Draw()
			card.FaceUp = false
			hand.AddCard(card)
		}
		p.Hands = append(p.Hands, hand)
	}
	return nil
}

// rotateButton moves the dealer button to the next occupied active seat.
func (PokerRules) rotateButton(t *models.Table) {
	from := t.DealerButtonSeat
	if from < 1 || from > t.Config.MaxSeats {
		from = t.Config.MaxSeats // wraps to the lowest active seat
	}
	if idx, ok := nextIndexBySeat(t, from, inRound); ok {
		t.DealerButtonSeat = t.Players[idx].SeatNumber
	}
}

// postBlinds charges the small and big blind. Heads-up the button posts the
// small blind.
func (PokerRules) postBlinds(t *models.Table) {
	buttonSeat := t.DealerButtonSeat
	if countWhere(t, inRound) == 2 {
		t.SmallBlindSeat = buttonSeat
	} else if idx, ok := nextIndexBySeat(t, buttonSeat, inRound); ok {
		t.SmallBlindSeat = t.Players[idx].SeatNumber
	}
	if idx, ok := nextIndexBySeat(t, t.SmallBlindSeat, inRound); ok {
		t.BigBlindSeat = t.Players[idx].SeatNumber
	}

	// Blinds count as having acted; the small blind still owes the
	// difference, which needsAction picks up from the short bet.
	if sb := t.PlayerBySeat(t.SmallBlindSeat); sb != nil {
		payIntoPot(t, sb, t.Config.SmallBlind)
		sb.HasActedThisRound = true
	}
	if bb := t.PlayerBySeat(t.BigBlindSeat); bb != nil {
		payIntoPot(t, bb, t.Config.BigBlind)
		bb.HasActedThisRound = true
	}
}

func (r PokerRules) Apply(t *models.Table, p *models.Player, action models.Action, amount int) error {
	if p.HasFolded || p.IsAllIn {
		return ErrHandAlreadyFinished
	}

	switch action {
	case models.ActionFold:
		p.HasFolded = true
		for _, h := range p.Hands {
			h.IsFinished = true
		}

	case models.ActionCheck:
		if p.CurrentBet != t.CurrentBet {
			return ErrInvalidAction
		}

	case models.ActionCall:
		payIntoPot(t, p, t.CurrentBet-p.CurrentBet)

	case models.ActionRaise:
		if amount <= 0 {
			return ErrInvalidAmount
		}
		target := t.CurrentBet + amount
		payIntoPot(t, p, target-p.CurrentBet)
		if p.CurrentBet > t.CurrentBet {
			t.CurrentBet = p.CurrentBet
			// A raise must be responded to: everyone else acts again.
			for _, other := range t.Players {
				if other != p && canActPoker(other) {
					other.HasActedThisRound = false
				}
			}
		}

	default:
		return ErrInvalidAction
	}

	p.HasActedThisRound = true
	p.LastAction = action
	return nil
}

// needsAction reports whether a player still owes a decision this street:
// they have not acted since the last raise, or their bet is short of the
// table bet.
func needsAction(t *models.Table) playerFilter {
	return func(p *models.Player) bool {
		return canActPoker(p) && (!p.HasActedThisRound || p.CurrentBet < t.CurrentBet)
	}
}

func (r PokerRules) Advance(t *models.Table) (int, bool) {
	if countWhere(t, inHandPoker) <= 1 {
		return -1, false
	}

	// Pre-flop action opens after the big blind; later streets after the
	// button. Mid-street we continue from the current actor's seat.
	fromSeat := t.DealerButtonSeat
	if actor := t.CurrentActor(); actor != nil {
		fromSeat = actor.SeatNumber
	} else if t.BettingRound == models.RoundPreFlop {
		fromSeat = t.BigBlindSeat
	}

	if idx, ok := nextIndexBySeat(t, fromSeat, needsAction(t)); ok {
		return idx, true
	}

	// Street complete: deal the next one, or run the board out when at most
	// one player can still bet.
	for {
		if t.BettingRound == models.RoundRiver {
			return -1, false
		}
		r.dealNextStreet(t)
		if countWhere(t, canActPoker) > 1 {
			if idx, ok := nextIndexBySeat(t, t.DealerButtonSeat, needsAction(t)); ok {
				return idx, true
			}
		}
	}
}

func (PokerRules) dealNextStreet(t *models.Table) {
	for _, p := range t.Players {
		p.CurrentBet = 0
		if canActPoker(p) {
			p.HasActedThisRound = false
		}
	}
	t.CurrentBet = 0

	switch t.BettingRound {
	case models.RoundPreFlop:
		t.CommunityCards = append(t.CommunityCards, t.Shoe.Draw(), t.Shoe.Draw(), t.Shoe.Draw())
		t.BettingRound = models.RoundFlop
	case models.RoundFlop:
		t.CommunityCards = append(t.CommunityCards, t.Shoe.Draw())
		t.BettingRound = models.RoundTurn
	case models.RoundTurn:
		t.CommunityCards = append(t.CommunityCards, t.Shoe.Draw())
		t.BettingRound = models.RoundRiver
	}
}

func (PokerRules) DefaultAction(t *models.Table, p *models.Player) (models.Action, int) {
	if p.CurrentBet == t.CurrentBet {
		return models.ActionCheck, 0
	}
	return models.ActionCall, 0
}

func (PokerRules) Resolve(t *models.Table) []models.RoundOutcome {
	remaining := make([]*models.Player, 0, len(t.Players))
	for seat := 1; seat <= t.Config.MaxSeats; seat++ {
		if p := t.PlayerBySeat(seat); p != nil && inHandPoker(p) {
			remaining = append(remaining, p)
		}
	}

	outcomes := make([]models.RoundOutcome, 0, len(t.Players))
	if len(remaining) > 0 {
		share := t.Pot / len(remaining)
		remainder := t.Pot - share*len(remaining)

		// Odd chip goes to the first remaining seat after the button.
		first := 0
		for i, p := range remaining {
			if p.SeatNumber > t.DealerButtonSeat {
				first = i
				break
			}
		}

		for i, p := range remaining {
			payout := share
			if i == first {
				payout += remainder
			}
			p.Balance += payout
			for _, h := range p.Hands {
				h.IsFinished = true
				h.Result = models.ResultWin
				for j := range h.Cards {
					h.Cards[j].FaceUp = true
				}
			}
			outcomes = append(outcomes, models.RoundOutcome{
				PlayerID: p.ID,
				Result:   models.ResultWin,
				Payout:   payout,
			})
		}
	}

	for _, p := range t.Players {
		if !inRound(p) || !p.HasFolded {
			continue
		}
		for _, h := range p.Hands {
			h.Result = models.ResultLose
		}
		outcomes = append(outcomes, models.RoundOutcome{PlayerID: p.ID, Result: models.ResultLose})
	}

	t.Pot = 0
	t.CurrentBet = 0
	return outcomes
}
