package engine

import "github.com/RebelsBlocks/wars-of-cards-backend/models"

// BlackjackRules plays the table against a virtual dealer. Each active
// player stakes the table minimum per round, plays 1..2 hands (two only
// after a split) and is paid against the dealer's scripted draw-to-17.
type BlackjackRules struct{}

func (BlackjackRules) Variant() models.GameVariant { return models.VariantBlackjack }

func (BlackjackRules) MinPlayers() int { return 1 }

func (BlackjackRules) MinStake(t *models.Table) int { return t.Config.MinBet }

func (BlackjackRules) BeginRound(t *models.Table) error {
	stake := t.Config.MinBet

	// Stakes first, then two dealing passes in seat order; the dealer's
	// second card is the hole card.
	for seat := 1; seat <= t.Config.MaxSeats; seat++ {
		p := t.PlayerBySeat(seat)
		if p == nil || !inRound(p) {
			continue
		}
		p.Balance -= stake
		p.Hands = append(p.Hands, models.NewHand(stake))
	}

	t.Dealer.Hands = append(t.Dealer.Hands, models.NewHand(0))
	for pass := 0; pass < 2; pass++ {
		for seat := 1; seat <= t.Config.MaxSeats; seat++ {
			p := t.PlayerBySeat(seat)
			if p == nil || !inRound(p) {
				continue
			}
			p.Hands[0].AddCard(t.Shoe.Draw())
		}
		card := t.Shoe.Draw()
		if pass == 1 {
			card.FaceUp = false
		}
		t.Dealer.Hands[0].AddCard(card)
	}

	for _, p := range t.Players {
		if inRound(p) && len(p.Hands) > 0 && p.Hands[0].IsBlackjack() {
			p.Hands[0].IsFinished = true
		}
	}
	return nil
}

func (r BlackjackRules) Apply(t *models.Table, p *models.Player, action models.Action, amount int) error {
	hand := p.ActiveHand()
	if hand == nil {
		return ErrHandAlreadyFinished
	}

	switch action {
	case models.ActionHit:
		hand.AddCard(t.Shoe.Draw())
		if hand.Value() >= 21 {
			hand.IsFinished = true
		}

	case models.ActionStand:
		hand.IsFinished = true

	case models.ActionDouble:
		if len(hand.Cards) != 2 || hand.HasDoubled {
			return ErrInvalidAction
		}
		if p.Balance < hand.Bet {
			return ErrInsufficientFunds
		}
		p.Balance -= hand.Bet
		hand.Bet *= 2
		hand.HasDoubled = true
		hand.AddCard(t.Shoe.Draw())
		hand.IsFinished = true

	case models.ActionSplit:
		if !hand.IsPair() {
			return ErrInvalidAction
		}
		if p.HasSplit {
			return ErrSplitAlreadyDone
		}
		if p.Balance < hand.Bet {
			return ErrInsufficientFunds
		}
		p.Balance -= hand.Bet
		second := models.NewHand(hand.Bet)
		second.AddCard(hand.Cards[1])
		hand.Cards = hand.Cards[:1]
		hand.IsSplit = true
		second.IsSplit = true
		hand.AddCard(t.Shoe.Draw())
		second.AddCard(t.Shoe.Draw())
		p.Hands = append(p.Hands, second)
		p.HasSplit = true
		for _, h := range p.Hands {
			if h.Value() == 21 {
				h.IsFinished = true
			}
		}

	default:
		return ErrInvalidAction
	}

	p.LastAction = action
	return nil
}

// Advance keeps the actor while they still own an unfinished hand, otherwise
// moves up the seats. Once every player hand is done the dealer plays out
// and the round resolves.
func (r BlackjackRules) Advance(t *models.Table) (int, bool) {
	hasTurn := func(p *models.Player) bool {
		return inRound(p) && p.ActiveHand() != nil
	}

	if actor := t.CurrentActor(); actor != nil {
		if hasTurn(actor) {
			return t.CurrentActorIndex, true
		}
		if idx, ok := seatIndexAbove(t, actor.SeatNumber, hasTurn); ok {
			return idx, true
		}
	} else if idx, ok := seatIndexAbove(t, 0, hasTurn); ok {
		return idx, true
	}

	r.playDealer(t)
	return -1, false
}

// playDealer reveals the hole card and draws to 17. The dealer does not draw
// when no live hand can still be beaten (all naturals or busts).
func (BlackjackRules) playDealer(t *models.Table) {
	hand := t.Dealer.Hands[0]
	for i := range hand.Cards {
		hand.Cards[i].FaceUp = true
	}

	mustDraw := false
	for _, p := range t.Players {
		if !inRound(p) {
			continue
		}
		for _, h := range p.Hands {
			if !h.IsBust() && !h.IsBlackjack() {
				mustDraw = true
			}
		}
	}

	if mustDraw {
		for hand.Value() < 17 {
			hand.AddCard(t.Shoe.Draw())
		}
	}
	hand.IsFinished = true
}

func (BlackjackRules) DefaultAction(t *models.Table, p *models.Player) (models.Action, int) {
	return models.ActionStand, 0
}

func (BlackjackRules) Resolve(t *models.Table) []models.RoundOutcome {
	dealer := t.Dealer.Hands[0]
	dealerValue := dealer.Value()
	dealerBust := dealer.IsBust()
	dealerNatural := dealer.IsBlackjack()

	outcomes := make([]models.RoundOutcome, 0, len(t.Players))
	for _, p := range t.Players {
		if !inRound(p) {
			continue
		}
		for _, h := range p.Hands {
			var payout int
			switch {
			case h.IsBust():
				h.Result = models.ResultBust
			case h.IsBlackjack() && dealerNatural:
				h.Result = models.ResultPush
				payout = h.Bet
			case h.IsBlackjack():
				h.Result = models.ResultBlackjack
				payout = h.Bet * 5 / 2
			case dealerNatural:
				h.Result = models.ResultLose
			case dealerBust || h.Value() > dealerValue:
				h.Result = models.ResultWin
				payout = h.Bet * 2
			case h.Value() == dealerValue:
				h.Result = models.ResultPush
				payout = h.Bet
			default:
				h.Result = models.ResultLose
			}
			p.Balance += payout
			outcomes = append(outcomes, models.RoundOutcome{
				PlayerID: p.ID,
				Result:   h.Result,
				Payout:   payout,
			})
		}
	}
	return outcomes
}
