package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

func bjCard(rank models.Rank) models.Card {
	return models.Card{Rank: rank, Suit: models.Hearts, FaceUp: true}
}

func bjHand(bet int, ranks ...models.Rank) *models.Hand {
	h := models.NewHand(bet)
	for _, r := range ranks {
		h.AddCard(bjCard(r))
	}
	return h
}

func bjTable(balances ...int) *models.Table {
	t := models.NewTable("t-bj", testConfig(models.VariantBlackjack))
	for i, balance := range balances {
		seatPlayer(t, string(rune('a'+i)), i+1, balance)
	}
	return t
}

func setDealerHand(t *models.Table, ranks ...models.Rank) {
	t.Dealer.Hands = append(t.Dealer.Hands[:0], bjHand(0, ranks...))
	t.Dealer.Hands[0].IsFinished = true
}

func TestBlackjackBeginRound(t *testing.T) {
	tbl := bjTable(1000, 1000)
	err := BlackjackRules{}.BeginRound(tbl)
	require.NoError(t, err)

	for _, p := range tbl.Players {
		require.Len(t, p.Hands, 1)
		assert.Len(t, p.Hands[0].Cards, 2)
		assert.Equal(t, 100, p.Hands[0].Bet)
		assert.Equal(t, 900, p.Balance)
	}

	dealer := tbl.Dealer.Hands[0]
	require.Len(t, dealer.Cards, 2)
	assert.True(t, dealer.Cards[0].FaceUp)
	assert.False(t, dealer.Cards[1].FaceUp, "hole card must be dealt face down")

	assert.Equal(t, 6, tbl.Shoe.DealtSinceShuffle())
}

func TestBlackjackResolve(t *testing.T) {
	tests := []struct {
		name       string
		player     *models.Hand
		dealer     []models.Rank
		wantResult models.HandResult
		wantPayout int
	}{
		{"win over dealer", bjHand(100, models.Ten, models.King), []models.Rank{models.Ten, models.Eight}, models.ResultWin, 200},
		{"natural pays 3:2", bjHand(100, models.Ace, models.King), []models.Rank{models.Ten, models.Ten}, models.ResultBlackjack, 250},
		{"natural vs natural pushes", bjHand(100, models.Ace, models.King), []models.Rank{models.Ace, models.Queen}, models.ResultPush, 100},
		{"push on equal value", bjHand(100, models.Ten, models.Eight), []models.Rank{models.Ten, models.Eight}, models.ResultPush, 100},
		{"lose to dealer", bjHand(100, models.Ten, models.Seven), []models.Rank{models.Ten, models.Eight}, models.ResultLose, 0},
		{"lose to dealer natural", bjHand(100, models.Ten, models.King), []models.Rank{models.Ace, models.King}, models.ResultLose, 0},
		{"dealer bust pays even", bjHand(100, models.Ten, models.Two), []models.Rank{models.Ten, models.Six, models.King}, models.ResultWin, 200},
		{"bust loses even to dealer bust", bjHand(100, models.Ten, models.Nine, models.Five), []models.Rank{models.Ten, models.Six, models.King}, models.ResultBust, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := bjTable(900)
			p := tbl.Players[0]
			tt.player.IsFinished = true
			p.Hands = append(p.Hands, tt.player)
			setDealerHand(tbl, tt.dealer...)

			outcomes := BlackjackRules{}.Resolve(tbl)
			require.Len(t, outcomes, 1)
			assert.Equal(t, tt.wantResult, outcomes[0].Result)
			assert.Equal(t, tt.wantPayout, outcomes[0].Payout)
			assert.Equal(t, 900+tt.wantPayout, p.Balance)
		})
	}
}

func TestBlackjackDouble(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900)
	p := tbl.Players[0]
	p.Hands = append(p.Hands, bjHand(100, models.Five, models.Six))

	require.NoError(t, r.Apply(tbl, p, models.ActionDouble, 0))
	h := p.Hands[0]
	assert.Equal(t, 200, h.Bet)
	assert.Equal(t, 800, p.Balance)
	assert.Len(t, h.Cards, 3)
	assert.True(t, h.IsFinished)

	// No second double, no action on a finished hand.
	assert.ErrorIs(t, r.Apply(tbl, p, models.ActionDouble, 0), ErrHandAlreadyFinished)
}

func TestBlackjackDoubleValidation(t *testing.T) {
	r := BlackjackRules{}

	tbl := bjTable(900)
	p := tbl.Players[0]
	p.Hands = append(p.Hands, bjHand(100, models.Two, models.Three, models.Four))
	assert.ErrorIs(t, r.Apply(tbl, p, models.ActionDouble, 0), ErrInvalidAction)

	broke := bjTable(50)
	q := broke.Players[0]
	q.Hands = append(q.Hands, bjHand(100, models.Five, models.Six))
	assert.ErrorIs(t, r.Apply(broke, q, models.ActionDouble, 0), ErrInsufficientFunds)
}

func TestBlackjackSplit(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900)
	p := tbl.Players[0]
	p.Hands = append(p.Hands, bjHand(100, models.Eight, models.Eight))

	require.NoError(t, r.Apply(tbl, p, models.ActionSplit, 0))
	require.Len(t, p.Hands, 2)
	assert.Equal(t, 800, p.Balance)
	for _, h := range p.Hands {
		assert.Equal(t, 100, h.Bet)
		assert.Len(t, h.Cards, 2)
		assert.True(t, h.IsSplit)
	}
	assert.True(t, p.HasSplit)

	// One split per round, even on a fresh pair.
	p.Hands[0].Cards = []models.Card{bjCard(models.Nine), bjCard(models.Nine)}
	assert.ErrorIs(t, r.Apply(tbl, p, models.ActionSplit, 0), ErrSplitAlreadyDone)
}

func TestBlackjackSplitValidation(t *testing.T) {
	r := BlackjackRules{}

	tbl := bjTable(900)
	p := tbl.Players[0]
	p.Hands = append(p.Hands, bjHand(100, models.Eight, models.Nine))
	assert.ErrorIs(t, r.Apply(tbl, p, models.ActionSplit, 0), ErrInvalidAction)

	broke := bjTable(50)
	q := broke.Players[0]
	q.Hands = append(q.Hands, bjHand(100, models.Eight, models.Eight))
	assert.ErrorIs(t, r.Apply(broke, q, models.ActionSplit, 0), ErrInsufficientFunds)
}

// A hit closes the hand at 21 or above: busts by rule, exact 21 by house
// convention (no legal reason to hit it).
func TestBlackjackHitClosesHandAtTwentyOne(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900)
	p := tbl.Players[0]
	p.Hands = append(p.Hands, bjHand(100, models.Ten, models.Nine))

	for !p.Hands[0].IsFinished {
		require.NoError(t, r.Apply(tbl, p, models.ActionHit, 0))
	}
	assert.GreaterOrEqual(t, p.Hands[0].Value(), 21)
	assert.ErrorIs(t, r.Apply(tbl, p, models.ActionHit, 0), ErrHandAlreadyFinished)
}

func TestBlackjackTurnOrderBySeat(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900, 900, 900)
	for _, p := range tbl.Players {
		p.Hands = append(p.Hands, bjHand(100, models.Ten, models.Seven))
	}
	setDealerHand(tbl, models.Ten, models.Eight)
	tbl.Dealer.Hands[0].IsFinished = false

	idx, ok := r.Advance(tbl)
	require.True(t, ok)
	assert.Equal(t, 1, tbl.Players[idx].SeatNumber)
	tbl.CurrentActorIndex = idx

	// Same actor keeps the turn while their hand is open.
	again, ok := r.Advance(tbl)
	require.True(t, ok)
	assert.Equal(t, idx, again)

	tbl.Players[idx].Hands[0].IsFinished = true
	idx, ok = r.Advance(tbl)
	require.True(t, ok)
	assert.Equal(t, 2, tbl.Players[idx].SeatNumber)
	tbl.CurrentActorIndex = idx

	tbl.Players[idx].Hands[0].IsFinished = true
	idx, ok = r.Advance(tbl)
	require.True(t, ok)
	assert.Equal(t, 3, tbl.Players[idx].SeatNumber)
	tbl.CurrentActorIndex = idx

	tbl.Players[idx].Hands[0].IsFinished = true
	_, ok = r.Advance(tbl)
	assert.False(t, ok, "all hands done, dealer plays and round resolves")
	assert.True(t, tbl.Dealer.Hands[0].IsFinished)
	assert.GreaterOrEqual(t, tbl.Dealer.Hands[0].Value(), 17)
}

func TestDealerStandsOnSoft17(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900)
	p := tbl.Players[0]
	h := bjHand(100, models.Ten, models.Eight)
	h.IsFinished = true
	p.Hands = append(p.Hands, h)

	hole := bjCard(models.Six)
	hole.FaceUp = false
	tbl.Dealer.Hands = append(tbl.Dealer.Hands, bjHand(0, models.Ace))
	tbl.Dealer.Hands[0].AddCard(hole)

	_, ok := r.Advance(tbl)
	require.False(t, ok)

	dealer := tbl.Dealer.Hands[0]
	assert.Len(t, dealer.Cards, 2, "dealer stands on soft 17")
	assert.Equal(t, 17, dealer.Value())
	assert.True(t, dealer.Cards[1].FaceUp, "hole card revealed")
}

func TestDealerDoesNotDrawWhenAllBust(t *testing.T) {
	r := BlackjackRules{}
	tbl := bjTable(900)
	p := tbl.Players[0]
	h := bjHand(100, models.Ten, models.Nine, models.Five)
	h.IsFinished = true
	p.Hands = append(p.Hands, h)
	tbl.Dealer.Hands = append(tbl.Dealer.Hands, bjHand(0, models.Ten, models.Two))

	_, ok := r.Advance(tbl)
	require.False(t, ok)
	assert.Len(t, tbl.Dealer.Hands[0].Cards, 2, "no draw against a dead table")
}

func TestBlackjackDefaultActionIsStand(t *testing.T) {
	tbl := bjTable(900)
	action, amount := BlackjackRules{}.DefaultAction(tbl, tbl.Players[0])
	assert.Equal(t, models.ActionStand, action)
	assert.Zero(t, amount)
}
