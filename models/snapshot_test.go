package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHidesFaceDownCards(t *testing.T) {
	tbl := NewTable("t1", DefaultConfig(VariantBlackjack))
	p := NewPlayer("p1", "Alice", 1, 1000)
	tbl.Players = append(tbl.Players, p)
	tbl.OccupiedSeats[1] = true

	hole := card(Ace, Spades)
	hole.FaceUp = false
	p.Hands = append(p.Hands, handOf(card(Ten, Hearts), hole))

	tbl.Dealer.Hands = append(tbl.Dealer.Hands, handOf(card(Nine, Clubs), hole))

	snap := tbl.Snapshot()
	require.Len(t, snap.Players, 1)
	require.Len(t, snap.Players[0].Hands, 1)

	cards := snap.Players[0].Hands[0].Cards
	require.Len(t, cards, 2)
	assert.Equal(t, CardView{Rank: Ten, Suit: Hearts}, cards[0])
	assert.Equal(t, CardView{Hidden: true}, cards[1])

	require.NotNil(t, snap.Dealer)
	assert.Equal(t, CardView{Hidden: true}, snap.Dealer.Hands[0].Cards[1])
}

func TestSnapshotForRevealsOnlyOwnCards(t *testing.T) {
	tbl := NewTable("t1", DefaultConfig(VariantPoker))
	a := NewPlayer("p1", "Alice", 1, 500)
	b := NewPlayer("p2", "Bob", 2, 500)
	tbl.Players = append(tbl.Players, a, b)

	hole := card(Ace, Spades)
	hole.FaceUp = false
	a.Hands = append(a.Hands, handOf(hole, hole))
	b.Hands = append(b.Hands, handOf(hole, hole))

	// Public view hides everything face down.
	pub := tbl.Snapshot()
	for _, pv := range pub.Players {
		for _, cv := range pv.Hands[0].Cards {
			assert.True(t, cv.Hidden)
		}
	}

	// Alice's view shows her cards and still hides Bob's.
	own := tbl.SnapshotFor("p1")
	for _, pv := range own.Players {
		for _, cv := range pv.Hands[0].Cards {
			if pv.ID == "p1" {
				assert.Equal(t, CardView{Rank: Ace, Suit: Spades}, cv)
			} else {
				assert.True(t, cv.Hidden)
			}
		}
	}
}

func TestSnapshotForKeepsDealerHoleHidden(t *testing.T) {
	tbl := NewTable("t1", DefaultConfig(VariantBlackjack))
	p := NewPlayer("p1", "Alice", 1, 1000)
	tbl.Players = append(tbl.Players, p)

	hole := card(Ace, Spades)
	hole.FaceUp = false
	tbl.Dealer.Hands = append(tbl.Dealer.Hands, handOf(card(Nine, Clubs), hole))

	snap := tbl.SnapshotFor("p1")
	require.NotNil(t, snap.Dealer)
	assert.Equal(t, CardView{Hidden: true}, snap.Dealer.Hands[0].Cards[1])
}

func TestSnapshotCurrentActor(t *testing.T) {
	tbl := NewTable("t1", DefaultConfig(VariantPoker))
	assert.Nil(t, tbl.Dealer)

	a := NewPlayer("p1", "Alice", 1, 500)
	b := NewPlayer("p2", "Bob", 2, 500)
	tbl.Players = append(tbl.Players, a, b)

	assert.Empty(t, tbl.Snapshot().CurrentActorID)

	tbl.CurrentActorIndex = 1
	assert.Equal(t, "p2", tbl.Snapshot().CurrentActorID)
}
