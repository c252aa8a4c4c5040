package models

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// ShoeDecks is the number of 52-card decks a shoe is built from.
	ShoeDecks = 6
	// CutCardThreshold triggers a reshuffle once the remaining cards drop
	// below 25% of the shoe (78 of 312).
	CutCardThreshold = ShoeDecks * 52 / 4
)

// Shoe is the multi-deck stack of cards used for dealing. Once the cut card
// is reached the shoe is rebuilt and reshuffled before the next draw, so a
// round is never starved mid-deal.
type Shoe struct {
	cards             []Card
	dealtSinceShuffle int
	rng               *rand.Rand
	onReshuffle       func()
}

func NewShoe() *Shoe {
	s := &Shoe{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	s.rebuild()
	return s
}

// OnReshuffle registers a callback fired after a cut-card reshuffle.
func (s *Shoe) OnReshuffle(fn func()) {
	s.onReshuffle = fn
}

func (s *Shoe) rebuild() {
	s.cards = make([]Card, 0, ShoeDecks*52)
	for d := 0; d < ShoeDecks; d++ {
		for _, suit := range allSuits() {
			for _, rank := range allRanks() {
				s.cards = append(s.cards, Card{Rank: rank, Suit: suit, FaceUp: true})
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.dealtSinceShuffle = 0
}

// Draw pops the next card, reshuffling first if the cut card was reached.
// The returned card is face up; callers flip it for hidden cards. Drawing
// from an empty shoe after the reshuffle check cannot happen short of a
// programming error, hence the panic.
func (s *Shoe) Draw() Card {
	if len(s.cards) < CutCardThreshold {
		s.rebuild()
		if s.onReshuffle != nil {
			s.onReshuffle()
		}
	}
	if len(s.cards) == 0 {
		panic(fmt.Sprintf("shoe empty after reshuffle check (dealt %d)", s.dealtSinceShuffle))
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	s.dealtSinceShuffle++
	return card
}

func (s *Shoe) Remaining() int {
	return len(s.cards)
}

func (s *Shoe) DealtSinceShuffle() int {
	return s.dealtSinceShuffle
}
