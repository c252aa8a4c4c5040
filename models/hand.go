package models

type HandResult string

const (
	ResultNone      HandResult = ""
	ResultWin       HandResult = "win"
	ResultLose      HandResult = "lose"
	ResultPush      HandResult = "push"
	ResultBust      HandResult = "bust"
	ResultBlackjack HandResult = "blackjack"
)

// Hand is one playable hand of cards with its attached stake. A player owns
// more than one hand only through a blackjack split.
type Hand struct {
	Cards      []Card     `json:"cards"`
	Bet        int        `json:"bet"`
	IsFinished bool       `json:"isFinished"`
	HasDoubled bool       `json:"hasDoubled"`
	IsSplit    bool       `json:"isSplit"`
	Result     HandResult `json:"result,omitempty"`
}

func NewHand(bet int) *Hand {
	return &Hand{Cards: make([]Card, 0, 4), Bet: bet}
}

func (h *Hand) AddCard(c Card) {
	h.Cards = append(h.Cards, c)
}

// Value computes the blackjack value of the hand. Aces count as 11 unless
// that would bust, in which case they demote to 1 one at a time.
func (h *Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h.Cards {
		v := c.BlackjackValue()
		if c.Rank == Ace {
			aces++
		}
		total += v
	}
	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports a natural: exactly two cards totaling 21 on an unsplit,
// undoubled hand.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21 && !h.IsSplit && !h.HasDoubled
}

func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// IsPair reports whether the hand is two cards of equal rank, the split
// precondition.
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}
