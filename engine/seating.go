package engine

import "github.com/RebelsBlocks/wars-of-cards-backend/models"

type playerFilter func(*models.Player) bool

func inRound(p *models.Player) bool {
	return p.State == models.StateActive
}

func inHandPoker(p *models.Player) bool {
	return inRound(p) && !p.HasFolded && len(p.Hands) > 0
}

func canActPoker(p *models.Player) bool {
	return inHandPoker(p) && !p.IsAllIn
}

func countWhere(t *models.Table, filter playerFilter) int {
	n := 0
	for _, p := range t.Players {
		if filter(p) {
			n++
		}
	}
	return n
}

// nextIndexBySeat scans seats in ascending order starting just after
// afterSeat, wrapping around, and returns the index into t.Players of the
// first player matching filter. Turn order is always seat order, never join
// order.
func nextIndexBySeat(t *models.Table, afterSeat int, filter playerFilter) (int, bool) {
	max := t.Config.MaxSeats
	if max <= 0 {
		max = models.MaxSeats
	}
	for offset := 1; offset <= max; offset++ {
		seat := (afterSeat+offset-1)%max + 1
		p := t.PlayerBySeat(seat)
		if p == nil || !filter(p) {
			continue
		}
		for i, q := range t.Players {
			if q == p {
				return i, true
			}
		}
	}
	return -1, false
}

// seatIndexAbove is the non-wrapping variant: the first matching player at a
// seat strictly greater than afterSeat. Blackjack turns make a single
// ascending pass over the seats.
func seatIndexAbove(t *models.Table, afterSeat int, filter playerFilter) (int, bool) {
	max := t.Config.MaxSeats
	if max <= 0 {
		max = models.MaxSeats
	}
	for seat := afterSeat + 1; seat <= max; seat++ {
		p := t.PlayerBySeat(seat)
		if p == nil || !filter(p) {
			continue
		}
		for i, q := range t.Players {
			if q == p {
				return i, true
			}
		}
	}
	return -1, false
}
