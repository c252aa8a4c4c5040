package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

// Seat and player lifecycle for one table. Shares the Game lock with the
// turn controller so joins, departures and sweeps never interleave with
// actions or timer fires.

// Join seats a new player. The first seated player arms the game-start
// countdown; filling the last seat starts the round immediately. A player
// joining mid-round observes until the next deal.
func (g *Game) Join(name string, seat, buyIn int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.table
	if seat < 1 || seat > t.Config.MaxSeats {
		return "", ErrInvalidSeat
	}
	if t.OccupiedSeats[seat] {
		return "", ErrSeatOccupied
	}
	if t.SeatedCount() >= t.Config.MaxSeats {
		return "", ErrTableFull
	}
	if buyIn < t.Config.MinBuyIn {
		return "", ErrBuyInTooLow
	}

	p := models.NewPlayer(uuid.NewString(), name, seat, buyIn)
	if t.Phase == models.PhasePlaying {
		p.State = models.StateObserving
	}
	t.Players = append(t.Players, p)
	t.OccupiedSeats[seat] = true

	g.log.WithField("player", p.ID).WithField("seat", seat).Info("player joined")
	g.notifyLocked(name + " joined the table")

	if t.Phase == models.PhaseWaiting {
		if t.SeatedCount() == t.Config.MaxSeats {
			g.scheduler.Cancel(g.key(TimerGameStart, ""))
			g.startRoundLocked()
			return p.ID, nil
		}
		if t.SeatedCount() == 1 {
			g.armStartCountdownLocked()
		}
	}
	g.broadcastLocked()
	return p.ID, nil
}

// Leave removes a player from the table.
func (g *Game) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.table.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.leaveLocked(p, "left the table")
	return nil
}

// leaveLocked removes a player mid-anything. When the departing player is
// the current actor, the next actor is derived before the removal completes
// so CurrentActorIndex never dangles.
func (g *Game) leaveLocked(p *models.Player, reason string) {
	t := g.table
	wasActor := t.CurrentActor() == p

	if t.Phase == models.PhasePlaying && inRound(p) {
		p.HasFolded = true
		for _, h := range p.Hands {
			h.IsFinished = true
		}
	}

	var nextID, actorID string
	resolveNow := false
	if wasActor {
		if idx, ok := g.rules.Advance(t); ok {
			nextID = t.Players[idx].ID
		} else {
			resolveNow = true
		}
	} else if a := t.CurrentActor(); a != nil {
		actorID = a.ID
	}

	g.scheduler.CancelOwner(t.ID, p.ID)
	delete(t.OccupiedSeats, p.SeatNumber)
	for i, q := range t.Players {
		if q == p {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			break
		}
	}

	// Re-anchor the actor index: removal shifts the slice.
	t.CurrentActorIndex = -1
	if actorID != "" {
		for i, q := range t.Players {
			if q.ID == actorID {
				t.CurrentActorIndex = i
				break
			}
		}
	}

	g.log.WithField("player", p.ID).Info("player removed: " + reason)
	g.notifyLocked(p.Name + " " + reason)

	if t.SeatedCount() == 0 {
		g.scheduler.CancelTable(t.ID)
		t.ResetToWaiting()
		g.broadcastLocked()
		return
	}

	if t.Phase == models.PhasePlaying {
		if resolveNow {
			g.resolveLocked()
			return
		}
		if nextID != "" {
			for i, q := range t.Players {
				if q.ID == nextID {
					g.beginTurnLocked(i)
					return
				}
			}
		}
		// A non-actor departure can still leave the round decided.
		if t.Variant == models.VariantPoker && countWhere(t, inHandPoker) <= 1 {
			g.resolveLocked()
			return
		}
	}
	g.broadcastLocked()
}

// RequestBuyIn credits a broke player who topped up in time. Reactivation
// is immediate between rounds, deferred to the next deal otherwise.
func (g *Game) RequestBuyIn(playerID string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.table
	p := t.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.State != models.StateAwaitingBuyIn {
		return ErrPlayerNotActive
	}
	if amount < t.Config.MinBuyIn {
		return ErrBuyInTooLow
	}

	p.Balance += amount
	p.Touch()
	g.scheduler.Cancel(g.key(TimerBuyIn, p.ID))
	if t.Phase == models.PhasePlaying {
		p.State = models.StateObserving
	} else {
		p.State = models.StateActive
	}

	g.emitEvent(models.EventBuyInConfirmed, models.BuyInConfirmedEvent{
		PlayerID:   p.ID,
		NewBalance: p.Balance,
	})
	g.broadcastLocked()
	return nil
}

// DeclineBuyIn removes a broke player who chose not to top up.
func (g *Game) DeclineBuyIn(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.table.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.State != models.StateAwaitingBuyIn {
		return ErrPlayerNotActive
	}
	g.leaveLocked(p, "declined the buy-in and left")
	return nil
}

func (g *Game) handleBuyInTimeout(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.table.PlayerByID(playerID)
	if p == nil || p.State != models.StateAwaitingBuyIn {
		return
	}
	g.leaveLocked(p, "did not buy in and was removed")
}

// MarkActivity refreshes a player's inactivity clock.
func (g *Game) MarkActivity(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.table.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Touch()
	return nil
}

// SweepInactive removes every player idle beyond the table's inactivity
// timeout. Returns the number of players removed.
func (g *Game) SweepInactive(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	timeout := g.table.Config.InactivityTimeout
	if timeout <= 0 {
		return 0
	}

	var idle []*models.Player
	for _, p := range g.table.Players {
		if now.Sub(p.LastActivity) > timeout {
			idle = append(idle, p)
		}
	}
	for _, p := range idle {
		g.emitEvent(models.EventKicked, models.KickedEvent{PlayerID: p.ID})
		g.leaveLocked(p, "was removed for inactivity")
	}
	return len(idle)
}

// EmptyFor reports whether the table has been waiting with zero seated
// players for longer than grace.
func (g *Game) EmptyFor(grace time.Duration, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.table
	return t.Phase == models.PhaseWaiting && t.SeatedCount() == 0 && now.Sub(t.EmptySince) > grace
}
