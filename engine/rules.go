package engine

import "github.com/RebelsBlocks/wars-of-cards-backend/models"

// Rules is the variant-specific half of the engine: legal-move validation,
// turn order and payouts. The controller owns phases, timers and player
// lifecycle; the rules own everything that differs between blackjack and
// poker.
type Rules interface {
	Variant() models.GameVariant

	// MinPlayers is the number of active players a round needs to start.
	MinPlayers() int

	// MinStake is the balance a player must hold to be dealt in; anything
	// below routes the player into the buy-in flow at round start.
	MinStake(t *models.Table) int

	// BeginRound collects stakes or blinds and deals the initial cards to
	// every active player.
	BeginRound(t *models.Table) error

	// Apply validates and applies one action for the current actor. It
	// returns a sentinel error when the move is illegal; no action silently
	// no-ops.
	Apply(t *models.Table, p *models.Player, action models.Action, amount int) error

	// Advance re-derives the next eligible actor after an action, a timeout
	// or a departure, performing any scripted play (dealer draw, community
	// cards) along the way. ok false means no eligible actor remains and
	// the round must resolve.
	Advance(t *models.Table) (next int, ok bool)

	// DefaultAction is applied on behalf of an actor whose turn timer
	// expired.
	DefaultAction(t *models.Table, p *models.Player) (models.Action, int)

	// Resolve computes every hand's result exactly once, applies balance
	// changes and zeroes the pot.
	Resolve(t *models.Table) []models.RoundOutcome
}

// RulesFor returns the rules engine for a variant.
func RulesFor(variant models.GameVariant) Rules {
	if variant == models.VariantPoker {
		return PokerRules{}
	}
	return BlackjackRules{}
}
