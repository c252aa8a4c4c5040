package models

type EventType string

const (
	EventStateChanged   EventType = "stateChanged"
	EventNotification   EventType = "notification"
	EventTimeUpdate     EventType = "timeUpdate"
	EventBuyInRequired  EventType = "buyInRequired"
	EventBuyInConfirmed EventType = "buyInConfirmed"
	EventKicked         EventType = "kickedForInactivity"
	EventTableEnded     EventType = "tableEnded"
)

// Event is what the engine emits outward to the transport collaborator.
// Data never carries timer handles or other runtime internals.
type Event struct {
	Type    EventType   `json:"event"`
	TableID string      `json:"tableId"`
	Data    interface{} `json:"data,omitempty"`
}

type NotificationEvent struct {
	Text string `json:"text"`
}

type TimeUpdateEvent struct {
	Kind        string `json:"kind"`
	RemainingMs int64  `json:"remainingMs"`
	TotalMs     int64  `json:"totalMs"`
	ActorID     string `json:"actorId,omitempty"`
}

type BuyInRequiredEvent struct {
	PlayerID  string `json:"playerId"`
	MinBuyIn  int    `json:"minBuyIn"`
	TimeoutMs int64  `json:"timeoutMs"`
}

type BuyInConfirmedEvent struct {
	PlayerID   string `json:"playerId"`
	NewBalance int    `json:"newBalance"`
}

type KickedEvent struct {
	PlayerID string `json:"playerId"`
}

// RoundOutcome describes one hand's result at resolution, for notifications.
type RoundOutcome struct {
	PlayerID string     `json:"playerId"`
	Result   HandResult `json:"result"`
	Payout   int        `json:"payout"`
}
