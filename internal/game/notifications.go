package game

import "time"

// NotificationType names an outbound message kind.
type NotificationType string

const (
	NotifyIdentity  NotificationType = "identity"
	NotifyState     NotificationType = "state"
	NotifyHand      NotificationType = "hand"
	NotifyPlayHints NotificationType = "play_hints"
	NotifyRonOffer  NotificationType = "ron_offer"
	NotifyRoundOver NotificationType = "round_over"
	NotifyRejected  NotificationType = "rejected"
)

// Notification is one outbound message produced by a state transition. The
// engine only describes what to send; delivery belongs to the transport
// layer. Seat 0 targets every player in the room.
type Notification struct {
	Type    NotificationType
	Seat    int
	Payload any
}

// broadcast wraps a payload addressed to the whole room.
func broadcast(t NotificationType, payload any) Notification {
	return Notification{Type: t, Payload: payload}
}

// toSeat wraps a payload addressed to a single seat.
func toSeat(t NotificationType, seat int, payload any) Notification {
	return Notification{Type: t, Seat: seat, Payload: payload}
}

// IdentityAssigned tells a joining player their seat. ClientID is echoed so
// the client can present it again to reclaim the seat after a reconnect.
type IdentityAssigned struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	RoomID   string `json:"roomId"`
	ClientID string `json:"clientId"`
}

// PlayerSummary is the public view of one seat.
type PlayerSummary struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	HandCount int    `json:"handCount"`
	IsTurn    bool   `json:"isTurn"`
	Connected bool   `json:"connected"`
}

// VoteState is the public progress of a start or restart vote gate.
type VoteState struct {
	Awaiting bool  `json:"awaiting"`
	Votes    int   `json:"votes"`
	Total    int   `json:"total"`
	Voters   []int `json:"voters"`
}

// PublicState is the room summary broadcast after every state change.
type PublicState struct {
	RoomID             string          `json:"roomId"`
	Started            bool            `json:"started"`
	Finished           bool            `json:"finished"`
	DeckCount          int             `json:"deckCount"`
	DiscardTop         *Card           `json:"discardTop"`
	RequiredSuit       Suit            `json:"requiredSuit,omitempty"`
	PendingSuitChooser int             `json:"pendingSuitChooser,omitempty"`
	Attack             AttackState     `json:"attack"`
	CurrentTurnSeat    int             `json:"currentTurnSeat"`
	Players            []PlayerSummary `json:"players"`
	SessionScores      []int           `json:"sessionScores"`
	LastRoundScores    []int           `json:"lastRoundScores"`
	Start              VoteState       `json:"start"`
	Restart            VoteState       `json:"restart"`
}

// PrivateHand carries one player's full hand, sent only to that seat.
type PrivateHand struct {
	Hand []Card `json:"hand"`
}

// PlayHints tells a seat which of its actions are currently legal.
type PlayHints struct {
	PlayableIndices []int `json:"playableIndices"`
	CanDraw         bool  `json:"canDraw"`
	MustChooseSuit  bool  `json:"mustChooseSuit"`
}

// RonOffered invites a candidate seat to claim a reactive win.
type RonOffered struct {
	Card       Card      `json:"card"`
	SourceSeat int       `json:"sourceSeat"`
	YourSeat   int       `json:"yourSeat"`
	Deadline   time.Time `json:"deadline"`
}

// Transfer is one point payment between seats.
type Transfer struct {
	FromSeat int    `json:"fromSeat"`
	ToSeat   int    `json:"toSeat"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// RevealedHand exposes one seat's hand when a round ends.
type RevealedHand struct {
	Seat int    `json:"seat"`
	Role string `json:"role"`
	Hand []Card `json:"hand"`
}

// PointBreakdown explains how a ron payout was computed. Components are
// rounded up individually for display; Total is the authoritative amount.
type PointBreakdown struct {
	LoserHand  int `json:"loserHand"`
	PlayedCard int `json:"playedCard"`
	RonnerHand int `json:"ronnerHand"`
	Base       int `json:"base"`
	Multiplier int `json:"multiplier"`
	Total      int `json:"total"`
}

// Round outcome reasons.
const (
	OutcomeTsumo         = "tsumo"
	OutcomeRon           = "ron"
	OutcomeRonGaeshi     = "ron_gaeshi"
	OutcomeDeckExhausted = "deck_exhausted"
)

// RoundOver announces a finished round. WinnerSeat is 0 on deck exhaustion.
type RoundOver struct {
	Reason          string          `json:"reason"`
	WinnerSeat      int             `json:"winnerSeat,omitempty"`
	LoserSeat       int             `json:"loserSeat,omitempty"`
	PlayedCard      *Card           `json:"playedCard,omitempty"`
	Transfers       []Transfer      `json:"transfers"`
	Reveals         []RevealedHand  `json:"reveals"`
	SessionScores   []int           `json:"sessionScores"`
	LastRoundScores []int           `json:"lastRoundScores"`
	Breakdown       *PointBreakdown `json:"breakdown,omitempty"`
}

// ActionRejected reports why an action was refused. The room state is
// untouched when this is sent.
type ActionRejected struct {
	Reason string `json:"reason"`
}
