package server

// Inbound message types.
const (
	msgJoin           = "join"
	msgRequestStart   = "request_start"
	msgRequestRestart = "request_restart"
	msgMove           = "move"
	msgRonTimeout     = "ron_timeout"
)

// Move kinds carried inside a move message.
const (
	moveKindPlay       = "play"
	moveKindDraw       = "draw"
	moveKindChooseSuit = "choose_suit"
	moveKindAcceptRon  = "accept_ron"
	moveKindDeclineRon = "decline_ron"
)

// inboundMessage is the envelope for every client-to-server frame.
type inboundMessage struct {
	Type     string       `json:"type"`
	RoomID   string       `json:"roomId,omitempty"`
	Name     string       `json:"name,omitempty"`
	ClientID string       `json:"clientId,omitempty"`
	Move     *movePayload `json:"move,omitempty"`
}

// movePayload is one in-round action. Index addresses a hand position for
// play; Suit carries the declaration for choose_suit.
type movePayload struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Suit  string `json:"suit,omitempty"`
}

// outboundMessage is the envelope for every server-to-client frame. Type
// mirrors game.NotificationType.
type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
