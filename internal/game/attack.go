package game

// AttackPhase distinguishes the three shapes attack state can take.
type AttackPhase int

const (
	// AttackIdle means no chain is running.
	AttackIdle AttackPhase = iota
	// AttackActive means a chain is running and escalating.
	AttackActive
	// AttackEscaped means a wild neutralized the chain. The marker is
	// consumed by the suit declaration that follows, where it permits a
	// self-win on an emptied hand.
	AttackEscaped
)

func (p AttackPhase) String() string {
	switch p {
	case AttackIdle:
		return "IDLE"
	case AttackActive:
		return "ACTIVE"
	case AttackEscaped:
		return "ESCAPED"
	default:
		return "UNKNOWN"
	}
}

// AttackState tracks the escalating forced-draw chain. Kind and TotalDraw
// are meaningful only while Phase is AttackActive.
type AttackState struct {
	Phase     AttackPhase `json:"phase"`
	Kind      AttackKind  `json:"kind"`
	TotalDraw int         `json:"totalDraw"`
}

// Active reports whether a chain is currently running.
func (a AttackState) Active() bool {
	return a.Phase == AttackActive
}

// apply folds an attack-effect card into the state: it opens a new chain, or
// stacks the card's forced-draw amount onto the running one. Legality
// guarantees a running chain only ever sees cards of its own kind.
func (a AttackState) apply(eff CardEffect) AttackState {
	if a.Phase == AttackActive {
		a.TotalDraw += eff.Draw
		return a
	}
	return AttackState{Phase: AttackActive, Kind: eff.Attack, TotalDraw: eff.Draw}
}

// escape neutralizes a running chain into the escaped marker.
func (a AttackState) escape() AttackState {
	return AttackState{Phase: AttackEscaped}
}
