package game

import "time"

// RonOffer is an open reactive-win arbitration window. Offer IDs increase
// monotonically per room; every resolution path (accept, all-decline,
// deadline) checks the ID so that whichever arrives first is authoritative
// and the rest are discarded.
type RonOffer struct {
	ID         int
	Card       Card
	SourceSeat int
	Candidates []int
	Deadline   time.Time
	// ExtraTurn records that the triggering card was an extra-turn effect,
	// so closing with no winner must not advance the turn.
	ExtraTurn bool
}

// candidate reports whether seat may still decide on this offer.
func (o *RonOffer) candidate(seat int) bool {
	for _, s := range o.Candidates {
		if s == seat {
			return true
		}
	}
	return false
}

// withoutCandidate removes seat from the candidate set.
func (o *RonOffer) withoutCandidate(seat int) {
	kept := o.Candidates[:0]
	for _, s := range o.Candidates {
		if s != seat {
			kept = append(kept, s)
		}
	}
	o.Candidates = kept
}
