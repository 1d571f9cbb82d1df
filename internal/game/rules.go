package game

// CanPlay decides whether card may legally be played onto top, given the
// required-suit override from a prior wild declaration and the attack state.
//
// During an active chain only a card of the same attack kind, or a wild, is
// legal; no other exception applies. A required suit admits suit matches
// only (a rank match is not enough in that state). Otherwise a card is legal
// if it is wild, or matches the top card by suit or rank.
func CanPlay(card, top Card, requiredSuit Suit, attack AttackState) bool {
	eff := EffectOf(card)
	if attack.Active() {
		if eff.Kind == EffectWild {
			return true
		}
		return eff.Kind == EffectAttack && eff.Attack == attack.Kind
	}
	if eff.Kind == EffectWild {
		return true
	}
	if requiredSuit != "" {
		return card.Suit == requiredSuit
	}
	return card.Suit == top.Suit || card.Rank == top.Rank
}

// PlayableIndices lists the hand positions CanPlay accepts.
func PlayableIndices(hand []Card, top Card, requiredSuit Suit, attack AttackState) []int {
	indices := make([]int, 0, len(hand))
	for i, c := range hand {
		if CanPlay(c, top, requiredSuit, attack) {
			indices = append(indices, i)
		}
	}
	return indices
}
