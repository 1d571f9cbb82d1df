package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRoom(t *testing.T, names ...string) *Room {
	t.Helper()
	r := NewRoom("room123456", 0, zaptest.NewLogger(t))
	for i, name := range names {
		seat, _, err := r.Join(fmt.Sprintf("client-%d", i+1), name)
		require.NoError(t, err)
		require.Equal(t, i+1, seat)
	}
	return r
}

// rig places a room mid-round with fully specified hands, discard top, deck
// and seat on turn, bypassing the shuffled deal for deterministic scenarios.
func rig(r *Room, hands map[int][]Card, top Card, deck []Card, turnSeat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.finished = false
	r.deck = &Deck{cards: cloneHand(deck)}
	r.discardPile = []Card{top}
	r.requiredSuit = ""
	r.pendingSuitChooser = 0
	r.attack = AttackState{}
	r.lastRoundScores = make([]int, len(r.players))
	for _, p := range r.players {
		p.Hand = cloneHand(hands[p.Seat])
	}
	r.currentTurn = r.indexOfSeat(turnSeat)
}

func turnSeat(r *Room) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[r.currentTurn].Seat
}

func handOf(r *Room, seat int) []Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneHand(r.bySeat(seat).Hand)
}

func findRoundOver(t *testing.T, notes []Notification) RoundOver {
	t.Helper()
	for _, n := range notes {
		if n.Type == NotifyRoundOver {
			over, ok := n.Payload.(RoundOver)
			require.True(t, ok)
			return over
		}
	}
	t.Fatal("no round_over notification")
	return RoundOver{}
}

func ronOfferSeats(notes []Notification) []int {
	var seats []int
	for _, n := range notes {
		if n.Type == NotifyRonOffer {
			seats = append(seats, n.Seat)
		}
	}
	return seats
}

// spare is filler deck content whose values avoid accidental win matches.
func spare(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{Rank: "K", Suit: SuitClubs}
	}
	return cards
}

func TestDealInvariant(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	for seat := 1; seat <= 3; seat++ {
		_, err := r.VoteStart(seat)
		require.NoError(t, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	require.True(t, r.started)

	total := r.deck.Remaining() + len(r.discardPile)
	for _, p := range r.players {
		assert.Len(t, p.Hand, startingHandSize)
		total += len(p.Hand)
	}
	assert.Equal(t, deckSetCount*52, total)
	assert.Len(t, r.discardPile, 1)
}

func TestVoteStartNeedsEverySeat(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")

	_, err := r.VoteStart(1)
	require.NoError(t, err)
	assert.Equal(t, 1, len(r.startVote.voters))
	assert.False(t, r.started)

	// Voting is idempotent per seat.
	_, err = r.VoteStart(1)
	require.NoError(t, err)
	assert.False(t, r.started)

	_, err = r.VoteStart(2)
	require.NoError(t, err)
	assert.True(t, r.started)

	_, err = r.VoteStart(1)
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestJoinAfterStartRejected(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "3", Suit: SuitHearts}},
		2: {{Rank: "K", Suit: SuitSpades}},
	}, Card{Rank: "3", Suit: SuitSpades}, spare(10), 1)

	_, _, err := r.Join("client-99", "eve")
	assert.ErrorIs(t, err, ErrGameInProgress)

	// The seated identity reclaims its seat.
	seat, notes, err := r.Join("client-2", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, seat)
	require.NotEmpty(t, notes)
	assert.Equal(t, NotifyIdentity, notes[0].Type)
	assert.Equal(t, 2, notes[0].Seat)
}

func TestOrdinaryPlayAdvancesTurn(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "3", Suit: SuitHearts}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitSpades}},
		3: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	notes, err := r.Play(1, 0) // 3♥ onto 9♥, suit match
	require.NoError(t, err)
	assert.Empty(t, ronOfferSeats(notes))
	assert.Equal(t, 2, turnSeat(r))
	assert.Len(t, handOf(r, 1), 1)
}

func TestPlayRejectsIllegalCard(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "3", Suit: SuitClubs}},
		2: {{Rank: "K", Suit: SuitSpades}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	assert.ErrorIs(t, err, ErrIllegalCard)
	_, err = r.Play(1, 5)
	assert.ErrorIs(t, err, ErrNoSuchCard)
	_, err = r.Play(2, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	assert.Len(t, handOf(r, 1), 1)
	assert.Equal(t, 1, turnSeat(r))
}

func TestExtraTurnKeepsSeat(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "5", Suit: SuitHearts}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitSpades}},
	}, Card{Rank: "5", Suit: SuitSpades}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, turnSeat(r))
	assert.False(t, r.finished)
}

func TestExtraTurnEmptyHandRefills(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "5", Suit: SuitHearts}},
		2: {{Rank: "K", Suit: SuitSpades}},
	}, Card{Rank: "5", Suit: SuitSpades}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Len(t, handOf(r, 1), 1)
	assert.Equal(t, 1, turnSeat(r))
	assert.False(t, r.finished)
}

func TestAttackChainAndForcedDraw(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "2", Suit: SuitHearts}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "2", Suit: SuitClubs}, {Rank: "K", Suit: SuitHearts}},
		3: {{Rank: "K", Suit: SuitDiamonds}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, r.attack.TotalDraw)
	assert.Equal(t, 2, turnSeat(r))

	// Only another two or a wild answers the chain.
	_, err = r.Play(2, 1)
	assert.ErrorIs(t, err, ErrIllegalCard)

	_, err = r.Play(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, r.attack.TotalDraw)
	assert.Equal(t, 3, turnSeat(r))

	_, err = r.Draw(3)
	require.NoError(t, err)
	assert.Len(t, handOf(r, 3), 5)
	assert.False(t, r.attack.Active())
	assert.Equal(t, 1, turnSeat(r))
}

func TestForcedDrawExhaustsDeck(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "2", Suit: SuitHearts}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "2", Suit: SuitSpades}, spare(1), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)

	notes, err := r.Draw(2)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeDeckExhausted, over.Reason)
	assert.Zero(t, over.WinnerSeat)
	assert.Equal(t, []int{0, 0}, over.LastRoundScores)
	assert.True(t, r.finished)
}

func TestDrawFromExhaustedDeckEndsRound(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "9", Suit: SuitHearts}, nil, 1)

	notes, err := r.Draw(1)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeDeckExhausted, over.Reason)
	assert.True(t, r.finished)
}

func TestWildSuitChoiceFlow(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "8", Suit: SuitSpades}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "3", Suit: SuitHearts}, {Rank: "4", Suit: SuitDiamonds}},
	}, Card{Rank: "3", Suit: SuitSpades}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)

	// Everything else waits on the declaration.
	_, err = r.Play(1, 0)
	assert.ErrorIs(t, err, ErrAwaitingSuitChoice)
	_, err = r.Draw(2)
	assert.ErrorIs(t, err, ErrAwaitingSuitChoice)
	_, err = r.ChooseSuit(2, SuitDiamonds)
	assert.ErrorIs(t, err, ErrNotSuitChooser)
	_, err = r.ChooseSuit(1, "x")
	assert.ErrorIs(t, err, ErrInvalidSuit)

	_, err = r.ChooseSuit(1, SuitDiamonds)
	require.NoError(t, err)
	assert.Equal(t, SuitDiamonds, r.requiredSuit)
	assert.Equal(t, 2, turnSeat(r))

	// A rank match does not satisfy a declared suit.
	_, err = r.Play(2, 0)
	assert.ErrorIs(t, err, ErrIllegalCard)
	_, err = r.Play(2, 1)
	require.NoError(t, err)
	assert.Equal(t, Suit(""), r.requiredSuit)
}

func TestEscapeWildThenEmptyHandWins(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "8", Suit: SuitSpades}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
	}, Card{Rank: "2", Suit: SuitSpades}, spare(10), 1)
	r.mu.Lock()
	r.attack = AttackState{Phase: AttackActive, Kind: AttackTwoRank, TotalDraw: 2}
	r.mu.Unlock()

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Equal(t, AttackEscaped, r.attack.Phase)

	notes, err := r.ChooseSuit(1, SuitHearts)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeTsumo, over.Reason)
	assert.Equal(t, 1, over.WinnerSeat)
	// 4♥ + 5♦ is 2.4 points, rounded up.
	assert.Equal(t, []int{3, -3}, over.SessionScores)
}

func TestOrdinaryWildEmptyHandRefills(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "8", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "3", Suit: SuitSpades}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	_, err = r.ChooseSuit(1, SuitHearts)
	require.NoError(t, err)

	assert.False(t, r.finished)
	assert.Len(t, handOf(r, 1), 1)
	assert.Equal(t, 2, turnSeat(r))
}

func TestTsumoOnLastCard(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "3", Suit: SuitHearts}},
		2: {{Rank: "K", Suit: SuitSpades}, {Rank: "K", Suit: SuitHearts}},
		3: {{Rank: "2", Suit: SuitClubs}},
	}, Card{Rank: "3", Suit: SuitSpades}, spare(10), 1)

	notes, err := r.Play(1, 0)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeTsumo, over.Reason)
	assert.Equal(t, 1, over.WinnerSeat)
	// Seat 2 owes ceil(2.0), seat 3 owes ceil(4.0).
	assert.Equal(t, []int{6, -2, -4}, over.SessionScores)
	assert.Equal(t, []int{6, -2, -4}, over.LastRoundScores)

	sum := 0
	for _, tr := range over.Transfers {
		assert.Equal(t, 1, tr.ToSeat)
		sum += tr.Amount
	}
	assert.Equal(t, 6, sum)
	assert.Len(t, over.Reveals, 3)
	assert.True(t, r.restartVote.awaiting)
}

func TestRonAcceptPaysOut(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "A", Suit: SuitClubs}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
		3: {{Rank: "K", Suit: SuitSpades}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	notes, err := r.Play(1, 0)
	require.NoError(t, err)
	// Only seat 2's hand totals nine; the offer goes to it alone.
	assert.Equal(t, []int{2}, ronOfferSeats(notes))

	// Play and draw are frozen while the window is open.
	_, err = r.Play(2, 0)
	assert.ErrorIs(t, err, ErrRonDecisionPending)
	_, err = r.Draw(1)
	assert.ErrorIs(t, err, ErrRonDecisionPending)
	_, err = r.AcceptRon(3)
	assert.ErrorIs(t, err, ErrNotRonCandidate)

	notes, err = r.AcceptRon(2)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeRon, over.Reason)
	assert.Equal(t, 2, over.WinnerSeat)
	assert.Equal(t, 1, over.LoserSeat)
	// A♣ 0.1 + 9♠ 0.9 + (4♥ 0.4 + 5♦ 2.0), doubled, rounded up.
	require.NotNil(t, over.Breakdown)
	assert.Equal(t, 2, over.Breakdown.Multiplier)
	assert.Equal(t, 7, over.Breakdown.Total)
	assert.Equal(t, []int{-7, 7, 0}, over.SessionScores)
}

func TestReflectedRonInvertsRoles(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "4", Suit: SuitDiamonds}, {Rank: "5", Suit: SuitDiamonds}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitHearts}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)

	notes, err := r.AcceptRon(2)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeRonGaeshi, over.Reason)
	assert.Equal(t, 1, over.WinnerSeat)
	assert.Equal(t, 2, over.LoserSeat)
	// Both remaining hands total nine, so the claim reflects at four times:
	// (2.4 + 0.9 + 2.4) * 4 rounded up.
	require.NotNil(t, over.Breakdown)
	assert.Equal(t, 4, over.Breakdown.Multiplier)
	assert.Equal(t, 23, over.Breakdown.Total)
	assert.Equal(t, []int{23, -23}, over.SessionScores)
}

func TestRonDeclineAllResumesPlay(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
		3: {{Rank: "9", Suit: SuitClubs}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	notes, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, ronOfferSeats(notes))

	notes, err = r.DeclineRon(2)
	require.NoError(t, err)
	assert.Empty(t, notes)
	require.NotNil(t, r.ron)

	_, err = r.AcceptRon(2)
	assert.ErrorIs(t, err, ErrNotRonCandidate)

	notes, err = r.DeclineRon(3)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Nil(t, r.ron)
	assert.False(t, r.finished)
	assert.Equal(t, 2, turnSeat(r))
}

func TestRonWindowCloseSelfWin(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)

	notes, err := r.DeclineRon(2)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, OutcomeTsumo, over.Reason)
	assert.Equal(t, 1, over.WinnerSeat)
	assert.Equal(t, []int{3, -3}, over.SessionScores)
}

func TestRonTimeoutIdempotence(t *testing.T) {
	r := newTestRoom(t, "alice", "bob", "carol")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
		3: {{Rank: "9", Suit: SuitClubs}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	offerID := r.ron.ID

	_, err = r.DeclineRon(3)
	require.NoError(t, err)

	notes := r.ExpireRon(offerID)
	require.NotEmpty(t, notes)
	assert.Nil(t, r.ron)
	assert.False(t, r.finished)
	assert.Equal(t, 2, turnSeat(r))

	// Late decisions against the retired offer change nothing.
	assert.Empty(t, r.ExpireRon(offerID))
	notes, err = r.AcceptRon(2)
	require.NoError(t, err)
	assert.Empty(t, notes)
	notes, err = r.DeclineRon(2)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.False(t, r.finished)
}

func TestStaleExpireAfterAccept(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "A", Suit: SuitClubs}},
		2: {{Rank: "4", Suit: SuitHearts}, {Rank: "5", Suit: SuitDiamonds}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	_, err := r.Play(1, 0)
	require.NoError(t, err)
	offerID := r.ron.ID

	notes, err := r.AcceptRon(2)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	scores := over.SessionScores

	assert.Empty(t, r.ExpireRon(offerID))
	assert.Empty(t, r.ExpireCurrentRon())
	assert.Equal(t, scores, cloneInts(r.sessionScores))
}

func TestNoOfferWhenNoHandMatches(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "9", Suit: SuitSpades}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	notes, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Empty(t, ronOfferSeats(notes))
	assert.Nil(t, r.ron)
	assert.Equal(t, 2, turnSeat(r))
}

func TestRestartDealsNewRoundWinnerOpens(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "3", Suit: SuitHearts}},
	}, Card{Rank: "3", Suit: SuitSpades}, spare(10), 2)

	notes, err := r.Play(2, 0)
	require.NoError(t, err)
	over := findRoundOver(t, notes)
	assert.Equal(t, 2, over.WinnerSeat)

	_, err = r.Play(1, 0)
	assert.ErrorIs(t, err, ErrRoundFinished)
	_, err = r.VoteRestart(1)
	require.NoError(t, err)
	assert.True(t, r.finished)

	_, err = r.VoteRestart(2)
	require.NoError(t, err)
	assert.True(t, r.started)
	assert.False(t, r.finished)
	assert.Equal(t, 2, turnSeat(r))
	assert.Len(t, handOf(r, 1), startingHandSize)
	assert.Len(t, handOf(r, 2), startingHandSize)
	// Session totals carry across rounds.
	assert.Equal(t, []int{-1, 1}, cloneInts(r.sessionScores))
}

func TestVoteRestartBeforeFinishRejected(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	_, err := r.VoteRestart(1)
	assert.ErrorIs(t, err, ErrRoundNotFinished)
}

func TestDisconnectKeepsSeat(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	notes := r.Disconnect("client-1")
	require.NotEmpty(t, notes)

	r.mu.Lock()
	assert.False(t, r.players[0].Connected)
	assert.Len(t, r.players, 2)
	r.mu.Unlock()

	seat, _, err := r.Join("client-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, seat)
}

func TestPrivateHandsTargetOwnSeat(t *testing.T) {
	r := newTestRoom(t, "alice", "bob")
	rig(r, map[int][]Card{
		1: {{Rank: "3", Suit: SuitHearts}, {Rank: "K", Suit: SuitSpades}},
		2: {{Rank: "K", Suit: SuitHearts}},
	}, Card{Rank: "9", Suit: SuitHearts}, spare(10), 1)

	notes, err := r.Play(1, 0)
	require.NoError(t, err)
	for _, n := range notes {
		switch n.Type {
		case NotifyHand, NotifyPlayHints:
			assert.NotZero(t, n.Seat)
		case NotifyState:
			assert.Zero(t, n.Seat)
			state, ok := n.Payload.(PublicState)
			require.True(t, ok)
			for _, p := range state.Players {
				assert.GreaterOrEqual(t, p.HandCount, 0)
			}
		}
	}
}
