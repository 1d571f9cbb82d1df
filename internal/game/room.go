package game

import (
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// startingHandSize is the number of cards dealt to each seat at round start.
const startingHandSize = 5

// Player is one seated participant. Seats are 1-based and stable for the
// room's lifetime; ClientID identifies the player across reconnects.
type Player struct {
	Seat      int
	Name      string
	ClientID  string
	Hand      []Card
	Connected bool
}

// voteGate tracks an idempotent per-seat vote.
type voteGate struct {
	awaiting bool
	voters   map[int]bool
}

func (g *voteGate) reset(awaiting bool) {
	g.awaiting = awaiting
	g.voters = make(map[int]bool)
}

func (g *voteGate) state(total int) VoteState {
	voters := make([]int, 0, len(g.voters))
	for s := range g.voters {
		voters = append(voters, s)
	}
	sort.Ints(voters)
	return VoteState{Awaiting: g.awaiting, Votes: len(g.voters), Total: total, Voters: voters}
}

// Room is one independent game session. Every exported method is one atomic
// action in the room's totally ordered event stream: it runs to completion
// under the room mutex and returns the outbound notifications the transition
// produced. The only suspended state is an open ron offer, whose deadline
// timer re-enters through ExpireRon and is discarded if the offer already
// resolved.
type Room struct {
	mu     sync.Mutex
	id     string
	logger *zap.Logger

	players     []*Player
	deck        *Deck
	discardPile []Card

	currentTurn        int // index into players
	requiredSuit       Suit
	pendingSuitChooser int // seat, 0 when none
	attack             AttackState

	ron      *RonOffer
	ronSeq   int
	ronTimer *time.Timer

	sessionScores   []int
	lastRoundScores []int
	started         bool
	finished        bool
	lastWinnerSeat  int // 0 when unset

	startVote   voteGate
	restartVote voteGate

	decisionWindow time.Duration
	lastActive     time.Time

	// sink receives notifications produced outside a caller's action, i.e.
	// from the deadline timer. Set by the transport layer.
	sink func([]Notification)
}

// NewRoom creates an empty room. decisionWindow is the ron deadline; a zero
// or negative window disables the automatic timer (resolution then relies on
// explicit expiry events).
func NewRoom(id string, decisionWindow time.Duration, logger *zap.Logger) *Room {
	r := &Room{
		id:             id,
		logger:         logger,
		decisionWindow: decisionWindow,
		lastActive:     time.Now(),
	}
	r.startVote.reset(false)
	r.restartVote.reset(false)
	return r
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// SetNotificationSink registers the delivery function used for timer-driven
// notifications.
func (r *Room) SetNotificationSink(sink func([]Notification)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Idle reports whether the room has no connected players and saw no action
// for at least ttl. Used by the registry's eviction janitor.
func (r *Room) Idle(ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Connected {
			return false
		}
	}
	return time.Since(r.lastActive) > ttl
}

// Join seats a new player, or reattaches a known client identity to its
// seat. Unknown identities are rejected once a round has started.
func (r *Room) Join(clientID, name string) (int, []Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	for _, p := range r.players {
		if p.ClientID == clientID {
			p.Connected = true
			if name != "" {
				p.Name = name
			}
			r.logger.Info("player rejoined",
				zap.String("room_id", r.id),
				zap.Int("seat", p.Seat),
			)
			return p.Seat, r.withIdentity(p), nil
		}
	}

	if r.started {
		return 0, nil, ErrGameInProgress
	}

	if name == "" {
		name = "Guest"
	}
	p := &Player{
		Seat:      len(r.players) + 1,
		Name:      name,
		ClientID:  clientID,
		Hand:      []Card{},
		Connected: true,
	}
	r.players = append(r.players, p)
	r.sessionScores = append(r.sessionScores, 0)
	r.lastRoundScores = append(r.lastRoundScores, 0)
	r.startVote.awaiting = true

	r.logger.Info("player joined",
		zap.String("room_id", r.id),
		zap.Int("seat", p.Seat),
		zap.String("name", p.Name),
	)
	return p.Seat, r.withIdentity(p), nil
}

func (r *Room) withIdentity(p *Player) []Notification {
	notes := []Notification{toSeat(NotifyIdentity, p.Seat, IdentityAssigned{
		Seat:     p.Seat,
		Name:     p.Name,
		RoomID:   r.id,
		ClientID: p.ClientID,
	})}
	return append(notes, r.stateNotifications()...)
}

// Disconnect detaches a client's connection handle. The seat stays reserved
// for the identity to reclaim.
func (r *Room) Disconnect(clientID string) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	for _, p := range r.players {
		if p.ClientID == clientID {
			p.Connected = false
			return r.stateNotifications()
		}
	}
	return nil
}

// VoteStart records a seat's start vote. The round deals once every seated
// player has voted.
func (r *Room) VoteStart(seat int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.started {
		return nil, ErrGameInProgress
	}
	if r.bySeat(seat) == nil {
		return nil, ErrUnknownSeat
	}
	r.startVote.voters[seat] = true
	if len(r.startVote.voters) >= len(r.players) && len(r.players) >= 1 {
		r.startRound()
	}
	return r.stateNotifications(), nil
}

// VoteRestart records a seat's restart vote after a finished round. A fresh
// round deals once every seated player has voted.
func (r *Room) VoteRestart(seat int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if !r.finished {
		return nil, ErrRoundNotFinished
	}
	if r.bySeat(seat) == nil {
		return nil, ErrUnknownSeat
	}
	r.restartVote.voters[seat] = true
	if len(r.restartVote.voters) >= len(r.players) && len(r.players) >= 1 {
		r.startRound()
	}
	return r.stateNotifications(), nil
}

// Play discards the card at the given hand position for seat. Removal is by
// position: the two-set deck holds duplicate values, so value equality can
// never identify a card.
func (r *Room) Play(seat, index int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.checkActionable(seat); err != nil {
		return nil, err
	}
	p := r.bySeat(seat)
	if index < 0 || index >= len(p.Hand) {
		return nil, ErrNoSuchCard
	}
	card := p.Hand[index]
	if !CanPlay(card, r.discardTop(), r.requiredSuit, r.attack) {
		return nil, ErrIllegalCard
	}

	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	r.discardPile = append(r.discardPile, card)
	r.requiredSuit = ""

	eff := EffectOf(card)
	r.logger.Debug("card played",
		zap.String("room_id", r.id),
		zap.Int("seat", seat),
		zap.String("card", card.String()),
		zap.String("effect", eff.Kind.String()),
	)

	switch eff.Kind {
	case EffectAttack:
		r.attack = r.attack.apply(eff)
		if notes, opened := r.openRon(card, seat, false); opened {
			return notes, nil
		}
		if len(p.Hand) == 0 {
			return r.finishWith(r.resolveTsumo(p)), nil
		}
		r.advanceTurn()

	case EffectWild:
		// The suit declaration that follows consumes the escape marker.
		if r.attack.Active() {
			r.attack = r.attack.escape()
		}
		r.pendingSuitChooser = seat

	case EffectExtraTurn:
		if notes, opened := r.openRon(card, seat, true); opened {
			return notes, nil
		}
		// The same seat acts again; an emptied hand refills so the round
		// cannot end on an extra-turn card.
		if len(p.Hand) == 0 {
			if notes, ended := r.refillHand(p); ended {
				return notes, nil
			}
		}

	default:
		if notes, opened := r.openRon(card, seat, false); opened {
			return notes, nil
		}
		if len(p.Hand) == 0 {
			return r.finishWith(r.resolveTsumo(p)), nil
		}
		r.advanceTurn()
	}

	return r.stateNotifications(), nil
}

// Draw takes cards from the deck for seat: the accumulated forced-draw total
// when a chain is pending against them (paying clears the chain and forfeits
// the turn), otherwise a single card.
func (r *Room) Draw(seat int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.checkActionable(seat); err != nil {
		return nil, err
	}
	p := r.bySeat(seat)

	if r.attack.Active() {
		owed := r.attack.TotalDraw
		for i := 0; i < owed; i++ {
			card, err := r.deck.Draw()
			if err != nil {
				return r.finishWith(r.resolveDeckEmpty()), nil
			}
			p.Hand = append(p.Hand, card)
		}
		r.attack = AttackState{}
		r.advanceTurn()
		r.logger.Debug("forced draw paid",
			zap.String("room_id", r.id),
			zap.Int("seat", seat),
			zap.Int("cards", owed),
		)
		return r.stateNotifications(), nil
	}

	card, err := r.deck.Draw()
	if err != nil {
		return r.finishWith(r.resolveDeckEmpty()), nil
	}
	p.Hand = append(p.Hand, card)
	r.advanceTurn()
	return r.stateNotifications(), nil
}

// ChooseSuit resolves a pending suit declaration after a wild. It is only
// accepted from the seat that played the wild.
func (r *Room) ChooseSuit(seat int, suit Suit) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if !r.started {
		return nil, ErrNotStarted
	}
	if r.finished {
		return nil, ErrRoundFinished
	}
	if r.pendingSuitChooser == 0 || r.pendingSuitChooser != seat {
		return nil, ErrNotSuitChooser
	}
	if !ValidSuit(suit) {
		return nil, ErrInvalidSuit
	}

	p := r.bySeat(seat)
	r.requiredSuit = suit
	r.pendingSuitChooser = 0
	wasEscape := r.attack.Phase == AttackEscaped
	r.attack = AttackState{}

	if len(p.Hand) == 0 {
		if wasEscape {
			// The one case where emptying on a wild wins: the wild escaped
			// an active chain.
			return r.finishWith(r.resolveTsumo(p)), nil
		}
		// Emptying on an ordinary wild does not win; refill and move on.
		if notes, ended := r.refillHand(p); ended {
			return notes, nil
		}
	}
	r.advanceTurn()
	return r.stateNotifications(), nil
}

// AcceptRon claims the open reactive win for seat. The first accept wins and
// atomically invalidates the offer; anything arriving later is discarded.
// A decision against an already-resolved offer is a silent no-op.
func (r *Room) AcceptRon(seat int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.ron == nil {
		return nil, nil
	}
	offer := r.ron
	if !offer.candidate(seat) {
		return nil, ErrNotRonCandidate
	}
	claimant := r.bySeat(seat)
	source := r.bySeat(offer.SourceSeat)
	r.invalidateRon()

	// If the claimant's hand total also equals the source's, the win
	// reflects: roles invert and the multiplier doubles.
	var over Notification
	if HandValue(claimant.Hand) == HandValue(source.Hand) {
		over = r.resolveRon(source, claimant, offer.Card, true)
	} else {
		over = r.resolveRon(claimant, source, offer.Card, false)
	}
	return r.finishWith(over), nil
}

// DeclineRon withdraws seat from the open offer's candidate set. When the
// set empties the window closes with no winner and play resumes.
func (r *Room) DeclineRon(seat int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.ron == nil {
		return nil, nil
	}
	if !r.ron.candidate(seat) {
		return nil, ErrNotRonCandidate
	}
	r.ron.withoutCandidate(seat)
	if len(r.ron.Candidates) > 0 {
		return nil, nil
	}
	return r.closeRonNoWinner(), nil
}

// ExpireRon fires the deadline for the identified offer. It is a no-op when
// the offer already resolved through accept or all-decline.
func (r *Room) ExpireRon(offerID int) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.ron == nil || r.ron.ID != offerID {
		return nil
	}
	r.logger.Debug("reactive win window expired",
		zap.String("room_id", r.id),
		zap.Int("offer_id", offerID),
	)
	return r.closeRonNoWinner()
}

// ExpireCurrentRon expires whichever offer is open, if any. Entry point for
// an externally driven deadline event.
func (r *Room) ExpireCurrentRon() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.ron == nil {
		return nil
	}
	return r.closeRonNoWinner()
}

// --- internals; callers hold r.mu ---

func (r *Room) touch() {
	r.lastActive = time.Now()
}

func (r *Room) bySeat(seat int) *Player {
	for _, p := range r.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (r *Room) indexOfSeat(seat int) int {
	for i, p := range r.players {
		if p.Seat == seat {
			return i
		}
	}
	return -1
}

func (r *Room) discardTop() Card {
	return r.discardPile[len(r.discardPile)-1]
}

func (r *Room) advanceTurn() {
	r.currentTurn = (r.currentTurn + 1) % len(r.players)
}

// checkActionable guards play and draw actions: the round must be live, no
// sub-state (suit choice, ron decision) may be pending, and only the seat on
// turn may act.
func (r *Room) checkActionable(seat int) error {
	if !r.started {
		return ErrNotStarted
	}
	if r.finished {
		return ErrRoundFinished
	}
	if r.ron != nil {
		return ErrRonDecisionPending
	}
	if r.pendingSuitChooser != 0 {
		return ErrAwaitingSuitChoice
	}
	if r.bySeat(seat) == nil {
		return ErrUnknownSeat
	}
	if r.players[r.currentTurn].Seat != seat {
		return ErrNotYourTurn
	}
	return nil
}

func (r *Room) startRound() {
	r.deck = NewDeck()
	r.discardPile = r.discardPile[:0]
	first, _ := r.deck.Draw() // fresh 104-card deck, cannot be empty
	r.discardPile = append(r.discardPile, first)
	r.requiredSuit = ""
	r.pendingSuitChooser = 0
	r.attack = AttackState{}
	r.invalidateRon()
	r.started = true
	r.finished = false
	r.lastRoundScores = make([]int, len(r.players))

	// The previous winner opens; seat order otherwise.
	r.currentTurn = 0
	if r.lastWinnerSeat != 0 {
		if idx := r.indexOfSeat(r.lastWinnerSeat); idx >= 0 {
			r.currentTurn = idx
		}
	}

	for _, p := range r.players {
		p.Hand = make([]Card, 0, startingHandSize)
		for i := 0; i < startingHandSize; i++ {
			card, err := r.deck.Draw()
			if err != nil {
				break
			}
			p.Hand = append(p.Hand, card)
		}
	}

	r.startVote.reset(false)
	r.restartVote.reset(false)

	r.logger.Info("round dealt",
		zap.String("room_id", r.id),
		zap.Int("players", len(r.players)),
		zap.Int("deck_remaining", r.deck.Remaining()),
	)
}

// openRon opens a reactive-win window if any other seated hand totals the
// played card's numeric value. Returns the notifications and true when a
// window opened; the caller then stops, leaving the turn unadvanced.
func (r *Room) openRon(card Card, sourceSeat int, extraTurn bool) ([]Notification, bool) {
	value := NumericValue(card)
	var candidates []int
	for _, p := range r.players {
		if p.Seat == sourceSeat || len(p.Hand) == 0 {
			continue
		}
		if HandValue(p.Hand) == value {
			candidates = append(candidates, p.Seat)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	r.ronSeq++
	offer := &RonOffer{
		ID:         r.ronSeq,
		Card:       card,
		SourceSeat: sourceSeat,
		Candidates: candidates,
		Deadline:   time.Now().Add(r.decisionWindow),
		ExtraTurn:  extraTurn,
	}
	r.ron = offer

	if r.decisionWindow > 0 {
		id := offer.ID
		r.ronTimer = time.AfterFunc(r.decisionWindow, func() {
			r.deliver(r.ExpireRon(id))
		})
	}

	r.logger.Debug("reactive win window opened",
		zap.String("room_id", r.id),
		zap.Int("offer_id", offer.ID),
		zap.String("card", card.String()),
		zap.Ints("candidates", candidates),
	)

	notes := r.stateNotifications()
	for _, seat := range candidates {
		notes = append(notes, toSeat(NotifyRonOffer, seat, RonOffered{
			Card:       card,
			SourceSeat: sourceSeat,
			YourSeat:   seat,
			Deadline:   offer.Deadline,
		}))
	}
	return notes, true
}

// invalidateRon atomically retires the open offer and its timer.
func (r *Room) invalidateRon() {
	if r.ronTimer != nil {
		r.ronTimer.Stop()
		r.ronTimer = nil
	}
	r.ron = nil
}

// closeRonNoWinner resolves an open window with no claimant. An emptied
// source hand now counts as a self-win (unless the trigger granted an extra
// turn, which instead refills the hand); otherwise the turn advances except
// for extra-turn triggers.
func (r *Room) closeRonNoWinner() []Notification {
	offer := r.ron
	r.invalidateRon()
	source := r.bySeat(offer.SourceSeat)

	if len(source.Hand) == 0 {
		if !offer.ExtraTurn {
			return r.finishWith(r.resolveTsumo(source))
		}
		if notes, ended := r.refillHand(source); ended {
			return notes
		}
	} else if !offer.ExtraTurn {
		r.advanceTurn()
	}
	return r.stateNotifications()
}

// refillHand draws one replacement card. Returns the round-over
// notifications and true when the deck is exhausted instead.
func (r *Room) refillHand(p *Player) ([]Notification, bool) {
	card, err := r.deck.Draw()
	if err != nil {
		return r.finishWith(r.resolveDeckEmpty()), true
	}
	p.Hand = append(p.Hand, card)
	return nil, false
}

func (r *Room) finishWith(over Notification) []Notification {
	return append([]Notification{over}, r.stateNotifications()...)
}

func (r *Room) stateNotifications() []Notification {
	notes := []Notification{broadcast(NotifyState, r.publicState())}
	for i, p := range r.players {
		notes = append(notes,
			toSeat(NotifyHand, p.Seat, PrivateHand{Hand: cloneHand(p.Hand)}),
			toSeat(NotifyPlayHints, p.Seat, r.hintsFor(i)),
		)
	}
	return notes
}

func (r *Room) publicState() PublicState {
	players := make([]PlayerSummary, len(r.players))
	for i, p := range r.players {
		players[i] = PlayerSummary{
			Seat:      p.Seat,
			Name:      p.Name,
			HandCount: len(p.Hand),
			IsTurn:    r.started && !r.finished && i == r.currentTurn,
			Connected: p.Connected,
		}
	}

	state := PublicState{
		RoomID:             r.id,
		Started:            r.started,
		Finished:           r.finished,
		RequiredSuit:       r.requiredSuit,
		PendingSuitChooser: r.pendingSuitChooser,
		Attack:             r.attack,
		Players:            players,
		SessionScores:      cloneInts(r.sessionScores),
		LastRoundScores:    cloneInts(r.lastRoundScores),
		Start:              r.startVote.state(len(r.players)),
		Restart:            r.restartVote.state(len(r.players)),
	}
	if r.deck != nil {
		state.DeckCount = r.deck.Remaining()
	}
	if len(r.discardPile) > 0 {
		top := r.discardTop()
		state.DiscardTop = &top
	}
	if r.started && !r.finished && len(r.players) > 0 {
		state.CurrentTurnSeat = r.players[r.currentTurn].Seat
	}
	return state
}

func (r *Room) hintsFor(idx int) PlayHints {
	p := r.players[idx]
	hints := PlayHints{
		PlayableIndices: []int{},
		MustChooseSuit:  r.pendingSuitChooser == p.Seat,
	}
	myTurn := r.started && !r.finished && idx == r.currentTurn
	if myTurn && r.ron == nil && r.pendingSuitChooser == 0 {
		hints.PlayableIndices = PlayableIndices(p.Hand, r.discardTop(), r.requiredSuit, r.attack)
		hints.CanDraw = true
	}
	return hints
}

// deliver hands timer-produced notifications to the registered sink.
func (r *Room) deliver(notes []Notification) {
	if len(notes) == 0 {
		return
	}
	r.mu.Lock()
	sink := r.sink
	r.mu.Unlock()
	if sink != nil {
		sink(notes)
	}
}

// --- settlement ---

func (r *Room) resolveTsumo(winner *Player) Notification {
	r.finished = true
	r.lastWinnerSeat = winner.Seat
	r.invalidateRon()

	var transfers []Transfer
	reveals := []RevealedHand{{Seat: winner.Seat, Role: "tsumo_winner", Hand: cloneHand(winner.Hand)}}

	total := 0
	for _, p := range r.players {
		if p.Seat == winner.Seat {
			continue
		}
		payment := int(math.Ceil(HandPoints(p.Hand)))
		total += payment
		transfers = append(transfers, Transfer{
			FromSeat: p.Seat,
			ToSeat:   winner.Seat,
			Amount:   payment,
			Reason:   OutcomeTsumo,
		})
		r.sessionScores[p.Seat-1] -= payment
		r.lastRoundScores[p.Seat-1] = -payment
		reveals = append(reveals, RevealedHand{Seat: p.Seat, Role: "loser", Hand: cloneHand(p.Hand)})
	}
	r.sessionScores[winner.Seat-1] += total
	r.lastRoundScores[winner.Seat-1] = total

	r.restartVote.reset(true)
	r.logger.Info("round over: self-win",
		zap.String("room_id", r.id),
		zap.Int("winner_seat", winner.Seat),
		zap.Int("points", total),
	)

	return broadcast(NotifyRoundOver, RoundOver{
		Reason:          OutcomeTsumo,
		WinnerSeat:      winner.Seat,
		Transfers:       transfers,
		Reveals:         reveals,
		SessionScores:   cloneInts(r.sessionScores),
		LastRoundScores: cloneInts(r.lastRoundScores),
	})
}

func (r *Room) resolveRon(winner, payer *Player, played Card, reflected bool) Notification {
	r.finished = true
	r.lastWinnerSeat = winner.Seat

	payerHand := HandPoints(payer.Hand)
	cardPts := Points(played)
	winnerHand := HandPoints(winner.Hand)
	base := payerHand + cardPts + winnerHand
	multiplier := 2
	if reflected {
		multiplier = 4
	}
	total := int(math.Ceil(base * float64(multiplier)))

	reason := OutcomeRon
	winnerRole, payerRole := "ron_winner", "loser"
	if reflected {
		reason = OutcomeRonGaeshi
		winnerRole, payerRole = "ron_gaeshi_winner", "ron_gaeshi_loser"
	}

	r.sessionScores[payer.Seat-1] -= total
	r.sessionScores[winner.Seat-1] += total
	for _, p := range r.players {
		r.lastRoundScores[p.Seat-1] = 0
	}
	r.lastRoundScores[payer.Seat-1] = -total
	r.lastRoundScores[winner.Seat-1] = total

	r.restartVote.reset(true)
	r.logger.Info("round over: reactive win",
		zap.String("room_id", r.id),
		zap.Int("winner_seat", winner.Seat),
		zap.Int("loser_seat", payer.Seat),
		zap.Bool("reflected", reflected),
		zap.Int("points", total),
	)

	playedCopy := played
	return broadcast(NotifyRoundOver, RoundOver{
		Reason:     reason,
		WinnerSeat: winner.Seat,
		LoserSeat:  payer.Seat,
		PlayedCard: &playedCopy,
		Transfers: []Transfer{{
			FromSeat: payer.Seat,
			ToSeat:   winner.Seat,
			Amount:   total,
			Reason:   reason,
		}},
		Reveals: []RevealedHand{
			{Seat: winner.Seat, Role: winnerRole, Hand: cloneHand(winner.Hand)},
			{Seat: payer.Seat, Role: payerRole, Hand: cloneHand(payer.Hand)},
		},
		SessionScores:   cloneInts(r.sessionScores),
		LastRoundScores: cloneInts(r.lastRoundScores),
		Breakdown: &PointBreakdown{
			LoserHand:  int(math.Ceil(payerHand)),
			PlayedCard: int(math.Ceil(cardPts)),
			RonnerHand: int(math.Ceil(winnerHand)),
			Base:       int(math.Ceil(base)),
			Multiplier: multiplier,
			Total:      total,
		},
	})
}

func (r *Room) resolveDeckEmpty() Notification {
	r.finished = true
	r.lastWinnerSeat = 0
	r.invalidateRon()

	reveals := make([]RevealedHand, 0, len(r.players))
	for _, p := range r.players {
		reveals = append(reveals, RevealedHand{Seat: p.Seat, Role: "draw", Hand: cloneHand(p.Hand)})
		r.lastRoundScores[p.Seat-1] = 0
	}

	r.restartVote.reset(true)
	r.logger.Info("round over: deck exhausted", zap.String("room_id", r.id))

	return broadcast(NotifyRoundOver, RoundOver{
		Reason:          OutcomeDeckExhausted,
		Transfers:       []Transfer{},
		Reveals:         reveals,
		SessionScores:   cloneInts(r.sessionScores),
		LastRoundScores: cloneInts(r.lastRoundScores),
	})
}

func cloneHand(hand []Card) []Card {
	out := make([]Card, len(hand))
	copy(out, hand)
	return out
}

func cloneInts(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	return out
}
