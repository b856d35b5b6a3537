package game

import (
	"context"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/agt-the-walker/kashogi/pkg/position"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// ply is one completed half-move: who made it, the SFEN reached
// immediately afterward, and whether it put the opponent in check. It is
// the unit repetition and perpetual-check attribution are computed over.
type ply struct {
	mover     position.Color
	sfenAfter string
	gaveCheck bool
}

// Game tracks a single Position plus the history a Position alone
// cannot: half-move count, SFEN-keyed repetition, and termination.
type Game struct {
	pos         *position.Position
	initialSFEN string
	history     []ply
	repetition  map[string]int

	// tryRule gates the optional try-rule win condition; trySquare[p] is
	// the square player p's royal must land on to win by it (p's
	// opponent's original royal square), captured once at construction.
	tryRule      bool
	trySquare    [position.NumPlayers]position.Square
	hasTrySquare [position.NumPlayers]bool

	outcome Outcome
	reason  Reason
}

// New starts a game from sfen against cat. tryRule enables the optional
// try-rule win condition (spec.md §4.8's Design Note): if true, a player
// wins the moment its royal piece lands on the square the opponent's
// royal started the game on.
func New(ctx context.Context, cat *piece.Catalogue, sfen string, tryRule bool) (*Game, error) {
	pos, err := position.ParseSFEN(ctx, cat, sfen)
	if err != nil {
		return nil, err
	}
	initial := pos.SFEN()
	g := &Game{
		pos:         pos,
		initialSFEN: initial,
		repetition:  map[string]int{initial: 1},
		tryRule:     tryRule,
	}
	for player := position.Color(0); player < position.NumPlayers; player++ {
		if sq, ok := pos.RoyalSquare(player.Opponent()); ok {
			g.trySquare[player] = sq
			g.hasTrySquare[player] = true
		}
	}
	logw.Infof(ctx, "new game: %dx%d board, tryRule=%v", pos.NumFiles(), pos.NumRanks(), tryRule)
	return g, nil
}

// SFEN returns the current position's SFEN.
func (g *Game) SFEN() string { return g.pos.SFEN() }

// NumFiles and NumRanks return the board dimensions, derived from the
// starting SFEN at construction.
func (g *Game) NumFiles() int { return g.pos.NumFiles() }
func (g *Game) NumRanks() int { return g.pos.NumRanks() }

// SideToMove returns whose turn it is.
func (g *Game) SideToMove() position.Color { return g.pos.SideToMove() }

// HalfMoves returns the number of completed half-moves (a deferred
// promotion choice only completes its half-move once resolved).
func (g *Game) HalfMoves() int { return len(g.history) }

// Result reports the game's outcome and, if decided, why.
func (g *Game) Result() (Outcome, Reason) { return g.outcome, g.reason }

// PendingPromotion reports whether a move is awaiting ChoosePromotion.
func (g *Game) PendingPromotion() (position.Move, bool) { return g.pos.PendingPromotion() }

// Promotions reports the ordered legal promotion choices for a
// hypothetical move from->to; see position.Position.Promotions.
func (g *Game) Promotions(from, to position.Square) []bool {
	return g.pos.Promotions(from, to)
}

// LegalMovesFromSquare and LegalDropsWithPiece pass straight through to
// the underlying position; they report no moves once the game is over
// since nothing can change the board at that point anyway.
func (g *Game) LegalMovesFromSquare(sq position.Square) []position.Move {
	if g.outcome != Ongoing {
		return nil
	}
	return g.pos.LegalMovesFromSquare(sq)
}

func (g *Game) LegalDropsWithPiece(abbrev piece.Abbrev) []position.Square {
	if g.outcome != Ongoing {
		return nil
	}
	return g.pos.LegalDropsWithPiece(abbrev)
}

func (g *Game) HandCount(player position.Color, abbrev piece.Abbrev) int {
	return g.pos.HandCount(player, abbrev)
}

func (g *Game) Piece(sq position.Square) (position.Placement, bool) {
	return g.pos.Piece(sq)
}

// Move relocates the piece on from to to. promotes selects how an
// optional promotion is resolved; see position.Position.Move. If the
// move leaves an optional promotion pending (position.PromoteUndecided
// was supplied), the half-move does not complete and the turn does not
// pass until ChoosePromotion is called.
func (g *Game) Move(ctx context.Context, from, to position.Square, promotes lang.Optional[bool]) error {
	if err := g.ensureOngoing(); err != nil {
		return err
	}
	mover := g.pos.SideToMove()
	if err := g.pos.Move(ctx, from, to, promotes); err != nil {
		return err
	}
	if _, pending := g.pos.PendingPromotion(); pending {
		return nil
	}
	g.completePly(ctx, mover)
	return nil
}

// ChoosePromotion resolves a pending optional promotion left by Move.
func (g *Game) ChoosePromotion(ctx context.Context, promote bool) error {
	if err := g.ensureOngoing(); err != nil {
		return err
	}
	mover := g.pos.SideToMove()
	if err := g.pos.ChoosePromotion(ctx, promote); err != nil {
		return err
	}
	g.completePly(ctx, mover)
	return nil
}

// Drop places abbrev from the side to move's hand onto to.
func (g *Game) Drop(ctx context.Context, abbrev piece.Abbrev, to position.Square) error {
	if err := g.ensureOngoing(); err != nil {
		return err
	}
	mover := g.pos.SideToMove()
	if err := g.pos.Drop(ctx, abbrev, to); err != nil {
		return err
	}
	g.completePly(ctx, mover)
	return nil
}

func (g *Game) ensureOngoing() error {
	if g.outcome != Ongoing {
		return &DecidedError{Outcome: g.outcome, Reason: g.reason}
	}
	return nil
}

func (g *Game) decide(outcome Outcome, reason Reason) {
	g.outcome = outcome
	g.reason = reason
}

func winnerOutcome(winner position.Color) Outcome {
	if winner == position.Player0 {
		return Player0Wins
	}
	return Player1Wins
}

// completePly runs after a move, drop, or resolved promotion has been
// applied to the position: it records history and evaluates every
// termination condition in priority order (try rule, then checkmate or
// stalemate, then repetition).
func (g *Game) completePly(ctx context.Context, mover position.Color) {
	opponent := mover.Opponent()
	sfen := g.pos.SFEN()
	gaveCheck := g.pos.IsInCheck(opponent)

	g.history = append(g.history, ply{mover: mover, sfenAfter: sfen, gaveCheck: gaveCheck})
	g.repetition[sfen]++

	if g.checkTryRule(mover) {
		g.decide(winnerOutcome(mover), TryRule)
		logw.Infof(ctx, "game decided: %v (%v)", g.outcome, g.reason)
		return
	}

	switch g.pos.LocalStatus() {
	case position.Checkmate:
		g.decide(winnerOutcome(mover), Checkmate)
		logw.Infof(ctx, "game decided: %v (%v)", g.outcome, g.reason)
		return
	case position.Stalemate:
		g.decide(winnerOutcome(mover), Stalemate)
		logw.Infof(ctx, "game decided: %v (%v)", g.outcome, g.reason)
		return
	}

	if g.repetition[sfen] >= 4 {
		g.decideRepetition(sfen)
		if g.outcome != Ongoing {
			logw.Infof(ctx, "game decided: %v (%v)", g.outcome, g.reason)
		}
	}
}

// checkTryRule reports whether mover just moved its royal piece onto the
// square the opponent's royal started the game on: the optional try
// rule, gated by g.tryRule and captured once at construction (so it's
// unaffected by the opponent's royal subsequently moving or being
// captured).
func (g *Game) checkTryRule(mover position.Color) bool {
	if !g.tryRule || !g.hasTrySquare[mover] {
		return false
	}
	sq, ok := g.pos.RoyalSquare(mover)
	if !ok {
		return false
	}
	return sq == g.trySquare[mover]
}

// decideRepetition attributes a fourfold-repeated position: if one side
// delivered check on every one of its own moves across every cycle of
// the repetition, that side loses (perpetual check); otherwise it is a
// draw.
func (g *Game) decideRepetition(sfen string) {
	var idxs []int
	for i, pl := range g.history {
		if pl.sfenAfter == sfen {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return
	}

	// If the very first time this position arose was the game's starting
	// position (never recorded as a ply), the attribution window starts
	// at the beginning of history; otherwise it starts right after the
	// first recorded occurrence.
	first := idxs[0]
	if sfen == g.initialSFEN {
		first = -1
	}
	last := idxs[len(idxs)-1]

	var present, allChecks [2]bool
	allChecks[0], allChecks[1] = true, true
	for i := first + 1; i <= last; i++ {
		pl := g.history[i]
		present[pl.mover] = true
		if !pl.gaveCheck {
			allChecks[pl.mover] = false
		}
	}

	p0 := present[position.Player0] && allChecks[position.Player0]
	p1 := present[position.Player1] && allChecks[position.Player1]

	switch {
	case p0 && !p1:
		g.decide(winnerOutcome(position.Player1), PerpetualCheck)
	case p1 && !p0:
		g.decide(winnerOutcome(position.Player0), PerpetualCheck)
	default:
		g.decide(Draw, Repetition)
	}
}
