// Package position implements the board: a variable-size, sparse piece
// placement together with SFEN parsing/rendering, attack detection, move
// and drop generation, promotion bookkeeping and state transitions. It
// knows nothing about move history or game termination; that lives in
// pkg/game.
package position

import (
	"fmt"
	"sort"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Placement is a single occupied square: which piece, owned by whom.
type Placement struct {
	Abbrev piece.Abbrev
	Owner  Color
}

// Move is a board-to-board relocation of the piece standing on From.
type Move struct {
	From, To Square
}

func (m Move) String() string {
	return fmt.Sprintf("%v-%v", m.From, m.To)
}

// Drop places a piece from hand onto an empty square.
type Drop struct {
	Abbrev piece.Abbrev
	To     Square
}

func (d Drop) String() string {
	return fmt.Sprintf("%v*%v", d.Abbrev, d.To)
}

// pendingMove records a move awaiting a promotion decision: one that
// starts or ends in the promotion zone for a piece that can promote but
// need not (see Promotions).
type pendingMove struct {
	From, To Square
}

// Position is a single board snapshot: placement, both hands, and whose
// turn it is. It is mutable (Move/Drop/ChoosePromotion advance it in
// place); callers that need move-then-undo semantics use Clone.
type Position struct {
	catalogue          *piece.Catalogue
	numFiles, numRanks int

	board map[Square]Placement
	hands [NumPlayers]map[piece.Abbrev]int

	sideToMove Color
	pending    lang.Optional[pendingMove]
}

// New builds an empty board of the given size for the given catalogue.
func New(cat *piece.Catalogue, numFiles, numRanks int) *Position {
	p := &Position{
		catalogue: cat,
		numFiles:  numFiles,
		numRanks:  numRanks,
		board:     map[Square]Placement{},
		sideToMove: Player0,
	}
	p.hands[Player0] = map[piece.Abbrev]int{}
	p.hands[Player1] = map[piece.Abbrev]int{}
	return p
}

// Catalogue returns the piece catalogue this position is built against.
func (p *Position) Catalogue() *piece.Catalogue {
	return p.catalogue
}

// NumFiles and NumRanks return the board dimensions.
func (p *Position) NumFiles() int { return p.numFiles }
func (p *Position) NumRanks() int { return p.numRanks }

// InBounds reports whether sq lies on the board.
func (p *Position) InBounds(sq Square) bool {
	return sq.File >= 1 && sq.File <= p.numFiles && sq.Rank >= 1 && sq.Rank <= p.numRanks
}

// Piece returns the placement at sq, if occupied.
func (p *Position) Piece(sq Square) (Placement, bool) {
	pl, ok := p.board[sq]
	return pl, ok
}

// Place sets the occupant of sq, and Clear empties it. Neither is used
// inside this package (parsing and transitions write the board
// directly); they are exported so a catalogue loader or test fixture can
// build a position by hand.
func (p *Position) Place(sq Square, pl Placement) {
	p.board[sq] = pl
}

func (p *Position) Clear(sq Square) {
	delete(p.board, sq)
}

// SideToMove returns whose turn it is.
func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// HandCount returns how many of abbrev (always unpromoted) player holds
// in hand.
func (p *Position) HandCount(player Color, abbrev piece.Abbrev) int {
	return p.hands[player][abbrev.Base()]
}

// standardHandOrder ranks the standard shogi hand abbreviations in the
// order spec §6 requires them rendered in: rook, bishop, gold, silver,
// knight, lance, pawn, ahead of anything else (which falls back to
// alphabetical order).
var standardHandOrder = map[piece.Abbrev]int{
	"R": 0, "B": 1, "G": 2, "S": 3, "N": 4, "L": 5, "P": 6,
}

// HandAbbrevs returns the unpromoted abbreviations player holds at least
// one of: the standard shogi pieces R, B, G, S, N, L, P first in that
// order (when present), then every remaining abbreviation alphabetically.
func (p *Position) HandAbbrevs(player Color) []piece.Abbrev {
	var ret []piece.Abbrev
	for a, n := range p.hands[player] {
		if n > 0 {
			ret = append(ret, a)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		oi, si := standardHandOrder[ret[i]]
		oj, sj := standardHandOrder[ret[j]]
		switch {
		case si && sj:
			return oi < oj
		case si || sj:
			return si // the standard piece sorts first
		default:
			return ret[i] < ret[j]
		}
	})
	return ret
}

func (p *Position) addToHand(player Color, abbrev piece.Abbrev, n int) {
	base := abbrev.Base()
	if p.hands[player] == nil {
		p.hands[player] = map[piece.Abbrev]int{}
	}
	p.hands[player][base] += n
	if p.hands[player][base] <= 0 {
		delete(p.hands[player], base)
	}
}

// PendingPromotion reports whether a move is awaiting ChoosePromotion,
// and the move in question.
func (p *Position) PendingPromotion() (Move, bool) {
	pm, ok := p.pending.V()
	if !ok {
		return Move{}, false
	}
	return Move{From: pm.From, To: pm.To}, true
}

// Occupants returns every occupied square, in unspecified order.
func (p *Position) Occupants() map[Square]Placement {
	ret := make(map[Square]Placement, len(p.board))
	for sq, pl := range p.board {
		ret[sq] = pl
	}
	return ret
}

// Clone returns a deep, independent copy of p. Legality testing applies a
// candidate move to a clone, checks for self-check, and discards it.
func (p *Position) Clone() *Position {
	c := &Position{
		catalogue: p.catalogue,
		numFiles:  p.numFiles,
		numRanks:  p.numRanks,
		board:     make(map[Square]Placement, len(p.board)),
		sideToMove: p.sideToMove,
		pending:    p.pending,
	}
	for sq, pl := range p.board {
		c.board[sq] = pl
	}
	for pl := Color(0); pl < NumPlayers; pl++ {
		c.hands[pl] = make(map[piece.Abbrev]int, len(p.hands[pl]))
		for a, n := range p.hands[pl] {
			c.hands[pl][a] = n
		}
	}
	return c
}

// royalSquare returns the square of player's royal piece, if it still has
// one on the board.
func (p *Position) royalSquare(player Color) (Square, bool) {
	for sq, pl := range p.board {
		if pl.Owner == player && p.catalogue.IsRoyal(pl.Abbrev) {
			return sq, true
		}
	}
	return Square{}, false
}

// RoyalSquare returns the square of player's royal piece, if it still has
// one on the board. Exported for pkg/game's try-rule check.
func (p *Position) RoyalSquare(player Color) (Square, bool) {
	return p.royalSquare(player)
}
