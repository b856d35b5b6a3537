package position

import "github.com/agt-the-walker/kashogi/pkg/piece"

// isInPromotionZone reports whether sq lies in player's promotion zone:
// the nearest promotionZoneHeight ranks counted from player's far edge.
func (p *Position) isInPromotionZone(player Color, sq Square) bool {
	return nthFurthestRank(player, sq.Rank, p.numRanks) <= promotionZoneHeight(p.numRanks)
}

// wouldBeStranded reports whether abbrev, left unpromoted, would have no
// legal destination from sq: i.e. sq falls among the furthest ranks its
// own movement shape can never escape (e.g. a pawn or lance on the last
// rank, a knight on the last two).
func (p *Position) wouldBeStranded(player Color, abbrev piece.Abbrev, sq Square) bool {
	restricted := p.catalogue.NumRestrictedFurthestRanks(abbrev)
	if restricted == 0 {
		return false
	}
	return nthFurthestRank(player, sq.Rank, p.numRanks) <= restricted
}

// walkPseudoMovesFrom invokes visit(to) for every board destination the
// piece on sq could reach, ignoring whether the move would leave the
// mover's own royal piece in check. It stops as soon as visit returns
// true; callers that need the full set (pseudoMovesFrom) always return
// false, while callers that only need to know "is there at least one"
// (hasLegalMoveFromSquare) can stop on the first hit instead of
// generating every destination.
func (p *Position) walkPseudoMovesFrom(sq Square, visit func(to Square) bool) {
	pl, ok := p.board[sq]
	if !ok {
		return
	}
	movement := p.catalogue.Movement(pl.Abbrev)

	for vec, rng := range movement.Directions {
		deltaFile, deltaRank := oriented(pl.Owner, vec.DX, vec.DY)
		for step := 1; rng == 0 || step <= rng; step++ {
			cur := Square{File: sq.File + deltaFile*step, Rank: sq.Rank + deltaRank*step}
			if !p.InBounds(cur) {
				break
			}
			occ, occupied := p.board[cur]
			if occupied && occ.Owner == pl.Owner {
				break
			}
			if visit(cur) {
				return
			}
			if occupied {
				break
			}
		}
	}
}

// pseudoMovesFrom returns every board destination the piece on sq could
// reach, ignoring whether the move would leave the mover's own royal
// piece in check.
func (p *Position) pseudoMovesFrom(sq Square) []Square {
	var dests []Square
	p.walkPseudoMovesFrom(sq, func(to Square) bool {
		dests = append(dests, to)
		return false
	})
	return dests
}

// LegalMovesFromSquare returns every legal destination for the piece on
// sq, or nil if sq is empty, not owned by the side to move, or a
// promotion decision is pending.
func (p *Position) LegalMovesFromSquare(sq Square) []Move {
	if _, pending := p.pending.V(); pending {
		return nil
	}
	pl, ok := p.board[sq]
	if !ok || pl.Owner != p.sideToMove {
		return nil
	}

	base := pl.Abbrev.Base()
	canPromote := p.catalogue.CanPromote(base)

	var moves []Move
	for _, to := range p.pseudoMovesFrom(sq) {
		if !pl.Abbrev.IsPromoted() && !canPromote && p.wouldBeStranded(pl.Owner, pl.Abbrev, to) {
			continue
		}
		if p.wouldBeInCheck(pl.Owner, func(c *Position) {
			c.applyRelocation(sq, to, pl)
		}) {
			continue
		}
		moves = append(moves, Move{From: sq, To: to})
	}
	return moves
}

// hasLegalMoveFromSquare reports whether the piece on sq has at least
// one legal destination, stopping at the first one found instead of
// generating every destination: the early-stopping counterpart to
// LegalMovesFromSquare used by HasAnyLegalAction.
func (p *Position) hasLegalMoveFromSquare(sq Square) bool {
	pl := p.board[sq]
	base := pl.Abbrev.Base()
	canPromote := p.catalogue.CanPromote(base)

	found := false
	p.walkPseudoMovesFrom(sq, func(to Square) bool {
		if !pl.Abbrev.IsPromoted() && !canPromote && p.wouldBeStranded(pl.Owner, pl.Abbrev, to) {
			return false
		}
		if p.wouldBeInCheck(pl.Owner, func(c *Position) {
			c.applyRelocation(sq, to, pl)
		}) {
			return false
		}
		found = true
		return true
	})
	return found
}

// applyRelocation moves pl from sq to to on c, capturing and stashing
// whatever occupied to (if anything) into the mover's hand. It never
// applies a promotion; it is used both for real moves (before the
// promotion decision) and for scratch self-check testing.
func (c *Position) applyRelocation(from, to Square, pl Placement) {
	if captured, ok := c.board[to]; ok {
		c.addToHand(pl.Owner, captured.Abbrev.Base(), 1)
	}
	delete(c.board, from)
	c.board[to] = pl
}

// LegalDropsWithPiece returns every square on which player may legally
// drop abbrev (an unpromoted abbreviation they hold in hand), or nil if
// they hold none.
func (p *Position) LegalDropsWithPiece(abbrev piece.Abbrev) []Square {
	if _, pending := p.pending.V(); pending {
		return nil
	}
	player := p.sideToMove
	abbrev = abbrev.Base()
	if p.HandCount(player, abbrev) <= 0 {
		return nil
	}

	max, capped := p.catalogue.MaxPerFile(abbrev)

	var squares []Square
	for file := 1; file <= p.numFiles; file++ {
		if capped && p.countOnFile(player, abbrev, file) >= max {
			continue
		}
		for rank := 1; rank <= p.numRanks; rank++ {
			sq := Square{File: file, Rank: rank}
			if _, occupied := p.board[sq]; occupied {
				continue
			}
			if p.wouldBeStranded(player, abbrev, sq) {
				continue
			}
			if p.wouldBeInCheck(player, func(c *Position) {
				c.board[sq] = Placement{Abbrev: abbrev, Owner: player}
				c.addToHand(player, abbrev, -1)
			}) {
				continue
			}
			if p.catalogue.NoDropMate(abbrev) && p.dropDeliversCheckmate(abbrev, sq, player) {
				continue
			}
			squares = append(squares, sq)
		}
	}
	return squares
}

// hasLegalDropWithPiece reports whether player has at least one legal
// square to drop abbrev on, stopping at the first one found: the
// early-stopping counterpart to LegalDropsWithPiece used by
// HasAnyLegalAction.
func (p *Position) hasLegalDropWithPiece(player Color, abbrev piece.Abbrev) bool {
	abbrev = abbrev.Base()
	if p.HandCount(player, abbrev) <= 0 {
		return false
	}

	max, capped := p.catalogue.MaxPerFile(abbrev)

	for file := 1; file <= p.numFiles; file++ {
		if capped && p.countOnFile(player, abbrev, file) >= max {
			continue
		}
		for rank := 1; rank <= p.numRanks; rank++ {
			sq := Square{File: file, Rank: rank}
			if _, occupied := p.board[sq]; occupied {
				continue
			}
			if p.wouldBeStranded(player, abbrev, sq) {
				continue
			}
			if p.wouldBeInCheck(player, func(c *Position) {
				c.board[sq] = Placement{Abbrev: abbrev, Owner: player}
				c.addToHand(player, abbrev, -1)
			}) {
				continue
			}
			if p.catalogue.NoDropMate(abbrev) && p.dropDeliversCheckmate(abbrev, sq, player) {
				continue
			}
			return true
		}
	}
	return false
}

func (p *Position) countOnFile(player Color, abbrev piece.Abbrev, file int) int {
	n := 0
	for sq, pl := range p.board {
		if sq.File == file && pl.Owner == player && pl.Abbrev == abbrev {
			n++
		}
	}
	return n
}

// dropDeliversCheckmate reports whether dropping abbrev at sq would
// immediately checkmate the opponent, for pieces flagged no-drop-mate
// (e.g. the pawn, per the uchi-fu-zume rule).
func (p *Position) dropDeliversCheckmate(abbrev piece.Abbrev, sq Square, player Color) bool {
	c := p.Clone()
	c.board[sq] = Placement{Abbrev: abbrev, Owner: player}
	c.addToHand(player, abbrev, -1)
	c.sideToMove = player.Opponent()
	return c.IsInCheck(c.sideToMove) && !c.HasAnyLegalAction(c.sideToMove)
}

// HasAnyLegalAction reports whether player has at least one legal move
// or drop available. It stops at the first one found: move and drop
// generation are expressed as early-stopping walks (walkPseudoMovesFrom,
// hasLegalMoveFromSquare, hasLegalDropWithPiece) rather than fully
// materialized slices, per the laziness requirement that a "no legal
// move" test must be able to short-circuit on the very first candidate.
func (p *Position) HasAnyLegalAction(player Color) bool {
	if _, pending := p.pending.V(); pending {
		return false
	}

	for sq, pl := range p.board {
		if pl.Owner != player {
			continue
		}
		if p.hasLegalMoveFromSquare(sq) {
			return true
		}
	}
	for abbrev, n := range p.hands[player] {
		if n <= 0 {
			continue
		}
		if p.hasLegalDropWithPiece(player, abbrev) {
			return true
		}
	}
	return false
}

// Status is the local, single-position game state: it knows nothing of
// repetition or the try rule, which require history and live in
// pkg/game.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

// LocalStatus reports whether the side to move is checkmated, stalemated
// (has no legal action but is not in check), or the game continues.
func (p *Position) LocalStatus() Status {
	if p.HasAnyLegalAction(p.sideToMove) {
		return Ongoing
	}
	if p.IsInCheck(p.sideToMove) {
		return Checkmate
	}
	return Stalemate
}
