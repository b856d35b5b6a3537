package position

// walkAttacksOn invokes visit(from) for every occupied square owned by
// attacker from which a piece could reach target, respecting blocking
// along sliding directions. visit returning true stops the walk early.
func (p *Position) walkAttacksOn(target Square, attacker Color, visit func(from Square) bool) {
	for sq, pl := range p.board {
		if pl.Owner != attacker {
			continue
		}
		movement := p.catalogue.Movement(pl.Abbrev)
		for vec, rng := range movement.Directions {
			deltaFile, deltaRank := oriented(attacker, vec.DX, vec.DY)
			for step := 1; rng == 0 || step <= rng; step++ {
				cur := Square{File: sq.File + deltaFile*step, Rank: sq.Rank + deltaRank*step}
				if !p.InBounds(cur) {
					break
				}
				if cur == target {
					if visit(sq) {
						return
					}
					break
				}
				if _, occupied := p.board[cur]; occupied {
					break
				}
			}
		}
	}
}

// IsAttacked reports whether attacker has a piece that could move to sq
// in one step, given the current board.
func (p *Position) IsAttacked(sq Square, attacker Color) bool {
	attacked := false
	p.walkAttacksOn(sq, attacker, func(Square) bool {
		attacked = true
		return true
	})
	return attacked
}

// Attackers returns every square from which attacker could reach target
// in one step.
func (p *Position) Attackers(target Square, attacker Color) []Square {
	var ret []Square
	p.walkAttacksOn(target, attacker, func(from Square) bool {
		ret = append(ret, from)
		return false
	})
	return ret
}

// IsInCheck reports whether player's royal piece is currently attacked.
// A player with no royal piece on the board (it has none in its
// catalogue, or it has already left the board) is never in check.
func (p *Position) IsInCheck(player Color) bool {
	sq, ok := p.royalSquare(player)
	if !ok {
		return false
	}
	return p.IsAttacked(sq, player.Opponent())
}

// wouldBeInCheck reports whether player would be in check after running
// apply on a scratch clone of p. It never mutates p.
func (p *Position) wouldBeInCheck(player Color, apply func(c *Position)) bool {
	c := p.Clone()
	apply(c)
	return c.IsInCheck(player)
}
