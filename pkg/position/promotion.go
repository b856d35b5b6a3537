package position

import (
	"github.com/agt-the-walker/kashogi/pkg/betza"
	"github.com/agt-the-walker/kashogi/pkg/piece"
)

// canOfferPromotion reports whether a piece moving from->to is even
// eligible to promote: it must have a promoted form and either start or
// end the move inside the promotion zone.
func (p *Position) canOfferPromotion(player Color, abbrev piece.Abbrev, from, to Square) bool {
	base := abbrev.Base()
	if abbrev.IsPromoted() || !p.catalogue.CanPromote(base) {
		return false
	}
	return p.isInPromotionZone(player, from) || p.isInPromotionZone(player, to)
}

// mustPromote reports whether promotion is mandatory: the piece is
// eligible (per canOfferPromotion) and would otherwise be stranded at to.
func (p *Position) mustPromote(player Color, abbrev piece.Abbrev, from, to Square) bool {
	return p.canOfferPromotion(player, abbrev, from, to) && p.wouldBeStranded(player, abbrev.Base(), to)
}

// restrictedDirections returns abbrev's own direction set as seen from
// sq, restricted to the vectors it can actually still use given the
// ranks physically remaining ahead of sq before its own far edge. A
// piece that can retreat is never truly boxed in by this (it can always
// fall back and come forward again later), so its full direction set is
// used unrestricted; a piece that cannot retreat loses any direction
// whose forward component overruns the board.
func (p *Position) restrictedDirections(player Color, abbrev piece.Abbrev, sq Square) map[betza.Vector]int {
	full := p.catalogue.Directions(abbrev)
	if p.catalogue.CanRetreat(abbrev) {
		return full
	}

	ahead := nthFurthestRank(player, sq.Rank, p.numRanks) - 1
	restricted := make(map[betza.Vector]int, len(full))
	for vec, rng := range full {
		if vec.DY > ahead {
			continue
		}
		restricted[vec] = rng
	}
	return restricted
}

// rangeAtLeast reports whether range a is at least as generous as b:
// unlimited beats any finite range, and otherwise the larger (or equal)
// numeric range wins.
func rangeAtLeast(a, b int) bool {
	if a == betza.Unlimited {
		return true
	}
	if b == betza.Unlimited {
		return false
	}
	return a >= b
}

// promotionDominates is the domination test: it reports whether every
// direction left in restricted is also available to promoted, with
// equal or greater range. Promotion is preferred exactly when the
// promoted form can do everything the unpromoted form's remaining useful
// directions can, and at least as well.
func promotionDominates(restricted, promoted map[betza.Vector]int) bool {
	for vec, rng := range restricted {
		prng, ok := promoted[vec]
		if !ok || !rangeAtLeast(prng, rng) {
			return false
		}
	}
	return true
}

// promotions is the ordered-choice computation behind Promotions, keyed
// on the piece identity rather than a board lookup so Move can reuse it
// after the piece has already been relocated.
func (p *Position) promotions(player Color, abbrev piece.Abbrev, from, to Square) []bool {
	if !p.canOfferPromotion(player, abbrev, from, to) {
		return nil
	}
	if p.wouldBeStranded(player, abbrev.Base(), to) {
		return []bool{true}
	}

	restricted := p.restrictedDirections(player, abbrev.Base(), to)
	promotedAbbrev, _ := p.catalogue.Promoted(abbrev.Base())
	promoted := p.catalogue.Directions(promotedAbbrev)

	if promotionDominates(restricted, promoted) {
		return []bool{true, false}
	}
	return []bool{false, true}
}

// Promotions returns the ordered legal promotion choices for a
// hypothetical move from->to, looked up from the (still unmoved) piece
// standing on from: nil if the move doesn't offer a promotion at all,
// [true] if promotion is mandatory, or a two-element slice whose first
// element is the preferred choice ([true, false] if promoting dominates,
// [false, true] otherwise). It is a pure query: it neither mutates p nor
// requires the move to have been applied.
func (p *Position) Promotions(from, to Square) []bool {
	pl, ok := p.board[from]
	if !ok {
		return nil
	}
	return p.promotions(pl.Owner, pl.Abbrev, from, to)
}
