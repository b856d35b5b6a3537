package position

import (
	"context"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Promote and PromoteUndecided build the promotes argument Move takes:
// Promote(true)/Promote(false) supply an explicit choice in the same
// call as the move, and PromoteUndecided defers it to a later
// ChoosePromotion call (the only legal choice when the move doesn't
// offer a promotion at all).
func Promote(promote bool) lang.Optional[bool] { return lang.Some(promote) }

var PromoteUndecided = lang.Optional[bool]{}

// Move relocates the piece on from to to, capturing whatever stood on to
// into the mover's hand. promotes selects how an optional promotion is
// resolved: PromoteUndecided defers it (the position is left awaiting a
// ChoosePromotion call and the turn does not pass), Promote(true) or
// Promote(false) resolves it immediately in this same call. A mandatory
// promotion (per Promotions returning [true]) is applied immediately
// when promotes is PromoteUndecided or Promote(true); Promote(false) is
// rejected for it. Supplying Promote(true/false) for a move that offers
// no promotion at all is an error.
func (p *Position) Move(ctx context.Context, from, to Square, promotes lang.Optional[bool]) error {
	if _, pending := p.pending.V(); pending {
		return &MoveError{Msg: "a promotion decision is pending"}
	}

	pl, ok := p.board[from]
	if !ok {
		return &MoveError{Msg: from.String() + " is empty"}
	}
	if pl.Owner != p.sideToMove {
		return &MoveError{Msg: from.String() + " is not " + p.sideToMove.String() + "'s piece"}
	}

	legal := false
	for _, m := range p.LegalMovesFromSquare(from) {
		if m.To == to {
			legal = true
			break
		}
	}
	if !legal {
		return &MoveError{Msg: Move{From: from, To: to}.String() + " is not a legal move"}
	}

	choices := p.promotions(pl.Owner, pl.Abbrev, from, to)
	if choice, decided := promotes.V(); decided && !containsBool(choices, choice) {
		return &MoveError{Msg: Move{From: from, To: to}.String() + " does not offer that promotion choice"}
	}

	p.applyRelocation(from, to, pl)

	switch {
	case len(choices) == 1:
		p.promoteAt(to, pl)
		p.sideToMove = p.sideToMove.Opponent()
	case len(choices) == 2:
		if choice, decided := promotes.V(); decided {
			if choice {
				p.promoteAt(to, pl)
			}
			p.sideToMove = p.sideToMove.Opponent()
		} else {
			p.pending = lang.Some(pendingMove{From: from, To: to})
		}
	default:
		p.sideToMove = p.sideToMove.Opponent()
	}

	logw.Debugf(ctx, "move: %v", Move{From: from, To: to})
	return nil
}

// containsBool reports whether v appears in choices.
func containsBool(choices []bool, v bool) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

// promoteAt replaces the piece standing on to (which must still be pl's
// unpromoted abbreviation) with its promoted form.
func (p *Position) promoteAt(to Square, pl Placement) {
	promoted, _ := p.catalogue.Promoted(pl.Abbrev.Base())
	p.board[to] = Placement{Abbrev: promoted, Owner: pl.Owner}
}

// ChoosePromotion resolves a pending optional promotion left by Move,
// then passes the turn.
func (p *Position) ChoosePromotion(ctx context.Context, promote bool) error {
	pm, ok := p.pending.V()
	if !ok {
		return &MoveError{Msg: "no promotion decision is pending"}
	}

	if promote {
		p.promoteAt(pm.To, p.board[pm.To])
	}

	p.pending = lang.Optional[pendingMove]{}
	p.sideToMove = p.sideToMove.Opponent()
	logw.Debugf(ctx, "choose promotion: %v -> %v", Move{From: pm.From, To: pm.To}, promote)
	return nil
}

// Drop places abbrev (an unpromoted piece the side to move holds in
// hand) on to, then passes the turn. Drops never promote.
func (p *Position) Drop(ctx context.Context, abbrev piece.Abbrev, to Square) error {
	if _, pending := p.pending.V(); pending {
		return &MoveError{Msg: "a promotion decision is pending"}
	}

	abbrev = abbrev.Base()
	player := p.sideToMove

	legal := false
	for _, sq := range p.LegalDropsWithPiece(abbrev) {
		if sq == to {
			legal = true
			break
		}
	}
	if !legal {
		return &MoveError{Msg: Drop{Abbrev: abbrev, To: to}.String() + " is not a legal drop"}
	}

	p.board[to] = Placement{Abbrev: abbrev, Owner: player}
	p.addToHand(player, abbrev, -1)
	p.sideToMove = player.Opponent()
	logw.Debugf(ctx, "drop: %v", Drop{Abbrev: abbrev, To: to})
	return nil
}
