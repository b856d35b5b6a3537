package position_test

import (
	"context"
	"testing"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/agt-the-walker/kashogi/pkg/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func miniCatalogue(t *testing.T) *piece.Catalogue {
	t.Helper()
	cat, err := piece.MiniShogi()
	require.NoError(t, err)
	return cat
}

func standardCatalogue(t *testing.T) *piece.Catalogue {
	t.Helper()
	cat, err := piece.StandardShogi()
	require.NoError(t, err)
	return cat
}

// Scenario 1 (spec.md §8): the 5x5 mini shogi starting position. Its
// dimensions are never supplied: they're derived from the SFEN itself.
func TestParseSFENMiniStart(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P4/KGSBR b -")
	require.NoError(t, err)

	assert.Equal(t, 5, p.NumFiles())
	assert.Equal(t, 5, p.NumRanks())
	assert.Equal(t, position.Player0, p.SideToMove())

	pl, ok := p.Piece(position.NewSquare(1, 5))
	require.True(t, ok)
	assert.Equal(t, piece.Abbrev("K"), pl.Abbrev)
	assert.Equal(t, position.Player0, pl.Owner)

	pl, ok = p.Piece(position.NewSquare(5, 1))
	require.True(t, ok)
	assert.Equal(t, piece.Abbrev("K"), pl.Abbrev)
	assert.Equal(t, position.Player1, pl.Owner)

	assert.Equal(t, "rbsgk/4p/5/P4/KGSBR b -", p.SFEN())
}

// A 6x4 board derives num_files=6 purely from the widest rank and
// num_ranks=4 from the rank count, with no caller-supplied dimension at all.
func TestParseSFENDerivesDimensions(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "k5/6/6/5K b -")
	require.NoError(t, err)
	assert.Equal(t, 6, p.NumFiles())
	assert.Equal(t, 4, p.NumRanks())
}

func TestParseSFENTooFewRanks(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "rbsgk/4p b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too few ranks: 2 < 3")
}

func TestParseSFENTooFewFiles(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "k1/2/1K b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too few files: 2 < 3")
}

func TestParseSFENWrongFileCount(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P3/KGSBR b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong file count")
}

func TestParseSFENNifu(t *testing.T) {
	cat := miniCatalogue(t)
	// Two unpromoted black pawns on file 1.
	_, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/P4/P4/KGSBR b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many P for black on file 1")
}

func TestParseSFENStrandedPawn(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "rbsgP/4p/5/4P/KGSBR b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "furthest rank")
}

// Grounded on original_source/test_position.py::test_too_many_royals.
func TestParseSFENTooManyRoyals(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "k1k/3/2K b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many royal pieces for white")
}

func TestParseSFENRejectsOpponentInCheck(t *testing.T) {
	cat := miniCatalogue(t)
	// Black to move, but white's king already stands in the black rook's
	// line of fire: a position that can only arise if it was white's own
	// last move that walked into check, which is illegal.
	_, err := position.ParseSFEN(ctx, cat, "4k/5/5/5/4R b -")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in check")
}

func TestParseSFENRejectsRoyalInHand(t *testing.T) {
	cat := miniCatalogue(t)
	_, err := position.ParseSFEN(ctx, cat, "5/5/5/5/5 b K")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "royal")
}

func TestHandRoundTrip(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/5/5/5/4K b 2Pb")
	require.NoError(t, err)
	assert.Equal(t, 2, p.HandCount(position.Player0, "P"))
	assert.Equal(t, 1, p.HandCount(position.Player1, "B"))
	assert.Equal(t, "4k/5/5/5/4K b 2Pb", p.SFEN())
}

// spec.md §6: standard shogi pieces emit R, B, G, S, N, L, P first in
// that order, regardless of the order they were read off the SFEN.
func TestHandAbbrevsStandardOrder(t *testing.T) {
	cat := standardCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/5/5/5/4K b PLNSGBR")
	require.NoError(t, err)

	assert.Equal(t, []piece.Abbrev{"R", "B", "G", "S", "N", "L", "P"}, p.HandAbbrevs(position.Player0))
	assert.Equal(t, "4k/5/5/5/4K b RBGSNLP", p.SFEN())
}

func TestMoveUpdatesBoardAndTurn(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P4/KGSBR b -")
	require.NoError(t, err)

	require.NoError(t, p.Move(ctx, position.NewSquare(1, 4), position.NewSquare(1, 3), position.PromoteUndecided))
	assert.Equal(t, position.Player1, p.SideToMove())

	_, ok := p.Piece(position.NewSquare(1, 4))
	assert.False(t, ok)
	pl, ok := p.Piece(position.NewSquare(1, 3))
	require.True(t, ok)
	assert.Equal(t, piece.Abbrev("P"), pl.Abbrev)
}

func TestMoveRejectsIllegalDestination(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P4/KGSBR b -")
	require.NoError(t, err)

	err = p.Move(ctx, position.NewSquare(1, 4), position.NewSquare(1, 1), position.PromoteUndecided)
	require.Error(t, err)
}

func TestDeferredPromotionChoice(t *testing.T) {
	cat := miniCatalogue(t)
	// Black rook one step from the back rank; entering the zone offers,
	// but does not force, promotion (a rook is never stranded).
	p, err := position.ParseSFEN(ctx, cat, "4k/R4/5/5/4K b -")
	require.NoError(t, err)

	choices := p.Promotions(position.NewSquare(5, 2), position.NewSquare(5, 1))
	assert.ElementsMatch(t, []bool{true, false}, choices)

	require.NoError(t, p.Move(ctx, position.NewSquare(5, 2), position.NewSquare(5, 1), position.PromoteUndecided))
	_, pending := p.PendingPromotion()
	assert.True(t, pending)
	assert.Equal(t, position.Player0, p.SideToMove())

	require.NoError(t, p.ChoosePromotion(ctx, true))
	assert.Equal(t, position.Player1, p.SideToMove())
	pl, ok := p.Piece(position.NewSquare(5, 1))
	require.True(t, ok)
	assert.True(t, pl.Abbrev.IsPromoted())
}

// A caller that already knows it wants to promote may say so inline,
// without the two-call ChoosePromotion dance.
func TestMoveWithInlinePromotionChoice(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/R4/5/5/4K b -")
	require.NoError(t, err)

	require.NoError(t, p.Move(ctx, position.NewSquare(5, 2), position.NewSquare(5, 1), position.Promote(true)))
	_, pending := p.PendingPromotion()
	assert.False(t, pending)
	assert.Equal(t, position.Player1, p.SideToMove())

	pl, ok := p.Piece(position.NewSquare(5, 1))
	require.True(t, ok)
	assert.True(t, pl.Abbrev.IsPromoted())
}

func TestMoveRejectsPromotionChoiceWhenNotOffered(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P4/KGSBR b -")
	require.NoError(t, err)

	err = p.Move(ctx, position.NewSquare(1, 4), position.NewSquare(1, 3), position.Promote(true))
	require.Error(t, err)
}

func TestMandatoryPromotionOnLastRank(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/P4/5/5/4K b -")
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, p.Promotions(position.NewSquare(1, 2), position.NewSquare(1, 1)))

	require.NoError(t, p.Move(ctx, position.NewSquare(1, 2), position.NewSquare(1, 1), position.PromoteUndecided))
	_, pending := p.PendingPromotion()
	assert.False(t, pending)
	assert.Equal(t, position.Player1, p.SideToMove())

	pl, ok := p.Piece(position.NewSquare(1, 1))
	require.True(t, ok)
	assert.Equal(t, piece.Abbrev("+P"), pl.Abbrev)
}

// The domination test: a silver one step from the back rank can still
// retreat diagonally if left unpromoted, so promotion is legal but not
// preferred ([false, true]); a pawn with no such retreat has its single
// forward step dominated by the gold-equivalent promoted form, so
// promotion is preferred ([true, false]). Only the silver case is
// checked here.
func TestPromotionsDominationOrder(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/1S3/5/5/4K b -")
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, p.Promotions(position.NewSquare(2, 2), position.NewSquare(2, 1)))
}

// Scenario 3 (spec.md §8): uchi-fu-zume. The white king is cornered at
// (5,1): black's silver covers (4,1), gold covers (4,2), and bishop
// defends (5,2) from a distance, so a pawn dropped at (5,2) would both
// check the king and leave it no escape, recapture, or block. That drop
// must be excluded even though the square is otherwise free to drop on.
func TestNoDropMate(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "4k/2S2/2G2/2B2/5 b P")
	require.NoError(t, err)

	drops := p.LegalDropsWithPiece("P")
	for _, sq := range drops {
		assert.NotEqual(t, position.NewSquare(5, 2), sq, "dropping mate with a pawn must be illegal")
	}
}

func TestIsInCheck(t *testing.T) {
	cat := miniCatalogue(t)

	// White to move with its own king in check is a legal position (it's
	// only ever illegal for the side NOT to move to be in check).
	aligned, err := position.ParseSFEN(ctx, cat, "4k/5/5/5/4R w -")
	require.NoError(t, err)
	assert.True(t, aligned.IsInCheck(position.Player1))

	notAligned, err := position.ParseSFEN(ctx, cat, "4k/5/5/5/R4 b -")
	require.NoError(t, err)
	assert.False(t, notAligned.IsInCheck(position.Player1))
}

// HasAnyLegalAction must short-circuit on the first legal action found
// rather than generate every move and drop; a position with very many
// legal options still returns promptly and correctly reports "true".
func TestHasAnyLegalActionStopsEarly(t *testing.T) {
	cat := miniCatalogue(t)
	p, err := position.ParseSFEN(ctx, cat, "rbsgk/4p/5/P4/KGSBR b -")
	require.NoError(t, err)
	assert.True(t, p.HasAnyLegalAction(position.Player0))
}
