// kashogi-perft is a movegen debugging tool: it counts the legal move
// and drop sequences reachable from a position to a fixed depth. See:
// https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/agt-the-walker/kashogi/pkg/position"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(1, 0, 0)

var (
	depth  = flag.Int("depth", 3, "Search depth")
	sfen   = flag.String("sfen", "", "Start position (default to the board's starting SFEN)")
	board  = flag.String("board", "mini", "Board variant: mini (5x5) or standard (9x9)")
	divide = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	logw.Infof(ctx, "kashogi-perft %v", version)

	cat, start, err := variant(*board)
	if err != nil {
		logw.Exitf(ctx, "Invalid board %q: %v", *board, err)
	}
	if *sfen != "" {
		start = *sfen
	}

	pos, err := position.ParseSFEN(ctx, cat, start)
	if err != nil {
		logw.Exitf(ctx, "Invalid SFEN %q: %v", start, err)
	}

	for i := 1; i <= *depth; i++ {
		begin := time.Now()
		nodes := perft(ctx, pos, i, *divide && i == *depth)
		duration := time.Since(begin)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", start, i, nodes, duration.Microseconds()))
	}
}

// variant resolves a named board preset to a catalogue and starting
// SFEN; it carries no board-size parameter since Position derives its
// own dimensions from the SFEN text, so -sfen can load a board of any
// size regardless of which preset -board names.
func variant(name string) (*piece.Catalogue, string, error) {
	switch name {
	case "mini":
		cat, err := piece.MiniShogi()
		return cat, "rbsgk/4p/5/P4/KGSBR b -", err
	case "standard":
		cat, err := piece.StandardShogi()
		return cat, "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b -", err
	default:
		return nil, "", fmt.Errorf("unknown board variant %q", name)
	}
}

func perft(ctx context.Context, pos *position.Position, depth int, divide bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	mover := pos.SideToMove()

	for sq, pl := range pos.Occupants() {
		if pl.Owner != mover {
			continue
		}
		for _, mv := range pos.LegalMovesFromSquare(sq) {
			for _, next := range applyMove(ctx, pos, mv) {
				count := perft(ctx, next, depth-1, false)
				if divide {
					println(fmt.Sprintf("%v: %v", mv, count))
				}
				nodes += count
			}
		}
	}

	for _, abbrev := range pos.HandAbbrevs(mover) {
		for _, sq := range pos.LegalDropsWithPiece(abbrev) {
			next := pos.Clone()
			if err := next.Drop(ctx, abbrev, sq); err != nil {
				panic(err) // LegalDropsWithPiece only returns legal drops
			}
			count := perft(ctx, next, depth-1, false)
			if divide {
				println(fmt.Sprintf("%v: %v", position.Drop{Abbrev: abbrev, To: sq}, count))
			}
			nodes += count
		}
	}

	return nodes
}

// applyMove returns every distinct continuation mv produces: one, unless
// it offers an optional promotion, in which case both choices (queried
// up front via Promotions rather than discovered after the fact) are
// distinct positions to explore.
func applyMove(ctx context.Context, pos *position.Position, mv position.Move) []*position.Position {
	choices := pos.Promotions(mv.From, mv.To)
	if len(choices) == 0 {
		next := pos.Clone()
		if err := next.Move(ctx, mv.From, mv.To, position.PromoteUndecided); err != nil {
			panic(err) // LegalMovesFromSquare only returns legal moves
		}
		return []*position.Position{next}
	}

	out := make([]*position.Position, 0, len(choices))
	for _, promote := range choices {
		next := pos.Clone()
		if err := next.Move(ctx, mv.From, mv.To, position.Promote(promote)); err != nil {
			panic(err)
		}
		out = append(out, next)
	}
	return out
}
