// kashogi-play is a console driver for playing out a game by hand: type
// moves, drops and promotion choices, see the board after each one.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/agt-the-walker/kashogi/pkg/game"
	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/agt-the-walker/kashogi/pkg/position"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(1, 0, 0)

var (
	board   = flag.String("board", "mini", "Board variant: mini (5x5) or standard (9x9)")
	sfen    = flag.String("sfen", "", "Start position (default to the board's starting SFEN)")
	tryRule = flag.Bool("try-rule", true, "Enable the optional try rule (win by marching the royal onto the opponent's home square)")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	cat, start, err := variant(*board)
	if err != nil {
		logw.Exitf(ctx, "Invalid board %q: %v", *board, err)
	}
	if *sfen != "" {
		start = *sfen
	}

	g, err := game.New(ctx, cat, start, *tryRule)
	if err != nil {
		logw.Exitf(ctx, "Invalid SFEN %q: %v", start, err)
	}

	logw.Infof(ctx, "kashogi-play %v: board=%v files=%v ranks=%v tryRule=%v", version, *board, g.NumFiles(), g.NumRanks(), *tryRule)
	printBoard(g)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		logw.Debugf(ctx, "<< %v", line)
		if line == "" {
			continue
		}

		if err := dispatch(ctx, g, line); err != nil {
			fmt.Println("error:", err)
			continue
		}
		printBoard(g)

		if outcome, reason := g.Result(); outcome != game.Ongoing {
			fmt.Printf("game over: %v (%v)\n", outcome, reason)
			return
		}
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

// dispatch parses and applies one command line:
//
//	move <from> <to> [y|n]   e.g. "move 5b 5a" or "move 3d 3c y"
//	drop <abbrev> <to>       e.g. "drop P 3c"
//	promote <y|n>
//	sfen                     prints the current SFEN
//
// move's optional third argument supplies the promotion choice inline,
// for a caller that already knows the answer; without it, a promotion
// offered but not forced is left pending for a follow-up promote call.
func dispatch(ctx context.Context, g *game.Game, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "move":
		if len(fields) != 3 && len(fields) != 4 {
			return fmt.Errorf("usage: move <from> <to> [y|n]")
		}
		from, err := parseSquare(fields[1])
		if err != nil {
			return err
		}
		to, err := parseSquare(fields[2])
		if err != nil {
			return err
		}
		promotes := position.PromoteUndecided
		if len(fields) == 4 {
			switch fields[3] {
			case "y":
				promotes = position.Promote(true)
			case "n":
				promotes = position.Promote(false)
			default:
				return fmt.Errorf("usage: move <from> <to> [y|n]")
			}
		}
		return g.Move(ctx, from, to, promotes)

	case "drop":
		if len(fields) != 3 {
			return fmt.Errorf("usage: drop <abbrev> <to>")
		}
		to, err := parseSquare(fields[2])
		if err != nil {
			return err
		}
		return g.Drop(ctx, piece.Abbrev(strings.ToUpper(fields[1])), to)

	case "promote":
		if len(fields) != 2 {
			return fmt.Errorf("usage: promote <y|n>")
		}
		return g.ChoosePromotion(ctx, fields[1] == "y")

	case "sfen":
		fmt.Println(g.SFEN())
		return nil

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

// parseSquare reads the "<file><rank>" notation position.Square.String
// produces, e.g. "5b" for file 5, rank 2.
func parseSquare(s string) (position.Square, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return position.Square{}, fmt.Errorf("invalid square %q", s)
	}
	file, err := strconv.Atoi(s[:i])
	if err != nil {
		return position.Square{}, fmt.Errorf("invalid square %q", s)
	}

	// The rank label is a run of one repeated letter (a, b, ..., z, aa,
	// bb, ..., zz, aaa, ...), the inverse of position.RankLabel.
	letters := s[i:]
	for _, c := range letters {
		if byte(c) != letters[0] || c < 'a' || c > 'z' {
			return position.Square{}, fmt.Errorf("invalid square %q", s)
		}
	}
	rank := int(letters[0]-'a') + (len(letters)-1)*26 + 1
	return position.Square{File: file, Rank: rank}, nil
}

func printBoard(g *game.Game) {
	numFiles, numRanks := g.NumFiles(), g.NumRanks()
	for r := 1; r <= numRanks; r++ {
		var row strings.Builder
		for f := 1; f <= numFiles; f++ {
			pl, ok := g.Piece(position.Square{File: f, Rank: r})
			if !ok {
				row.WriteString(" .")
				continue
			}
			letter := string(pl.Abbrev)
			if pl.Owner == position.Player1 {
				letter = strings.ToLower(letter)
			}
			row.WriteString(" " + letter)
		}
		fmt.Println(row.String())
	}
	fmt.Println(g.SFEN())
}
