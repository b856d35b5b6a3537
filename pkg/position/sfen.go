package position

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"github.com/seekerror/logw"
)

// rankToken is one piece token or run of empty squares found while
// tokenizing a rank, in left-to-right (file 1 first) order. Empty is
// the run length for an empty-square token and zero for a piece token.
type rankToken struct {
	empty  int
	abbrev piece.Abbrev
	owner  Color
}

// ParseSFEN decodes an SFEN string ("<board> <side> <hands>") against
// cat. Board dimensions are never supplied by the caller: num_ranks is
// the count of '/'-separated rank fields, and num_files is fixed by the
// widest rank, before any file coordinate is assigned. A piece token is
// an optional '+' (promoted), one letter (uppercase for player 0,
// lowercase for player 1), and optionally either a trailing quote or a
// second letter of the same case immediately followed by '@' (two-letter
// abbreviations). The side field is "b" or "w". The hands field is "-"
// or a run of optional digit counts (default 1) and piece tokens (never
// promoted, never a royal piece).
func ParseSFEN(ctx context.Context, cat *piece.Catalogue, sfen string) (*Position, error) {
	fields := strings.Fields(sfen)
	if len(fields) != 3 {
		return nil, &PositionError{Msg: "invalid SFEN: expected 3 space-separated fields"}
	}
	boardField, sideField, handsField := fields[0], fields[1], fields[2]

	rankFields := strings.Split(boardField, "/")
	numRanks := len(rankFields)
	if numRanks < MinBoardSize {
		return nil, &PositionError{Msg: fmt.Sprintf("too few ranks: %d < %d", numRanks, MinBoardSize)}
	}

	// Pass 1: tokenize every rank and fix num_files as the widest rank,
	// without assigning any file coordinate yet. Royal counts are also
	// tallied here since they don't depend on file assignment.
	tokenized := make([][]rankToken, numRanks)
	numFiles := 0
	var numRoyals [NumPlayers]int
	for ri, rank := range rankFields {
		tokens, width, err := tokenizeRank(cat, rank)
		if err != nil {
			return nil, &PositionError{Msg: fmt.Sprintf("rank %d: %v", ri+1, err)}
		}
		tokenized[ri] = tokens
		if width > numFiles {
			numFiles = width
		}
		for _, t := range tokens {
			if t.empty > 0 {
				continue
			}
			if cat.IsRoyal(t.abbrev) {
				numRoyals[t.owner]++
				if numRoyals[t.owner] > 1 {
					return nil, &PositionError{Msg: fmt.Sprintf("too many royal pieces for %v", ownerName(t.owner))}
				}
			}
		}
	}
	if numFiles < MinBoardSize {
		return nil, &PositionError{Msg: fmt.Sprintf("too few files: %d < %d", numFiles, MinBoardSize)}
	}

	// Pass 2: now that num_files is fixed, assign real coordinates and
	// run the checks that depend on them.
	p := New(cat, numFiles, numRanks)
	perFileCount := map[fileKey]int{}

	for ri, tokens := range tokenized {
		r := ri + 1
		file := 1
		for _, t := range tokens {
			if t.empty > 0 {
				file += t.empty
				continue
			}
			sq := Square{File: file, Rank: r}

			if !t.abbrev.IsPromoted() {
				if nthFurthestRank(t.owner, r, numRanks) <= cat.NumRestrictedFurthestRanks(t.abbrev) {
					return nil, &PositionError{Msg: fmt.Sprintf("%v for %v found on %s furthest rank", t.abbrev, ownerName(t.owner), ordinal(nthFurthestRank(t.owner, r, numRanks)))}
				}
				if max, capped := cat.MaxPerFile(t.abbrev); capped {
					key := fileKey{t.owner, t.abbrev, file}
					perFileCount[key]++
					if perFileCount[key] > max {
						return nil, &PositionError{Msg: fmt.Sprintf("too many %v for %v on file %d", t.abbrev, ownerName(t.owner), file)}
					}
				}
			}

			p.board[sq] = Placement{Abbrev: t.abbrev, Owner: t.owner}
			file++
		}
		if file-1 != numFiles {
			return nil, &PositionError{Msg: fmt.Sprintf("rank %d: wrong file count: %d != %d", r, file-1, numFiles)}
		}
	}

	switch sideField {
	case "b":
		p.sideToMove = Player0
	case "w":
		p.sideToMove = Player1
	default:
		return nil, &PositionError{Msg: fmt.Sprintf("invalid side to move %q", sideField)}
	}

	if handsField != "-" {
		i := 0
		for i < len(handsField) {
			count := 1
			if c := handsField[i]; c >= '0' && c <= '9' {
				j := i
				for j < len(handsField) && handsField[j] >= '0' && handsField[j] <= '9' {
					j++
				}
				n, _ := strconv.Atoi(handsField[i:j])
				count = n
				i = j
			}
			abbrev, owner, next, err := parsePieceToken(handsField, i, false)
			if err != nil {
				return nil, &PositionError{Msg: fmt.Sprintf("hands: %v", err)}
			}
			i = next
			if !cat.Exist(abbrev) {
				return nil, &PositionError{Msg: fmt.Sprintf("hands: unknown abbreviation %q", abbrev)}
			}
			if cat.IsRoyal(abbrev) {
				return nil, &PositionError{Msg: fmt.Sprintf("hands: %v is a royal piece and cannot be held", abbrev)}
			}
			p.addToHand(owner, abbrev, count)
		}
	}

	if opponent := p.sideToMove.Opponent(); p.IsInCheck(opponent) {
		return nil, &PositionError{Msg: fmt.Sprintf("%v is in check but it is %v's turn", ownerName(opponent), ownerName(p.sideToMove))}
	}

	logw.Debugf(ctx, "parsed position: %dx%d board, side to move=%v", numFiles, numRanks, p.sideToMove)
	return p, nil
}

type fileKey struct {
	owner  Color
	abbrev piece.Abbrev
	file   int
}

// tokenizeRank scans one '/'-separated board rank into a left-to-right
// sequence of empty-square runs and piece tokens, and returns its total
// width in files. It resolves abbreviations against cat (for Exist and
// IsRoyal) but assigns no file coordinates, since num_files is not yet
// known when this runs.
func tokenizeRank(cat *piece.Catalogue, rank string) ([]rankToken, int, error) {
	var tokens []rankToken
	width := 0
	i := 0
	for i < len(rank) {
		c := rank[i]
		if c >= '0' && c <= '9' {
			j := i
			for j < len(rank) && rank[j] >= '0' && rank[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(rank[i:j])
			tokens = append(tokens, rankToken{empty: n})
			width += n
			i = j
			continue
		}

		abbrev, owner, next, err := parsePieceToken(rank, i, true)
		if err != nil {
			return nil, 0, err
		}
		i = next

		if !cat.Exist(abbrev) {
			return nil, 0, fmt.Errorf("unknown abbreviation %q", abbrev)
		}
		tokens = append(tokens, rankToken{abbrev: abbrev, owner: owner})
		width++
	}
	return tokens, width, nil
}

// parsePieceToken reads one piece token starting at s[i]: an optional
// '+' (only when allowPromoted), a letter, and optionally a trailing
// quote or a second same-case letter immediately followed by '@'.
func parsePieceToken(s string, i int, allowPromoted bool) (abbrev piece.Abbrev, owner Color, next int, err error) {
	n := len(s)
	promoted := false
	if i < n && s[i] == '+' {
		if !allowPromoted {
			return "", 0, i, fmt.Errorf("unexpected '+' at position %d", i)
		}
		promoted = true
		i++
	}
	if i >= n || !isASCIILetter(s[i]) {
		return "", 0, i, fmt.Errorf("expected a piece letter at position %d", i)
	}
	c := s[i]
	owner = Player0
	if c >= 'a' && c <= 'z' {
		owner = Player1
	}
	letters := string(c)
	i++

	switch {
	case i < n && s[i] == '\'':
		letters += "'"
		i++
	case i+1 < n && isASCIILetter(s[i]) && (s[i] >= 'a') == (c >= 'a') && s[i+1] == '@':
		letters += string(s[i])
		i += 2
	}

	abbrev = piece.Abbrev(strings.ToUpper(letters))
	if promoted {
		abbrev = "+" + abbrev
	}
	return abbrev, owner, i, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func ownerName(c Color) string {
	if c == Player0 {
		return "black"
	}
	return "white"
}

func ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// SFEN renders p back into the "<board> <side> <hands>" grammar ParseSFEN
// accepts.
func (p *Position) SFEN() string {
	var ranks []string
	for r := 1; r <= p.numRanks; r++ {
		var sb strings.Builder
		empty := 0
		for f := 1; f <= p.numFiles; f++ {
			pl, ok := p.board[Square{File: f, Rank: r}]
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(renderPieceToken(pl))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		ranks = append(ranks, sb.String())
	}

	var hands strings.Builder
	for player := Color(0); player < NumPlayers; player++ {
		for _, abbrev := range p.HandAbbrevs(player) {
			n := p.HandCount(player, abbrev)
			if n > 1 {
				hands.WriteString(strconv.Itoa(n))
			}
			hands.WriteString(renderPieceToken(Placement{Abbrev: abbrev, Owner: player}))
		}
	}
	handsField := hands.String()
	if handsField == "" {
		handsField = "-"
	}

	return fmt.Sprintf("%s %s %s", strings.Join(ranks, "/"), p.sideToMove, handsField)
}

func renderPieceToken(pl Placement) string {
	letters := string(pl.Abbrev.Base())
	var sb strings.Builder
	if pl.Abbrev.IsPromoted() {
		sb.WriteString("+")
	}
	if pl.Owner == Player0 {
		sb.WriteString(letters)
	} else {
		sb.WriteString(strings.ToLower(letters))
	}
	if len(letters) == 2 && !strings.HasSuffix(letters, "'") {
		sb.WriteString("@")
	}
	return sb.String()
}
