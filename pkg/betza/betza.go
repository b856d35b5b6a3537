// Package betza decodes Betza-style movement notation into a set of
// directional vectors with per-vector range, including the
// left/right-asymmetrical restrictions used by variants such as Tori
// shogi (quails, the flying cock).
package betza

import (
	"fmt"
	"regexp"
)

// NotationError reports a malformed or unrecognized Betza notation string.
type NotationError struct {
	Notation string
	Msg      string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("betza: %q: %v", e.Notation, e.Msg)
}

// Vector is a single (dx,dy) direction in the piece owner's own frame:
// positive dy is "forward" (toward the opponent).
type Vector struct {
	DX, DY int
}

// Unlimited is the range value denoting an unbounded slide (rider).
const Unlimited = 0

// Movement is the decoded direction set of a piece, along with the
// bounding deltas used to answer shape predicates cheaply.
type Movement struct {
	Directions map[Vector]int // (dx,dy) -> range; 0 == unlimited

	MinDX, MaxDX int
	MinDY, MaxDY int
}

// IsRider reports whether the piece has at least one sliding (unbounded
// or multi-step) direction.
func (m *Movement) IsRider() bool {
	for _, rng := range m.Directions {
		if rng == Unlimited || rng > 1 {
			return true
		}
	}
	return false
}

// CanAdvance reports whether the piece has any forward-pointing direction.
func (m *Movement) CanAdvance() bool {
	return m.MaxDY > 0
}

// CanRetreat reports whether the piece has any backward-pointing direction.
func (m *Movement) CanRetreat() bool {
	return m.MinDY < 0
}

// CanChangeFile reports whether the piece can move sideways at all.
func (m *Movement) CanChangeFile() bool {
	return m.MinDX < 0 || m.MaxDX > 0
}

// NumRestrictedFurthestRanks is the count of furthest ranks, counted from
// the piece's own far edge, on which the piece would have no legal move.
// A pawn (fW) returns 1: dropped or left on the furthest rank, it could
// never move again.
func (m *Movement) NumRestrictedFurthestRanks() int {
	if m.MinDY > 0 {
		return m.MinDY
	}
	return 0
}

var tokenRe = regexp.MustCompile(`([a-z]*)([A-Z])([0-9]*)`)

// Parse decodes a Betza notation string into a Movement.
func Parse(notation string) (*Movement, error) {
	matches := tokenRe.FindAllStringSubmatch(notation, -1)

	var found bool
	for _, g := range matches {
		if g[2] != "" {
			found = true
			break
		}
	}
	if !found {
		return nil, &NotationError{Notation: notation, Msg: "no token found"}
	}

	m := &Movement{Directions: map[Vector]int{}}
	for _, g := range matches {
		modifiers, letter, rangeStr := g[1], g[2], g[3]
		if letter == "" {
			continue
		}
		if err := m.parseToken(modifiers, letter[0], rangeStr); err != nil {
			return nil, &NotationError{Notation: notation, Msg: err.Error()}
		}
	}
	return m, nil
}

func (m *Movement) parseToken(modifiers string, letter byte, rangeStr string) error {
	var rng int
	switch {
	case rangeStr != "":
		for _, r := range rangeStr {
			rng = rng*10 + int(r-'0')
		}
	case letter == 'B' || letter == 'Q' || letter == 'R':
		rng = Unlimited
	default:
		rng = 1
	}

	switch letter {
	case 'A':
		m.addMovement(2, 2, modifiers, rng)
	case 'B', 'F':
		m.addMovement(1, 1, modifiers, rng)
	case 'C':
		m.addMovement(1, 3, modifiers, rng)
	case 'D':
		m.addMovement(0, 2, modifiers, rng)
	case 'G':
		m.addMovement(3, 3, modifiers, rng)
	case 'H':
		m.addMovement(0, 3, modifiers, rng)
	case 'K', 'Q':
		m.addMovement(0, 1, modifiers, rng)
		m.addMovement(1, 1, modifiers, rng)
	case 'N':
		m.addMovement(1, 2, modifiers, rng)
	case 'R', 'W':
		m.addMovement(0, 1, modifiers, rng)
	case 'Z':
		m.addMovement(2, 3, modifiers, rng)
	default:
		return fmt.Errorf("unknown piece letter %q", string(letter))
	}
	return nil
}

// addMovement reflects the (m,n) base shape into its 4 or 8 vectors and
// applies modifiers, per the rules in spec §4.1.
func (m *Movement) addMovement(mm, nn int, modifiers string, rng int) {
	coords := coordinates(mm, nn)

	if modifiers == "" {
		for _, c := range coords {
			m.addDirection(c.DX, c.DY, rng)
		}
		return
	}

	if mm == 0 {
		for _, c := range coords {
			for _, mod := range orthogonalModifiers(modifiers) {
				if matchesOrthogonal(mod, c.DX, c.DY) {
					m.addDirection(c.DX, c.DY, rng)
				}
			}
		}
		return
	}

	for _, c := range coords {
		for _, mod := range diagonalModifiers(modifiers) {
			if matchesDiagonal(mod, c.DX, c.DY) {
				m.addDirection(c.DX, c.DY, rng)
			}
		}
	}
}

// coordinates generates the reflections of the (m,n) base shape, m <= n.
func coordinates(m, n int) []Vector {
	if m == n {
		return []Vector{{-m, -n}, {-m, n}, {m, -n}, {m, n}}
	}

	var ret []Vector
	if m != 0 {
		ret = append(ret, Vector{-m, n}, Vector{m, -n}, Vector{n, -m}, Vector{-n, m})
	}
	ret = append(ret, Vector{-m, -n}, Vector{m, n}, Vector{-n, -m}, Vector{n, m})
	return ret
}

func (m *Movement) addDirection(dx, dy, rng int) {
	if old, ok := m.Directions[Vector{dx, dy}]; ok {
		if old != Unlimited && (rng > old || rng == Unlimited) {
			m.Directions[Vector{dx, dy}] = rng
		}
	} else {
		m.Directions[Vector{dx, dy}] = rng
	}
	m.extendBounds(dx, dy)
}

func (m *Movement) extendBounds(dx, dy int) {
	if m.firstDirection() {
		m.MinDX, m.MaxDX, m.MinDY, m.MaxDY = dx, dx, dy, dy
		return
	}
	if dx < m.MinDX {
		m.MinDX = dx
	}
	if dx > m.MaxDX {
		m.MaxDX = dx
	}
	if dy < m.MinDY {
		m.MinDY = dy
	}
	if dy > m.MaxDY {
		m.MaxDY = dy
	}
}

func (m *Movement) firstDirection() bool {
	return len(m.Directions) == 1
}

// orthogonalModifier is one of 'b', 'f', 'l', 'r'.
func orthogonalModifiers(s string) []byte {
	var ret []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'b', 'f', 'l', 'r':
			ret = append(ret, s[i])
		}
	}
	return ret
}

func matchesOrthogonal(mod byte, dx, dy int) bool {
	switch mod {
	case 'b':
		return dy < 0
	case 'f':
		return dy > 0
	case 'l':
		return dx < 0
	case 'r':
		return dx > 0
	}
	return false
}

// diagonalModifier is a single or doubled letter ("f", "ff") or a two-letter
// compound ("fl", "br", ...).
type diagonalModifier struct {
	text     string
	repeated bool
}

// diagonalModifiers greedily tokenizes a modifier string in the context of a
// diagonal/oblique base shape, preferring two-letter compounds, then doubled
// single letters, then single letters — mirroring the grammar in spec §4.1.
func diagonalModifiers(s string) []diagonalModifier {
	var ret []diagonalModifier
	for i := 0; i < len(s); {
		if i+1 < len(s) {
			switch s[i : i+2] {
			case "bl", "br", "fl", "fr":
				ret = append(ret, diagonalModifier{text: s[i : i+2]})
				i += 2
				continue
			}
		}
		if isBFLR(s[i]) {
			if i+1 < len(s) && s[i+1] == s[i] {
				ret = append(ret, diagonalModifier{text: string(s[i]), repeated: true})
				i += 2
				continue
			}
			ret = append(ret, diagonalModifier{text: string(s[i])})
			i++
			continue
		}
		i++
	}
	return ret
}

func isBFLR(c byte) bool {
	return c == 'b' || c == 'f' || c == 'l' || c == 'r'
}

func matchesDiagonal(mod diagonalModifier, dx, dy int) bool {
	switch mod.text {
	case "bl":
		return dx < 0 && dy < 0
	case "br":
		return dx > 0 && dy < 0
	case "fl":
		return dx < 0 && dy > 0
	case "fr":
		return dx > 0 && dy > 0
	}

	ok := false
	if !mod.repeated || abs(dx) < abs(dy) {
		switch mod.text {
		case "b":
			ok = ok || dy < 0
		case "f":
			ok = ok || dy > 0
		}
	}
	if !mod.repeated || abs(dx) > abs(dy) {
		switch mod.text {
		case "l":
			ok = ok || dx < 0
		case "r":
			ok = ok || dx > 0
		}
	}
	return ok
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
