// Package piece implements the piece catalogue: the map from abbreviation
// to movement shape and flags that every Position is built against.
package piece

import (
	"fmt"
	"regexp"

	"github.com/agt-the-walker/kashogi/pkg/betza"
	"github.com/seekerror/stdlib/pkg/lang"
)

// CatalogueError reports an invalid abbreviation or a catalogue consistency
// violation detected at load time.
type CatalogueError struct {
	Abbrev Abbrev
	Msg    string
}

func (e *CatalogueError) Error() string {
	if e.Abbrev == "" {
		return fmt.Sprintf("piece: %v", e.Msg)
	}
	return fmt.Sprintf("piece: %v: %v", e.Abbrev, e.Msg)
}

// Abbrev is a piece abbreviation, canonically uppercase: one to three
// characters matching `\+?[A-Z]('|[A-Z])?`. A leading '+' denotes the
// promoted form. Ownership (case) is tracked separately, at the board
// layer, never on Abbrev itself.
type Abbrev string

var abbrevRe = regexp.MustCompile(`^\+?[A-Z]('|[A-Z])?$`)

// IsValid reports whether the abbreviation is syntactically well-formed.
func (a Abbrev) IsValid() bool {
	return abbrevRe.MatchString(string(a))
}

// IsPromoted reports whether the abbreviation denotes a promoted piece.
func (a Abbrev) IsPromoted() bool {
	return len(a) > 0 && a[0] == '+'
}

// Base strips a leading '+', if any.
func (a Abbrev) Base() Abbrev {
	if a.IsPromoted() {
		return a[1:]
	}
	return a
}

// Promoted returns the promoted form of the abbreviation.
func (a Abbrev) Promoted() Abbrev {
	if a.IsPromoted() {
		return a
	}
	return "+" + a
}

func (a Abbrev) String() string {
	return string(a)
}

// Definition is the external, per-abbreviation description a Catalogue is
// built from: the movement notation, a display glyph, and flags.
type Definition struct {
	Betza string
	Glyph rune

	Royal      bool
	NoDropMate bool

	// MaxPerFile caps the number of this (unpromoted) piece a player may
	// have on a single file at once (nifu and its generalizations). Zero
	// means uncapped.
	MaxPerFile int
}

type entry struct {
	movement   *betza.Movement
	glyph      rune
	royal      bool
	noDropMate bool
	maxPerFile lang.Optional[int]
}

// Catalogue is an immutable, validated piece table.
type Catalogue struct {
	entries map[Abbrev]entry
}

// Load validates and builds a Catalogue from an externally supplied
// abbreviation -> Definition map (e.g. decoded from a piece-set file by a
// collaborator outside this package).
func Load(defs map[Abbrev]Definition) (*Catalogue, error) {
	entries := make(map[Abbrev]entry, len(defs))

	for abbrev, def := range defs {
		if !abbrev.IsValid() {
			return nil, &CatalogueError{Abbrev: abbrev, Msg: "invalid abbreviation"}
		}

		movement, err := betza.Parse(def.Betza)
		if err != nil {
			return nil, &CatalogueError{Abbrev: abbrev, Msg: err.Error()}
		}

		if abbrev.IsPromoted() && (def.Royal || def.NoDropMate || def.MaxPerFile != 0) {
			return nil, &CatalogueError{Abbrev: abbrev, Msg: "promoted piece must not carry flags"}
		}

		e := entry{movement: movement, glyph: def.Glyph, royal: def.Royal, noDropMate: def.NoDropMate}
		if def.MaxPerFile > 0 {
			e.maxPerFile = lang.Some(def.MaxPerFile)
		}
		entries[abbrev] = e
	}

	cat := &Catalogue{entries: entries}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalogue) validate() error {
	glyphs := map[rune][]Abbrev{}

	for abbrev, e := range c.entries {
		if !e.movement.CanAdvance() {
			return &CatalogueError{Abbrev: abbrev, Msg: "piece cannot advance"}
		}

		if abbrev.IsPromoted() {
			if !e.movement.CanRetreat() {
				return &CatalogueError{Abbrev: abbrev, Msg: "promoted piece cannot retreat"}
			}
			if _, ok := c.entries[abbrev.Base()]; !ok {
				return &CatalogueError{Abbrev: abbrev, Msg: "unpromoted version missing"}
			}
		} else {
			if _, promotable := c.entries[abbrev.Promoted()]; promotable && e.royal {
				return &CatalogueError{Abbrev: abbrev, Msg: "promotable piece must not be royal"}
			}
			if _, promotable := c.entries[abbrev.Promoted()]; !promotable && !e.movement.CanRetreat() {
				return &CatalogueError{Abbrev: abbrev, Msg: "unpromotable piece must be able to retreat"}
			}
		}

		if _, ok := e.maxPerFile.V(); ok && e.movement.CanChangeFile() {
			return &CatalogueError{Abbrev: abbrev, Msg: "piece with a per-file cap must not change files"}
		}
		if e.noDropMate && e.movement.IsRider() {
			return &CatalogueError{Abbrev: abbrev, Msg: "no-drop-mate piece must not be a rider"}
		}

		if e.glyph != 0 {
			glyphs[e.glyph] = append(glyphs[e.glyph], abbrev)
		}
	}

	for glyph, abbrevs := range glyphs {
		if len(abbrevs) > 2 {
			return &CatalogueError{Msg: fmt.Sprintf("glyph %q shared by more than two pieces: %v", glyph, abbrevs)}
		}
		if len(abbrevs) == 2 {
			a, b := abbrevs[0], abbrevs[1]
			if a.Base() != b.Base() || a == b {
				return &CatalogueError{Msg: fmt.Sprintf("glyph %q shared by unrelated pieces %v and %v", glyph, a, b)}
			}
			if !sameDirections(c.entries[a].movement, c.entries[b].movement) {
				return &CatalogueError{Msg: fmt.Sprintf("glyph %q pair %v/%v have different direction sets", glyph, a, b)}
			}
		}
	}

	return nil
}

func sameDirections(a, b *betza.Movement) bool {
	if len(a.Directions) != len(b.Directions) {
		return false
	}
	for v, rng := range a.Directions {
		if other, ok := b.Directions[v]; !ok || other != rng {
			return false
		}
	}
	return true
}

// Exist reports whether the abbreviation is in the catalogue.
func (c *Catalogue) Exist(abbrev Abbrev) bool {
	_, ok := c.entries[abbrev]
	return ok
}

// IsPromoted reports whether abbrev is the promoted form of a piece.
func (c *Catalogue) IsPromoted(abbrev Abbrev) bool {
	return abbrev.IsPromoted()
}

// CanPromote reports whether abbrev has a promoted form in the catalogue.
func (c *Catalogue) CanPromote(abbrev Abbrev) bool {
	return c.Exist(abbrev.Promoted())
}

// Promoted returns the promoted form of abbrev, if present.
func (c *Catalogue) Promoted(abbrev Abbrev) (Abbrev, bool) {
	p := abbrev.Promoted()
	return p, c.Exist(p)
}

// Unpromoted returns the unpromoted form of abbrev.
func (c *Catalogue) Unpromoted(abbrev Abbrev) Abbrev {
	return abbrev.Base()
}

// IsRoyal reports whether abbrev is a royal piece.
func (c *Catalogue) IsRoyal(abbrev Abbrev) bool {
	return c.entries[abbrev].royal
}

// NoDropMate reports whether dropping abbrev may never deliver checkmate.
func (c *Catalogue) NoDropMate(abbrev Abbrev) bool {
	return c.entries[abbrev].noDropMate
}

// MaxPerFile returns the per-file cap for abbrev, if any.
func (c *Catalogue) MaxPerFile(abbrev Abbrev) (int, bool) {
	return c.entries[abbrev].maxPerFile.V()
}

// Directions returns the movement direction map for abbrev.
func (c *Catalogue) Directions(abbrev Abbrev) map[betza.Vector]int {
	return c.entries[abbrev].movement.Directions
}

// Movement returns the full decoded movement for abbrev.
func (c *Catalogue) Movement(abbrev Abbrev) *betza.Movement {
	return c.entries[abbrev].movement
}

// NumRestrictedFurthestRanks returns the count of furthest ranks on which
// abbrev would have no legal move.
func (c *Catalogue) NumRestrictedFurthestRanks(abbrev Abbrev) int {
	return c.entries[abbrev].movement.NumRestrictedFurthestRanks()
}

// CanRetreat reports whether abbrev can move backward.
func (c *Catalogue) CanRetreat(abbrev Abbrev) bool {
	return c.entries[abbrev].movement.CanRetreat()
}

// Glyph returns the display glyph for abbrev, if any.
func (c *Catalogue) Glyph(abbrev Abbrev) (rune, bool) {
	g := c.entries[abbrev].glyph
	return g, g != 0
}

// Abbrevs returns all abbreviations in the catalogue, in unspecified order.
func (c *Catalogue) Abbrevs() []Abbrev {
	ret := make([]Abbrev, 0, len(c.entries))
	for a := range c.entries {
		ret = append(ret, a)
	}
	return ret
}
