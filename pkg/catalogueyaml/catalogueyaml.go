// Package catalogueyaml loads a piece.Catalogue from a YAML piece-set
// file, the on-disk format a standalone tool or a Game's caller might
// keep variant definitions in (mirroring the YAML piece sets kept
// alongside a Python predecessor of this engine).
package catalogueyaml

import (
	"fmt"
	"io"
	"os"

	"github.com/agt-the-walker/kashogi/pkg/piece"
	"gopkg.in/yaml.v3"
)

// entry is the YAML shape of a single piece definition:
//
//	K:
//	  betza: K
//	  glyph: K
//	  royal: true
//	P:
//	  betza: fW
//	  glyph: P
//	  max_per_file: 1
//	  no_drop_mate: true
type entry struct {
	Betza      string `yaml:"betza"`
	Glyph      string `yaml:"glyph"`
	Royal      bool   `yaml:"royal"`
	NoDropMate bool   `yaml:"no_drop_mate"`
	MaxPerFile int    `yaml:"max_per_file"`
}

// Load reads a YAML document of abbreviation -> entry mappings from r and
// builds a validated piece.Catalogue from it.
func Load(r io.Reader) (*piece.Catalogue, error) {
	var raw map[string]entry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalogueyaml: decode: %w", err)
	}

	defs := make(map[piece.Abbrev]piece.Definition, len(raw))
	for abbrev, e := range raw {
		var glyph rune
		for _, r := range e.Glyph {
			glyph = r
			break
		}
		defs[piece.Abbrev(abbrev)] = piece.Definition{
			Betza:      e.Betza,
			Glyph:      glyph,
			Royal:      e.Royal,
			NoDropMate: e.NoDropMate,
			MaxPerFile: e.MaxPerFile,
		}
	}

	return piece.Load(defs)
}

// LoadFile opens path and calls Load on its contents.
func LoadFile(path string) (*piece.Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogueyaml: %w", err)
	}
	defer f.Close()
	return Load(f)
}
