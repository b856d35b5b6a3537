package piece

// Movement notations for the standard shogi piece set, grounded on the
// fixtures in pkg/betza/betza_test.go (lance, pawn and the shogi knight are
// exactly the notations exercised there).
const (
	kingBetza   = "K"
	rookBetza   = "R"
	bishopBetza = "B"
	goldBetza   = "WfF"
	silverBetza = "FfW"
	knightBetza = "ffN"
	lanceBetza  = "fR"
	pawnBetza   = "fW"

	dragonBetza = "RF" // promoted rook: rook + one-step diagonal
	horseBetza  = "BW" // promoted bishop: bishop + one-step orthogonal
)

// StandardShogi returns the 14-abbreviation standard shogi catalogue: the
// eight unpromoted pieces and their promotions (gold and king never
// promote).
func StandardShogi() (*Catalogue, error) {
	return Load(map[Abbrev]Definition{
		"K": {Betza: kingBetza, Glyph: 'K', Royal: true},
		"R": {Betza: rookBetza, Glyph: 'R'},
		"B": {Betza: bishopBetza, Glyph: 'B'},
		"G": {Betza: goldBetza, Glyph: 'G'},
		"S": {Betza: silverBetza, Glyph: 'S'},
		"N": {Betza: knightBetza, Glyph: 'N'},
		"L": {Betza: lanceBetza, Glyph: 'L'},
		"P": {Betza: pawnBetza, Glyph: 'P', MaxPerFile: 1, NoDropMate: true},

		"+R": {Betza: dragonBetza},
		"+B": {Betza: horseBetza},
		"+S": {Betza: goldBetza},
		"+N": {Betza: goldBetza},
		"+L": {Betza: goldBetza},
		"+P": {Betza: goldBetza},
	})
}

// MiniShogi returns the 5x5 variant catalogue: king, rook, bishop, gold,
// silver and pawn, matching the seed position in spec.md §8 scenario 1
// ("rbsgk/4p/5/P4/KGSBR b -").
func MiniShogi() (*Catalogue, error) {
	return Load(map[Abbrev]Definition{
		"K": {Betza: kingBetza, Glyph: 'K', Royal: true},
		"R": {Betza: rookBetza, Glyph: 'R'},
		"B": {Betza: bishopBetza, Glyph: 'B'},
		"G": {Betza: goldBetza, Glyph: 'G'},
		"S": {Betza: silverBetza, Glyph: 'S'},
		"P": {Betza: pawnBetza, Glyph: 'P', MaxPerFile: 1, NoDropMate: true},

		"+R": {Betza: dragonBetza},
		"+B": {Betza: horseBetza},
		"+S": {Betza: goldBetza},
		"+P": {Betza: goldBetza},
	})
}
