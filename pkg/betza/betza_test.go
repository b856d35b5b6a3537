package betza_test

import (
	"testing"

	"github.com/agt-the-walker/kashogi/pkg/betza"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvalidNotation(t *testing.T) {
	for _, notation := range []string{"", "#!"} {
		_, err := betza.Parse(notation)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no token found")
	}
}

func TestParseUnknownPiece(t *testing.T) {
	_, err := betza.Parse("X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown piece letter "X"`)
}

func TestParseFixtures(t *testing.T) {
	tests := []struct {
		name             string
		notation         string
		directions       map[betza.Vector]int
		numRestricted    int
		canAdvance       bool
		canRetreat       bool
	}{
		{
			name:     "dragon FR",
			notation: "FR",
			directions: map[betza.Vector]int{
				{-1, 1}: 1, {0, 1}: 0, {1, 1}: 1,
				{-1, 0}: 0, {1, 0}: 0,
				{-1, -1}: 1, {0, -1}: 0, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "double digit range queen",
			notation: "Q12",
			directions: map[betza.Vector]int{
				{-1, 1}: 12, {0, 1}: 12, {1, 1}: 12,
				{-1, 0}: 12, {1, 0}: 12,
				{-1, -1}: 12, {0, -1}: 12, {1, -1}: 12,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "blind dog",
			notation: "fFrlbW",
			directions: map[betza.Vector]int{
				{-1, 1}: 1, {1, 1}: 1,
				{-1, 0}: 1, {1, 0}: 1,
				{0, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "charging knight",
			notation: "fNrrllbK",
			directions: map[betza.Vector]int{
				{-1, 2}: 1, {1, 2}: 1,
				{-2, 1}: 1, {2, 1}: 1,
				{-1, 0}: 1, {1, 0}: 1,
				{-1, -1}: 1, {0, -1}: 1, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "charging rook",
			notation: "frlRrrllbK",
			directions: map[betza.Vector]int{
				{0, 1}: 0,
				{-1, 0}: 0, {1, 0}: 0,
				{-1, -1}: 1, {0, -1}: 1, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "cloud eagle",
			notation: "fbRfB3K",
			directions: map[betza.Vector]int{
				{-1, 1}: 3, {0, 1}: 0, {1, 1}: 3,
				{-1, 0}: 1, {1, 0}: 1,
				{-1, -1}: 1, {0, -1}: 0, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "colonel",
			notation: "fNfrlRK",
			directions: map[betza.Vector]int{
				{-1, 2}: 1, {1, 2}: 1,
				{-2, 1}: 1, {-1, 1}: 1, {0, 1}: 0, {1, 1}: 1, {2, 1}: 1,
				{-1, 0}: 0, {1, 0}: 0,
				{-1, -1}: 1, {0, -1}: 1, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "eagle",
			notation: "fBbRWbB2",
			directions: map[betza.Vector]int{
				{-1, 1}: 0, {0, 1}: 1, {1, 1}: 0,
				{-1, 0}: 1, {1, 0}: 1,
				{-1, -1}: 2, {0, -1}: 0, {1, -1}: 2,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "falcon",
			notation: "FfrlW",
			directions: map[betza.Vector]int{
				{-1, 1}: 1, {0, 1}: 1, {1, 1}: 1,
				{-1, 0}: 1, {1, 0}: 1,
				{-1, -1}: 1, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "fibnif",
			notation: "ffbbNF",
			directions: map[betza.Vector]int{
				{-1, 2}: 1, {1, 2}: 1,
				{-1, 1}: 1, {1, 1}: 1,
				{-1, -1}: 1, {1, -1}: 1,
				{-1, -2}: 1, {1, -2}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "heavenly horse",
			notation: "ffbbN",
			directions: map[betza.Vector]int{
				{-1, 2}: 1, {1, 2}: 1,
				{-1, -2}: 1, {1, -2}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:       "inverted pawn",
			notation:   "bW",
			directions: map[betza.Vector]int{{0, -1}: 1},
			canAdvance: false, canRetreat: true,
		},
		{
			name:          "lance",
			notation:      "fR",
			directions:    map[betza.Vector]int{{0, 1}: 0},
			numRestricted: 1,
			canAdvance:    true, canRetreat: false,
		},
		{
			name:     "left quail",
			notation: "fRbrBblF",
			directions: map[betza.Vector]int{
				{0, 1}: 0,
				{-1, -1}: 1, {1, -1}: 0,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "left inverted quail",
			notation: "bRfrBflF",
			directions: map[betza.Vector]int{
				{-1, 1}: 1, {1, 1}: 0,
				{0, -1}: 0,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:          "pawn",
			notation:      "fW",
			directions:    map[betza.Vector]int{{0, 1}: 1},
			numRestricted: 1,
			canAdvance:    true, canRetreat: false,
		},
		{
			name:     "right quail",
			notation: "fRblBbrF",
			directions: map[betza.Vector]int{
				{0, 1}: 0,
				{-1, -1}: 0, {1, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "right inverted quail",
			notation: "bRflBfrF",
			directions: map[betza.Vector]int{
				{-1, 1}: 0, {1, 1}: 1,
				{0, -1}: 0,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:          "shogi knight",
			notation:      "ffN",
			directions:    map[betza.Vector]int{{-1, 2}: 1, {1, 2}: 1},
			numRestricted: 2,
			canAdvance:    true, canRetreat: false,
		},
		{
			name:     "treacherous fox",
			notation: "fbWFfbDA",
			directions: map[betza.Vector]int{
				{-2, 2}: 1, {0, 2}: 1, {2, 2}: 1,
				{-1, 1}: 1, {0, 1}: 1, {1, 1}: 1,
				{-1, -1}: 1, {0, -1}: 1, {1, -1}: 1,
				{-2, -2}: 1, {0, -2}: 1, {2, -2}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
		{
			name:     "wide knight",
			notation: "llrrN",
			directions: map[betza.Vector]int{
				{-2, 1}: 1, {2, 1}: 1,
				{-2, -1}: 1, {2, -1}: 1,
			},
			canAdvance: true, canRetreat: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := betza.Parse(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.directions, m.Directions)
			assert.Equal(t, tt.numRestricted, m.NumRestrictedFurthestRanks())
			assert.Equal(t, tt.canAdvance, m.CanAdvance())
			assert.Equal(t, tt.canRetreat, m.CanRetreat())
		})
	}
}

func TestExtendedLetters(t *testing.T) {
	for _, notation := range []string{"C", "G", "H", "Z"} {
		_, err := betza.Parse(notation)
		require.NoError(t, err)
	}
}

func TestRangeMergePrefersUnlimited(t *testing.T) {
	m, err := betza.Parse("R3R")
	require.NoError(t, err)
	assert.Equal(t, betza.Unlimited, m.Directions[betza.Vector{0, 1}])
}

func TestRangeMergePrefersLonger(t *testing.T) {
	m, err := betza.Parse("N2N5")
	require.NoError(t, err)
	assert.Equal(t, 5, m.Directions[betza.Vector{1, 2}])
}

func TestIsRider(t *testing.T) {
	wazir, err := betza.Parse("W")
	require.NoError(t, err)
	assert.False(t, wazir.IsRider())

	rook, err := betza.Parse("R")
	require.NoError(t, err)
	assert.True(t, rook.IsRider())
}
