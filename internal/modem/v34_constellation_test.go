package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_ShellTables_inverse is IF-3: rings_to_index(index_to_rings(r0)) == r0
// for every r0 in [0, M^8), drawn across the V.34 parameter table's M values.
func Test_ShellTables_inverse(t *testing.T) {
	for _, row := range V34SymbolRates {
		p := NewV34Params(row, 19200, false, 16)
		shell := BuildShellTables(p.M)
		max := 1
		for i := 0; i < 8; i++ {
			max *= shell.M
		}
		rapid.Check(t, func(t *rapid.T) {
			r0 := rapid.IntRange(0, max-1).Draw(t, "r0")
			rings := shell.IndexToRings(r0)
			got := shell.RingsToIndex(rings)
			assert.Equal(t, r0, got)
		})
	}
}

func Test_Constellation_codeLookup_matchesPoint(t *testing.T) {
	c := BuildConstellation(64)
	for i := range c.Points {
		p := c.Point(i, 0)
		idx, ok := c.Code(p.X, p.Y)
		assert.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func Test_Constellation_rotateCW_isOrderFour(t *testing.T) {
	c := BuildConstellation(64)
	p := c.Points[5]
	got := rotateCW(rotateCW(rotateCW(rotateCW(p, 1), 1), 1), 1)
	assert.Equal(t, p, got)
}
