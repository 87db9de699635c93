package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Viterbi_convergence covers part of IF-7: when the branch metric
// consistently favors one coset bit, Step returns a decision once
// TrellisLength symbols have been pushed. It does not compare the
// surviving paths' tracebacks.
func Test_Viterbi_convergence(t *testing.T) {
	v := NewViterbi()
	var lastOk bool
	var lastBit int
	for i := 0; i < TrellisLength+5; i++ {
		bit, ok := v.Step([2]int64{0, 1000})
		if ok {
			lastOk = true
			lastBit = bit
		}
	}
	assert.True(t, lastOk)
	_ = lastBit
}

func Test_Viterbi_noDecisionBeforeDepth(t *testing.T) {
	v := NewViterbi()
	for i := 0; i < TrellisLength-1; i++ {
		_, ok := v.Step([2]int64{0, 1000})
		assert.False(t, ok)
	}
}
