package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 parameter derivation (spec.md §4.8.1, C9). This
 *		module targets the subset spec.md §1 calls out as in
 *		scope: S=2400 symbols/s, R=19200 bps, matching the
 *		source's own targeted subset.
 *
 *		Grounded on original_source/v34priv.h's parameter table
 *		layout (a,c,d1,e1,d2,e2,J,P rows) and v34.c's derivation
 *		of N/W/b/r/K/M/L from them.
 *
 *------------------------------------------------------------------*/

import "math"

// SymbolRateRow is one row of the six standard V.34 symbol-rate table
// entries (spec.md §4.8.1): symbol_rate = 2400*a/c; carrier = symbol_rate*d_i/e_i.
type SymbolRateRow struct {
	A, C   int
	D1, E1 int // low carrier ratio
	D2, E2 int // high carrier ratio
	J, P   int
}

// V34SymbolRates is the standard table of six symbol rates (2400..3429).
var V34SymbolRates = []SymbolRateRow{
	{A: 1, C: 1, D1: 2, E1: 3, D2: 3, E2: 4, J: 7, P: 12},   // 2400 Bd
	{A: 8, C: 7, D1: 3, E1: 5, D2: 2, E2: 3, J: 8, P: 12},   // 2743 Bd
	{A: 7, C: 6, D1: 2, E1: 3, D2: 5, E2: 7, J: 7, P: 14},   // 2800 Bd
	{A: 5, C: 4, D1: 3, E1: 5, D2: 2, E2: 3, J: 7, P: 15},   // 3000 Bd
	{A: 4, C: 3, D1: 1, E1: 2, D2: 3, E2: 5, J: 7, P: 16},   // 3200 Bd
	{A: 10, C: 7, D1: 1, E1: 2, D2: 4, E2: 7, J: 8, P: 15},  // 3429 Bd
}

// V34Params is the full set of derived parameters for one V.34 call
// direction (spec.md §3.1 "V.34 DSP state", §4.8.1).
type V34Params struct {
	Row SymbolRateRow

	SymbolRate  float64 // Bd
	CarrierHz   float64 // Hz, chosen high/low carrier
	UseHighCarr bool

	R int // bit rate, bps
	N int // data-frame shape
	B int // mapping-frame length
	RRem int // r = N - (b-1)*P

	K int // shell-mapping excess bits
	Q int // halving shifts applied while K>=32
	M int // ring count
	L int // constellation size

	ConvStates int // 16, 32, or 64
	NonLinear  bool
	PrecoderH  [3]complex128
}

// DefaultV34Params builds the S=2400/R=19200 configuration spec.md §1
// calls the in-scope target, using the first symbol-rate row.
func DefaultV34Params() *V34Params {
	return NewV34Params(V34SymbolRates[0], 19200, false, 16)
}

// NewV34Params derives N/b/r/K/M/L from a symbol-rate row, bit rate R,
// and carrier/state selection, per spec.md §4.8.1.
func NewV34Params(row SymbolRateRow, r int, useHighCarrier bool, convStates int) *V34Params {
	p := &V34Params{Row: row, R: r, UseHighCarr: useHighCarrier, ConvStates: convStates}

	p.SymbolRate = 2400 * float64(row.A) / float64(row.C)
	if useHighCarrier {
		p.CarrierHz = p.SymbolRate * float64(row.D2) / float64(row.E2)
	} else {
		p.CarrierHz = p.SymbolRate * float64(row.D1) / float64(row.E1)
	}

	// N = R*28/(J*100)
	p.N = r * 28 / (row.J * 100)
	if p.N < 1 {
		p.N = 1
	}
	// b = ceil(N/P)
	p.B = (p.N + row.P - 1) / row.P
	p.RRem = p.N - (p.B-1)*row.P

	p.K = 0
	if p.B > 12 {
		k := p.B - 12
		q := 0
		for k >= 32 {
			k >>= 1
			q++
		}
		p.K = k
		p.Q = q
	}

	// M = ceil(2^(K/8))
	m := int(math.Ceil(math.Pow(2, float64(p.K)/8)))
	if m < 1 {
		m = 1
	}
	p.M = m
	p.L = 4 * p.M * (1 << uint(p.Q))

	p.PrecoderH = [3]complex128{0, 0, 0}
	return p
}
