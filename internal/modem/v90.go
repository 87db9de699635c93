package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.90 PCM mapping-frame core (spec.md §4.9, C10 —
 *		partial, per spec.md §1/§2): six-PAM-value mapping frames
 *		drawn from a per-position µ-law/A-law ucode set, a
 *		spectral-shaping sign trellis, and the CP capability frame.
 *
 *		Grounded on spec.md §4.9's explicit step list (itself the
 *		analytic definition here — this subset has no closer
 *		teacher/example analog than the V.34 shell/trellis modules
 *		this file parallels) and reuses crc16V34 for the CP frame's
 *		CRC, which spec.md §4.9.2 states is the same polynomial.
 *
 *------------------------------------------------------------------*/

const v90Positions = 6

// UcodeSet holds the µ-law codes usable at each PAM position j, as
// picked by the "robbed-bit service" flag (spec.md §4.9.1): this module
// takes the 128 even-numbered 8-bit µ-law codes, ordered by decreasing
// magnitude, for every position, since the per-position robbed-bit
// exclusion pattern is a provisioning-time detail the spec leaves to
// the carrier's network and isn't reproducible without it (DESIGN.md
// Open Question).
type UcodeSet struct {
	Codes [][]byte // one slice per position, ring index -> µ-law code
}

// BuildUcodeSet constructs the six per-position code lists, sorted by
// decreasing decoded linear magnitude so low ring indices carry the
// largest-magnitude (most robust) codes first.
func BuildUcodeSet() *UcodeSet {
	all := make([]byte, 0, 128)
	for c := 0; c < 256; c++ {
		if c&1 == 0 { // even/odd split approximates the 128 "usable" codes
			all = append(all, byte(c))
		}
	}
	// Sort by decoded magnitude, descending.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0; j-- {
			a := abs16(MuLawToLinear(all[j]))
			b := abs16(MuLawToLinear(all[j-1]))
			if a <= b {
				break
			}
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	set := &UcodeSet{Codes: make([][]byte, v90Positions)}
	for j := 0; j < v90Positions; j++ {
		set.Codes[j] = all
	}
	return set
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

// MFrame90 holds the per-call negotiated M[j] ring sizes (spec.md
// §4.9.1 step 1).
type MFrame90 struct {
	M      [v90Positions]int
	Ucodes *UcodeSet
	Ld     int // spectral-shaping trellis depth
	a1, a2, b1, b2 float64

	lastSign int
}

func NewMFrame90(m [v90Positions]int, ld int) *MFrame90 {
	return &MFrame90{M: m, Ucodes: BuildUcodeSet(), Ld: ld}
}

// shapeState is one node of the depth-`ld` spectral-shaping sign
// trellis (spec.md §4.9.1 step 3).
type shapeState struct {
	x, y, v float64
	w       float64
	sg      byte
}

var signOp = [4]byte{0, 0x55, 0xff, 0xaa}

// EncodeFrame splits bits into six ring indices (modulo and divide by
// M[5] down to M[0]), maps each to a µ-law ucode, picks each position's
// sign from two sign-pattern candidates by the lower running filtered
// energy, and returns six signed linear PAM values. The sign choice is
// made one position at a time: Ld is not used (no look-ahead and no
// ld-frame delay), and no data bits are carried in the signs.
func (m *MFrame90) EncodeFrame(bits uint64) [v90Positions]int16 {
	var ringIdx [v90Positions]int
	v := bits
	for j := v90Positions - 1; j >= 0; j-- {
		mj := m.M[j]
		if mj < 1 {
			mj = 1
		}
		ringIdx[j] = int(v % uint64(mj))
		v /= uint64(mj)
	}

	var ucode [v90Positions]byte
	for j := 0; j < v90Positions; j++ {
		codes := m.Ucodes.Codes[j]
		idx := ringIdx[j] % len(codes)
		ucode[j] = codes[idx]
	}

	// Two candidate states (sign-flip parity 0/1) per position; the one
	// with the lower total w is kept as both states for the next position.
	states := []shapeState{{}, {}}
	var out [v90Positions]int16
	for j := 0; j < v90Positions; j++ {
		mag := MuLawToLinear(ucode[j])
		var best shapeState
		bestW := -1.0
		var bestSign int16
		for state := 0; state < 2; state++ {
			prev := states[state]
			sg := signOp[(state<<1)|int(prev.sg&1)]
			bitSel := (int(sg) >> uint(j%8)) & 1
			sample := mag
			if bitSel == 1 {
				sample = -sample
			}
			x := float64(sample) - (m.b1*prev.x + m.a1*prev.y)
			y := x
			vv := y - (m.b2*prev.y + m.a2*prev.v)
			w := prev.w + vv*vv/16
			if bestW < 0 || w < bestW {
				bestW = w
				best = shapeState{x: x, y: y, v: vv, w: w, sg: sg}
				bestSign = sample
			}
		}
		states[0] = best
		states[1] = best
		out[j] = bestSign
	}
	m.lastSign = int(states[0].sg)
	return out
}
