package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.22 modulator (spec.md §4.7, C8 — partial: modulator
 *		only; there is no demodulator and no stub for one).
 *
 *		Grounded on the teacher's RRC shaping helper (src/dsp.go
 *		gen_rrc_lowpass/rrc) generalized from the teacher's
 *		baseband low-pass use to a symbol-rate upsampling filter,
 *		and on original_source/v22.c for the per-mod_type mapping
 *		rules and the 1800 Hz guard tone.
 *
 *------------------------------------------------------------------*/

import "math"

type V22ModType int

const (
	V34Mod600 V22ModType = iota
	V22Mod600
	V22Mod1200
	V22Mod2400
)

const (
	v22BaudRate    = 600
	v22CallerHz    = 1200
	v22AnswerHz    = 2400
	v22GuardHz     = 1800
	v22GuardGainDB = -6
	v22FilterTaps  = 800
)

// V22Mod is the V.22 baseband DQPSK modulator with RRC upsampling and
// carrier up-conversion (spec.md §4.7).
type V22Mod struct {
	modType V22ModType
	caller  bool

	carrierIncr uint32
	carrierPh   uint32
	guardIncr   uint32
	guardPh     uint32
	guardGain   float64

	filter []float64
	ring   []Complex
	ringAt int

	baudIncr uint32
	baudPh   uint32

	lastDibit int // for differential encoding
	lastI     int
}

// NewV22Mod builds a V.22 modulator for the given role and mapping type.
func NewV22Mod(caller bool, modType V22ModType) *V22Mod {
	m := &V22Mod{modType: modType, caller: caller}

	carrierHz := v22CallerHz
	if !caller {
		carrierHz = v22AnswerHz
	}
	m.carrierIncr = uint32(PhaseBase) * uint32(carrierHz) / uint32(8000)
	m.guardIncr = uint32(PhaseBase) * v22GuardHz / 8000
	m.guardGain = dbToLinear(v22GuardGainDB)

	m.baudIncr = uint32(PhaseBase) * v22BaudRate / 8000

	m.filter = make([]float64, v22FilterTaps)
	samplesPerSymbol := float64(8000) / float64(v22BaudRate)
	genRRCLowpass(m.filter, 0.5, samplesPerSymbol)

	m.ring = make([]Complex, v22FilterTaps)
	return m
}

// dbToLinear is the amp = 10^(level_dB/20) convention used throughout
// spec.md (e.g. §4.4's DTMF amplitude, §6.3's guard-tone level).
func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// mapDibit returns the baseband (I, Q) rotation for one 2-bit (or more)
// symbol according to the configured mod_type (spec.md §4.7):
//   - V34_MOD_600:  rotate by 0 or 180 degrees (1 bit/symbol)
//   - V22_MOD_600:  rotate by +-90 degrees (1 bit/symbol)
//   - V22_MOD_1200: differential quadrant (2 bits/symbol)
//   - V22_MOD_2400: differential quadrant + 2-bit amplitude (4 bits/symbol)
func (m *V22Mod) mapDibit(bits int) Complex {
	switch m.modType {
	case V34Mod600:
		if bits&1 != 0 {
			return Complex{-1, 0}
		}
		return Complex{1, 0}
	case V22Mod600:
		if bits&1 != 0 {
			return Complex{0, 1}
		}
		return Complex{0, -1}
	case V22Mod1200:
		m.lastDibit = (m.lastDibit + dqpskStep(bits&3)) & 3
		return dqpskPoint(m.lastDibit)
	case V22Mod2400:
		m.lastDibit = (m.lastDibit + dqpskStep(bits&3)) & 3
		pt := dqpskPoint(m.lastDibit)
		amp := 1.0
		switch (bits >> 2) & 3 {
		case 0:
			amp = 0.5
		case 1:
			amp = 0.83
		case 2:
			amp = 1.17
		case 3:
			amp = 1.5
		}
		return Complex{pt.Re * amp, pt.Im * amp}
	}
	return Complex{1, 0}
}

func dqpskStep(d int) int {
	// V.22 differential encoding table: 00->+90, 01->0, 11->-90, 10->+180.
	switch d {
	case 0:
		return 1
	case 1:
		return 0
	case 3:
		return 3
	case 2:
		return 2
	}
	return 0
}

func dqpskPoint(quadrant int) Complex {
	switch quadrant & 3 {
	case 0:
		return Complex{1, 0}
	case 1:
		return Complex{0, 1}
	case 2:
		return Complex{-1, 0}
	default:
		return Complex{0, -1}
	}
}

// PushSymbol enqueues one new baseband symbol (derived from bits pulled
// from the data pump by the caller) into the shaping filter's ring.
func (m *V22Mod) PushSymbol(bits int) {
	m.ring[m.ringAt] = m.mapDibit(bits)
	m.ringAt = (m.ringAt + 1) % len(m.ring)
}

// Sample produces one output sample: RRC-shaped baseband mixed up to
// carrier, plus the answer-side 1800 Hz guard tone at -6 dB.
func (m *V22Mod) Sample() int16 {
	var acc Complex
	n := len(m.filter)
	for k := 0; k < n; k++ {
		s := m.ring[(m.ringAt+k)%n]
		w := m.filter[k]
		acc.Re += s.Re * w
		acc.Im += s.Im * w
	}

	c := float64(DspCos(m.carrierPh)) / CosBase
	s := float64(DspSin(m.carrierPh)) / CosBase
	out := acc.Re*c - acc.Im*s
	m.carrierPh += m.carrierIncr

	if !m.caller {
		out += m.guardGain * (float64(DspCos(m.guardPh)) / CosBase)
		m.guardPh += m.guardIncr
	}

	return int16(clampInt32(int32(out*16384), -32768, 32767))
}

