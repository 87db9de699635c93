package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Generic FSK modulator/demodulator (spec.md §4.5, C5),
 *		shared by V.21 and V.23 at their own tone/baud pairs.
 *
 *		Grounded on the teacher's gen_tone.go (phase-accumulator
 *		tone synthesis, ticks-per-bit bookkeeping) and pll_dcd.go
 *		(PLL nudging on transitions) generalized from 1200bps AFSK
 *		to the two-rate, two-tone scheme this spec calls for.
 *
 *------------------------------------------------------------------*/

// FSKParams is the per-direction tone/baud configuration (spec.md §4.5).
type FSKParams struct {
	FLo, FHi   int // Hz
	SampleRate int
	BaudRate   int
}

// FSKMod synthesizes a two-tone FSK signal from a bit source.
type FSKMod struct {
	p FSKParams

	omega      [2]uint32
	baudIncr   uint32
	phase      uint32
	baudFrac   uint32
	currentBit int
}

func NewFSKMod(p FSKParams) *FSKMod {
	m := &FSKMod{p: p}
	m.omega[0] = uint32(PhaseBase) * uint32(p.FLo) / uint32(p.SampleRate)
	m.omega[1] = uint32(PhaseBase) * uint32(p.FHi) / uint32(p.SampleRate)
	// baud accumulator wraps at 2^32, once per bit period
	m.baudIncr = uint32((uint64(p.BaudRate) << 32) / uint64(p.SampleRate))
	return m
}

// BitSource supplies the next data bit to modulate; NONE (any non-0/1)
// is treated as idle mark (1).
type BitSource interface {
	GetBit() int
}

// Sample produces the next output sample, pulling a new bit from src
// whenever the baud accumulator wraps.
func (m *FSKMod) Sample(src BitSource) int16 {
	m.baudFrac += m.baudIncr
	if m.baudFrac < m.baudIncr { // wrapped
		b := src.GetBit()
		if b != 0 && b != 1 {
			b = 1
		}
		m.currentBit = b
	}
	out := DspCos(m.phase)
	m.phase += m.omega[m.currentBit]
	return int16(out * 2) // Q14 -> roughly full 16-bit swing
}

// FSKDemod is the non-coherent quadrature-correlator FSK demodulator
// with baud PLL timing recovery (spec.md §4.5).
type FSKDemod struct {
	p FSKParams

	filterLen int
	shift     uint

	refLoI, refLoQ []int32
	refHiI, refHiQ []int32

	ring    []int32
	ringPos int

	baudPLL    uint32
	baudIncr   uint32
	pllAdj     uint32
	lastBit    int
	lastSample int
}

func NewFSKDemod(p FSKParams) *FSKDemod {
	d := &FSKDemod{p: p}
	d.filterLen = p.SampleRate / p.BaudRate
	if d.filterLen < 1 {
		d.filterLen = 1
	}
	d.shift = log2ceil(d.filterLen)
	if d.shift >= 2 {
		d.shift -= 2
	} else {
		d.shift = 0
	}
	d.refLoI = make([]int32, d.filterLen)
	d.refLoQ = make([]int32, d.filterLen)
	d.refHiI = make([]int32, d.filterLen)
	d.refHiQ = make([]int32, d.filterLen)
	for n := 0; n < d.filterLen; n++ {
		phLo := uint32(PhaseBase) * uint32(p.FLo) * uint32(n) / uint32(p.SampleRate)
		phHi := uint32(PhaseBase) * uint32(p.FHi) * uint32(n) / uint32(p.SampleRate)
		d.refLoI[n] = DspCos(phLo) >> d.shift
		d.refLoQ[n] = DspSin(phLo) >> d.shift
		d.refHiI[n] = DspCos(phHi) >> d.shift
		d.refHiQ[n] = DspSin(phHi) >> d.shift
	}
	d.ring = make([]int32, d.filterLen)
	// baud PLL wraps at 2^32, once per bit period
	d.baudIncr = uint32((uint64(p.BaudRate) << 32) / uint64(p.SampleRate))
	d.pllAdj = d.baudIncr / 4
	d.lastSample = 1
	return d
}

func log2ceil(n int) uint {
	var b uint
	v := 1
	for v < n {
		v <<= 1
		b++
	}
	return b
}

// BitSink consumes a decoded bit.
type BitSink interface {
	PutBit(b int)
}

// PushSample feeds one received sample; decodes a new bit at the baud
// rate and forwards it to sink once the PLL fires.
func (d *FSKDemod) PushSample(sample int16, sink BitSink) {
	d.ring[d.ringPos] = int32(sample) >> d.shift
	d.ringPos = (d.ringPos + 1) % d.filterLen

	window := d.window()
	yLoI := DotProduct(window, d.refLoI)
	yLoQ := DotProduct(window, d.refLoQ)
	yHiI := DotProduct(window, d.refHiI)
	yHiQ := DotProduct(window, d.refHiQ)

	magLo := yLoI*yLoI + yLoQ*yLoQ
	magHi := yHiI*yHiI + yHiQ*yHiQ
	sum := magHi - magLo
	newBit := 0
	if sum > 0 {
		newBit = 1
	}

	if newBit != d.lastBit {
		if d.baudPLL < 0x80000000 {
			d.baudPLL += d.pllAdj
		} else {
			d.baudPLL -= d.pllAdj
		}
		d.lastBit = newBit
	}

	prev := d.baudPLL
	d.baudPLL += d.baudIncr
	if d.baudPLL < prev { // wrapped
		d.lastSample = newBit
		sink.PutBit(d.lastSample)
	}
}

func (d *FSKDemod) window() []int32 {
	// Present the ring as a contiguous, time-ordered window without
	// allocating: rotate logically by copying into a scratch buffer.
	if d.ringPos == 0 {
		return d.ring
	}
	out := make([]int32, d.filterLen)
	copy(out, d.ring[d.ringPos:])
	copy(out[d.filterLen-d.ringPos:], d.ring[:d.ringPos])
	return out
}

// V.21 tone/baud pairs (spec.md §6.3).
func V21Params(caller bool) FSKParams {
	if caller {
		return FSKParams{FLo: 1180, FHi: 980, SampleRate: 8000, BaudRate: 300}
	}
	return FSKParams{FLo: 1850, FHi: 1650, SampleRate: 8000, BaudRate: 300}
}

// V21RxParams is the tone pair this end should listen for: the peer's
// transmit tones (V21Params of the opposite role).
func V21RxParams(caller bool) FSKParams {
	return V21Params(!caller)
}

// V.23 tone/baud pairs (spec.md §6.3): asymmetric, caller transmits at
// 75 Bd, answerer at 1200 Bd.
func V23TxParams(caller bool) FSKParams {
	if caller {
		return FSKParams{FLo: 390, FHi: 450, SampleRate: 8000, BaudRate: 75}
	}
	return FSKParams{FLo: 1300, FHi: 2100, SampleRate: 8000, BaudRate: 1200}
}

func V23RxParams(caller bool) FSKParams {
	// The far end's tx params are this end's rx params.
	return V23TxParams(!caller)
}
