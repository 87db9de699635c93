package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 transmit sample generation (spec.md §4.8.5, C9):
 *		RRC pulse shaping at a fractional baud phase, then
 *		carrier up-conversion.
 *
 *		Grounded on the teacher's gen_tone.go phase-accumulator
 *		style and src/dsp.go's gen_rrc_lowpass, generalized from
 *		fixed-baud AFSK to V.34's fractional symbol-rate ratio.
 *
 *------------------------------------------------------------------*/

const v34TxRingSize = 2048
const v34TxFilterTaps = 65

// TxPath holds the symbol ring, RRC shaping filter, and carrier
// oscillator for one V.34 direction's transmitter.
type TxPath struct {
	ring      [v34TxRingSize]complex128
	ringWrite int
	ringRead  int
	queued    int

	filter []float64

	baudPhase uint32
	baudIncr  uint32 // symbol_rate/8000 as a fraction of 2^32

	carrierPhase uint32
	carrierIncr  uint32

	TxAmp float64
}

func NewTxPath(p *V34Params) *TxPath {
	t := &TxPath{}
	t.filter = make([]float64, v34TxFilterTaps)
	samplesPerSymbol := 8000.0 / p.SymbolRate
	genRRCLowpass(t.filter, 0.35, samplesPerSymbol)

	t.baudIncr = uint32(float64(1<<32) * p.SymbolRate / 8000)
	t.carrierIncr = uint32(PhaseBase * p.CarrierHz / 8000)
	t.TxAmp = 10000
	return t
}

// PushSymbol enqueues one new baseband 2D symbol for transmission.
func (t *TxPath) PushSymbol(s complex128) {
	t.ring[t.ringWrite] = s
	t.ringWrite = (t.ringWrite + 1) % v34TxRingSize
	t.queued++
}

// Sample produces the next output sample: apply the RRC filter centered
// on the fractional baud phase, consuming one ring entry whenever the
// phase accumulator wraps, then mix to carrier (spec.md §4.8.5).
func (t *TxPath) Sample() int16 {
	n := len(t.filter)
	var acc complex128
	for k := 0; k < n && k < t.queued; k++ {
		idx := (t.ringRead - k - 1 + v34TxRingSize) % v34TxRingSize
		acc += t.ring[idx] * complex(t.filter[k], 0)
	}

	prev := t.baudPhase
	t.baudPhase += t.baudIncr
	if t.baudPhase < prev && t.queued > 0 { // wrapped: advance to next symbol
		t.ringRead = (t.ringRead + 1) % v34TxRingSize
		t.queued--
	}

	c := float64(DspCos(t.carrierPhase)) / CosBase
	s := float64(DspSin(t.carrierPhase)) / CosBase
	out := real(acc)*c - imag(acc)*s
	t.carrierPhase += t.carrierIncr

	return int16(clampInt32(int32(out*t.TxAmp/256), -32768, 32767))
}
