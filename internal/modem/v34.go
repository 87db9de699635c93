package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Top-level V.34 data pump (spec.md §4.8, C9): wires
 *		parameter derivation, constellation/shell construction,
 *		differential+trellis encoding, the precoder, scrambler,
 *		transmit shaping and the receive chain into one
 *		bidirectional pump with the same Tx/Rx shape as the FSK
 *		pump (v21v23.go), so the session layer can treat every
 *		modulation uniformly.
 *
 *		This is explicitly the partial V.34 the spec's overview
 *		calls for: fixed S=2400/R=19200 parameters, a 16-state
 *		trellis, and a startup sequence that skips line probing
 *		(see v34_startup.go's header). Per-bit scope is documented
 *		file-by-file rather than repeated here.
 *
 *------------------------------------------------------------------*/

// V34Pump is one direction's complete V.34 session: caller or answerer,
// running the startup sequence and then steady-state data exchange.
type V34Pump struct {
	Calling bool
	Params  *V34Params

	cons  *Constellation
	shell *ShellTables

	enc      *TrellisEncoder
	prec     *Precoder
	txScr    *Scrambler
	rxScr    *Scrambler

	tx *TxPath
	rx *RxPath

	startup *v34Startup

	bitsPerSymbol int
}

// NewV34Pump builds a V.34 pump for one call direction using the
// fixed default parameter set (spec.md §1's in-scope subset).
func NewV34Pump(calling bool) *V34Pump {
	p := DefaultV34Params()
	cons := BuildConstellation(p.L)
	shell := BuildShellTables(p.M)

	v := &V34Pump{
		Calling: calling,
		Params:  p,
		cons:    cons,
		shell:   shell,
		enc:     &TrellisEncoder{},
		prec:    NewPrecoder(p.PrecoderH, p.B),
		tx:      NewTxPath(p),
		rx:      NewRxPath(p, cons, shell, nil),
		startup: newV34Startup(calling),
	}
	if calling {
		v.txScr = NewScramblerCaller()
		v.rxScr = NewScramblerAnswerer()
	} else {
		v.txScr = NewScramblerAnswerer()
		v.rxScr = NewScramblerCaller()
	}
	v.rx.descrambler = v.rxScr
	v.bitsPerSymbol = int(log2ceil(len(cons.Points) * 4))
	if v.bitsPerSymbol < 2 {
		v.bitsPerSymbol = 2
	}
	return v
}

// Process advances the startup timer; returns true once steady-state
// data exchange has begun (spec.md §4.8.6/§4.8.8).
func (v *V34Pump) Process(now int64) bool {
	return v.startup.Advance(now)
}

// Tx produces len(out) samples, pulling framed bits from tx once
// startup has completed, or emitting training symbols before that.
func (v *V34Pump) Tx(out []int16, tx *BitFIFO) {
	for i := range out {
		if v.tx.queued < 4 {
			v.pushNextSymbol(tx)
		}
		out[i] = v.tx.Sample()
	}
}

func (v *V34Pump) pushNextSymbol(tx *BitFIFO) {
	if v.startup.phase != phaseData {
		v.tx.PushSymbol(v.startup.TrainingSymbol())
		return
	}

	bits := make([]int, v.bitsPerSymbol)
	for i := range bits {
		b := tx.GetBit()
		if b == NoBit {
			b = 1 // idle mark, per spec.md's async-serial idle convention
		}
		bits[i] = v.txScr.Scramble(b)
	}

	i0, i1, i2 := bits[0], bits[1], 0
	if v.bitsPerSymbol > 2 {
		i2 = bits[2]
	}
	z0, _ := v.enc.Differential(i0, i1, i2)
	u0 := v.enc.Encode4D(bits[0], bits[1])
	v.enc.Advance(v.Params.Row.P)

	idxBits := 0
	for i := 3; i < v.bitsPerSymbol; i++ {
		idxBits = (idxBits << 1) | bits[i]
	}
	pointIdx := idxBits % len(v.cons.Points)
	pt := v.cons.Point(pointIdx, (z0^u0)&3)

	u := complex(float64(pt.X), float64(pt.Y))
	y, _ := v.prec.Apply(u)
	v.tx.PushSymbol(y)
}

// Rx consumes received samples, demodulating and descrambling data
// bits into rx once steady state has been reached.
func (v *V34Pump) Rx(in []int16, rx *BitFIFO) {
	if v.startup.phase != phaseData {
		return
	}
	for _, s := range in {
		v.rx.PushSample(s, v.tx.carrierPhase, rx)
	}
}

// NegotiateRate is the fallback rate-ladder stub referenced from
// SPEC_FULL.md's Supplemented Features: a production negotiator would
// walk V34SymbolRates from the fastest mutually-supported row down
// until an MP frame round-trip succeeds. This module always selects
// DefaultV34Params' row since line-probe-driven rate selection is out
// of scope (v34_startup.go's header); it exists as a named hook so a
// caller that wants to plug in real rate negotiation has a single
// place to do it.
func NegotiateRate(localRates, peerRates int) SymbolRateRow {
	_ = localRates
	_ = peerRates
	return V34SymbolRates[0]
}
