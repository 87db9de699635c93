package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 receive pipeline (spec.md §4.8.7, C9 — partial,
 *		per spec.md §1/§2): AGC, a fractional-rate matched filter,
 *		the symbol-timing error detector built from two
 *		narrow-band Nyquist filters, a decision-directed LMS
 *		complex equalizer, and the Viterbi decoder
 *		(v34_viterbi.go). The timing error is computed every
 *		sample but not fed back into the baud phase, and there is
 *		no shell demapping.
 *
 *		Grounded on original_source/v34eq.c's AGC/equalizer
 *		structuring and spec.md's explicit formulas for the
 *		timing-recovery cross-correlation (§4.8.7 step 3), which
 *		this module implements directly since the prose there is
 *		itself the analytic definition (no further primary source
 *		to translate). The exact interpretation of "Yl^-1" as the
 *		one-sample-earlier low-band tap is a documented Open
 *		Question resolution (DESIGN.md).
 *
 *------------------------------------------------------------------*/

import "math"

const (
	agcCoef  = 0.99
	eqFrac   = 3 // EQ_FRAC: samples per symbol after matched filtering
	eqTaps   = 52
)

// AGC is the leaky squared-sample power estimator of spec.md §4.8.7 step 1.
type AGC struct {
	mem  float64
	gain float64
	k    float64
}

func NewAGC(target float64) *AGC {
	return &AGC{k: target}
}

func (a *AGC) Apply(sample float64) float64 {
	a.mem = a.mem*agcCoef + sample*sample*(1-agcCoef)
	power := math.Sqrt(a.mem)
	if power < 1e-6 {
		power = 1e-6
	}
	a.gain = a.k / power
	return sample * a.gain
}

// timingRecovery implements the two narrow-band IIR Nyquist filters and
// the cross-correlation timing-error computation of spec.md §4.8.7 step 3.
type timingRecovery struct {
	r         float64
	thetaHi   float64
	thetaLo   float64
	yHi, yLo  complex128
	yLoPrev   complex128
	a, b, c   float64
}

func newTimingRecovery(carrierHz, symbolRate float64) *timingRecovery {
	t := &timingRecovery{r: 0.99}
	t.thetaHi = 2 * math.Pi * (carrierHz + symbolRate/2) / (3 * symbolRate)
	t.thetaLo = 2 * math.Pi * (carrierHz - symbolRate/2) / (3 * symbolRate)
	t.a = -t.r * t.r * math.Sin(t.thetaHi-t.thetaLo)
	t.b = t.r * math.Sin(t.thetaHi)
	t.c = -t.r * math.Sin(t.thetaLo)
	return t
}

func (t *timingRecovery) push(sample complex128) float64 {
	polehi := complex(t.r*math.Cos(t.thetaHi), t.r*math.Sin(t.thetaHi))
	polelo := complex(t.r*math.Cos(t.thetaLo), t.r*math.Sin(t.thetaLo))
	t.yHi = t.yHi*polehi + sample
	t.yLoPrev = t.yLo
	t.yLo = t.yLo*polelo + sample

	v := t.a*real(t.yHi*cmplxConj(t.yLo)) +
		t.b*real(t.yHi*cmplxConj(t.yLoPrev)) +
		t.c*real(t.yLo*cmplxConj(t.yLoPrev))
	return v
}

func cmplxConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// Equalizer is the decision-directed complex LMS adaptive filter of
// spec.md §4.8.7 step 4, sized down from the source's 52*3-tap Q30
// fixed-point filter to a 52-tap float64 filter; Adapt is plain LMS
// with a fixed step of 1/4096 (no power normalization).
type Equalizer struct {
	taps    []complex128
	history []complex128
	at      int
	step    float64
}

func NewEqualizer() *Equalizer {
	return &Equalizer{
		taps:    make([]complex128, eqTaps),
		history: make([]complex128, eqTaps),
		step:    1.0 / 4096,
	}
}

func (e *Equalizer) Push(sample complex128) complex128 {
	e.history[e.at] = sample
	var out complex128
	for i := 0; i < eqTaps; i++ {
		out += e.taps[i] * e.history[(e.at+i)%eqTaps]
	}
	return out
}

// Adapt updates the equalizer taps from the decision error (decided -
// equalized output), decision-directed LMS.
func (e *Equalizer) Adapt(err complex128) {
	for i := 0; i < eqTaps; i++ {
		h := e.history[(e.at+i)%eqTaps]
		e.taps[i] += complex(e.step, 0) * err * cmplxConj(h)
	}
	e.at = (e.at + eqTaps - 1) % eqTaps
}

// RxPath is the full V.34 receive chain for one direction.
type RxPath struct {
	agc     *AGC
	matched []float64
	ring    []float64
	ringAt  int

	timing *timingRecovery
	eq     *Equalizer
	vit    *Viterbi

	baudPhase uint32
	baudIncr  uint32

	cons  *Constellation
	shell *ShellTables

	descrambler *Scrambler

	acnt, rcnt int
	p          *V34Params
}

func NewRxPath(p *V34Params, cons *Constellation, shell *ShellTables, descrambler *Scrambler) *RxPath {
	r := &RxPath{p: p, cons: cons, shell: shell, descrambler: descrambler}
	r.agc = NewAGC(16384)
	r.matched = make([]float64, v34TxFilterTaps)
	samplesPerSymbol := 8000.0 / p.SymbolRate
	genRRCLowpass(r.matched, 0.35, samplesPerSymbol)
	r.ring = make([]float64, len(r.matched))
	r.timing = newTimingRecovery(p.CarrierHz, p.SymbolRate)
	r.eq = NewEqualizer()
	r.vit = NewViterbi()
	r.baudIncr = uint32(float64(1<<32) * p.SymbolRate / 8000)
	return r
}

// PushSample feeds one received PCM sample; when a symbol decision is
// ready it demodulates carrier, runs the matched filter + equalizer,
// makes a hard decision against the constellation, passes its coset
// bit through the Viterbi decoder, descrambles the decoded bit and
// pushes it to rx. No shell demapping is done: one bit per decided
// symbol reaches rx.
func (r *RxPath) PushSample(sample int16, carrierPhase uint32, rx *BitFIFO) {
	x := r.agc.Apply(float64(sample))

	r.ring[r.ringAt] = x
	r.ringAt = (r.ringAt + 1) % len(r.ring)

	c := float64(DspCos(carrierPhase)) / CosBase
	s := float64(DspSin(carrierPhase)) / CosBase
	baseband := complex(x*c, -x*s)
	_ = r.timing.push(baseband)

	prev := r.baudPhase
	r.baudPhase += r.baudIncr
	if r.baudPhase >= prev {
		return
	}

	var acc float64
	n := len(r.matched)
	for k := 0; k < n; k++ {
		idx := (r.ringAt - k - 1 + len(r.ring)) % len(r.ring)
		acc += r.ring[idx] * r.matched[k]
	}
	symbol := complex(acc*c, -acc*s)

	eqOut := r.eq.Push(symbol)
	r.decide(eqOut, rx)
}

func (r *RxPath) decide(sym complex128, rx *BitFIFO) {
	qx := quantizeToGrid(real(sym))
	qy := quantizeToGrid(imag(sym))
	idx, ok := r.cons.Code(absInt(qx), absInt(qy))
	if !ok {
		idx = 0
	}
	decision := idx & 1

	errorTable := [2]int64{0, 1}
	if decision == 0 {
		errorTable = [2]int64{0, 4}
	} else {
		errorTable = [2]int64{4, 0}
	}

	bit, ok := r.vit.Step(errorTable)
	if !ok {
		return
	}
	descrambled := r.descrambler.Descramble(bit)
	rx.PutBit(descrambled)
}

func quantizeToGrid(v float64) int {
	k := int(math.Round((v - 1) / 4))
	return 4*k + 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
