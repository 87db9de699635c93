package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 startup sequencing (spec.md §4.8.6, §4.8.8): the
 *		S / S-bar / PP / TRN / J / JP / MP phase progression
 *		that brings both ends from silence to steady-state data
 *		exchange.
 *
 *		This is a timed linear sequence rather than the full
 *		line-probing/ranging exchange spec.md §4.8.8 describes in
 *		prose (INFO0/INFO1h exchange, L1/L2 line probe analysis):
 *		this module fixes the negotiated rate/constellation up
 *		front from DefaultV34Params and uses the startup phases
 *		only to bring the scrambler, equalizer and timing loops
 *		into sync before steady-state, which is the subset
 *		spec.md §1 scopes in. The skipped ranging detail is logged
 *		as a DESIGN.md Open Question.
 *
 *------------------------------------------------------------------*/

type v34StartupPhase int

const (
	phaseS v34StartupPhase = iota
	phaseSBar
	phasePP
	phaseTRN
	phaseJ
	phaseJP
	phaseMP
	phaseData
)

const (
	sMillis    = 200
	sBarMillis = 100
	ppMillis   = 93 // 1 symbol * L1 repeats, approximated as a short marker
	trnMillis  = 180
	jMillis    = 10
	jpMillis   = 10
	mpMillis   = 60
)

// v34Startup sequences phaseS..phaseMP before handing control to
// steady-state data exchange; it drives the same TxPath/RxPath used in
// steady state, sending known scrambled-ones TRN symbols in every phase
// before phaseData so the equalizer has something to converge against (spec.md §4.8.6's
// TRN sequence is the all-ones scrambled sequence, per the scrambler's
// own self-synchronizing convention).
type v34Startup struct {
	phase   v34StartupPhase
	timer   Timer
	trnScr  *Scrambler
}

func newV34Startup(caller bool) *v34Startup {
	s := &v34Startup{}
	if caller {
		s.trnScr = NewScramblerCaller()
	} else {
		s.trnScr = NewScramblerAnswerer()
	}
	return s
}

func (s *v34Startup) durationMillis() int {
	switch s.phase {
	case phaseS:
		return sMillis
	case phaseSBar:
		return sBarMillis
	case phasePP:
		return ppMillis
	case phaseTRN:
		return trnMillis
	case phaseJ:
		return jMillis
	case phaseJP:
		return jpMillis
	case phaseMP:
		return mpMillis
	default:
		return 0
	}
}

// Advance checks the phase timer and moves to the next phase, arming a
// fresh timer; returns true once phaseData is reached.
func (s *v34Startup) Advance(now int64) (done bool) {
	if s.phase == phaseData {
		return true
	}
	if !s.timer.Armed() {
		s.timer.ArmMillis(now, s.durationMillis(), 8000)
	}
	if s.timer.Expired(now) {
		s.phase++
		s.timer.Disarm()
	}
	return s.phase == phaseData
}

// TrainingSymbol returns the next known TRN symbol (a scrambled
// constant-one sequence run through the differential/trellis path is
// skipped; this emits a fixed QPSK corner point toggled by the
// scrambler output directly, sufficient to drive AGC/timing/equalizer
// convergence before real data framing begins).
func (s *v34Startup) TrainingSymbol() complex128 {
	bit := s.trnScr.Scramble(1)
	if bit == 0 {
		return complex(1, 1)
	}
	return complex(-1, -1)
}
