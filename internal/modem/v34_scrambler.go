package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 self-synchronizing scrambler (spec.md §4.8.4 step 1):
 *		GPC = 1 + x^18 + x^23 (caller) or GPA = 1 + x^5 + x^23
 *		(answerer). The receiver descrambles with the opposite
 *		polynomial from what it transmits with.
 *
 *------------------------------------------------------------------*/

type Scrambler struct {
	reg    uint32 // 23-bit shift register, bit 0 = most recent output
	tapPos uint   // feedback tap bit position: 17 (x^18, caller) or 4 (x^5, answerer)
}

func NewScramblerCaller() *Scrambler   { return &Scrambler{tapPos: 17} } // x^18
func NewScramblerAnswerer() *Scrambler { return &Scrambler{tapPos: 4} }  // x^5

// Scramble runs one data bit through the self-synchronizing scrambler
// (additive, state updated from the transmitted/scrambled bit stream
// per V.34 Annex A convention).
func (s *Scrambler) Scramble(bit int) int {
	fb := (int(s.reg>>22) ^ int((s.reg>>s.tapPos)&1)) & 1
	out := bit ^ fb
	s.reg = ((s.reg << 1) | uint32(out&1)) & ((1 << 23) - 1)
	return out
}

// Descramble is the exact inverse of Scramble: it runs off the
// received (still scrambled) bit stream, which evolves the register
// identically to Scramble's own feedback path.
func (s *Scrambler) Descramble(bit int) int {
	fb := (int(s.reg>>22) ^ int((s.reg>>s.tapPos)&1)) & 1
	s.reg = ((s.reg << 1) | uint32(bit&1)) & ((1 << 23) - 1)
	return bit ^ fb
}
