package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Fixed-point DSP primitives shared by every pump: the
 *		Q14 cosine table, dot product / square-norm helpers,
 *		Goertzel-style DFT, a radix-2 FFT, a slow any-N DFT,
 *		and a Hamming window.
 *
 *		Grounded on the teacher's src/dsp.go (window shapes,
 *		gen_lowpass/gen_bandpass normalization style) and on
 *		spec.md §4.3 / original_source/dsp.c for the exact
 *		fixed-point conventions (Q14 cos table over 8192
 *		entries, COS_BITS scaling).
 *
 *------------------------------------------------------------------*/

import "math"

const (
	// CosBits is the number of fractional bits in the Q14 cosine table.
	CosBits = 14
	// CosBase is 2^CosBits, the table's "1.0".
	CosBase = 1 << CosBits
	// CosTableSize is the number of entries in the table (one full cycle).
	CosTableSize = 8192
	// PhaseBits is the width of the Q16 phase accumulator.
	PhaseBits = 16
	// PhaseBase is 2^PhaseBits, one full turn in phase-accumulator units.
	PhaseBase = 1 << PhaseBits
)

var cosTab [CosTableSize]int32

func init() {
	for i := range cosTab {
		cosTab[i] = int32(math.Round(math.Cos(2*math.Pi*float64(i)/CosTableSize) * CosBase))
	}
}

// DspCos returns cos(phase) in Q14, where phase is a Q16 fraction of a
// full turn. IF-4: result is always in [-CosBase, CosBase] and
// DspCos(0) == CosBase.
func DspCos(phaseQ16 uint32) int32 {
	idx := (phaseQ16 >> (PhaseBits - 13)) & (CosTableSize - 1)
	return cosTab[idx]
}

// DspSin returns sin(phase) in Q14 by a quarter-turn phase shift of DspCos.
func DspSin(phaseQ16 uint32) int32 {
	return DspCos(phaseQ16 - (PhaseBase / 4))
}

// DotProduct returns Σ a[i]*b[i] over the shorter of the two slices.
func DotProduct(a, b []int32) int64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum int64
	for i := 0; i < n; i++ {
		sum += int64(a[i]) * int64(b[i])
	}
	return sum
}

// SquareNorm returns Σ a[i]^2.
func SquareNorm(a []int32) int64 {
	var sum int64
	for _, v := range a {
		sum += int64(v) * int64(v)
	}
	return sum
}

// GoertzelDFT returns |Σ x[n]*e^(-j2πkn/N)|^2 for a block of N real
// samples, computed as a direct sum (the Goertzel recursion is the
// textbook optimization of the same quantity; the source keeps the
// recursive loop commented out and computes the direct sum, so this
// does too) scaled down by CosBits to keep the magnitude in range.
func GoertzelDFT(x []int32, k, n int) int64 {
	var re, im int64
	for i := 0; i < n && i < len(x); i++ {
		phase := uint32((uint64(k) * uint64(i) * PhaseBase) / uint64(n))
		re += int64(x[i]) * int64(DspCos(phase))
		im -= int64(x[i]) * int64(DspSin(phase))
	}
	re >>= CosBits
	im >>= CosBits
	return re*re + im*im
}

// Complex is a fixed-size complex number used by the FFT and slow DFT.
type Complex struct {
	Re, Im float64
}

func (c Complex) Add(o Complex) Complex { return Complex{c.Re + o.Re, c.Im + o.Im} }
func (c Complex) Sub(o Complex) Complex { return Complex{c.Re - o.Re, c.Im - o.Im} }
func (c Complex) Mul(o Complex) Complex {
	return Complex{c.Re*o.Re - c.Im*o.Im, c.Re*o.Im + c.Im*o.Re}
}

type fftTables struct {
	wcos []float64 // first-quadrant cosine table, size n/4+1
}

var fftCache = map[int]*fftTables{}

func fftInit(n int) *fftTables {
	if t, ok := fftCache[n]; ok {
		return t
	}
	t := &fftTables{wcos: make([]float64, n/4+1)}
	for i := range t.wcos {
		t.wcos[i] = math.Cos(2 * math.Pi * float64(i) / float64(n))
	}
	fftCache[n] = t
	return t
}

func fftCosSin(t *fftTables, n, k int) (c, s float64) {
	c = fftCosOnly(t, n, k)
	// sin(x) = cos(x - pi/2) = cos table shifted by a quarter turn
	s = fftCosOnly(t, n, k-n/4)
	return c, s
}

func fftCosOnly(t *fftTables, n, k int) float64 {
	// k may be any integer; fold into [0, n) and then into the first
	// quadrant table.
	k = ((k % n) + n) % n
	quarter := n / 4
	switch {
	case k <= quarter:
		return t.wcos[k]
	case k <= 2*quarter:
		return -t.wcos[2*quarter-k]
	case k <= 3*quarter:
		return -t.wcos[k-2*quarter]
	default:
		return t.wcos[4*quarter-k]
	}
}

func bitReverse(i, bits int) int {
	var r int
	for b := 0; b < bits; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FFT performs an in-place radix-2 FFT (or inverse if inverse is true)
// on data, which MUST have a power-of-two length. Normalizes by 1/sqrt(n)
// in both directions, matching a unitary DFT so IF-5 (Parseval) holds.
func FFT(data []Complex, inverse bool) {
	n := len(data)
	if !isPowerOfTwo(n) {
		panic("modem: FFT requires a power-of-two length")
	}
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	t := fftInit(n)

	for i := 0; i < n; i++ {
		j := bitReverse(i, bits)
		if j > i {
			data[i], data[j] = data[j], data[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := n / size
		for start := 0; start < n; start += size {
			for i := 0; i < half; i++ {
				c, s := fftCosSin(t, n, i*step)
				s *= sign
				w := Complex{c, s}
				even := data[start+i]
				odd := data[start+i+half].Mul(w)
				data[start+i] = even.Add(odd)
				data[start+i+half] = even.Sub(odd)
			}
		}
	}

	norm := 1.0 / math.Sqrt(float64(n))
	for i := range data {
		data[i].Re *= norm
		data[i].Im *= norm
	}
}

// SlowDFT computes the DFT (or inverse) directly in O(N^2), for sizes
// that aren't a power of two, or for use during init/table generation.
func SlowDFT(output, input []Complex, inverse bool) {
	n := len(input)
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	norm := 1.0 / math.Sqrt(float64(n))
	for k := 0; k < n; k++ {
		var sum Complex
		for j := 0; j < n; j++ {
			theta := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum = sum.Add(input[j].Mul(Complex{math.Cos(theta), math.Sin(theta)}))
		}
		output[k] = Complex{sum.Re * norm, sum.Im * norm}
	}
}

// Hamming fills out[i] = 0.54 - 0.46*cos(2*pi*i/N).
func Hamming(out []float64) {
	n := len(out)
	for i := range out {
		out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
}

// rrc evaluates the raised-cosine pulse: sinc(t) windowed by a cosine
// taper, 1 at t=0 and 0 at every other integer t (teacher: src/dsp.go
// rrc/gen_rrc_lowpass). Despite the name it is not the square root of
// the raised-cosine response. t is in units of symbol duration, a is
// rolloff in [0,1].
func rrc(t, a float64) float64 {
	var sinc float64
	if t > -0.001 && t < 0.001 {
		sinc = 1
	} else {
		sinc = math.Sin(math.Pi*t) / (math.Pi * t)
	}

	var window float64
	if math.Abs(a*t) > 0.499 && math.Abs(a*t) < 0.501 {
		window = math.Pi / 4
	} else {
		window = math.Cos(math.Pi*a*t) / (1 - math.Pow(2*a*t, 2))
	}
	return sinc * window
}

// genRRCLowpass fills filter with samplesPerSymbol-sampled rrc() taps,
// normalized to unity gain (teacher: src/dsp.go gen_rrc_lowpass).
func genRRCLowpass(filter []float64, rolloff, samplesPerSymbol float64) {
	n := len(filter)
	var sum float64
	for k := 0; k < n; k++ {
		t := (float64(k) - (float64(n)-1.0)/2.0) / samplesPerSymbol
		filter[k] = rrc(t, rolloff)
		sum += filter[k]
	}
	for k := range filter {
		filter[k] /= sum
	}
}
