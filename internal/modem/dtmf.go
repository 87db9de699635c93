package modem

/*------------------------------------------------------------------
 *
 * Purpose:	DTMF modulation and Goertzel-style detection (spec.md
 *		§4.4, C4).
 *
 *		Grounded on the teacher's tone-generation style in
 *		src/gen_tone.go (phase accumulators, amplitude scaling)
 *		and its Goertzel-flavored block detector pattern, adapted
 *		from AFSK bit tones to the 8-tone DTMF matrix.
 *
 *------------------------------------------------------------------*/

import "math"

var dtmfRowFreq = [4]int{697, 770, 852, 941}
var dtmfColFreq = [4]int{1209, 1336, 1477, 1633}

// DtmfDigits is the row-major digit layout, index [row][col].
var DtmfDigits = [4][4]byte{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

func dtmfLookup(d byte) (row, col int, ok bool) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if DtmfDigits[r][c] == d {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// DTMFModulator synthesizes DTMF tones for a queued string of digits.
type DTMFModulator struct {
	SampleRate int
	LevelDB    float64
	DigitMs    int
	PauseMs    int

	digits  []byte
	digitAt int

	phase1, phase2   uint32
	omega1, omega2   uint32
	samplesRemaining int
	inPause          bool
	amp              int32
}

func NewDTMFModulator(sampleRate int, levelDB float64, digitMs, pauseMs int) *DTMFModulator {
	m := &DTMFModulator{SampleRate: sampleRate, LevelDB: levelDB, DigitMs: digitMs, PauseMs: pauseMs}
	m.amp = int32(math.Pow(10, levelDB/20) * 32768)
	return m
}

// Queue loads a new sequence of digits to be sent; replaces any in progress.
func (m *DTMFModulator) Queue(digits string) {
	m.digits = []byte(digits)
	m.digitAt = 0
	m.samplesRemaining = 0
	m.inPause = false
}

// Done reports whether every queued digit has been fully emitted.
func (m *DTMFModulator) Done() bool {
	return m.digitAt >= len(m.digits) && m.samplesRemaining == 0
}

func (m *DTMFModulator) startDigit() {
	d := m.digits[m.digitAt]
	row, col, ok := dtmfLookup(d)
	if !ok {
		row, col = 0, 0
	}
	m.omega1 = uint32(PhaseBase) * uint32(dtmfRowFreq[row]) / uint32(m.SampleRate)
	m.omega2 = uint32(PhaseBase) * uint32(dtmfColFreq[col]) / uint32(m.SampleRate)
	m.phase1, m.phase2 = 0, 0
	m.samplesRemaining = m.DigitMs * m.SampleRate / 1000
	m.inPause = false
}

// Sample produces the next output sample (signed 16-bit range), 0 when idle.
func (m *DTMFModulator) Sample() int16 {
	if m.samplesRemaining == 0 {
		if m.digitAt >= len(m.digits) {
			return 0
		}
		if !m.inPause {
			m.startDigit()
		} else {
			m.digitAt++
			m.samplesRemaining = 0
			m.inPause = false
			return m.Sample()
		}
	}

	var out int32
	if m.inPause {
		out = 0
	} else {
		c1 := DspCos(m.phase1)
		c2 := DspCos(m.phase2)
		out = ((c1 + c2) * m.amp) >> CosBits
		m.phase1 += m.omega1
		m.phase2 += m.omega2
	}

	m.samplesRemaining--
	if m.samplesRemaining == 0 && !m.inPause {
		m.inPause = true
		m.samplesRemaining = m.PauseMs * m.SampleRate / 1000
	}
	return int16(clampInt32(out, -32768, 32767))
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DTMFDetector implements the block-wise 8-coefficient Goertzel detector
// of spec.md §4.4: N=205 samples per block (~25.6ms @ 8kHz).
type DTMFDetector struct {
	SampleRate int
	BlockSize  int

	buf       []int32
	fill      int
	lastDigit byte // 0 = none
}

func NewDTMFDetector(sampleRate int) *DTMFDetector {
	const n = 205
	return &DTMFDetector{SampleRate: sampleRate, BlockSize: n, buf: make([]int32, n)}
}

// Push feeds one sample; returns a non-zero digit on rising-edge detection.
func (d *DTMFDetector) Push(sample int16) byte {
	d.buf[d.fill] = int32(sample)
	d.fill++
	if d.fill < d.BlockSize {
		return 0
	}
	d.fill = 0
	return d.evalBlock()
}

func (d *DTMFDetector) evalBlock() byte {
	n := d.BlockSize
	var energy int64
	for _, s := range d.buf {
		energy += int64(s) * int64(s)
	}

	rowMag := [4]int64{}
	colMag := [4]int64{}
	for i, f := range dtmfRowFreq {
		k := int(math.Round(float64(f) * float64(n) / float64(d.SampleRate)))
		rowMag[i] = GoertzelDFT(d.buf, k, n)
	}
	for i, f := range dtmfColFreq {
		k := int(math.Round(float64(f) * float64(n) / float64(d.SampleRate)))
		colMag[i] = GoertzelDFT(d.buf, k, n)
	}

	rowBest, rowPeak := argmax8(rowMag[:])
	colBest, colPeak := argmax8(colMag[:])

	rowScaled := rowPeak * 2 / int64(n)
	colScaled := colPeak * 2 / int64(n)

	if float64(rowScaled) > 0.3*float64(energy) && float64(colScaled) > 0.3*float64(energy) {
		digit := DtmfDigits[rowBest][colBest]
		if digit != d.lastDigit {
			d.lastDigit = digit
			return digit
		}
		return 0
	}
	d.lastDigit = 0
	return 0
}

func argmax8(v []int64) (idx int, val int64) {
	val = v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > val {
			val = v[i]
			idx = i
		}
	}
	return idx, val
}
