package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.8 negotiation sub-machine (spec.md §4.6, C7): ANSam
 *		tone generation & detection, CI/CM/JM/CJ octet framing
 *		carried over V.21, and modulation-mask negotiation.
 *
 *		Grounded on the teacher's state-machine style in
 *		src/dlq.go / src/hdlc_rec2.go (explicit state enums
 *		driven by timers and incoming bit events) and on
 *		original_source/v8.c for the exact CI/CM/JM byte layout.
 *
 *------------------------------------------------------------------*/

// Modulation is a bitmask of modulation capabilities (spec.md §4.6).
type Modulation uint32

const (
	ModV21 Modulation = 1 << iota
	ModV23
	ModV34
	ModV90
)

// SelectModulation returns HANGUP (0) when the intersection is empty,
// else the highest-priority modulation present in both masks:
// V.90 > V.34 > V.23 > V.21.
func SelectModulation(local, peer Modulation) Modulation {
	both := local & peer
	switch {
	case both&ModV90 != 0:
		return ModV90
	case both&ModV34 != 0:
		return ModV34
	case both&ModV23 != 0:
		return ModV23
	case both&ModV21 != 0:
		return ModV21
	default:
		return 0 // HANGUP
	}
}

const (
	callFuncData byte = 0x83

	modn0Base byte = 0xA0
	modn0V90  byte = 0x04
	modn0V34  byte = 0x02

	extFlag   byte = 0x08
	extMask   byte = 0x1C
	modn2V21  byte = 0x01
	modn2V23  byte = 0x20

	ciSync byte = 0x01 // 10-bit sync pattern 0x001, low byte carried here
	cmSync byte = 0x0F // 10-bit sync pattern 0x00F
)

// encodeCM packs a modulation mask into the CM/JM payload bytes:
// call-function octet, MODN0, and an EXT-chained MODN2 when V21/V23
// need to be signalled (spec.md §4.6).
func encodeCM(mask Modulation) []byte {
	modn0 := modn0Base
	if mask&ModV90 != 0 {
		modn0 |= modn0V90
	}
	if mask&ModV34 != 0 {
		modn0 |= modn0V34
	}

	needExt := mask&(ModV21|ModV23) != 0
	if !needExt {
		return []byte{callFuncData, modn0}
	}

	modn0 |= extFlag
	modn2 := byte(0)
	if mask&ModV21 != 0 {
		modn2 |= modn2V21
	}
	if mask&ModV23 != 0 {
		modn2 |= modn2V23
	}
	return []byte{callFuncData, modn0, modn2}
}

// decodeCM walks the EXT-chained octets and recovers the modulation mask.
func decodeCM(octets []byte) Modulation {
	if len(octets) < 2 {
		return 0
	}
	var mask Modulation
	modn0 := octets[1]
	if modn0&modn0V90 != 0 {
		mask |= ModV90
	}
	if modn0&modn0V34 != 0 {
		mask |= ModV34
	}

	i := 2
	prev := modn0
	for prev&extFlag != 0 && i < len(octets) {
		b := octets[i]
		if b&modn2V21 != 0 {
			mask |= ModV21
		}
		if b&modn2V23 != 0 {
			mask |= ModV23
		}
		prev = b
		i++
	}
	return mask
}

// --- ANSam: 2100 Hz answer tone, 15 Hz AM at +-20% depth, phase
// reversed every 450ms (spec.md §4.6, §6.3). ---

const (
	ansamCarrierHz   = 2100
	ansamModHz       = 15
	ansamDepth       = 0.20
	ansamReversalMs  = 450
	ansamSampleRate  = 8000
)

type AnsamMod struct {
	carrierPhase uint32
	modPhase     uint32
	samplesLeft  int
	inverted     bool
}

func NewAnsamMod() *AnsamMod {
	return &AnsamMod{samplesLeft: ansamReversalMs * ansamSampleRate / 1000}
}

func (a *AnsamMod) Sample() int16 {
	carrier := float64(DspCos(a.carrierPhase)) / CosBase
	modv := 1.0 + ansamDepth*(float64(DspCos(a.modPhase))/CosBase)
	carrierIncr := uint32(PhaseBase) * ansamCarrierHz / ansamSampleRate
	modIncr := uint32(PhaseBase) * ansamModHz / ansamSampleRate

	sign := 1.0
	if a.inverted {
		sign = -1.0
	}
	out := sign * carrier * modv * 16384

	a.carrierPhase += carrierIncr
	a.modPhase += modIncr
	a.samplesLeft--
	if a.samplesLeft <= 0 {
		a.inverted = !a.inverted
		a.samplesLeft = ansamReversalMs * ansamSampleRate / 1000
	}
	return int16(clampInt32(int32(out), -32768, 32767))
}

// AnsamDetector implements the N=200 Goertzel-at-2100Hz detector of
// spec.md §4.6: power(bin) > 5*block_power after >>8 prescale, and
// block_power > 1000.
type AnsamDetector struct {
	buf  []int32
	fill int
}

func NewAnsamDetector() *AnsamDetector {
	return &AnsamDetector{buf: make([]int32, 200)}
}

func (d *AnsamDetector) Push(sample int16) bool {
	d.buf[d.fill] = int32(sample)
	d.fill++
	if d.fill < len(d.buf) {
		return false
	}
	d.fill = 0

	n := len(d.buf)
	var power int64
	for _, s := range d.buf {
		power += int64(s) * int64(s)
	}
	power >>= 8

	k := ansamCarrierHz * n / ansamSampleRate
	bin := GoertzelDFT(d.buf, k, n) >> 8

	return bin > 5*power && power > 1000
}

// --- V.8 octet framing over V.21: TEN_ONES(0x3FF) | sync10 | octets,
// each octet start(0)|8 data|stop(1). ---

type v8Parser struct {
	ser *AsyncSerial
	raw *BitFIFO // raw decoded data bytes land here before sync framing
}

func newV8Parser() *v8Parser {
	return &v8Parser{
		ser: NewAsyncSerial(8, ParityNone),
		raw: NewBitFIFO(256),
	}
}

// v8State is the caller/answerer negotiation state (spec.md §4.6).
type v8State int

const (
	v8Idle v8State = iota
	v8Wait1Second
	v8CI
	v8CISend
	v8CIOff
	v8GotAnsam
	v8CMSend
	v8CJSend
	v8SIGC
	v8Wait
	v8CMWait
	v8SIGA
	v8Done
	v8Hangup
)

const v8MaxCISeq = 10

// V8Negotiator drives one side of the V.8 handshake.
type V8Negotiator struct {
	Calling bool
	State   v8State

	startTimer   Timer
	ciTimer      Timer
	connectTimer Timer

	ciCount int

	v21 *FSKPump
	v21ser *AsyncSerial
	txFIFO *BitFIFO
	rxFIFO *BitFIFO

	ansamMod *AnsamMod
	ansamDet *AnsamDetector

	localMask Modulation

	cmData   []byte
	rxOctet  []byte
	zeroRun  int
	gotCM    bool
	gotCJ    bool

	selectedMod Modulation
	v8FallbackNoCM bool

	now int64
}

func NewV8Negotiator(calling bool, localMask Modulation) *V8Negotiator {
	v := &V8Negotiator{
		Calling:   calling,
		localMask: localMask,
		v21ser:    NewAsyncSerial(8, ParityNone),
		txFIFO:    NewBitFIFO(256),
		rxFIFO:    NewBitFIFO(256),
		ansamMod:  NewAnsamMod(),
		ansamDet:  NewAnsamDetector(),
	}
	v.v21 = NewV21Pump(calling, v.v21ser)
	if calling {
		v.State = v8Wait1Second
	} else {
		v.State = v8Wait
	}
	return v
}

func (v *V8Negotiator) queueOctets(sync byte, payload []byte) {
	// TEN_ONES preamble.
	v.txFIFO.PutBits(0x3FF, 10)
	v.txFIFO.PutBits(uint32(sync), 10)
	for _, b := range payload {
		v.txFIFO.PutBits(uint32(b), 8)
	}
}

// Tx produces nSamples of V.21-modulated V.8 output.
func (v *V8Negotiator) Tx(out []int16) {
	switch v.State {
	case v8CI, v8CISend, v8CMSend, v8CJSend, v8SIGA, v8SIGC:
		v.v21.Tx(out, v.txFIFO)
	case v8GotAnsam, v8CMWait:
		for i := range out {
			out[i] = v.ansamMod.Sample()
		}
	default:
		for i := range out {
			out[i] = 0
		}
	}
}

// Rx consumes nSamples of received input.
func (v *V8Negotiator) Rx(in []int16) {
	switch v.State {
	case v8CIOff, v8Wait:
		for _, s := range in {
			if v.ansamDet.Push(s) {
				v.onAnsamDetected()
			}
		}
	default:
		v.v21.Rx(in, v.rxFIFO)
		v.drainOctets()
	}
}

func (v *V8Negotiator) drainOctets() {
	for {
		b := v.rxFIFO.GetBits(8)
		if b == NoBit {
			return
		}
		if b == 0 {
			v.zeroRun++
			if v.zeroRun >= 3 {
				v.gotCJ = true
			}
		} else {
			v.zeroRun = 0
			v.rxOctet = append(v.rxOctet, byte(b))
			if len(v.rxOctet) >= 2 {
				mask := decodeCM(v.rxOctet)
				if mask != 0 {
					v.cmData = append([]byte(nil), v.rxOctet...)
					v.gotCM = true
				}
			}
		}
	}
}

func (v *V8Negotiator) onAnsamDetected() {
	if v.State == v8CIOff {
		v.State = v8GotAnsam
		v.connectTimer.ArmMillis(v.now, 800, 8000)
	}
}

// Process advances the negotiator by nSamples. done reports whether
// negotiation has reached a terminal state; mod is then the selected
// modulation, or 0 (HANGUP) if no common modulation was found or the
// CI retry ceiling was exhausted.
func (v *V8Negotiator) Process(now int64, nSamples int) (mod Modulation, done bool) {
	v.now = now

	switch v.State {
	case v8Wait1Second:
		if !v.startTimer.Armed() {
			v.startTimer.ArmMillis(now, 1000, 8000)
		}
		if v.startTimer.Expired(now) {
			v.startCISend()
		}

	case v8CI:
		if v.txFIFO.Size() == 0 {
			v.State = v8CISend
		}

	case v8CISend:
		if v.txFIFO.Size() == 0 {
			v.State = v8CIOff
			v.ciTimer.ArmMillis(now, 500, 8000)
		}

	case v8CIOff:
		if v.ciTimer.Expired(now) {
			v.ciCount++
			if v.ciCount >= v8MaxCISeq {
				v.State = v8Hangup
				return 0, true
			}
			v.startCISend()
		}

	case v8GotAnsam:
		if v.connectTimer.Expired(now) {
			v.queueOctets(cmSync, encodeCM(v.localMask))
			v.State = v8CMSend
		}

	case v8CMSend:
		if v.gotCM {
			v.queueOctets(cmSync, []byte{0, 0, 0})
			v.State = v8CJSend
		}

	case v8CJSend:
		if v.txFIFO.Size() == 0 {
			v.State = v8SIGC
			v.connectTimer.ArmMillis(now, 75, 8000)
		}

	case v8SIGC:
		if v.connectTimer.Expired(now) {
			peerMask := decodeCM(v.cmData)
			v.selectedMod = SelectModulation(v.localMask, peerMask)
			v.State = v8Done
			return v.selectedMod, true
		}

	case v8Wait:
		if !v.startTimer.Armed() {
			v.startTimer.ArmMillis(now, 200, 8000)
		}
		if v.startTimer.Expired(now) {
			v.State = v8CMWait
		}

	case v8CMWait:
		if v.gotCM {
			peerMask := decodeCM(v.cmData)
			v.selectedMod = SelectModulation(v.localMask, peerMask)
			v.queueOctets(cmSync, encodeCM(v.selectedMod))
			v.State = v8SIGA
		}

	case v8SIGA:
		if v.gotCJ && v.txFIFO.Size() == 0 {
			if !v.connectTimer.Armed() {
				v.connectTimer.ArmMillis(now, 75, 8000)
			}
			if v.connectTimer.Expired(now) {
				v.State = v8Done
				return v.selectedMod, true
			}
		}

	case v8Hangup:
		return 0, true

	case v8Done:
		return v.selectedMod, true
	}

	return 0, false
}

func (v *V8Negotiator) startCISend() {
	v.queueOctets(ciSync, []byte{callFuncData})
	v.State = v8CI
}

// Finished reports whether negotiation has reached a terminal state.
func (v *V8Negotiator) Finished() bool {
	return v.State == v8Done || v.State == v8Hangup
}
