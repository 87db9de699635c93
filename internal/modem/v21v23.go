package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.21 / V.23 shells (spec.md §4.6, C6): direction-aware
 *		parameter selection wrapping the generic FSK pump (C5).
 *
 *------------------------------------------------------------------*/

// FSKPump is a bidirectional FSK data pump bound to one direction
// (caller or answerer) of either V.21 or V.23.
type FSKPump struct {
	mod   *FSKMod
	demod *FSKDemod
	ser   *AsyncSerial
}

func newFSKPump(txParams, rxParams FSKParams, ser *AsyncSerial) *FSKPump {
	return &FSKPump{
		mod:   NewFSKMod(txParams),
		demod: NewFSKDemod(rxParams),
		ser:   ser,
	}
}

// NewV21Pump builds a V.21 pump for the given role.
func NewV21Pump(caller bool, ser *AsyncSerial) *FSKPump {
	return newFSKPump(V21Params(caller), V21RxParams(caller), ser)
}

// NewV23Pump builds a V.23 pump for the given role. V.23 is asymmetric:
// the caller transmits at 75 Bd and receives at 1200 Bd (or vice versa
// for the answerer), per spec.md §6.3.
func NewV23Pump(caller bool, ser *AsyncSerial) *FSKPump {
	return newFSKPump(V23TxParams(caller), V23RxParams(caller), ser)
}

// Tx produces n samples of modulated output, pulling framed bits from tx.
func (p *FSKPump) Tx(out []int16, tx *BitFIFO) {
	for i := range out {
		out[i] = p.mod.Sample(serialBitSource{p.ser, tx})
	}
}

// Rx consumes n samples of received input, pushing decoded bits into rx.
func (p *FSKPump) Rx(in []int16, rx *BitFIFO) {
	sink := serialBitSink{p.ser, rx}
	for _, s := range in {
		p.demod.PushSample(s, sink)
	}
}

type serialBitSource struct {
	ser *AsyncSerial
	tx  *BitFIFO
}

func (s serialBitSource) GetBit() int { return s.ser.GetBit(s.tx) }

type serialBitSink struct {
	ser *AsyncSerial
	rx  *BitFIFO
}

func (s serialBitSink) PutBit(b int) { s.ser.PutBit(b, s.rx) }
