package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Top-level modem session state machine (spec.md §4.10,
 *		C11): dial -> DTMF (optional) -> V.8 -> chosen data pump ->
 *		hang-up, driven by one re-entrant process() call per
 *		audio block.
 *
 *		Grounded on the teacher's per-channel state-machine shape
 *		(src/dlq.go/hdlc_rec2.go's explicit-state, timer-driven
 *		style) generalized from packet-radio channel states to
 *		this call's dial/negotiate/data states.
 *
 *------------------------------------------------------------------*/

// State is the session's internal state (spec.md §4.10).
type State int

const (
	StateIdle State = iota
	StateCall
	StateGoOnhook
	StateDtmfDial
	StateDtmfDialWait
	StateDtmfDialWait1
	StateV8
	StateV21
	StateV23
	StateV34
	StateTestRing
	StateTestRing2
	StateReceive
)

// ConnState is the public get_state() projection (spec.md §6.1).
type ConnState int

const (
	ConnIdle ConnState = iota
	ConnConnecting
	ConnConnected
)

// LineInterface is the four-callback hardware contract the core
// consumes (spec.md §6.2). main_loop is intentionally omitted: the
// spec keeps it only for backward compatibility and the core never
// calls it.
type LineInterface interface {
	Open(name string) error
	Close() error
	SetOffHook(on bool)
	SetRing(on bool)
}

const dtmfTimerMillis = 2000
const dtmfWait1Millis = 1000
const v8AnswerTimeoutMillis = 5000

// Session is the root object (spec.md §3.1 "Modem session").
type Session struct {
	Name   string
	hw     LineInterface
	cfg    *LinModemConfig
	state  State

	tx *BitFIFO
	rx *BitFIFO

	ser *AsyncSerial

	hangupRequested bool
	callNumber      string
	calling         bool
	clock           int64

	dtmfTimer Timer
	dtmfMod   *DTMFModulator
	dtmfDet   *DTMFDetector

	v8  *V8Negotiator
	v21 *FSKPump
	v23 *FSKPump
	v34 *V34Pump

	lastErr error
}

// NewSession constructs a session bound to the given hardware/line
// interface and configuration (spec.md §6.1 session_init).
func NewSession(hw LineInterface, name string, cfg *LinModemConfig) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Session{
		Name:  name,
		hw:    hw,
		cfg:   cfg,
		state: StateIdle,
		tx:    NewBitFIFO(4096),
		rx:    NewBitFIFO(4096),
		ser:   NewAsyncSerial(cfg.DataBits, cfg.Parity),
	}
	if err := hw.Open(name); err != nil {
		s.lastErr = &IoError{Op: "open", Err: err}
	}
	return s
}

// StartDial begins an outbound call (spec.md §6.1). Returns ErrBusy if
// a call is already active.
func (s *Session) StartDial(pulse bool, number string) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	s.callNumber = number
	s.calling = true
	s.hangupRequested = false
	s.cfg.PulseDial = pulse
	s.state = StateCall
	return nil
}

// StartReceive begins answering an inbound call (spec.md §6.1).
func (s *Session) StartReceive() error {
	if s.state != StateIdle {
		return ErrBusy
	}
	s.calling = false
	s.hangupRequested = false
	s.state = StateReceive
	return nil
}

// Hangup requests termination (spec.md §5, §6.1).
func (s *Session) Hangup() error {
	if s.state == StateIdle {
		return ErrAlreadyIdle
	}
	s.hangupRequested = true
	return nil
}

// GetState projects the internal state onto {IDLE, CONNECTING, CONNECTED}.
func (s *Session) GetState() ConnState {
	switch s.state {
	case StateIdle:
		return ConnIdle
	case StateV21, StateV23, StateV34:
		return ConnConnected
	default:
		return ConnConnecting
	}
}

// TxFIFO / RxFIFO expose the host-facing data pipes (spec.md §6.1).
func (s *Session) TxFIFO() *BitFIFO { return s.tx }
func (s *Session) RxFIFO() *BitFIFO { return s.rx }

// Process runs one audio block through the session: produce n samples
// of output, consume n samples of input, and advance the protocol
// state machine by n samples (spec.md §4.10, §5).
func (s *Session) Process(out, in []int16) {
	n := len(out)

	for i := range out {
		out[i] = 0
	}
	switch s.state {
	case StateDtmfDialWait, StateDtmfDialWait1:
		if s.dtmfMod != nil {
			for i := range out {
				out[i] = s.dtmfMod.Sample()
			}
		}
	case StateV8:
		s.v8.Tx(out)
	case StateV21:
		s.v21.Tx(out, s.tx)
	case StateV23:
		s.v23.Tx(out, s.tx)
	case StateV34:
		s.v34.Tx(out, s.tx)
	}

	switch s.state {
	case StateTestRing2:
		if s.dtmfDet != nil {
			for _, sample := range in {
				s.dtmfDet.Push(sample)
			}
		}
	case StateV8:
		s.v8.Rx(in)
	case StateV21:
		s.v21.Rx(in, s.rx)
	case StateV23:
		s.v23.Rx(in, s.rx)
	case StateV34:
		s.v34.Rx(in, s.rx)
	}

	s.advance()
	s.clock += int64(n)
}

func (s *Session) advance() {
	if s.hangupRequested && s.state != StateIdle && s.state != StateGoOnhook {
		s.state = StateGoOnhook
	}

	switch s.state {
	case StateIdle:
		// no-op

	case StateCall:
		s.hw.SetOffHook(true)
		s.hangupRequested = false
		s.dtmfTimer.Arm(s.clock, dtmfTimerMillis*8000/1000)
		s.state = StateDtmfDial

	case StateDtmfDial:
		if s.dtmfTimer.Expired(s.clock) {
			s.dtmfMod = NewDTMFModulator(8000, s.cfg.DtmfLevelDB, s.cfg.DtmfDigitMs, s.cfg.DtmfPauseMs)
			s.dtmfMod.Queue(s.callNumber)
			s.state = StateDtmfDialWait
		}

	case StateDtmfDialWait:
		if s.dtmfMod != nil && s.dtmfMod.Done() {
			s.dtmfTimer.Arm(s.clock, dtmfWait1Millis*8000/1000)
			s.state = StateDtmfDialWait1
		}

	case StateDtmfDialWait1:
		if s.dtmfTimer.Expired(s.clock) {
			s.v8 = NewV8Negotiator(s.calling, s.cfg.AvailableModulations)
			s.state = StateV8
		}

	case StateReceive:
		s.v8 = NewV8Negotiator(s.calling, s.cfg.AvailableModulations)
		s.state = StateV8

	case StateV8:
		mod, done := s.v8.Process(s.clock, 0)
		if done {
			switch mod {
			case ModV21:
				s.v21 = NewV21Pump(s.calling, s.ser)
				s.state = StateV21
			case ModV23:
				s.v23 = NewV23Pump(s.calling, s.ser)
				s.state = StateV23
			case ModV34:
				s.v34 = NewV34Pump(s.calling)
				s.state = StateV34
			default:
				s.state = StateGoOnhook
			}
		}

	case StateV34:
		// V34Pump.Process drives the startup timer (S/S-bar/PP/TRN/J/
		// JP/MP, v34_startup.go) off the session clock; once it
		// reports done, Tx/Rx (above) are already in the data phase.
		// No pump-internal termination signal beyond hangup_request
		// in this subset (spec.md §4.10 step 4), same as V21/V23.
		s.v34.Process(s.clock)

	case StateV21, StateV23:
		// remains until hangup_request; no pump-internal termination
		// signal beyond that in this subset (spec.md §4.10 step 4).

	case StateGoOnhook:
		s.hw.SetOffHook(false)
		s.hangupRequested = false
		s.state = StateIdle
	}
}

// LastError returns the most recent fatal I/O error, if any (spec.md §7).
func (s *Session) LastError() error { return s.lastErr }

// Close tears down the session's hardware binding.
func (s *Session) Close() error {
	return s.hw.Close()
}
