package modem

import "errors"

/*------------------------------------------------------------------
 *
 * Purpose:	Error taxonomy for the top-level API (spec.md §7),
 *		re-expressed as Go sentinel errors instead of the
 *		original's int status codes.
 *
 *------------------------------------------------------------------*/

var (
	// ErrBusy is returned by StartDial/StartReceive when the session
	// is not IDLE.
	ErrBusy = errors.New("modem: session busy")

	// ErrAlreadyIdle is returned by Hangup when the session is already IDLE.
	ErrAlreadyIdle = errors.New("modem: already idle")

	// ErrInvalidConfig is returned at init for an unsupported rate/modulation
	// combination or an overflowing precoder coefficient.
	ErrInvalidConfig = errors.New("modem: invalid configuration")

	// ErrHangupTimeout names the local-only protocol timeout (V.8 CI
	// retries exhausted). The V.8 negotiator reports that case by
	// returning HANGUP from Process; no function in this package returns
	// this error.
	ErrHangupTimeout = errors.New("modem: protocol timeout")
)

// IoError wraps an I/O failure (line interface, audio stream, config or
// log file). NewSession records a line-interface Open failure as an
// IoError, reported by Session.LastError; Session.Process has no error
// return and does not report I/O failures.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return "modem: io error during " + e.Op + ": " + e.Err.Error()
}

func (e *IoError) Unwrap() error { return e.Err }
