package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Serial-port LineInterface backend (spec.md §6.2), hiding
 *		operating-system differences the same way the teacher's
 *		src/serial_port.go does for its KISS serial transport.
 *
 *		Grounded on src/serial_port.go's github.com/pkg/term usage
 *		(Open/RawMode, SetSpeed, Read/Write/Close), generalized
 *		from a byte-oriented KISS channel to the off-hook/ring
 *		control-line contract this spec's LineInterface calls for.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/pkg/term"
)

// SerialLineInterface opens a raw serial device for a modem line. Its
// off-hook and ring state is recorded only; no DTR or RI line is driven.
type SerialLineInterface struct {
	fd       *term.Term
	baud     int
	offHook  bool
	ringOn   bool
}

// NewSerialLineInterface builds a line interface bound to a serial
// device at the given baud rate (0 leaves the port's current speed).
func NewSerialLineInterface(baud int) *SerialLineInterface {
	return &SerialLineInterface{baud: baud}
}

func (s *SerialLineInterface) Open(name string) error {
	fd, err := term.Open(name, term.RawMode)
	if err != nil {
		return fmt.Errorf("open serial line %s: %w", name, err)
	}
	switch s.baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		fd.SetSpeed(s.baud)
	default:
		fd.SetSpeed(9600)
	}
	s.fd = fd
	return nil
}

func (s *SerialLineInterface) Close() error {
	if s.fd == nil {
		return nil
	}
	return s.fd.Close()
}

// SetOffHook records the off-hook state. Real DTR/relay control is a
// per-device ioctl the teacher's own serial_port.go also leaves as a
// platform-specific TODO (see its "TODO KG" comments); this tracks the
// logical state so the session's hangup safety invariant (IF-8) is
// satisfiable even without a physical line-seize relay attached.
func (s *SerialLineInterface) SetOffHook(on bool) {
	s.offHook = on
}

func (s *SerialLineInterface) SetRing(on bool) {
	s.ringOn = on
}

// NullLineInterface is a no-op LineInterface for the sound-card and
// line-simulator CLI modes, where off-hook/ring control has no
// hardware equivalent (spec.md §6.2: "no-op in software-only builds").
type NullLineInterface struct{}

func (NullLineInterface) Open(name string) error { return nil }
func (NullLineInterface) Close() error            { return nil }
func (NullLineInterface) SetOffHook(on bool)       {}
func (NullLineInterface) SetRing(on bool)          {}
