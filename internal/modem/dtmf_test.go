package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_DTMF_roundTrip is IF-10: every digit, modulated for the default
// 150ms+100ms silence, is detected exactly once by the detector.
func Test_DTMF_roundTrip(t *testing.T) {
	const digits = "0123456789ABCD*#"
	for _, d := range []byte(digits) {
		mod := NewDTMFModulator(8000, -6, 150, 100)
		mod.Queue(string(d))
		det := NewDTMFDetector(8000)

		var got []byte
		for !mod.Done() {
			s := mod.Sample()
			if digit := det.Push(s); digit != 0 {
				got = append(got, digit)
			}
		}

		assert.Equal(t, []byte{d}, got, "digit %q", d)
	}
}
