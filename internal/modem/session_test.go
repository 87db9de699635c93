package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Session_hangup_reachesIdle is IF-8: hangup() from any active
// state reaches IDLE within <=1600 samples (40 blocks of 40 samples).
func Test_Session_hangup_reachesIdle(t *testing.T) {
	sess := NewSession(NullLineInterface{}, "test", DefaultConfig())
	assert.NoError(t, sess.StartDial(false, "5551234"))

	out := make([]int16, 40)
	in := make([]int16, 40)

	sess.Process(out, in) // drive past IDLE into an active state
	assert.NoError(t, sess.Hangup())

	reached := false
	for i := 0; i < 40; i++ {
		sess.Process(out, in)
		if sess.GetState() == ConnIdle {
			reached = true
			break
		}
	}
	assert.True(t, reached)
}

func Test_Session_startDial_busyWhileActive(t *testing.T) {
	sess := NewSession(NullLineInterface{}, "test", DefaultConfig())
	assert.NoError(t, sess.StartDial(false, "123"))
	assert.ErrorIs(t, sess.StartDial(false, "456"), ErrBusy)
}

func Test_Session_hangup_alreadyIdle(t *testing.T) {
	sess := NewSession(NullLineInterface{}, "test", DefaultConfig())
	assert.ErrorIs(t, sess.Hangup(), ErrAlreadyIdle)
}
