package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Sample-counted deadlines (spec.md §3.1, §9 "process-wide
 *		time hack"): the source used a process-wide sim_time
 *		global; here each Timer holds its own deadline and is
 *		checked against an explicit per-session clock value
 *		passed in, never a package-level clock.
 *
 *------------------------------------------------------------------*/

// Timer expires when the session clock reaches or passes a deadline
// expressed in sample ticks.
type Timer struct {
	deadline int64
	armed    bool
}

// Arm sets the timer to expire durationSamples ticks after now.
func (t *Timer) Arm(now int64, durationSamples int64) {
	t.deadline = now + durationSamples
	t.armed = true
}

// ArmMillis is a convenience for arming a timer by wall-clock duration
// at the given sample rate.
func (t *Timer) ArmMillis(now int64, ms int, sampleRate int) {
	t.Arm(now, int64(ms)*int64(sampleRate)/1000)
}

// Disarm clears the timer so Expired always reports false.
func (t *Timer) Disarm() { t.armed = false }

// Armed reports whether the timer is currently running.
func (t *Timer) Armed() bool { return t.armed }

// Expired reports whether the timer is armed and now >= deadline.
func (t *Timer) Expired(now int64) bool {
	return t.armed && now >= t.deadline
}
