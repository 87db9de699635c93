package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Call log naming (spec.md §6.5: no persisted state beyond
 *		one call's log file, named at call start). Grounded on the
 *		teacher's src/tq.go/xmit.go pattern of formatting a
 *		timestamp with lestrrat-go/strftime for file/log naming.
 *
 *------------------------------------------------------------------*/

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// CallLogName formats a per-call log file name from a strftime-style
// pattern and the call's start time, e.g. "%Y%m%d-%H%M%S.log".
func CallLogName(pattern string, start time.Time) (string, error) {
	name, err := strftime.Format(pattern, start)
	if err != nil {
		return "", &IoError{Op: "format call log name", Err: err}
	}
	return name, nil
}
