package main

/*------------------------------------------------------------------
 *
 * Purpose:	linmodem CLI (spec.md §6.4, non-core host program):
 *		drives a Session for a single dial or answer call. -c
 *		opens a serial line interface; every other mode, -t and
 *		-s included, uses a no-op line interface. The input
 *		samples are always silence, and no sound card is opened,
 *		with or without the portaudio build tag.
 *
 *		Grounded on cmd/direwolf/main.go's pflag-based flag
 *		parsing style, trimmed to the handful of flags spec.md
 *		§6.4 actually lists.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/linmodem-go/linmodem/internal/modem"
)

func main() {
	var verbose = pflag.BoolP("verbose", "v", false, "Verbose diagnostic output.")
	var simulate = pflag.BoolP("simulate", "s", false, "Line-simulator test: no hardware; input is silence.")
	var soundCard = pflag.BoolP("sound-card", "t", false, "Sound-card mode (no audio device is opened; runs like -s).")
	var modTest = pflag.StringP("modulation", "m", "", "Modulation test: v21, v22, v23, v34, or v90.")
	var answer = pflag.BoolP("answer", "a", false, "Answer an inbound call.")
	var driverCmd = pflag.StringP("command", "c", "", "Driver command to send to the line interface.")
	var dialNum = pflag.StringP("dial", "d", "", "Number to dial.")
	pflag.Parse()

	if *verbose {
		modem.SetLogLevel(2)
	} else {
		modem.SetLogLevel(1)
	}

	if *modTest != "" {
		switch *modTest {
		case "v21", "v22", "v23", "v34", "v90":
			modem.Logf(modem.ColorInfo, "Modulation test requested: %s\n", *modTest)
		default:
			fmt.Fprintf(os.Stderr, "linmodem: unknown modulation %q (want v21, v22, v23, v34, v90)\n", *modTest)
			os.Exit(1)
		}
	}

	var hw modem.LineInterface
	switch {
	case *simulate:
		hw = modem.NullLineInterface{}
	case *soundCard:
		hw = modem.NullLineInterface{} // no audio device; audio_portaudio.go is not used here
	case *driverCmd != "":
		hw = modem.NewSerialLineInterface(0)
	default:
		hw = modem.NullLineInterface{}
	}

	cfg := modem.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "linmodem: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	sess := modem.NewSession(hw, *driverCmd, cfg)
	if err := sess.LastError(); err != nil {
		fmt.Fprintf(os.Stderr, "linmodem: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	if *answer {
		if err := sess.StartReceive(); err != nil {
			fmt.Fprintf(os.Stderr, "linmodem: %v\n", err)
			os.Exit(1)
		}
	} else if *dialNum != "" {
		if err := sess.StartDial(cfg.PulseDial, *dialNum); err != nil {
			fmt.Fprintf(os.Stderr, "linmodem: %v\n", err)
			os.Exit(1)
		}
	}

	const blockSize = 40 // 5ms @ 8kHz, spec.md §5's real-time sizing guidance
	out := make([]int16, blockSize)
	in := make([]int16, blockSize)
	for first := true; first || sess.GetState() != modem.ConnIdle; first = false {
		sess.Process(out, in)
	}

	modem.Logf(modem.ColorInfo, "linmodem: call complete\n")
}
