//go:build portaudio

package modem

/*------------------------------------------------------------------
 *
 * Purpose:	Sound-card audio backend for the -t CLI mode (spec.md
 *		§6.4), built only with the "portaudio" tag so the default
 *		build stays free of the cgo-linked PortAudio dependency.
 *
 *		Grounded on the teacher's go.mod carrying
 *		github.com/gordonklaus/portaudio for its own sound-card
 *		backend; this module gives that dependency a concrete home
 *		since this spec, unlike the teacher's AX.25/APRS code, has
 *		an actual full-duplex 8kHz/16-bit PCM stream to drive
 *		through it.
 *
 *------------------------------------------------------------------*/

import (
	"github.com/gordonklaus/portaudio"
)

// PortAudioStream is a full-duplex 8kHz mono int16 stream suitable for
// driving Session.Process in a tight loop.
type PortAudioStream struct {
	stream *portaudio.Stream
	In     []int16
	Out    []int16
}

// OpenPortAudioStream opens the default input/output devices at 8kHz
// mono with the given block size (spec.md §5's "source uses 40
// samples = 5ms" sizing guidance).
func OpenPortAudioStream(blockSize int) (*PortAudioStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &IoError{Op: "portaudio init", Err: err}
	}
	p := &PortAudioStream{
		In:  make([]int16, blockSize),
		Out: make([]int16, blockSize),
	}
	stream, err := portaudio.OpenDefaultStream(1, 1, 8000, blockSize, p.In, p.Out)
	if err != nil {
		portaudio.Terminate()
		return nil, &IoError{Op: "portaudio open stream", Err: err}
	}
	p.stream = stream
	if err := stream.Start(); err != nil {
		return nil, &IoError{Op: "portaudio start stream", Err: err}
	}
	return p, nil
}

// Exchange blocks until one full-duplex block has been transferred.
func (p *PortAudioStream) Exchange() error {
	if err := p.stream.Read(); err != nil {
		return &IoError{Op: "portaudio read", Err: err}
	}
	if err := p.stream.Write(); err != nil {
		return &IoError{Op: "portaudio write", Err: err}
	}
	return nil
}

// Close stops the stream and releases PortAudio.
func (p *PortAudioStream) Close() error {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
	}
	return portaudio.Terminate()
}
