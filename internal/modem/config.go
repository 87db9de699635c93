package modem

/*------------------------------------------------------------------
 *
 * Purpose:	LinModemConfig (spec.md §3.1, §6.4): the handful of
 *		dial/DTMF/modulation knobs the session and CLI share, with
 *		an optional YAML override file (LoadConfigFile; the CLI
 *		does not call it).
 *
 *		Grounded on the teacher's src/config.go layering (defaults,
 *		then a parsed config file overriding them) reduced from its
 *		line-oriented custom parser to gopkg.in/yaml.v3, which the
 *		teacher's go.mod already carries for its non-core config.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LinModemConfig is the session-wide configuration (spec.md §3.1).
type LinModemConfig struct {
	PulseDial            bool       `yaml:"pulse_dial"`
	DtmfLevelDB           float64    `yaml:"dtmf_level_db"`
	DtmfDigitMs          int        `yaml:"dtmf_digit_ms"`
	DtmfPauseMs          int        `yaml:"dtmf_pause_ms"`
	AvailableModulations Modulation `yaml:"-"`

	DataBits int    `yaml:"data_bits"`
	Parity   Parity `yaml:"-"`
}

// DefaultConfig returns the baseline configuration (spec.md §6.3's
// tone/rate defaults plus spec.md §3.1's DTMF field defaults).
func DefaultConfig() *LinModemConfig {
	return &LinModemConfig{
		PulseDial:            false,
		DtmfLevelDB:          -6,
		DtmfDigitMs:          150,
		DtmfPauseMs:          100,
		AvailableModulations: ModV21 | ModV23 | ModV34 | ModV90,
		DataBits:             8,
		Parity:               ParityNone,
	}
}

// LoadConfigFile overrides cfg's fields from a YAML file, leaving
// fields absent from the file untouched.
func LoadConfigFile(cfg *LinModemConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IoError{Op: "read config", Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ErrInvalidConfig
	}
	return nil
}

// Validate checks for the combinations spec.md §7 calls fatal-at-init:
// an empty modulation mask, a DTMF digit or pause time of zero or less,
// or a data-bit count outside 5..8.
func (c *LinModemConfig) Validate() error {
	if c.AvailableModulations == 0 {
		return ErrInvalidConfig
	}
	if c.DtmfDigitMs <= 0 || c.DtmfPauseMs <= 0 {
		return ErrInvalidConfig
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return ErrInvalidConfig
	}
	return nil
}
