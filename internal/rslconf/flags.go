package rslconf

import (
	"github.com/spf13/pflag"
)

// Flags holds command-line overrides layered on top of a loaded Config,
// covering BTS name, RTP jitter mode, signalling interface and trace
// log; cipher algorithms are set only through the config file.
type Flags struct {
	ConfigPath string

	BTSName           string
	RTPJitterAdaptive bool
	SignallingIface   string
	TraceLogEnabled   bool
	TraceLogDir       string
}

// BindFlags registers fs's flags into a Flags; call Parse on fs, then
// Apply(fs, cfg) to layer the ones the user actually set over cfg.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to the YAML configuration file")
	fs.StringVar(&f.BTSName, "bts-name", "", "override the configured BTS name")
	fs.BoolVar(&f.RTPJitterAdaptive, "rtp-jitter-adaptive", false, "use adaptive RTP jitter buffering")
	fs.StringVar(&f.SignallingIface, "signalling-iface", "", "network interface the RSL signalling link runs over")
	fs.BoolVar(&f.TraceLogEnabled, "trace-log", false, "enable the CSV dispatch trace log")
	fs.StringVar(&f.TraceLogDir, "trace-log-dir", "", "directory for the daily-rotated trace log")
	return f
}

// Apply layers the flags fs actually saw set over cfg.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("bts-name") {
		cfg.BTSName = f.BTSName
	}
	if fs.Changed("rtp-jitter-adaptive") {
		cfg.RTPJitterAdaptive = f.RTPJitterAdaptive
	}
	if fs.Changed("signalling-iface") {
		cfg.SignallingIface = f.SignallingIface
	}
	if fs.Changed("trace-log") {
		cfg.TraceLog.Enabled = f.TraceLogEnabled
	}
	if fs.Changed("trace-log-dir") {
		cfg.TraceLog.Dir = f.TraceLogDir
	}
}
