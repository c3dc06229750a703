// Package rslconf loads and applies the BTS-side configuration: BTS
// identity, per-TRX timeslot layout, RTP jitter-buffer mode, supported
// cipher algorithms, and the optional legacy-PDCH watchdog.
package rslconf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osmobts/rslbts/internal/btsmodel"
)

// TRXConfig is one TRX's timeslot layout: index 0-7, each entry a
// Pchan.String() name ("CCCH", "TCH/F", "TCH/F+PDCH", ...), empty for
// an unconfigured timeslot.
type TRXConfig struct {
	Timeslots [8]string `yaml:"timeslots"`
}

// TraceLogConfig controls the optional CSV dispatch trace log.
type TraceLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Config is the full BTS-side configuration.
type Config struct {
	BTSName string `yaml:"bts_name"`

	AGCHQueueDepth int `yaml:"agch_queue_depth"`

	CipherAlgs []byte `yaml:"cipher_algs"`

	RTPJitterAdaptive bool   `yaml:"rtp_jitter_adaptive"`
	SignallingIface   string `yaml:"signalling_iface"`

	// PDCHWatchdog bounds a legacy (ip.access TCH/F+PDCH) reconfiguration
	// pending a PHY/PCU callback. Zero disables it, the default.
	PDCHWatchdog time.Duration `yaml:"pdch_watchdog"`

	TraceLog TraceLogConfig `yaml:"trace_log"`

	TRXs []TRXConfig `yaml:"trxs"`
}

// Default returns the configuration used when no file is given: one TRX
// with TS0 as CCCH, A5/0 and A5/1 enabled, no watchdog, no trace log.
func Default() *Config {
	return &Config{
		BTSName:        "rslbts",
		AGCHQueueDepth: 4,
		CipherAlgs:     []byte{0, 1},
		TRXs: []TRXConfig{
			{Timeslots: [8]string{"CCCH"}},
		},
	}
}

// Load reads and decodes a YAML config file on top of Default, so a
// file only needs to override what it cares about.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rslconf: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("rslconf: parse %s: %w", path, err)
	}
	return cfg, nil
}

// BuildBTS constructs the btsmodel.BTS and its TRXs/timeslots from cfg.
func (cfg *Config) BuildBTS() (*btsmodel.BTS, []*btsmodel.TRX, error) {
	bts := btsmodel.NewBTS(cfg.AGCHQueueDepth)
	bts.CipherAlgsSupported = make(map[byte]bool, len(cfg.CipherAlgs))
	for _, alg := range cfg.CipherAlgs {
		bts.CipherAlgsSupported[alg] = true
	}

	trxs := make([]*btsmodel.TRX, 0, len(cfg.TRXs))
	for nr, trxCfg := range cfg.TRXs {
		trx := btsmodel.NewTRX(bts, nr)
		for tn, name := range trxCfg.Timeslots {
			pchan, ok := btsmodel.ParsePchan(name)
			if !ok {
				return nil, nil, fmt.Errorf("rslconf: trx %d ts %d: unknown pchan %q", nr, tn, name)
			}
			if pchan == btsmodel.PCHAN_NONE {
				continue
			}
			trx.ConfigureTimeslot(tn, pchan)
		}
		trxs = append(trxs, trx)
	}
	return bts, trxs, nil
}
