// Command rslbts assembles the RSL core against the loopback
// collaborator stubs in internal/rslstub and drives it from RSL
// messages read from stdin, one hex-encoded RSL frame per line.
// It is a demo/integration harness, not a production Abis/IPA
// transport: that framing stays out of scope.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/cchan"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/dchan"
	"github.com/osmobts/rslbts/internal/dispatch"
	"github.com/osmobts/rslbts/internal/dynts"
	"github.com/osmobts/rslbts/internal/rsl"
	"github.com/osmobts/rslbts/internal/rslconf"
	"github.com/osmobts/rslbts/internal/rslstub"
	"github.com/osmobts/rslbts/internal/rtpendpoint"
	"github.com/osmobts/rslbts/internal/tracelog"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "rslbts:", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("rslbts", pflag.ContinueOnError)
	flags := rslconf.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := rslconf.Default()
	if flags.ConfigPath != "" {
		loaded, err := rslconf.Load(flags.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags.Apply(fs, cfg)

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true})
	logger = logger.With("bts", cfg.BTSName)

	bts, trxs, err := cfg.BuildBTS()
	if err != nil {
		return fmt.Errorf("rslbts: %w", err)
	}
	if len(trxs) == 0 {
		return fmt.Errorf("rslbts: no TRX configured")
	}

	var trace *tracelog.Logger
	if cfg.TraceLog.Enabled {
		trace, err = tracelog.New(cfg.TraceLog.Dir)
		if err != nil {
			return fmt.Errorf("rslbts: %w", err)
		}
		defer trace.Close()
	}

	phy := rslstub.NewPHY(logger.With("collab", "phy"))
	lapdm := rslstub.NewLAPDm(logger.With("collab", "lapdm"))
	pcu := rslstub.NewPCU(logger.With("collab", "pcu"))
	sockets := rslstub.NewRTPSocketFactory(logger.With("collab", "rtp"))
	paging := rslstub.NewPaging(logger.With("collab", "paging"))

	ccHandler := cchan.New(bts, paging, pcu, logger.With("component", "cchan"))
	dcHandler := dchan.New(bts, phy, lapdm, pcu, logger.With("component", "dchan"))
	ccHandler.ReactivateCCCH = dcHandler.ReactivateCCCHLChan
	dtHandler := dynts.New(bts, phy, pcu, logger.With("component", "dynts"))
	dtHandler.WatchdogTimeout = cfg.PDCHWatchdog

	rtpHandler := rtpendpoint.New(bts, sockets, logger.With("component", "rtpendpoint"))
	rtpHandler.JitterAdaptive = cfg.RTPJitterAdaptive
	rtpHandler.SignallingIface = cfg.SignallingIface

	dcHandler.RTPTeardown = func(lc *btsmodel.LChan) {
		if f := rtpHandler.Teardown(lc); f != nil {
			writeFrame(out, trace, lc.TS.TRX, *f, "spontaneous-dlcx")
		}
	}

	// New() already wired dcHandler's own TSConnected/TSDisconnected into
	// phy; re-register a merged set routing legacy TCH/F+PDCH timeslots to
	// dtHandler instead, since dynts.New deliberately leaves this to the
	// process-assembly layer.
	phy.SetCallbacks(collab.PHYCallbacks{
		ActConfirm: dcHandler.OnActConfirm,
		RelConfirm: dcHandler.OnRelConfirm,
		TSConnected: func(ts *btsmodel.Timeslot, err error) {
			if ts.Pchan == btsmodel.PCHAN_TCH_F_PDCH {
				dtHandler.OnTSConnected(ts, err)
				return
			}
			dcHandler.OnTSConnected(ts, err)
		},
		TSDisconnected: func(ts *btsmodel.Timeslot, err error) {
			if ts.Pchan == btsmodel.PCHAN_TCH_F_PDCH {
				dtHandler.OnTSDisconnected(ts, err)
				return
			}
			dcHandler.OnTSDisconnected(ts, err)
		},
	})

	d := dispatch.New(ccHandler, dcHandler, dtHandler, rtpHandler, lapdm, logger.With("component", "dispatch"))

	outbound := func(trx *btsmodel.TRX, frame rsl.Frame) {
		writeFrame(out, trace, trx, frame, "async")
	}
	dcHandler.Out = outbound
	dtHandler.Out = outbound

	logger.Info("rslbts ready", "trxs", len(trxs))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		raw, err := hex.DecodeString(line)
		if err != nil {
			logger.Warn("dropping unparseable input line", "err", err)
			continue
		}
		reply, err := d.HandleInbound(trxs[0], raw)
		outcome := "ok"
		if err != nil {
			outcome = "error: " + err.Error()
		}
		if trace != nil {
			rec := tracelog.Record{Time: now(), TRXNr: trxs[0].Nr, Outcome: outcome}
			if hdr, _, perr := rsl.ParseHeader(raw); perr == nil {
				rec.Discr, rec.MsgType, rec.ChanNr, rec.HasChanNr = hdr.Discr, hdr.MsgType, hdr.ChanNr, hdr.HasChanNr
			}
			_ = trace.Write(rec)
		}
		if reply != nil {
			writeFrame(out, nil, trxs[0], *reply, "reply")
		}
	}
	return scanner.Err()
}

func writeFrame(out io.Writer, trace *tracelog.Logger, trx *btsmodel.TRX, frame rsl.Frame, outcome string) {
	fmt.Fprintln(out, hex.EncodeToString(frame.Bytes))
	if trace != nil {
		_ = trace.Write(tracelog.Record{
			Time: now(), TRXNr: trx.Nr, Discr: frame.Discr, MsgType: frame.MsgType, Outcome: outcome,
		})
	}
}

// now is the one permitted call to wall-clock time outside of tests,
// kept in its own function so callers read clearly as "current time"
// rather than a raw time.Now() sprinkled through the dispatch loop.
func now() time.Time { return time.Now() }
