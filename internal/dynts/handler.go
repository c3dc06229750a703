// Package dynts implements the Dynamic-Timeslot Coordinator's legacy
// scheme: ip.access `TCH/F+PDCH`, driven by IPAC PDCH ACT / IPAC PDCH
// DEACT rather than ordinary CHANNEL ACTIVATION. The three-way
// `TCH/F+TCH/H+PDCH` scheme lives in internal/dchan instead, since it
// is driven entirely through CHANNEL ACTIVATION/RF CHANNEL RELEASE.
package dynts

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// Handler drives the pending-ACT/pending-DEACT state machine recorded
// on each TCH/F+PDCH timeslot.
type Handler struct {
	BTS *btsmodel.BTS
	PHY collab.PHY
	PCU collab.PCU
	Log *log.Logger

	// Out transmits an asynchronously-completed PDCH ACT/DEACT ACK or
	// NACK (the sequence almost always finishes from a PHY or PCU
	// callback, not as the direct return value of the inbound message).
	Out func(trx *btsmodel.TRX, frame rsl.Frame)

	// WatchdogTimeout bounds a pending PDCH reconfiguration that is
	// waiting on a PHY or PCU callback. Zero (the default) disables the
	// watchdog entirely; this is a non-standard safety net, not part of
	// GSM TS 08.58.
	WatchdogTimeout time.Duration

	timers map[*btsmodel.Timeslot]*time.Timer
}

// New builds a Handler. It registers h.onPCUInfoComplete as the PCU's
// info-complete callback (when pcu is non-nil) but no PHY callbacks:
// the process assembly layer merges dynts's TSConnected/TSDisconnected
// routing with internal/dchan's before calling PHY.SetCallbacks.
func New(bts *btsmodel.BTS, phy collab.PHY, pcu collab.PCU, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{BTS: bts, PHY: phy, PCU: pcu, Log: logger, timers: map[*btsmodel.Timeslot]*time.Timer{}}
	if pcu != nil {
		pcu.SetInfoCompleteCallback(h.onPCUInfoComplete)
	}
	return h
}

// Result is the outcome of handling one inbound PDCH ACT/DEACT message.
type Result struct {
	Reply *rsl.Frame
	Err   error
}

func (h *Handler) emit(trx *btsmodel.TRX, frame rsl.Frame) {
	if h.Out != nil {
		h.Out(trx, frame)
	}
}

// pdchChanNr is the canonical chan_nr a TCH/F+PDCH timeslot's PDCH side
// is addressed by, independent of which lchan sub-state it is in.
func pdchChanNr(ts *btsmodel.Timeslot) byte {
	return btsmodel.ChanNrFor(btsmodel.PCHAN_PDCH, ts.Index, 0)
}

func pdchNack(msgType, chanNr byte, cause rsl.Cause) Result {
	f := rsl.IPAFrame(msgType, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "pdch nack")}
}

func pdchAck(msgType, chanNr byte) Result {
	f := rsl.IPAFrame(msgType, chanNr)
	return Result{Reply: &f}
}

// armWatchdog starts the optional bounded timer for a pending
// reconfiguration on ts, replacing any timer already running for it.
func (h *Handler) armWatchdog(ts *btsmodel.Timeslot, fire func()) {
	h.disarmWatchdog(ts)
	if h.WatchdogTimeout <= 0 {
		return
	}
	h.timers[ts] = time.AfterFunc(h.WatchdogTimeout, fire)
}

func (h *Handler) disarmWatchdog(ts *btsmodel.Timeslot) {
	if t, ok := h.timers[ts]; ok {
		t.Stop()
		delete(h.timers, ts)
	}
}
