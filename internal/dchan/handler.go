// Package dchan implements the Dedicated-Channel Handler: CHANNEL
// ACTIVATION, RF CHANNEL RELEASE, ENCRYPTION COMMAND, MODE MODIFY,
// MS POWER CONTROL and SACCH INFO MODIFY/DEACTIVATE SACCH, plus the
// lchan activation/release state machine driven by the PHY callbacks.
package dchan

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// Handler owns no lchan/timeslot state of its own; it mutates the
// shared BTS model and calls out to the PHY/LAPDm/PCU collaborators.
type Handler struct {
	BTS   *btsmodel.BTS
	PHY   collab.PHY
	LAPDm collab.LAPDm
	PCU   collab.PCU
	Log   *log.Logger

	// Out transmits an asynchronously-generated frame (an ACK/NACK
	// emitted from a PHY callback rather than directly as the return
	// value of the inbound message that triggered it). May be nil in
	// tests that only inspect lchan state.
	Out func(trx *btsmodel.TRX, frame rsl.Frame)

	// FrameNumber returns the BTS's current GSM hyperframe time
	// (T1/T2/T3), used to compute the starting-time IE on CHAN ACT
	// ACK. Defaults to always 0/0/0 when nil.
	FrameNumber func() (t1, t2, t3 int)

	// RTPTeardown releases lc's RTP endpoint (if any) and emits the
	// spontaneous DLCX IND, wired in by the process-assembly layer to
	// internal/rtpendpoint. Kept as a callback to avoid an import
	// cycle between dchan and rtpendpoint.
	RTPTeardown RTPTeardownFunc
}

func (h *Handler) startingTime() [2]byte {
	if h.FrameNumber == nil {
		return rsl.EncodeStartingTime(0, 0, 0)
	}
	t1, t2, t3 := h.FrameNumber()
	return rsl.EncodeStartingTime(t1, t2, t3)
}

// New builds a Handler and registers it for PHY callbacks.
func New(bts *btsmodel.BTS, phy collab.PHY, lapdm collab.LAPDm, pcu collab.PCU, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{BTS: bts, PHY: phy, LAPDm: lapdm, PCU: pcu, Log: logger}
	if phy != nil {
		phy.SetCallbacks(collab.PHYCallbacks{
			ActConfirm:     h.onActConfirm,
			RelConfirm:     h.onRelConfirm,
			TSConnected:    h.onTSConnected,
			TSDisconnected: h.onTSDisconnected,
		})
	}
	if lapdm != nil {
		lapdm.SetUplinkCallback(h.HandleLAPDmUplink)
	}
	return h
}

// Result is the outcome of handling one inbound dedicated-channel
// message. Retain reports that ownership of the inbound message body
// was taken by the handler (e.g. parked on a timeslot pending a PHY
// reconfiguration) and the dispatcher must not treat it as consumed
// the normal way.
type Result struct {
	Reply  *rsl.Frame
	Err    error
	Retain bool
}

func (h *Handler) emit(trx *btsmodel.TRX, frame rsl.Frame) {
	if h.Out != nil {
		h.Out(trx, frame)
	}
}

// OnActConfirm, OnRelConfirm, OnTSConnected and OnTSDisconnected expose
// the PHY callbacks New already wires up by default, so the process
// assembly layer can re-register a merged collab.PHYCallbacks that
// routes TSConnected/TSDisconnected to internal/dynts for legacy
// TCH/F+PDCH timeslots instead (dchan and dynts share one PHY, but only
// one of them owns a given timeslot's disconnect/connect cycle).
func (h *Handler) OnActConfirm(lc *btsmodel.LChan, err error)             { h.onActConfirm(lc, err) }
func (h *Handler) OnRelConfirm(lc *btsmodel.LChan, err error)             { h.onRelConfirm(lc, err) }
func (h *Handler) OnTSConnected(ts *btsmodel.Timeslot, err error)        { h.onTSConnected(ts, err) }
func (h *Handler) OnTSDisconnected(ts *btsmodel.Timeslot, err error)     { h.onTSDisconnected(ts, err) }

func chanActNack(chanNr byte, cause rsl.Cause) Result {
	f := rsl.DChanFrame(rsl.MT_CHAN_ACTIV_NACK, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "chan activ nack")}
}

func dchanNack(msgType, chanNr byte, cause rsl.Cause) Result {
	f := rsl.DChanFrame(msgType, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "nack")}
}

// errorReport builds a generic ERROR REPORT for the messages (ENCRYPTION
// COMMAND, MS POWER CONTROL, SACCH INFO MODIFY/DEACTIVATE SACCH) that
// have no dedicated NACK message type of their own.
func errorReport(cause rsl.Cause) Result {
	f := rsl.TRXFrame(rsl.MT_ERROR_REPORT, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "error report")}
}
