package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	RF CHANNEL RELEASE (rsl.c rsl_rx_rf_chan_rel).
 *
 * Description:	Tears down any RTP endpoint and handover state, flushes
 *		the lchan's SACCH SI, requests the PHY deactivate and
 *		LAPDm tear the link layer down. The RSL ACK is sent once
 *		the PHY confirms release, except for PDCH lchans on a
 *		three-way dynamic timeslot, whose release is acknowledged
 *		immediately without a PHY deactivation.
 *
 *------------------------------------------------------------------*/

// RTPTeardown is set by the process-wiring layer to internal/rtpendpoint's
// socket-release logic; kept as a callback (rather than an import) to
// avoid a dependency cycle between dchan and rtpendpoint.
type RTPTeardownFunc func(lc *btsmodel.LChan)

// RFChannelRelease handles an inbound RF CHANNEL RELEASE message.
func (h *Handler) RFChannelRelease(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return dchanNack(rsl.MT_RF_CHAN_REL, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil {
		return dchanNack(rsl.MT_RF_CHAN_REL, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	if lc.State == btsmodel.StateNone {
		// Already down; ACK idempotently rather than NACK a retransmit.
		f := rsl.DChanFrame(rsl.MT_RF_CHAN_REL_ACK, chanNr)
		return Result{Reply: &f}
	}

	if h.RTPTeardown != nil {
		h.RTPTeardown(lc)
	}
	lc.HO = btsmodel.Handover{}
	lc.SACCHSI = make(map[rsl.SIType][]byte)

	if ts.Pchan == btsmodel.PCHAN_TCH_F_TCH_H_PDCH {
		pchanWant, ok := btsmodel.PchanWantFromChanNr(chanNr)
		if ok && pchanWant == btsmodel.PCHAN_PDCH {
			lc.Reset()
			if h.LAPDm != nil && lc.LAPDmChannel != nil {
				_ = h.LAPDm.ReleaseChannel(lc, lc.LAPDmChannel)
			}
			f := rsl.DChanFrame(rsl.MT_RF_CHAN_REL_ACK, chanNr)
			return Result{Reply: &f}
		}
	}

	lc.RelActKind = btsmodel.RelActRSL
	lc.State = btsmodel.StateRelReq

	if h.PHY == nil {
		h.finishRelease(lc)
		f := rsl.DChanFrame(rsl.MT_RF_CHAN_REL_ACK, chanNr)
		return Result{Reply: &f}
	}
	if err := h.PHY.DeactivateLChan(lc); err != nil {
		lc.Reset()
		return dchanNack(rsl.MT_RF_CHAN_REL, chanNr, rsl.ERR_EQUIPMENT_FAIL)
	}
	return Result{}
}

// ReactivateCCCHLChan drives PHY deactivation of a CCCH lchan that
// cchan.BCCHInfo has already flagged RelActReact/StateRelReq (an SI3/
// AGCH-count mismatch); onRelConfirm's finishRelease call picks the flag
// back up once the deactivation completes and re-drives activation, so
// there is nothing further for the caller to do here. Wired into
// cchan.Handler.ReactivateCCCH by the process-wiring layer.
func (h *Handler) ReactivateCCCHLChan(lc *btsmodel.LChan) {
	if h.PHY == nil {
		h.finishRelease(lc)
		return
	}
	if err := h.PHY.DeactivateLChan(lc); err != nil {
		lc.Reset()
		h.Log.Warn("CCCH reactivation deactivate failed", "chan_nr", lc.ChanNr)
	}
}

// onRelConfirm is the PHY callback fired once a deactivation completes.
func (h *Handler) onRelConfirm(lc *btsmodel.LChan, err error) {
	trx := lc.TS.TRX
	chanNr := lc.ChanNr
	relActKind := lc.RelActKind

	h.finishRelease(lc)

	if err != nil {
		h.Log.Warn("PHY release failed, lchan forced to NONE anyway", "chan_nr", chanNr)
	}
	if relActKind != btsmodel.RelActRSL {
		return
	}
	h.emit(trx, rsl.DChanFrame(rsl.MT_RF_CHAN_REL_ACK, chanNr))
}

// finishRelease tears down LAPDm and resets lchan state. Split out so
// both the synchronous (no PHY) and asynchronous (PHY confirm) release
// paths share it. If the release was flagged RelActReact (an SI3/AGCH
// count mismatch forcing the CCCH channel down, see cchan.BCCHInfo), it
// immediately re-drives activation instead of leaving the channel in
// StateNone: Reset() doesn't touch ChanNr/RSLCMode/TCHMode, so the
// lchan's prior static configuration is replayed as-is.
func (h *Handler) finishRelease(lc *btsmodel.LChan) {
	if h.LAPDm != nil && lc.LAPDmChannel != nil {
		_ = h.LAPDm.ReleaseChannel(lc, lc.LAPDmChannel)
	}
	reactivate := lc.RelActKind == btsmodel.RelActReact
	lc.Reset()
	if !reactivate {
		return
	}
	h.Log.Info("lchan released for automatic reactivation", "chan_nr", lc.ChanNr)
	lc.RelActKind = btsmodel.RelActReact
	lc.State = btsmodel.StateActReq
	if h.PHY == nil {
		lc.State = btsmodel.StateActive
		return
	}
	if err := h.PHY.ActivateLChan(lc); err != nil {
		lc.Reset()
		h.Log.Warn("automatic CCCH reactivation failed", "chan_nr", lc.ChanNr)
	}
}
