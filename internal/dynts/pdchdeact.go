package dynts

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	IPAC PDCH DEACT: reconfigure a TCH/F+PDCH timeslot back
 *		from PDCH to TCH/F. Unlike PDCH ACT, completion never
 *		waits on the PCU: the info-indication (if any) goes out
 *		up front and the sequence finishes as soon as the PHY
 *		confirms the new TCH/F mode.
 *
 *------------------------------------------------------------------*/

// PDCHDeactivate handles an inbound IPAC PDCH DEACT message.
func (h *Handler) PDCHDeactivate(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil || ts.Pchan != btsmodel.PCHAN_TCH_F_PDCH {
		return pdchNack(rsl.MT_IPAC_PDCH_DEACT_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	if !ts.PDCHActive {
		return pdchAck(rsl.MT_IPAC_PDCH_DEACT_ACK, pdchChanNr(ts))
	}
	if ts.PDCHDeactPending {
		return pdchNack(rsl.MT_IPAC_PDCH_DEACT_NACK, chanNr, rsl.ERR_NORMAL_UNSPEC)
	}

	ts.PDCHDeactPending = true

	if h.PCU != nil && h.PCU.Connected() {
		_ = h.PCU.TxInfoInd()
	}

	if h.PHY == nil {
		return h.completePDCHDeact(ts)
	}
	if err := h.PHY.Disconnect(ts); err != nil {
		ts.PDCHDeactPending = false
		return pdchNack(rsl.MT_IPAC_PDCH_DEACT_NACK, chanNr, rsl.ERR_EQUIPMENT_FAIL)
	}
	h.armWatchdog(ts, func() { h.watchdogFireDeact(ts) })
	return Result{}
}

// completePDCHDeact finishes the DEACT sequence once the PHY confirms
// TCH/F mode is up; no PCU step gates this unlike the ACT path.
func (h *Handler) completePDCHDeact(ts *btsmodel.Timeslot) Result {
	h.disarmWatchdog(ts)
	ts.PDCHActive = false
	ts.PDCHDeactPending = false
	return pdchAck(rsl.MT_IPAC_PDCH_DEACT_ACK, pdchChanNr(ts))
}

func (h *Handler) failPDCHDeact(ts *btsmodel.Timeslot, cause rsl.Cause) {
	h.disarmWatchdog(ts)
	ts.PDCHDeactPending = false
	h.emit(ts.TRX, *pdchErrFrame(rsl.MT_IPAC_PDCH_DEACT_NACK, pdchChanNr(ts), cause))
}

func (h *Handler) watchdogFireDeact(ts *btsmodel.Timeslot) {
	if !ts.PDCHDeactPending {
		return
	}
	h.Log.Warn("legacy PDCH DEACT watchdog fired", "trx", ts.TRX.Nr, "ts", ts.Index)
	ts.PDCHDeactPending = false
	h.emit(ts.TRX, *pdchErrFrame(rsl.MT_IPAC_PDCH_DEACT_NACK, pdchChanNr(ts), rsl.ERR_NORMAL_UNSPEC))
}
