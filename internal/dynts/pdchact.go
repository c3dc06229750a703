package dynts

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	IPAC PDCH ACT: reconfigure a TCH/F+PDCH timeslot from
 *		TCH/F to PDCH.
 *
 *------------------------------------------------------------------*/

// PDCHActivate handles an inbound IPAC PDCH ACT message.
func (h *Handler) PDCHActivate(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil || ts.Pchan != btsmodel.PCHAN_TCH_F_PDCH {
		return pdchNack(rsl.MT_IPAC_PDCH_ACT_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	if ts.PDCHActive {
		return pdchAck(rsl.MT_IPAC_PDCH_ACT_ACK, pdchChanNr(ts))
	}
	if ts.PDCHActPending {
		return pdchNack(rsl.MT_IPAC_PDCH_ACT_NACK, chanNr, rsl.ERR_NORMAL_UNSPEC)
	}

	ts.PDCHActPending = true

	if h.PHY == nil {
		return h.completePDCHAct(ts)
	}
	if err := h.PHY.Disconnect(ts); err != nil {
		ts.PDCHActPending = false
		return pdchNack(rsl.MT_IPAC_PDCH_ACT_NACK, chanNr, rsl.ERR_EQUIPMENT_FAIL)
	}
	h.armWatchdog(ts, func() { h.watchdogFireAct(ts) })
	return Result{}
}

// completePDCHAct finishes the ACT sequence once the PHY has come up in
// PDCH mode and (if applicable) the PCU has finished its own SAPI
// activation; it is also the PHY-less shortcut used by tests.
func (h *Handler) completePDCHAct(ts *btsmodel.Timeslot) Result {
	h.disarmWatchdog(ts)
	ts.PDCHActive = true
	ts.PDCHActPending = false
	return pdchAck(rsl.MT_IPAC_PDCH_ACT_ACK, pdchChanNr(ts))
}

func (h *Handler) failPDCHAct(ts *btsmodel.Timeslot, cause rsl.Cause) {
	h.disarmWatchdog(ts)
	ts.PDCHActPending = false
	h.emit(ts.TRX, *pdchErrFrame(rsl.MT_IPAC_PDCH_ACT_NACK, pdchChanNr(ts), cause))
}

func (h *Handler) watchdogFireAct(ts *btsmodel.Timeslot) {
	if !ts.PDCHActPending {
		return
	}
	h.Log.Warn("legacy PDCH ACT watchdog fired", "trx", ts.TRX.Nr, "ts", ts.Index)
	ts.PDCHActPending = false
	h.emit(ts.TRX, *pdchErrFrame(rsl.MT_IPAC_PDCH_ACT_NACK, pdchChanNr(ts), rsl.ERR_NORMAL_UNSPEC))
}

func pdchErrFrame(msgType, chanNr byte, cause rsl.Cause) *rsl.Frame {
	f := rsl.IPAFrame(msgType, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return &f
}
