package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	MS POWER CONTROL (rsl.c rsl_rx_ms_pwr_ctrl). Fixes the
 *		MS transmit power at a BSC-chosen value and suppresses the
 *		BTS's own autonomous power-control loop for that lchan
 *		until the next CHANNEL ACTIVATION resets it.
 *
 *------------------------------------------------------------------*/

// MSPowerControl handles an inbound MS POWER CONTROL message.
func (h *Handler) MSPowerControl(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil || lc.State != btsmodel.StateActive {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}

	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	if !tp.Present(rsl.IE_MS_POWER) {
		return Result{}
	}
	msPower, err := tp.Byte(rsl.IE_MS_POWER)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	lc.Pwr.MSPower = msPower & 0x1f
	lc.Pwr.Fixed = true

	if h.PHY != nil {
		if err := h.PHY.AdjustMSPower(lc); err != nil {
			return errorReport(rsl.ERR_EQUIPMENT_FAIL)
		}
	}
	return Result{}
}
