package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	MODE MODIFY (rsl.c rsl_rx_mode_modify). Changes an
 *		already-active lchan's channel mode without a release/
 *		re-activate cycle.
 *
 *------------------------------------------------------------------*/

// ModeModify handles an inbound MODE MODIFY REQ message.
func (h *Handler) ModeModify(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil || lc.State != btsmodel.StateActive {
		return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_MAND_IE_ERROR)
	}

	cmVal, err := tp.Require(rsl.IE_CHAN_MODE)
	if err != nil {
		return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_MAND_IE_ERROR)
	}
	cm, err := rsl.ParseChanMode(cmVal)
	if err != nil {
		return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_IE_CONTENT)
	}

	prevMode, prevTCH := lc.RSLCMode, lc.TCHMode
	applyChanMode(h.BTS, lc, cm)

	if tp.Present(rsl.IE_ENCR_INFO) {
		enc := tp.Val(rsl.IE_ENCR_INFO)
		if len(enc) == 0 {
			lc.RSLCMode, lc.TCHMode = prevMode, prevTCH
			return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_IE_CONTENT)
		}
		if !cipherSupported(h.BTS, enc[0]) {
			lc.RSLCMode, lc.TCHMode = prevMode, prevTCH
			return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_IE_CONTENT)
		}
		lc.Encr = btsmodel.Encryption{AlgID: enc[0], Key: append([]byte(nil), enc[1:]...)}
	}

	if mr, err := tp.Require(rsl.IE_MULTIRATE_CONF); err == nil {
		if len(mr) > rsl.MRConfigMaxLen {
			lc.RSLCMode, lc.TCHMode = prevMode, prevTCH
			return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_IE_CONTENT)
		}
		applyMultiRate(lc, mr)
	}

	if h.PHY != nil {
		if err := h.PHY.ModifyLChan(lc); err != nil {
			lc.RSLCMode, lc.TCHMode = prevMode, prevTCH
			return dchanNack(rsl.MT_MODE_MODIFY_NACK, chanNr, rsl.ERR_EQUIPMENT_FAIL)
		}
	}

	f := rsl.DChanFrame(rsl.MT_MODE_MODIFY_ACK, chanNr)
	return Result{Reply: &f}
}
