package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	SACCH INFO MODIFY and DEACTIVATE SACCH (rsl.c
 *		rsl_rx_sacch_inf_mod, rsl_rx_sacch_deact).
 *
 *------------------------------------------------------------------*/

// SACCHInfoModify handles an inbound SACCH INFO MODIFY message. Unlike
// CHANNEL ACTIVATION's triplet-packed IE_SACCH_INFO, this message
// carries a single SYSINFO_TYPE plus an optional L3_INFO payload, and
// rejects STARTING_TIME outright since deferred SACCH filling isn't
// supported.
func (h *Handler) SACCHInfoModify(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
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

	if tp.Present(rsl.IE_STARTING_TIME) {
		return errorReport(rsl.ERR_SERV_OPT_UNIMPL)
	}

	siByte, err := tp.RequireByte(rsl.IE_SYSINFO_TYPE)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}
	siType := rsl.SIType(siByte)
	if !rsl.IsSACCHOnly(siType) {
		return errorReport(rsl.ERR_IE_CONTENT)
	}

	if tp.Present(rsl.IE_L3_INFO) {
		l3 := tp.Val(rsl.IE_L3_INFO)
		buf := make([]byte, rsl.SYSINFO_BUF)
		for i := range buf {
			buf[i] = rsl.GSMPad
		}
		buf[0], buf[1] = rsl.LAPDmUIHeader[0], rsl.LAPDmUIHeader[1]
		copy(buf[2:], l3)
		if lc.SACCHSI == nil {
			lc.SACCHSI = make(map[rsl.SIType][]byte)
		}
		lc.SACCHSI[siType] = buf
	} else {
		delete(lc.SACCHSI, siType)
	}

	return Result{}
}

// DeactivateSACCH handles an inbound DEACTIVATE SACCH message: drops
// the lchan's SACCH SI store so the SACCH starts filling with
// dummy/idle frames again.
func (h *Handler) DeactivateSACCH(trx *btsmodel.TRX, chanNr byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}
	lc.SACCHSI = make(map[rsl.SIType][]byte)
	return Result{}
}
