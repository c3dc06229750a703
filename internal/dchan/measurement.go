package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Uplink L3 routing from LAPDm (rsl.c lapdm_rll_tx_cb):
 *		RR MEASUREMENT REPORT is intercepted and re-emitted as a
 *		MEASUREMENT RESULT RSL message; every other uplink L3
 *		message is forwarded upward as a plain UNIT DATA IND.
 *
 *------------------------------------------------------------------*/

// GSM 04.08 RR protocol discriminator and the Measurement Report message
// type, just enough of the L3 header to split the uplink cb's two paths.
const (
	l3PDMask          = 0x0f
	l3PDRadioResource  = 0x06
	l3MTMeasurementRep = 0x15
)

// HandleLAPDmUplink is LAPDm's uplink callback (SetUplinkCallback):
// every L3 message received on lc, measurement reports and ordinary
// traffic alike, arrives here.
func (h *Handler) HandleLAPDmUplink(lc *btsmodel.LChan, l3 []byte) {
	if isMeasurementReport(l3) {
		h.emit(lc.TS.TRX, measResFrame(lc, l3))
		return
	}
	h.emit(lc.TS.TRX, rsl.RLLFrame(rsl.MT_UNIT_DATA_IND, lc.ChanNr, 0, l3))
}

func isMeasurementReport(l3 []byte) bool {
	return len(l3) >= 2 && l3[0]&l3PDMask == l3PDRadioResource && l3[1] == l3MTMeasurementRep
}

// measResFrame builds a MEASUREMENT RESULT message carrying the raw
// uplink measurement IE from the RR Measurement Report (byte 0/1 are
// the L3 header; the remainder is the measurement results octet
// string unchanged, decoding it further is out of scope here).
func measResFrame(lc *btsmodel.LChan, l3 []byte) rsl.Frame {
	lc.MeasResNr++
	ies := []rsl.IE{
		rsl.TV1(rsl.IE_MEAS_RES_NUMBER, lc.MeasResNr),
		{Tag: rsl.IE_UPLINK_MEAS, Value: l3[2:]},
		rsl.TV1(rsl.IE_BS_POWER, lc.Pwr.BSPower),
	}
	return rsl.DChanFrame(rsl.MT_MEAS_RES, lc.ChanNr, ies...)
}
