package cchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	BCCH INFOrmation (rsl.c rsl_rx_bcch_info).
 *
 *------------------------------------------------------------------*/

// si2quaterRestOctetsOK validates the first two 4-bit fields (index,
// count) of a SI2quater's rest octets at bit offset 3: osmo-bts only
// accepts single-segment SI2quater (both fields zero).
func si2quaterRestOctetsOK(payload []byte) bool {
	if len(payload) < 4 {
		return true // too short to carry the fields at all; let IE length checks catch it elsewhere
	}
	// Rest octets start after a fixed 2-byte L2 pseudo-length prefix in
	// the stored SI; bit offset 3 within that region (MSB first) selects
	// the 4-bit index field, followed immediately by the 4-bit count
	// field, which spans into the next octet.
	index := (payload[2] >> 1) & 0x0f
	count := ((payload[2] & 0x01) << 3) | (payload[3] >> 5)
	return index == 0 && count == 0
}

// BCCHInfo handles an inbound BCCH INFO message. trx is the TRX it
// arrived on (needed for the SI3/AGCH special case, which only applies
// to TRX 0).
func (h *Handler) BCCHInfo(trx *btsmodel.TRX, body []byte) Result {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	rslSI, err := tp.Byte(rsl.IE_SYSINFO_TYPE)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}
	si := rsl.SIType(rslSI)

	if rsl.IsSACCHOnly(si) {
		h.Log.Warn("BCCH INFO with SACCH-only SI type rejected", "si", si)
		return errorReport(rsl.ERR_IE_CONTENT)
	}

	var payload []byte
	var havePayload bool
	if tp.Present(rsl.IE_FULL_BCCH_INFO) {
		payload = tp.Val(rsl.IE_FULL_BCCH_INFO)
		havePayload = true
	} else if tp.Present(rsl.IE_L3_INFO) {
		payload = tp.Val(rsl.IE_L3_INFO)
		havePayload = true
	}

	if si == rsl.SI_2quater && havePayload && !si2quaterRestOctetsOK(payload) {
		h.Log.Warn("multi-segment SI2quater unsupported")
		return errorReport(rsl.ERR_IE_CONTENT)
	}

	if !havePayload {
		h.BTS.ClearSI(si)
		return Result{}
	}

	h.BTS.SetSI(si, payload)
	h.Log.Info("stored BCCH INFO", "si", si, "len", len(payload))

	if si == rsl.SI_3 && trx.Nr == 0 && h.BTS.AGCHCount != 1 {
		h.deactivateCCCHForReactivation(trx)
	}

	return Result{}
}

// deactivateCCCHForReactivation implements the SI3/AGCH-count mismatch
// path: the CCCH lchan is deactivated and flagged RelActReact so the
// dedicated-channel release-confirm path knows to drive a fresh
// CHANNEL ACTIVATION once the release completes, instead of leaving the
// channel down.
func (h *Handler) deactivateCCCHForReactivation(trx *btsmodel.TRX) {
	ts := trx.Timeslots[0]
	if ts == nil || len(ts.LChans) == 0 {
		return
	}
	lc := ts.LChans[btsmodel.CCCHLchan]
	if lc == nil {
		return
	}
	lc.RelActKind = btsmodel.RelActReact
	lc.State = btsmodel.StateRelReq
	h.Log.Info("CCCH AGCH count mismatch, deactivating for reactivation", "trx", trx.Nr, "agch_count", h.BTS.AGCHCount)

	if h.ReactivateCCCH != nil {
		h.ReactivateCCCH(lc)
	}
}
