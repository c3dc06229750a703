package cchan

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	SACCH FILLING.
 *
 * Description:	Same IE shape as BCCH INFO, but only SACCH SI types are
 *		accepted and the stored payload is prefixed with the
 *		2-byte LAPDm UI header (0x03, 0x03).
 *
 *------------------------------------------------------------------*/

// SACCHFilling handles an inbound SACCH FILLING message.
func (h *Handler) SACCHFilling(body []byte) Result {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	rslSI, err := tp.Byte(rsl.IE_SYSINFO_TYPE)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}
	si := rsl.SIType(rslSI)

	if !rsl.IsSACCHOnly(si) {
		h.Log.Warn("SACCH FILLING with non-SACCH SI type rejected", "si", si)
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

	if !havePayload {
		h.BTS.ClearSI(si)
		return Result{}
	}

	prefixed := make([]byte, 0, len(rsl.LAPDmUIHeader)+len(payload))
	prefixed = append(prefixed, rsl.LAPDmUIHeader[:]...)
	prefixed = append(prefixed, payload...)

	h.BTS.SetSI(si, prefixed)
	h.Log.Info("stored SACCH FILLING", "si", si, "len", len(payload))

	return Result{}
}
