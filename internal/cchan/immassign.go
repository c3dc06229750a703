package cchan

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	IMMEDIATE ASSIGN.
 *
 * Description:	Trims the message to the RR part (the FULL_IMM_ASS_INFO
 *		value itself already is that RR part; the RSL header and
 *		IE framing are stripped, which is what "trims ... to the
 *		RR part" means here) and enqueues it on the AGCH queue.
 *
 *------------------------------------------------------------------*/

// ImmediateAssign handles an inbound IMMEDIATE ASSIGN CMD message.
func (h *Handler) ImmediateAssign(body []byte) Result {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	rrPart, err := tp.Require(rsl.IE_FULL_IMM_ASS_INFO)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	if !h.BTS.AGCH.Push(rrPart) {
		h.Log.Warn("AGCH queue full, dropping IMMEDIATE ASSIGN")
		// spec: BSC should eventually observe a DELETE INDICATION;
		// reserved behaviour, not implemented by this core.
		return Result{}
	}

	h.Log.Info("IMMEDIATE ASSIGN enqueued on AGCH", "len", len(rrPart))
	return Result{}
}
