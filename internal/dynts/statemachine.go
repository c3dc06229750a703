package dynts

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	PHY disconnect/connect and PCU info-complete continuations
 *		for the legacy TCH/F+PDCH scheme.
 *
 *------------------------------------------------------------------*/

// OnTSDisconnected is the PHY disconnect confirmation. For ACT this
// requests the PHY come up in PDCH mode; for DEACT, TCH/F mode.
func (h *Handler) OnTSDisconnected(ts *btsmodel.Timeslot, err error) {
	switch {
	case ts.PDCHActPending:
		if err != nil {
			h.failPDCHAct(ts, rsl.ERR_EQUIPMENT_FAIL)
			return
		}
		if h.PHY == nil {
			return
		}
		if cerr := h.PHY.Connect(ts, btsmodel.PCHAN_PDCH); cerr != nil {
			h.failPDCHAct(ts, rsl.ERR_EQUIPMENT_FAIL)
		}
	case ts.PDCHDeactPending:
		if err != nil {
			h.failPDCHDeact(ts, rsl.ERR_EQUIPMENT_FAIL)
			return
		}
		if h.PHY == nil {
			return
		}
		if cerr := h.PHY.Connect(ts, btsmodel.PCHAN_TCH_F); cerr != nil {
			h.failPDCHDeact(ts, rsl.ERR_EQUIPMENT_FAIL)
		}
	}
}

// OnTSConnected is the PHY connect confirmation. ACT still has to wait
// for the PCU's own SAPI activation (unless the PCU isn't connected at
// all, in which case it catches up later); DEACT completes immediately.
func (h *Handler) OnTSConnected(ts *btsmodel.Timeslot, err error) {
	switch {
	case ts.PDCHActPending:
		if err != nil {
			h.failPDCHAct(ts, rsl.ERR_EQUIPMENT_FAIL)
			return
		}
		if h.PCU == nil || !h.PCU.Connected() {
			res := h.completePDCHAct(ts)
			if res.Reply != nil {
				h.emit(ts.TRX, *res.Reply)
			}
			return
		}
		_ = h.PCU.TxInfoInd()
		// completion continues from onPCUInfoComplete.
	case ts.PDCHDeactPending:
		if err != nil {
			h.failPDCHDeact(ts, rsl.ERR_EQUIPMENT_FAIL)
			return
		}
		res := h.completePDCHDeact(ts)
		if res.Reply != nil {
			h.emit(ts.TRX, *res.Reply)
		}
	}
}

// onPCUInfoComplete is the PCU callback signalling it has finished its
// own SAPI activation after a TxInfoInd, completing a pending ACT.
func (h *Handler) onPCUInfoComplete(ts *btsmodel.Timeslot) {
	if !ts.PDCHActPending {
		return
	}
	res := h.completePDCHAct(ts)
	if res.Reply != nil {
		h.emit(ts.TRX, *res.Reply)
	}
}
