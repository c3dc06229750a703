package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	PHY disconnect/connect continuation for three-way dynamic
 *		timeslots: resumes a parked CHANNEL ACTIVATION once the
 *		PHY confirms the new physical mode is up.
 *
 *------------------------------------------------------------------*/

func (h *Handler) onTSDisconnected(ts *btsmodel.Timeslot, err error) {
	if err != nil {
		h.abortPending(ts, rsl.ERR_EQUIPMENT_FAIL)
		return
	}
	if h.PHY == nil {
		return
	}
	if cerr := h.PHY.Connect(ts, ts.PchanWant); cerr != nil {
		h.abortPending(ts, rsl.ERR_EQUIPMENT_FAIL)
	}
}

func (h *Handler) onTSConnected(ts *btsmodel.Timeslot, err error) {
	if err != nil {
		h.abortPending(ts, rsl.ERR_EQUIPMENT_FAIL)
		return
	}
	ts.PchanIs = ts.PchanWant
	pending := ts.TakePending()
	if pending == nil {
		return
	}
	res := h.doActivate(ts.TRX, ts, pending.ChanNr, pending.Body)
	if res.Reply != nil {
		h.emit(ts.TRX, *res.Reply)
	}
}

func (h *Handler) abortPending(ts *btsmodel.Timeslot, cause rsl.Cause) {
	pending := ts.TakePending()
	if pending == nil {
		return
	}
	h.emit(ts.TRX, *errFrame(rsl.MT_CHAN_ACTIV_NACK, pending.ChanNr, cause))
}
