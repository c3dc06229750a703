package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	CHANNEL ACTIVATION (rsl.c rsl_rx_chan_activ).
 *
 * Description:	On a three-way dynamic timeslot the requested physical
 *		mode (derived from the chan_nr cbits) may not match the
 *		mode the PHY currently runs; in that case the message is
 *		parked on the timeslot, a PHY disconnect is requested, and
 *		activation resumes from the TSConnected callback once the
 *		PHY reports the new mode is up.
 *
 *------------------------------------------------------------------*/

// ChannelActivation handles an inbound CHANNEL ACTIVATION message.
func (h *Handler) ChannelActivation(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return chanActNack(chanNr, rsl.ERR_RES_UNAVAIL)
	}

	if ts.Pchan == btsmodel.PCHAN_TCH_F_TCH_H_PDCH {
		pchanWant, ok := btsmodel.PchanWantFromChanNr(chanNr)
		if !ok {
			return chanActNack(chanNr, rsl.ERR_NORMAL_UNSPEC)
		}
		ts.PchanWant = pchanWant
		if ts.PchanIs != ts.PchanWant {
			if err := ts.ParkActivation(chanNr, body); err != nil {
				return chanActNack(chanNr, rsl.ERR_RES_UNAVAIL)
			}
			if h.PHY != nil {
				if err := h.PHY.Disconnect(ts); err != nil {
					ts.TakePending()
					return chanActNack(chanNr, rsl.ERR_EQUIPMENT_FAIL)
				}
			}
			return Result{Retain: true}
		}
	}

	return h.doActivate(trx, ts, chanNr, body)
}

// doActivate runs the activation itself, once the timeslot's physical
// mode (if dynamic) already matches what the chan_nr requests.
func (h *Handler) doActivate(trx *btsmodel.TRX, ts *btsmodel.Timeslot, chanNr byte, body []byte) Result {
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil {
		return chanActNack(chanNr, rsl.ERR_RES_UNAVAIL)
	}
	if lc.State != btsmodel.StateNone {
		return chanActNack(chanNr, rsl.ERR_EQUIPMENT_FAIL)
	}
	if ts.Pchan == btsmodel.PCHAN_TCH_F_TCH_H_PDCH {
		// Replace the placeholder identity with the concrete chan_nr.
		lc.ChanNr = chanNr
	}

	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return chanActNack(chanNr, rsl.ERR_MAND_IE_ERROR)
	}

	actTypeByte, err := tp.RequireByte(rsl.IE_ACT_TYPE)
	if err != nil {
		return chanActNack(chanNr, rsl.ERR_MAND_IE_ERROR)
	}
	actType := rsl.ActivationType(actTypeByte)

	if actType == rsl.ActOsmoPDCH {
		return h.activatePDCH(trx, ts, lc, chanNr)
	}

	cmVal, err := tp.Require(rsl.IE_CHAN_MODE)
	if err != nil {
		return chanActNack(chanNr, rsl.ERR_MAND_IE_ERROR)
	}
	cm, err := rsl.ParseChanMode(cmVal)
	if err != nil {
		return chanActNack(chanNr, rsl.ERR_IE_CONTENT)
	}
	applyChanMode(h.BTS, lc, cm)

	if actType.IsInterCell() {
		if ref, err := tp.RequireByte(rsl.IE_HANDO_REF); err == nil {
			lc.HO.Active = true
			lc.HO.Ref = ref
		}
	}

	if tp.Present(rsl.IE_ENCR_INFO) {
		enc := tp.Val(rsl.IE_ENCR_INFO)
		if len(enc) == 0 {
			return chanActNack(chanNr, rsl.ERR_IE_CONTENT)
		}
		if !cipherSupported(h.BTS, enc[0]) {
			return chanActNack(chanNr, rsl.ERR_EQUIPMENT_FAIL)
		}
		lc.Encr = btsmodel.Encryption{AlgID: enc[0], Key: append([]byte(nil), enc[1:]...)}
	}

	if b, err := tp.Byte(rsl.IE_BS_POWER); err == nil {
		lc.Pwr.BSPower = b
	}
	if b, err := tp.Byte(rsl.IE_MS_POWER); err == nil {
		lc.Pwr.MSPower = b & 0x1f
		lc.Pwr.Fixed = false
	}
	if b, err := tp.Byte(rsl.IE_TIMING_ADVANCE); err == nil {
		lc.TimingAdvance = b
	}

	applySACCHInfo(h.BTS, lc, tp)

	if mr, err := tp.Require(rsl.IE_MULTIRATE_CONF); err == nil {
		if len(mr) > rsl.MRConfigMaxLen {
			return chanActNack(chanNr, rsl.ERR_IE_CONTENT)
		}
		applyMultiRate(lc, mr)
	}

	lc.RelActKind = btsmodel.RelActRSL
	lc.State = btsmodel.StateActReq

	if h.PHY == nil {
		lc.State = btsmodel.StateActive
		return h.ackActivation(chanNr, actType)
	}
	if err := h.PHY.ActivateLChan(lc); err != nil {
		lc.Reset()
		return chanActNack(chanNr, rsl.ERR_EQUIPMENT_FAIL)
	}
	return Result{}
}

// activatePDCH handles ActOsmoPDCH on a three-way dynamic timeslot: by
// the time we reach here PchanIs already equals PCHAN_PDCH (the caller
// parked and retried otherwise), so there's nothing left to ask the PHY
// for; just ACK and, if the PCU is up, tell it about the new slot.
func (h *Handler) activatePDCH(trx *btsmodel.TRX, ts *btsmodel.Timeslot, lc *btsmodel.LChan, chanNr byte) Result {
	lc.State = btsmodel.StateActive
	lc.RelActKind = btsmodel.RelActRSL
	if h.PCU != nil {
		if h.PCU.Connected() {
			_ = h.PCU.TxInfoInd()
		} else {
			h.PCU.SetConnectedCallback(func() { _ = h.PCU.TxInfoInd() })
		}
	}
	return h.ackActivation(chanNr, rsl.ActOsmoPDCH)
}

func (h *Handler) ackActivation(chanNr byte, actType rsl.ActivationType) Result {
	st := h.startingTime()
	f := rsl.DChanFrame(rsl.MT_CHAN_ACTIV_ACK, chanNr, rsl.IE{Tag: rsl.IE_FRAME_NUMBER, Value: st[:]})
	return Result{Reply: &f}
}

// onActConfirm is the PHY callback fired once an lchan asked to
// activate either comes up or fails.
func (h *Handler) onActConfirm(lc *btsmodel.LChan, err error) {
	trx := lc.TS.TRX
	chanNr := lc.ChanNr
	if lc.TS.Pchan == btsmodel.PCHAN_TCH_F_TCH_H_PDCH {
		chanNr = ts3wayChanNr(lc)
	}
	if err != nil {
		lc.Reset()
		h.emit(trx, *errFrame(rsl.MT_CHAN_ACTIV_NACK, chanNr, rsl.ERR_RADIO_IF_FAIL))
		return
	}
	lc.State = btsmodel.StateActive
	if lc.RelActKind != btsmodel.RelActRSL {
		return
	}
	res := h.ackActivation(chanNr, 0)
	if res.Reply != nil {
		h.emit(trx, *res.Reply)
	}
}

func ts3wayChanNr(lc *btsmodel.LChan) byte {
	return lc.ChanNr
}

func errFrame(msgType, chanNr byte, cause rsl.Cause) *rsl.Frame {
	f := rsl.DChanFrame(msgType, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return &f
}
