package btsmodel

import (
	"fmt"

	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Physical timeslot state, including the dynamic-PDCH
 *		pending flags and the one-shot deferred activation slot.
 *
 *------------------------------------------------------------------*/

// PendingChanActiv is a CHANNEL ACTIVATION message parked on a timeslot
// while a PHY disconnect/connect cycle changes the timeslot's physical
// mode underneath it — a deferred continuation. It is a one-shot
// continuation: only one may be parked per timeslot at a time.
type PendingChanActiv struct {
	ChanNr byte
	Body   []byte // raw CHANNEL ACTIVATION IE body, re-parsed on resume
}

// Timeslot is one of the 8 physical timeslots of a TRX.
type Timeslot struct {
	TRX   *TRX
	Index int

	Pchan Pchan

	// Dynamic-reconfiguration bookkeeping for legacy TCH/F+PDCH.
	PDCHActPending   bool
	PDCHDeactPending bool
	PDCHActive       bool

	PchanIs   Pchan // three-way dynamic ts only
	PchanWant Pchan // three-way dynamic ts only

	Pending *PendingChanActiv

	LChans []*LChan
}

// NewTimeslot allocates a timeslot with lchan slots sized per pchan.
func NewTimeslot(trx *TRX, index int, pchan Pchan) *Timeslot {
	ts := &Timeslot{
		TRX:   trx,
		Index: index,
		Pchan: pchan,
	}
	if pchan.IsDynamic() {
		ts.PchanIs = PCHAN_TCH_F
		ts.PchanWant = PCHAN_TCH_F
	}
	n := pchan.NumLchans()
	ts.LChans = make([]*LChan, n)
	for i := range ts.LChans {
		ts.LChans[i] = NewLChan(ts, i)
		ts.LChans[i].ChanNr = ChanNrFor(pchan, index, i)
	}
	return ts
}

// CheckPendingInvariant reports an error if both PDCH ACT and DEACT are
// pending simultaneously - these are mutually exclusive states and
// seeing both set is always an internal bug, never reachable input.
func (ts *Timeslot) CheckPendingInvariant() error {
	if ts.PDCHActPending && ts.PDCHDeactPending {
		return fmt.Errorf("btsmodel: ts %d/%d has both PDCH_ACT_PENDING and PDCH_DEACT_PENDING set", ts.TRX.Nr, ts.Index)
	}
	return nil
}

// ParkActivation stashes msg as the deferred continuation, rejecting a
// second concurrent activation.
func (ts *Timeslot) ParkActivation(chanNr byte, body []byte) error {
	if ts.Pending != nil {
		return fmt.Errorf("btsmodel: ts %d/%d already has a pending activation", ts.TRX.Nr, ts.Index)
	}
	ts.Pending = &PendingChanActiv{ChanNr: chanNr, Body: body}
	return nil
}

// TakePending clears and returns the parked activation, or nil if none.
func (ts *Timeslot) TakePending() *PendingChanActiv {
	p := ts.Pending
	ts.Pending = nil
	return p
}

// LChanByChanNr finds the lchan on this timeslot matching chanNr's
// subslot field (cbits), or nil.
//
// On the three-way dynamic pchan the lchan's statically-assigned
// ChanNr is only a placeholder identity; the real mapping depends on
// which physical mode is currently (or about to be) in effect, so
// cbits are matched directly instead.
func (ts *Timeslot) LChanByChanNr(chanNr byte) *LChan {
	if ts.Pchan == PCHAN_TCH_F_TCH_H_PDCH {
		cbits := rsl.Cbits(chanNr)
		switch {
		case cbits == rsl.CBITS_Bm_ACCHs:
			return ts.LChans[0]
		case cbits == rsl.CBITS_Lm_ACCHs0:
			return ts.LChans[0]
		case cbits == rsl.CBITS_Lm_ACCHs1:
			if len(ts.LChans) > 1 {
				return ts.LChans[1]
			}
			return ts.LChans[0]
		case cbits == rsl.CBITS_OSMO_PDCH:
			return ts.LChans[0]
		default:
			return nil
		}
	}
	for _, lc := range ts.LChans {
		if lc != nil && lc.ChanNr == chanNr {
			return lc
		}
	}
	return nil
}
