package btsmodel

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	chan_nr assignment for statically-configured lchans, and
 *		chan_nr-to-lchan lookup for dynamically-typed ones.
 *
 *------------------------------------------------------------------*/

// ChanNrFor computes the chan_nr byte a statically-typed timeslot's
// sub-th lchan is addressed by. For the three-way dynamic pchan the
// chan_nr instead depends on the activation in progress, so callers use
// Timeslot.LChanByChanNr to resolve it dynamically instead.
func ChanNrFor(p Pchan, tn, sub int) byte {
	var cbits byte
	switch p {
	case PCHAN_CCCH:
		cbits = rsl.CBITS_BCCH
	case PCHAN_CCCH_SDCCH4:
		if sub == CCCHLchan {
			cbits = rsl.CBITS_BCCH
		} else {
			cbits = rsl.CBITS_SDCCH4_MIN + byte(sub-1)
		}
	case PCHAN_SDCCH8:
		cbits = rsl.CBITS_SDCCH8_MIN + byte(sub)
	case PCHAN_TCH_F, PCHAN_TCH_F_PDCH:
		cbits = rsl.CBITS_Bm_ACCHs
	case PCHAN_TCH_H:
		if sub == 0 {
			cbits = rsl.CBITS_Lm_ACCHs0
		} else {
			cbits = rsl.CBITS_Lm_ACCHs1
		}
	case PCHAN_PDCH:
		cbits = rsl.CBITS_OSMO_PDCH
	case PCHAN_TCH_F_TCH_H_PDCH:
		// Resolved dynamically per in-flight activation; Bm is the
		// default placeholder so the slot has a stable identity
		// before the first activation picks a concrete cbits value.
		cbits = rsl.CBITS_Bm_ACCHs
	default:
		cbits = 0
	}
	return (cbits << 3) | byte(tn&0x07)
}

// PchanWantFromChanNr derives the physical-channel type a CHANNEL
// ACTIVATION on a three-way dynamic ts is requesting, from the cbits of
// its chan_nr.
func PchanWantFromChanNr(chanNr byte) (Pchan, bool) {
	cbits := rsl.Cbits(chanNr)
	switch {
	case cbits == rsl.CBITS_Bm_ACCHs:
		return PCHAN_TCH_F, true
	case rsl.IsLmACCHs(cbits):
		return PCHAN_TCH_H, true
	case cbits == rsl.CBITS_OSMO_PDCH:
		return PCHAN_PDCH, true
	default:
		return PCHAN_NONE, false
	}
}
