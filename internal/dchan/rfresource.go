package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	RF RESOURCE INDICATION (rsl.c rsl_tx_rf_res, triggered
 *		periodically or on interference-band reclassification).
 *		Per-ARFCN interference levels are a FIXME in rsl.c itself;
 *		carried forward here as a documented gap rather than
 *		silently dropped.
 *
 *------------------------------------------------------------------*/

// RFResourceIndication builds an RF RESOURCE INDICATION for trx, one
// interference-band placeholder byte per configured timeslot. The
// caller (process-assembly layer) decides when to send it: periodically
// or on a PHY-reported interference change, neither of which this
// package has a collaborator for.
func (h *Handler) RFResourceIndication(trx *btsmodel.TRX) rsl.Frame {
	bands := make([]byte, 0, len(trx.Timeslots))
	for _, ts := range trx.Timeslots {
		if ts == nil {
			continue
		}
		bands = append(bands, 0) // FIXME: no interference measurement source yet
	}
	return rsl.TRXFrame(rsl.MT_RF_RES_IND, rsl.IE{Tag: rsl.IE_RESOURCE_INFO, Value: bands})
}
