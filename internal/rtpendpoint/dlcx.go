package rtpendpoint

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	IPAC DLCX: delete an RTP endpoint, BSC-requested (DLCX)
 *		or spontaneous on RF channel release (DLCX IND).
 *
 *------------------------------------------------------------------*/

// DLCX handles an inbound IPAC DLCX message.
func (h *Handler) DLCX(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	lc := lookupLChan(trx, chanNr)
	if lc == nil {
		return ipaNack(rsl.MT_IPAC_DLCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	tp, _ := rsl.ParseTLV(body)
	wantStats := tp != nil && tp.Present(rsl.IPAC_IE_CONN_ID)

	if lc.RTP == nil {
		lc.DLQ.Flush()
		f := rsl.IPAFrame(rsl.MT_IPAC_DLCX_ACK, chanNr)
		return Result{Reply: &f}
	}

	stats := lc.RTP.Socket.Stats()
	connID := lc.RTP.ConnID
	lc.RTP.Socket.Free()
	lc.RTP = nil
	lc.DLQ.Flush()

	var ies []rsl.IE
	if wantStats {
		ies = append(ies,
			rsl.IE{Tag: rsl.IPAC_IE_CONN_ID, Value: []byte{byte(connID >> 8), byte(connID)}},
			rsl.IE{Tag: rsl.IPAC_IE_CONN_STAT, Value: encodeStats(stats)},
		)
	}
	f := rsl.IPAFrame(rsl.MT_IPAC_DLCX_ACK, chanNr, ies...)
	return Result{Reply: &f}
}

// dlcxIndFrame builds a spontaneous DLCX IND carrying the stats block
// collected just before the RTP socket was freed.
func dlcxIndFrame(chanNr byte, connID uint16, stats btsmodel.RTPStats, cause rsl.Cause) *rsl.Frame {
	f := rsl.IPAFrame(rsl.MT_IPAC_DLCX_IND, chanNr,
		rsl.IE{Tag: rsl.IPAC_IE_CONN_ID, Value: []byte{byte(connID >> 8), byte(connID)}},
		rsl.IE{Tag: rsl.IPAC_IE_CONN_STAT, Value: encodeStats(stats)},
		rsl.TV1(rsl.IE_CAUSE, byte(cause)),
	)
	return &f
}
