package rtpendpoint

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	IPAC MDCX: modify an existing RTP endpoint's remote
 *		address, payload types or speech mode.
 *
 *------------------------------------------------------------------*/

// MDCX handles an inbound IPAC MDCX message.
func (h *Handler) MDCX(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	lc := lookupLChan(trx, chanNr)
	if lc == nil || lc.RTP == nil {
		return ipaNack(rsl.MT_IPAC_MDCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	req, err := parseCRCX(body)
	if err != nil {
		return ipaNack(rsl.MT_IPAC_MDCX_NACK, chanNr, rsl.CauseOf(err))
	}

	ep := lc.RTP
	if req.havePayload {
		ep.RTPPayload = req.payload
		ep.Socket.SetPayloadType(req.payload)
	}
	if req.havePayload2 {
		ep.RTPPayload2 = req.payload2
		ep.HasPayload2 = true
		ep.Socket.SetPayloadType2(req.payload2)
	}
	if req.speechMode != 0 {
		ep.SpeechMode = req.speechMode
	}

	if req.haveRemote {
		connectIP := h.substituteConnectIP(req.remoteIP)
		if err := ep.Socket.Connect(connectIP, req.remotePort); err != nil {
			return ipaNack(rsl.MT_IPAC_MDCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
		}
		ep.ConnectIP = connectIP
		ep.ConnectPort = req.remotePort
	}

	return Result{Reply: mdcxAckFrame(chanNr, ep)}
}

func mdcxAckFrame(chanNr byte, ep *btsmodel.RTPEndpoint) *rsl.Frame {
	ies := []rsl.IE{
		{Tag: rsl.IPAC_IE_CONN_ID, Value: []byte{byte(ep.ConnID >> 8), byte(ep.ConnID)}},
		{Tag: rsl.IPAC_IE_LOCAL_IP, Value: ipv4Bytes(ep.BoundIP)},
		{Tag: rsl.IPAC_IE_LOCAL_PORT, Value: []byte{byte(ep.BoundPort >> 8), byte(ep.BoundPort)}},
	}
	if ep.HasPayload2 {
		ies = append(ies, rsl.IE{Tag: rsl.IPAC_IE_RTP_PAYLOAD2, Value: []byte{ep.RTPPayload2}})
	}
	f := rsl.IPAFrame(rsl.MT_IPAC_MDCX_ACK, chanNr, ies...)
	return &f
}
