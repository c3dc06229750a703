package rtpendpoint

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	IPAC CRCX: create an RTP endpoint for an lchan.
 *
 *------------------------------------------------------------------*/

type crcxRequest struct {
	haveRemote            bool
	remoteIP              string
	remotePort            uint16
	payload, payload2     byte
	havePayload, havePayload2 bool
	speechMode            byte
}

func parseCRCX(body []byte) (crcxRequest, error) {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return crcxRequest{}, rsl.NewCauseError(rsl.ERR_MAND_IE_ERROR, "malformed CRCX")
	}

	var req crcxRequest
	if tp.Present(rsl.IPAC_IE_REMOTE_IP) {
		req.remoteIP = parseIPv4(tp.Val(rsl.IPAC_IE_REMOTE_IP))
		req.haveRemote = true
	}
	if port, err := tp.U16BE(rsl.IPAC_IE_REMOTE_PORT); err == nil {
		req.remotePort = port
		req.haveRemote = true
	}
	if b, err := tp.Byte(rsl.IPAC_IE_PAYLOAD_TYPE); err == nil {
		req.payload = b
		req.havePayload = true
	}
	if b, err := tp.Byte(rsl.IPAC_IE_RTP_PAYLOAD2); err == nil {
		req.payload2 = b
		req.havePayload2 = true
	}
	if req.havePayload && req.havePayload2 {
		return crcxRequest{}, rsl.ErrMandIE(rsl.IPAC_IE_RTP_PAYLOAD2)
	}
	if b, err := tp.Byte(rsl.IPAC_IE_SPEECH_MODE); err == nil {
		req.speechMode = b
	}
	return req, nil
}

// CRCX handles an inbound IPAC CRCX message.
func (h *Handler) CRCX(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	lc := lookupLChan(trx, chanNr)
	if lc == nil {
		return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	if lc.RTP != nil {
		return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}
	if !lc.CanCarryRTP() {
		return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	req, err := parseCRCX(body)
	if err != nil {
		return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.CauseOf(err))
	}

	bindIP := h.bindAddress(req.haveRemote)
	localIP, localPort, sock, err := h.Sockets.Create(bindIP, h.JitterAdaptive)
	if err != nil {
		return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
	}

	ep := &btsmodel.RTPEndpoint{
		ConnID:      h.allocConnID(),
		BoundIP:     localIP,
		BoundPort:   localPort,
		RTPPayload:  req.payload,
		RTPPayload2: req.payload2,
		HasPayload2: req.havePayload2,
		SpeechMode:  req.speechMode,
		Socket:      sock,
	}

	sock.SetPayloadType(req.payload)
	if req.havePayload2 {
		sock.SetPayloadType2(req.payload2)
	}
	h.Sockets.SetUplinkCallback(sock, func(frame []byte) {
		if h.L1Uplink != nil {
			h.L1Uplink(lc, frame)
		}
	})

	if req.haveRemote {
		connectIP := h.substituteConnectIP(req.remoteIP)
		if err := sock.Connect(connectIP, req.remotePort); err != nil {
			sock.Free()
			lc.DLQ.Flush()
			return ipaNack(rsl.MT_IPAC_CRCX_NACK, chanNr, rsl.ERR_RES_UNAVAIL)
		}
		ep.ConnectIP = connectIP
		ep.ConnectPort = req.remotePort
	}

	lc.RTP = ep

	return Result{Reply: crcxAckFrame(chanNr, ep)}
}

func crcxAckFrame(chanNr byte, ep *btsmodel.RTPEndpoint) *rsl.Frame {
	ies := []rsl.IE{
		{Tag: rsl.IPAC_IE_CONN_ID, Value: []byte{byte(ep.ConnID >> 8), byte(ep.ConnID)}},
		{Tag: rsl.IPAC_IE_LOCAL_IP, Value: ipv4Bytes(ep.BoundIP)},
		{Tag: rsl.IPAC_IE_LOCAL_PORT, Value: []byte{byte(ep.BoundPort >> 8), byte(ep.BoundPort)}},
	}
	if ep.HasPayload2 {
		ies = append(ies, rsl.IE{Tag: rsl.IPAC_IE_RTP_PAYLOAD2, Value: []byte{ep.RTPPayload2}})
	}
	f := rsl.IPAFrame(rsl.MT_IPAC_CRCX_ACK, chanNr, ies...)
	return &f
}

func ipv4Bytes(ip string) []byte {
	parsed := parseIPStr(ip)
	if parsed == nil {
		return []byte{0, 0, 0, 0}
	}
	return parsed
}
