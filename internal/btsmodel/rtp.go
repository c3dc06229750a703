package btsmodel

/*------------------------------------------------------------------
 *
 * Purpose:	Per-lchan RTP endpoint state.
 *
 *------------------------------------------------------------------*/

// RTPSocket is the contract an RTP/RTCP socket handle must satisfy; the
// out-of-scope RTP socket library implements it. Defined here, not in
// the collaborator package, so the model can hold a handle without
// importing the collaborator interfaces (which in turn need the model
// types).
type RTPSocket interface {
	SetJitterBuffer(adaptive bool)
	SetPayloadType(pt uint8)
	SetPayloadType2(pt uint8)
	Connect(ip string, port uint16) error
	Stats() RTPStats
	Free()
	BoundIPPort() (string, uint16)
}

// RTPStats is the 28-byte IPA stats block, already decoded into fields.
type RTPStats struct {
	PacketsSent uint32
	OctetsSent  uint32
	PacketsRecv uint32
	OctetsRecv  uint32
	PacketsLost uint32
	Jitter      uint32
	AvgTxDelay  uint32
}

// RTPEndpoint is the per-lchan RTP endpoint record.
type RTPEndpoint struct {
	ConnID      uint16
	BoundIP     string
	BoundPort   uint16
	ConnectIP   string
	ConnectPort uint16

	RTPPayload  uint8
	RTPPayload2 uint8
	HasPayload2 bool
	SpeechMode  uint8

	Socket RTPSocket
}
