package rtpendpoint

import "github.com/osmobts/rslbts/internal/btsmodel"

/*------------------------------------------------------------------
 *
 * Purpose:	IPA RTP stats block: seven 32-bit big-endian counters,
 *		28 bytes total, carried on DLCX ACK/IND.
 *
 *------------------------------------------------------------------*/

func encodeStats(s btsmodel.RTPStats) []byte {
	buf := make([]byte, 28)
	putU32(buf[0:4], s.PacketsSent)
	putU32(buf[4:8], s.OctetsSent)
	putU32(buf[8:12], s.PacketsRecv)
	putU32(buf[12:16], s.OctetsRecv)
	putU32(buf[16:20], s.PacketsLost)
	putU32(buf[20:24], s.Jitter)
	putU32(buf[24:28], s.AvgTxDelay)
	return buf
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
