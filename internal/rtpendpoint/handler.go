// Package rtpendpoint implements the IPA/RTP Endpoint Manager:
// CRCX/MDCX/DLCX create, modify and delete the per-lchan RTP/RTCP
// socket, and report stats on delete or spontaneous release.
package rtpendpoint

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// Handler owns the connection-ID counter and the RTP socket factory;
// all per-lchan state lives on btsmodel.LChan.RTP.
type Handler struct {
	BTS     *btsmodel.BTS
	Sockets collab.RTPSocketFactory
	Log     *log.Logger

	// JitterAdaptive selects the jitter-buffer mode new sockets are
	// created with.
	JitterAdaptive bool

	// SignallingIface is the network interface the RSL signalling
	// socket is bound to; used to resolve a local bind address for
	// CRCX when the BSC supplied no remote endpoint.
	SignallingIface string

	// PeerAddr returns the RSL peer's (the BSC's) IP address, used to
	// substitute for a 0.0.0.0 connect_ip.
	PeerAddr func() string

	// L1Uplink forwards a decoded uplink RTP frame to the PHY/L1. May
	// be nil (frames are simply dropped, as in tests).
	L1Uplink func(lc *btsmodel.LChan, frame []byte)

	nextConnID uint16
}

// New builds a Handler.
func New(bts *btsmodel.BTS, sockets collab.RTPSocketFactory, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{BTS: bts, Sockets: sockets, Log: logger}
}

// Result is the outcome of handling one inbound ip.access RTP message.
type Result struct {
	Reply *rsl.Frame
	Err   error
}

func ipaNack(msgType, chanNr byte, cause rsl.Cause) Result {
	f := rsl.IPAFrame(msgType, chanNr, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "ipac nack")}
}

func lookupLChan(trx *btsmodel.TRX, chanNr byte) *btsmodel.LChan {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return nil
	}
	return ts.LChanByChanNr(chanNr)
}

func (h *Handler) allocConnID() uint16 {
	h.nextConnID++
	return h.nextConnID
}

// Teardown releases lc's RTP endpoint, if any, flushes its downlink
// queue, and returns a DLCX IND frame to send spontaneously. Wired as
// internal/dchan.Handler.RTPTeardown by the process-assembly layer. The
// returned frame is nil if lc had no endpoint to tear down.
func (h *Handler) Teardown(lc *btsmodel.LChan) *rsl.Frame {
	if lc.RTP == nil {
		return nil
	}
	stats := lc.RTP.Socket.Stats()
	lc.RTP.Socket.Free()
	connID := lc.RTP.ConnID
	lc.RTP = nil
	lc.DLQ.Flush()

	return dlcxIndFrame(lc.ChanNr, connID, stats, rsl.ERR_NORMAL_UNSPEC)
}
