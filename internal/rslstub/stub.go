// Package rslstub provides non-networked, synchronous implementations
// of the internal/collab interfaces, for the demo binary and
// integration tests. None of this is a production PHY/LAPDm/PCU/RTP
// driver: every call either completes inline or is a no-op, so that
// cmd/rslbts can exercise the RSL core end to end without hardware.
package rslstub

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
)

// PHY is a loopback PHY/L1 stand-in: every Connect/Disconnect/
// ActivateLChan/DeactivateLChan succeeds immediately and invokes the
// matching registered callback before returning.
type PHY struct {
	Log *log.Logger
	cb  collab.PHYCallbacks
}

func NewPHY(logger *log.Logger) *PHY {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PHY{Log: logger}
}

func (p *PHY) SetCallbacks(cb collab.PHYCallbacks) { p.cb = cb }

func (p *PHY) Disconnect(ts *btsmodel.Timeslot) error {
	p.Log.Debug("phy disconnect", "trx", ts.TRX.Nr, "ts", ts.Index)
	if p.cb.TSDisconnected != nil {
		p.cb.TSDisconnected(ts, nil)
	}
	return nil
}

func (p *PHY) Connect(ts *btsmodel.Timeslot, pchan btsmodel.Pchan) error {
	p.Log.Debug("phy connect", "trx", ts.TRX.Nr, "ts", ts.Index, "pchan", pchan)
	if p.cb.TSConnected != nil {
		p.cb.TSConnected(ts, nil)
	}
	return nil
}

func (p *PHY) ActivateLChan(lc *btsmodel.LChan) error {
	p.Log.Debug("phy activate lchan", "chan_nr", fmt.Sprintf("0x%02x", lc.ChanNr))
	if p.cb.ActConfirm != nil {
		p.cb.ActConfirm(lc, nil)
	}
	return nil
}

func (p *PHY) DeactivateLChan(lc *btsmodel.LChan) error {
	p.Log.Debug("phy deactivate lchan", "chan_nr", fmt.Sprintf("0x%02x", lc.ChanNr))
	if p.cb.RelConfirm != nil {
		p.cb.RelConfirm(lc, nil)
	}
	return nil
}

func (p *PHY) AdjustMSPower(lc *btsmodel.LChan) error { return nil }
func (p *PHY) ModifyLChan(lc *btsmodel.LChan) error   { return nil }

// LAPDm is a loopback link-layer stand-in: RecvMsg just logs, channel
// handles are opaque counters with no backing state machine.
type LAPDm struct {
	Log     *log.Logger
	uplink  func(lc *btsmodel.LChan, l3 []byte)
	handles uint64
}

func NewLAPDm(logger *log.Logger) *LAPDm {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LAPDm{Log: logger}
}

func (l *LAPDm) RecvMsg(lc *btsmodel.LChan, msg []byte) error {
	l.Log.Debug("lapdm recv", "chan_nr", fmt.Sprintf("0x%02x", lc.ChanNr), "len", len(msg))
	return nil
}

func (l *LAPDm) EstablishChannel(lc *btsmodel.LChan) (any, error) {
	return atomic.AddUint64(&l.handles, 1), nil
}

func (l *LAPDm) ReleaseChannel(lc *btsmodel.LChan, handle any) error { return nil }

func (l *LAPDm) SetUplinkCallback(cb func(lc *btsmodel.LChan, l3 []byte)) { l.uplink = cb }

// PCU is a stand-in Packet Control Unit link, permanently connected.
type PCU struct {
	Log          *log.Logger
	connected    func()
	infoComplete func(ts *btsmodel.Timeslot)
}

func NewPCU(logger *log.Logger) *PCU {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PCU{Log: logger}
}

func (p *PCU) Connected() bool { return true }

func (p *PCU) TxInfoInd() error {
	p.Log.Debug("pcu info ind")
	return nil
}

func (p *PCU) TxPagingRequest(idLV []byte, chanNeeded byte, hasChanNeeded bool) error {
	p.Log.Debug("pcu paging request", "len", len(idLV))
	return nil
}

func (p *PCU) SetConnectedCallback(cb func())                         { p.connected = cb }
func (p *PCU) SetInfoCompleteCallback(cb func(ts *btsmodel.Timeslot)) { p.infoComplete = cb }

// NotifyInfoComplete lets the demo binary simulate the PCU finishing
// its SAPI activation for ts, completing a pending legacy PDCH ACT.
func (p *PCU) NotifyInfoComplete(ts *btsmodel.Timeslot) {
	if p.infoComplete != nil {
		p.infoComplete(ts)
	}
}

// RTPSocketFactory hands out loopback-only RTPSocket stubs.
type RTPSocketFactory struct {
	Log      *log.Logger
	nextPort uint16
}

func NewRTPSocketFactory(logger *log.Logger) *RTPSocketFactory {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RTPSocketFactory{Log: logger, nextPort: 16000}
}

func (f *RTPSocketFactory) Create(bindIP string, jitterAdaptive bool) (string, uint16, btsmodel.RTPSocket, error) {
	if bindIP == "" || bindIP == "0.0.0.0" {
		bindIP = "127.0.0.1"
	}
	port := f.nextPort
	f.nextPort += 2 // RTP/RTCP pair
	f.Log.Debug("rtp socket create", "ip", bindIP, "port", port, "jitter_adaptive", jitterAdaptive)
	return bindIP, port, &rtpSocket{ip: bindIP, port: port}, nil
}

func (f *RTPSocketFactory) SetUplinkCallback(sock btsmodel.RTPSocket, cb func(frame []byte)) {
	if s, ok := sock.(*rtpSocket); ok {
		s.uplink = cb
	}
}

type rtpSocket struct {
	ip, connectIP string
	port          uint16
	connectPort   uint16
	pt, pt2       uint8
	jitter        bool
	uplink        func(frame []byte)
	stats         btsmodel.RTPStats
}

func (s *rtpSocket) SetJitterBuffer(adaptive bool) { s.jitter = adaptive }
func (s *rtpSocket) SetPayloadType(pt uint8)       { s.pt = pt }
func (s *rtpSocket) SetPayloadType2(pt uint8)      { s.pt2 = pt }

func (s *rtpSocket) Connect(ip string, port uint16) error {
	s.connectIP, s.connectPort = ip, port
	return nil
}

func (s *rtpSocket) Stats() btsmodel.RTPStats { return s.stats }
func (s *rtpSocket) Free()                    {}

func (s *rtpSocket) BoundIPPort() (string, uint16) { return s.ip, s.port }

// Paging is a stand-in paging state machine: it just logs, since the
// BTS model's own per-group paging queue already holds the identity.
type Paging struct {
	Log *log.Logger
}

func NewPaging(logger *log.Logger) *Paging {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Paging{Log: logger}
}

func (p *Paging) AddIdentity(group byte, idLV []byte, chanNeeded byte, hasChanNeeded bool) {
	p.Log.Debug("paging add identity", "group", group, "len", len(idLV))
}
