// Package dispatch implements the top-level Dispatcher: it decodes the
// common RSL header of one inbound A-bis message and routes it to the
// sub-handler selected by the message discriminator, mirroring rsl.c's
// rslms_recvmsg/abis_rsl_rcvmsg switch over rslh->c.msg_discr.
package dispatch

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/cchan"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/dchan"
	"github.com/osmobts/rslbts/internal/dynts"
	"github.com/osmobts/rslbts/internal/rsl"
	"github.com/osmobts/rslbts/internal/rtpendpoint"
)

// Dispatcher owns one sub-handler per discriminator and routes each
// inbound message to it. Any of the handler fields may be nil, in which
// case messages for that discriminator are silently dropped (useful for
// exercising a partially-assembled BTS in tests).
type Dispatcher struct {
	CChan *cchan.Handler
	DChan *dchan.Handler
	DynTS *dynts.Handler
	RTP   *rtpendpoint.Handler
	LAPDm collab.LAPDm
	Log   *log.Logger
}

// New builds a Dispatcher.
func New(cc *cchan.Handler, dc *dchan.Handler, dt *dynts.Handler, rtp *rtpendpoint.Handler, lapdm collab.LAPDm, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{CChan: cc, DChan: dc, DynTS: dt, RTP: rtp, LAPDm: lapdm, Log: logger}
}

// HandleInbound decodes and routes raw, one complete RSL message bound
// for trx, returning the synchronous reply frame to transmit, if any.
// Asynchronous completions (PHY/PCU-driven ACKs/NACKs) bypass this
// return value entirely and instead arrive through each sub-handler's
// own Out callback, wired by the process-assembly layer.
func (d *Dispatcher) HandleInbound(trx *btsmodel.TRX, raw []byte) (*rsl.Frame, error) {
	hdr, body, err := rsl.ParseHeader(raw)
	if err != nil {
		d.Log.Warn("dropping undersize RSL message", "err", err)
		return nil, err
	}

	switch hdr.Discr {
	case rsl.MDISC_RLL:
		return d.dispatchRLL(trx, hdr, raw)
	case rsl.MDISC_COM_CHAN:
		return d.dispatchCChan(trx, hdr, body)
	case rsl.MDISC_DED_CHAN:
		return d.dispatchDChan(trx, hdr, body)
	case rsl.MDISC_IPACCESS:
		return d.dispatchIPA(trx, hdr, body)
	case rsl.MDISC_TRX:
		d.Log.Warn("dropping unhandled TRX-discriminator message", "msg_type", hdr.MsgType)
		return nil, nil
	default:
		err := fmt.Errorf("rsl: unknown discriminator 0x%02x", byte(hdr.Discr))
		d.Log.Error(err.Error())
		return nil, err
	}
}

// dispatchRLL resolves chan_nr to an lchan and, on success, hands raw
// off to LAPDm whole: ownership transfers, the dispatcher never touches
// the buffer again. LAPDm parses its own msg type/IEs from raw, per
// RecvMsg's rslms_recvmsg grounding.
func (d *Dispatcher) dispatchRLL(trx *btsmodel.TRX, hdr rsl.Header, raw []byte) (*rsl.Frame, error) {
	lc := trx.LookupLChan(hdr.ChanNr)
	if lc == nil {
		d.Log.Warn("RLL message addressed to unknown chan_nr", "chan_nr", hdr.ChanNr)
		f := rsl.TRXFrame(rsl.MT_ERROR_REPORT, rsl.TV1(rsl.IE_CAUSE, byte(rsl.ERR_RES_UNAVAIL)))
		return &f, rsl.NewCauseError(rsl.ERR_RES_UNAVAIL, "no lchan for chan_nr")
	}
	if d.LAPDm == nil {
		return nil, nil
	}
	if err := d.LAPDm.RecvMsg(lc, raw); err != nil {
		d.Log.Warn("LAPDm rejected RLL message", "err", err)
		return nil, err
	}
	return nil, nil
}

// dispatchCChan routes a common-channel message. An unrecognized type is
// an -EINVAL-equivalent error, per the common-channel branch's stricter
// error handling.
func (d *Dispatcher) dispatchCChan(trx *btsmodel.TRX, hdr rsl.Header, body []byte) (*rsl.Frame, error) {
	if d.CChan == nil {
		return nil, nil
	}
	var res cchan.Result
	switch hdr.MsgType {
	case rsl.MT_BCCH_INFO:
		res = d.CChan.BCCHInfo(trx, body)
	case rsl.MT_SACCH_FILL:
		res = d.CChan.SACCHFilling(body)
	case rsl.MT_PAGING_CMD:
		res = d.CChan.PagingCommand(body)
	case rsl.MT_IMMEDIATE_ASS:
		res = d.CChan.ImmediateAssign(body)
	case rsl.MT_SMS_BC_CMD:
		res = d.CChan.SMSBroadcastCommand(body)
	default:
		err := fmt.Errorf("rsl: unknown common-channel message type 0x%02x", hdr.MsgType)
		d.Log.Warn(err.Error())
		return nil, err
	}
	return res.Reply, res.Err
}

// dispatchDChan routes a dedicated-channel message. Unlike common-channel,
// an unrecognized type is logged and dropped without an error reply: the
// dedicated-channel branch is lenient about messages it doesn't implement.
func (d *Dispatcher) dispatchDChan(trx *btsmodel.TRX, hdr rsl.Header, body []byte) (*rsl.Frame, error) {
	if d.DChan == nil {
		return nil, nil
	}
	var res dchan.Result
	switch hdr.MsgType {
	case rsl.MT_CHAN_ACTIV:
		res = d.DChan.ChannelActivation(trx, hdr.ChanNr, body)
	case rsl.MT_RF_CHAN_REL:
		res = d.DChan.RFChannelRelease(trx, hdr.ChanNr, body)
	case rsl.MT_ENCR_CMD:
		res = d.DChan.EncryptionCommand(trx, hdr.ChanNr, body)
	case rsl.MT_MODE_MODIFY_REQ:
		res = d.DChan.ModeModify(trx, hdr.ChanNr, body)
	case rsl.MT_MS_POWER_CONTROL:
		res = d.DChan.MSPowerControl(trx, hdr.ChanNr, body)
	case rsl.MT_SACCH_INFO_MODIFY:
		res = d.DChan.SACCHInfoModify(trx, hdr.ChanNr, body)
	case rsl.MT_DEACTIVATE_SACCH:
		res = d.DChan.DeactivateSACCH(trx, hdr.ChanNr)
	default:
		d.Log.Warn("unimplemented dedicated-channel message type, dropping", "msg_type", hdr.MsgType)
		return nil, nil
	}
	if res.Retain {
		// The handler parked the activation pending a PHY reconfiguration;
		// its ACK/NACK will arrive later through dchan's own Out callback.
		return nil, nil
	}
	return res.Reply, res.Err
}

// dispatchIPA routes an ip.access vendor-extension message: RTP endpoint
// management (CRCX/MDCX/DLCX) and the legacy PDCH ACT/DEACT scheme.
func (d *Dispatcher) dispatchIPA(trx *btsmodel.TRX, hdr rsl.Header, body []byte) (*rsl.Frame, error) {
	switch hdr.MsgType {
	case rsl.MT_IPAC_CRCX:
		if d.RTP == nil {
			return nil, nil
		}
		res := d.RTP.CRCX(trx, hdr.ChanNr, body)
		return res.Reply, res.Err
	case rsl.MT_IPAC_MDCX:
		if d.RTP == nil {
			return nil, nil
		}
		res := d.RTP.MDCX(trx, hdr.ChanNr, body)
		return res.Reply, res.Err
	case rsl.MT_IPAC_DLCX:
		if d.RTP == nil {
			return nil, nil
		}
		res := d.RTP.DLCX(trx, hdr.ChanNr, body)
		return res.Reply, res.Err
	case rsl.MT_IPAC_PDCH_ACT:
		if d.DynTS == nil {
			return nil, nil
		}
		res := d.DynTS.PDCHActivate(trx, hdr.ChanNr, body)
		return res.Reply, res.Err
	case rsl.MT_IPAC_PDCH_DEACT:
		if d.DynTS == nil {
			return nil, nil
		}
		res := d.DynTS.PDCHDeactivate(trx, hdr.ChanNr, body)
		return res.Reply, res.Err
	default:
		d.Log.Warn("unimplemented ip.access message type, dropping", "msg_type", hdr.MsgType)
		return nil, nil
	}
}
