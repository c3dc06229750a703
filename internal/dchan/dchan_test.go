package dchan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// fakePHY is a synchronous PHY stand-in: ActivateLChan/DeactivateLChan/
// Connect/Disconnect all succeed immediately and invoke the callback
// inline, matching the cooperative event-loop model where "async"
// collaborators may in fact resolve within the same call stack.
type fakePHY struct {
	cb            collab.PHYCallbacks
	failActivate  bool
	failConnect   bool
	connectCalls  []btsmodel.Pchan
}

func (p *fakePHY) SetCallbacks(cb collab.PHYCallbacks) { p.cb = cb }
func (p *fakePHY) Disconnect(ts *btsmodel.Timeslot) error {
	p.cb.TSDisconnected(ts, nil)
	return nil
}
func (p *fakePHY) Connect(ts *btsmodel.Timeslot, pchan btsmodel.Pchan) error {
	p.connectCalls = append(p.connectCalls, pchan)
	if p.failConnect {
		p.cb.TSConnected(ts, assertErr)
		return nil
	}
	p.cb.TSConnected(ts, nil)
	return nil
}
func (p *fakePHY) ActivateLChan(lc *btsmodel.LChan) error {
	if p.failActivate {
		p.cb.ActConfirm(lc, assertErr)
		return nil
	}
	p.cb.ActConfirm(lc, nil)
	return nil
}
func (p *fakePHY) DeactivateLChan(lc *btsmodel.LChan) error {
	p.cb.RelConfirm(lc, nil)
	return nil
}
func (p *fakePHY) AdjustMSPower(lc *btsmodel.LChan) error { return nil }
func (p *fakePHY) ModifyLChan(lc *btsmodel.LChan) error   { return nil }

var assertErr = &rsl.CauseError{Cause: rsl.ERR_RADIO_IF_FAIL}

func newHandler() (*Handler, *btsmodel.TRX, *fakePHY) {
	bts := btsmodel.NewBTS(4)
	trx := btsmodel.NewTRX(bts, 0)
	trx.ConfigureTimeslot(1, btsmodel.PCHAN_TCH_F)
	phy := &fakePHY{}
	h := New(bts, phy, nil, nil, nil)
	return h, trx, phy
}

func activationBody(actType rsl.ActivationType, spdInd byte) []byte {
	body := []byte{rsl.IE_ACT_TYPE, 1, byte(actType)}
	body = append(body, rsl.IE_CHAN_MODE, 3, 0x00, spdInd, rsl.CodecFR)
	return body
}

func TestChannelActivationStaticTCH(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	var sent []rsl.Frame
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f) }

	// The ACK follows the PHY's activation confirm, so it arrives via Out
	// rather than as the synchronous Result.
	res := h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))
	require.NoError(t, res.Err)
	require.Len(t, sent, 1)
	assert.Equal(t, byte(rsl.MT_CHAN_ACTIV_ACK), sent[0].MsgType)

	lc := trx.Timeslots[1].LChans[0]
	assert.Equal(t, btsmodel.StateActive, lc.State)
	assert.Equal(t, btsmodel.CModeSpeech, lc.RSLCMode)
}

func TestChannelActivationRejectsDoubleActivation(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	body := activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech)

	res1 := h.ChannelActivation(trx, chanNr, body)
	require.NoError(t, res1.Err)

	res2 := h.ChannelActivation(trx, chanNr, body)
	require.Error(t, res2.Err)
	assert.Equal(t, rsl.ERR_EQUIPMENT_FAIL, rsl.CauseOf(res2.Err))
}

func TestChannelActivationMissingChanModeNacks(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res := h.ChannelActivation(trx, chanNr, []byte{rsl.IE_ACT_TYPE, 1, byte(rsl.ActIntraNormal)})
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_MAND_IE_ERROR, rsl.CauseOf(res.Err))
}

func TestChannelActivationPHYNackReturnsToNone(t *testing.T) {
	h, trx, phy := newHandler()
	phy.failActivate = true
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	var sent []rsl.Frame
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f) }

	// The NACK follows the PHY's failed activation confirm, via Out.
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))
	require.Len(t, sent, 1)
	assert.Equal(t, byte(rsl.MT_CHAN_ACTIV_NACK), sent[0].MsgType)
	assert.Equal(t, btsmodel.StateNone, trx.Timeslots[1].LChans[0].State)
}

func TestChannelActivationThreeWayDynamicParksAndResumes(t *testing.T) {
	bts := btsmodel.NewBTS(4)
	trx := btsmodel.NewTRX(bts, 0)
	trx.ConfigureTimeslot(2, btsmodel.PCHAN_TCH_F_TCH_H_PDCH)
	phy := &fakePHY{}
	h := New(bts, phy, nil, nil, nil)

	ts := trx.Timeslots[2]
	ts.PchanIs = btsmodel.PCHAN_PDCH // currently PDCH, TCH/F requested below

	chanNr := btsmodel.ChanNrFor(btsmodel.PCHAN_TCH_F, 2, 0)
	res := h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))
	require.NoError(t, res.Err)
	assert.True(t, res.Retain)
	assert.Nil(t, res.Reply)

	// fakePHY resolves Disconnect/Connect synchronously, so by the
	// time ChannelActivation returns the park-and-resume cycle has
	// already completed via onTSConnected.
	assert.Equal(t, btsmodel.PCHAN_TCH_F, ts.PchanIs)
	assert.Nil(t, ts.Pending)
	assert.Equal(t, btsmodel.StateActive, ts.LChans[0].State)
}

func TestRFChannelReleaseIdempotent(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res := h.RFChannelRelease(trx, chanNr, nil)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Reply)
	assert.Equal(t, byte(rsl.MT_RF_CHAN_REL_ACK), res.Reply.MsgType)
}

func TestRFChannelReleaseTearsDownRTP(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	var tornDown *btsmodel.LChan
	h.RTPTeardown = func(lc *btsmodel.LChan) { tornDown = lc }

	res := h.RFChannelRelease(trx, chanNr, nil)
	require.NoError(t, res.Err)
	require.NotNil(t, tornDown)
	assert.Equal(t, btsmodel.StateNone, trx.Timeslots[1].LChans[0].State)
}

func TestMSPowerControlFixesAndSuppressesAutonomy(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	res := h.MSPowerControl(trx, chanNr, []byte{rsl.IE_MS_POWER, 1, 0x0f})
	require.NoError(t, res.Err)
	lc := trx.Timeslots[1].LChans[0]
	assert.Equal(t, byte(0x0f), lc.Pwr.MSPower)
	assert.True(t, lc.Pwr.Fixed)
}

func TestReactivateCCCHLChanReactivatesAfterDeactivate(t *testing.T) {
	h, trx, _ := newHandler()
	// Use the CCCH-shaped lchan this handler already has on ts 1 as a
	// stand-in: activation first, then flag it the way
	// cchan.deactivateCCCHForReactivation does.
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	lc := trx.Timeslots[1].LChans[0]
	lc.RelActKind = btsmodel.RelActReact
	lc.State = btsmodel.StateRelReq

	h.ReactivateCCCHLChan(lc)

	// fakePHY resolves Deactivate/ActivateLChan synchronously, so the
	// full release-then-reactivate cycle has already run.
	assert.Equal(t, btsmodel.StateActive, lc.State)
}

func TestMSPowerControlAbsentIEIsNoOp(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	lc := trx.Timeslots[1].LChans[0]
	before := lc.Pwr

	res := h.MSPowerControl(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, before, lc.Pwr)
}

func TestChannelActivationAppliesSACCHInfoTriplets(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	body := activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech)
	// IE_SACCH_INFO: num_msgs=1, then {si_type=SI_5, len=2, value}.
	sacchVal := []byte{1, byte(rsl.SI_5), 2, 0xaa, 0xbb}
	body = append(body, rsl.IE_SACCH_INFO, byte(len(sacchVal)))
	body = append(body, sacchVal...)

	res := h.ChannelActivation(trx, chanNr, body)
	require.NoError(t, res.Err)

	lc := trx.Timeslots[1].LChans[0]
	require.Contains(t, lc.SACCHSI, rsl.SI_5)
	assert.Equal(t, []byte{0x03, 0x03, 0xaa, 0xbb}, lc.SACCHSI[rsl.SI_5])
}

func TestChannelActivationRejectsOversizeMultiRateConfig(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	body := activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech)
	oversize := make([]byte, rsl.MRConfigMaxLen+1)
	body = append(body, rsl.IE_MULTIRATE_CONF, byte(len(oversize)))
	body = append(body, oversize...)

	res := h.ChannelActivation(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_IE_CONTENT, rsl.CauseOf(res.Err))
	assert.Equal(t, btsmodel.StateNone, trx.Timeslots[1].LChans[0].State)
}

func TestModeModifyRejectsOversizeMultiRateConfig(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	oversize := make([]byte, rsl.MRConfigMaxLen+1)
	body := []byte{rsl.IE_CHAN_MODE, 3, 0x00, rsl.SpdIndSpeech, rsl.CodecEFR}
	body = append(body, rsl.IE_MULTIRATE_CONF, byte(len(oversize)))
	body = append(body, oversize...)

	res := h.ModeModify(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_IE_CONTENT, rsl.CauseOf(res.Err))
	// Rejected modify leaves the previously-applied mode in place.
	assert.Equal(t, btsmodel.CModeSpeech, trx.Timeslots[1].LChans[0].RSLCMode)
}

func TestChannelActivationSetsBTSWideDtxd(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	body := []byte{rsl.IE_ACT_TYPE, 1, byte(rsl.ActIntraNormal)}
	body = append(body, rsl.IE_CHAN_MODE, 3, rsl.CModDTXd, rsl.SpdIndSpeech, rsl.CodecFR)

	res := h.ChannelActivation(trx, chanNr, body)
	require.NoError(t, res.Err)
	assert.True(t, h.BTS.Dtxd)
}

func TestModeModifyUpdatesChanModeAndAcks(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	body := []byte{rsl.IE_CHAN_MODE, 3, 0x00, rsl.SpdIndSpeech, rsl.CodecEFR}
	res := h.ModeModify(trx, chanNr, body)
	require.NoError(t, res.Err)
	assert.Equal(t, byte(rsl.MT_MODE_MODIFY_ACK), res.Reply.MsgType)
	assert.Equal(t, btsmodel.TCHModeSpeechEFR, trx.Timeslots[1].LChans[0].TCHMode)
}

func TestEncryptionCommandRejectsUnsupportedAlgorithm(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	body := []byte{rsl.IE_ENCR_INFO, 2, 0x09, 0xaa, rsl.IE_L3_INFO, 1, 0x01}
	res := h.EncryptionCommand(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_IE_CONTENT, rsl.CauseOf(res.Err))
}

func TestDeactivateSACCHClearsStore(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	lc := trx.Timeslots[1].LChans[0]
	lc.SACCHSI[rsl.SI_5] = []byte{0x03, 0x03, 0xaa}

	res := h.DeactivateSACCH(trx, chanNr)
	require.NoError(t, res.Err)
	assert.Empty(t, lc.SACCHSI)
}
