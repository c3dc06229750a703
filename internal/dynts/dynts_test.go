package dynts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// fakePHY is a synchronous PHY stand-in, mirroring internal/dchan's test
// double: Disconnect/Connect invoke the registered callback inline.
type fakePHY struct {
	cb           collab.PHYCallbacks
	failConnect  bool
	connectCalls []btsmodel.Pchan
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
func (p *fakePHY) ActivateLChan(lc *btsmodel.LChan) error   { return nil }
func (p *fakePHY) DeactivateLChan(lc *btsmodel.LChan) error { return nil }
func (p *fakePHY) AdjustMSPower(lc *btsmodel.LChan) error   { return nil }
func (p *fakePHY) ModifyLChan(lc *btsmodel.LChan) error     { return nil }

var assertErr = &rsl.CauseError{Cause: rsl.ERR_EQUIPMENT_FAIL}

// fakePCU lets a test choose whether the PCU is connected and whether
// TxInfoInd resolves its SAPI activation inline or waits for the test to
// trigger it manually via complete().
type fakePCU struct {
	connected bool
	infoCb    func(ts *btsmodel.Timeslot)
	infoSent  int
}

func (p *fakePCU) Connected() bool { return p.connected }
func (p *fakePCU) TxInfoInd() error {
	p.infoSent++
	return nil
}
func (p *fakePCU) TxPagingRequest(idLV []byte, chanNeeded byte, hasChanNeeded bool) error { return nil }
func (p *fakePCU) SetConnectedCallback(cb func())                                        {}
func (p *fakePCU) SetInfoCompleteCallback(cb func(ts *btsmodel.Timeslot))                 { p.infoCb = cb }
func (p *fakePCU) complete(ts *btsmodel.Timeslot) {
	if p.infoCb != nil {
		p.infoCb(ts)
	}
}

func newHandler(pcu collab.PCU) (*Handler, *btsmodel.TRX, *fakePHY) {
	bts := btsmodel.NewBTS(4)
	trx := btsmodel.NewTRX(bts, 0)
	trx.ConfigureTimeslot(3, btsmodel.PCHAN_TCH_F_PDCH)
	phy := &fakePHY{}
	h := New(bts, phy, pcu, nil)
	phy.SetCallbacks(collab.PHYCallbacks{
		TSConnected:    h.OnTSConnected,
		TSDisconnected: h.OnTSDisconnected,
	})
	return h, trx, phy
}

func TestPDCHActivateWithoutPCUCompletesOnConnect(t *testing.T) {
	h, trx, phy := newHandler(nil)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	var sent []rsl.Frame
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f) }

	// fakePHY resolves Disconnect/Connect synchronously, so the whole
	// sequence finishes before PDCHActivate returns; the ACK still only
	// ever reaches the caller via Out, never as a direct return value,
	// since the message was issued asynchronously to the PHY.
	res := h.PDCHActivate(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Nil(t, res.Reply)
	require.Len(t, sent, 1)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_ACK), sent[0].MsgType)
	assert.True(t, ts.PDCHActive)
	assert.False(t, ts.PDCHActPending)
	assert.Equal(t, []btsmodel.Pchan{btsmodel.PCHAN_PDCH}, phy.connectCalls)
}

func TestPDCHActivateWaitsForPCUInfoComplete(t *testing.T) {
	pcu := &fakePCU{connected: true}
	h, trx, _ := newHandler(pcu)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	res := h.PDCHActivate(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Nil(t, res.Reply, "no ACK until the PCU reports its SAPI activation finished")
	assert.True(t, ts.PDCHActPending)
	assert.Equal(t, 1, pcu.infoSent)

	var sent []rsl.Frame
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f) }
	pcu.complete(ts)

	require.Len(t, sent, 1)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_ACK), sent[0].MsgType)
	assert.True(t, ts.PDCHActive)
	assert.False(t, ts.PDCHActPending)
}

func TestPDCHActivateAlreadyActiveIsIdempotent(t *testing.T) {
	h, trx, _ := newHandler(nil)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)
	require.NoError(t, h.PDCHActivate(trx, chanNr, nil).Err)

	res := h.PDCHActivate(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_ACK), res.Reply.MsgType)
}

func TestPDCHActivateRejectsReentrantPending(t *testing.T) {
	pcu := &fakePCU{connected: true}
	h, trx, _ := newHandler(pcu)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	res1 := h.PDCHActivate(trx, chanNr, nil)
	require.NoError(t, res1.Err)
	assert.True(t, ts.PDCHActPending)

	res2 := h.PDCHActivate(trx, chanNr, nil)
	require.Error(t, res2.Err)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_NACK), res2.Reply.MsgType)
	assert.Equal(t, rsl.ERR_NORMAL_UNSPEC, rsl.CauseOf(res2.Err))
}

func TestPDCHActivateConnectFailureNacksAndClearsFlag(t *testing.T) {
	h, trx, phy := newHandler(nil)
	phy.failConnect = true
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	var sent []rsl.Frame
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f) }

	res := h.PDCHActivate(trx, chanNr, nil)
	require.NoError(t, res.Err) // Disconnect itself didn't fail; the NACK arrives async
	require.Len(t, sent, 1)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_NACK), sent[0].MsgType)
	assert.False(t, ts.PDCHActPending)
	assert.False(t, ts.PDCHActive)
}

func TestPDCHDeactivateCompletesWithoutWaitingOnPCU(t *testing.T) {
	pcu := &fakePCU{connected: true}
	h, trx, phy := newHandler(pcu)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	require.NoError(t, h.PDCHActivate(trx, chanNr, nil).Err)
	require.True(t, ts.PDCHActPending, "ACT waits on the PCU's own SAPI activation")
	pcu.complete(ts)
	require.True(t, ts.PDCHActive)
	pcu.infoSent = 0

	res := h.PDCHDeactivate(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Nil(t, res.Reply)
	assert.False(t, ts.PDCHActive)
	assert.False(t, ts.PDCHDeactPending)
	assert.Equal(t, 1, pcu.infoSent, "info-ind fires up front, not after completion")
	assert.Contains(t, phy.connectCalls, btsmodel.PCHAN_TCH_F)
}

func TestPDCHDeactivateAlreadyInactiveIsIdempotent(t *testing.T) {
	h, trx, _ := newHandler(nil)
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	res := h.PDCHDeactivate(trx, chanNr, nil)
	require.NoError(t, res.Err)
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_DEACT_ACK), res.Reply.MsgType)
}

func TestPDCHActivateWrongPchanRejected(t *testing.T) {
	h, trx, _ := newHandler(nil)
	trx.ConfigureTimeslot(4, btsmodel.PCHAN_TCH_F)
	chanNr := btsmodel.ChanNrFor(btsmodel.PCHAN_PDCH, 4, 0)

	res := h.PDCHActivate(trx, chanNr, nil)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_RES_UNAVAIL, rsl.CauseOf(res.Err))
}

func TestWatchdogFiresWhenEnabledAndPendingNeverCompletes(t *testing.T) {
	pcu := &fakePCU{connected: true}
	h, trx, _ := newHandler(pcu)
	h.WatchdogTimeout = 10 * time.Millisecond
	ts := trx.Timeslots[3]
	chanNr := pdchChanNr(ts)

	var sent []rsl.Frame
	done := make(chan struct{})
	h.Out = func(trx *btsmodel.TRX, f rsl.Frame) { sent = append(sent, f); close(done) }

	require.NoError(t, h.PDCHActivate(trx, chanNr, nil).Err)
	// The PCU never calls complete(), simulating a stuck SAPI activation.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchdog never fired")
	}
	assert.Equal(t, byte(rsl.MT_IPAC_PDCH_ACT_NACK), sent[0].MsgType)
	assert.False(t, ts.PDCHActPending)
}

func TestWatchdogDisabledByDefault(t *testing.T) {
	h, _, _ := newHandler(nil)
	assert.Equal(t, time.Duration(0), h.WatchdogTimeout)
}
