package rtpendpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

type fakeSocket struct {
	pt, pt2       uint8
	connectIP     string
	connectPort   uint16
	freed         bool
	failConnect   bool
	stats         btsmodel.RTPStats
}

func (s *fakeSocket) SetJitterBuffer(adaptive bool) {}
func (s *fakeSocket) SetPayloadType(pt uint8)        { s.pt = pt }
func (s *fakeSocket) SetPayloadType2(pt uint8)       { s.pt2 = pt }
func (s *fakeSocket) Connect(ip string, port uint16) error {
	if s.failConnect {
		return assertErr
	}
	s.connectIP, s.connectPort = ip, port
	return nil
}
func (s *fakeSocket) Stats() btsmodel.RTPStats      { return s.stats }
func (s *fakeSocket) Free()                         { s.freed = true }
func (s *fakeSocket) BoundIPPort() (string, uint16) { return "10.0.0.5", 16002 }

var assertErr = &rsl.CauseError{Cause: rsl.ERR_RES_UNAVAIL}

type fakeFactory struct {
	lastSocket *fakeSocket
	failCreate bool
}

func (f *fakeFactory) Create(bindIP string, jitterAdaptive bool) (string, uint16, btsmodel.RTPSocket, error) {
	if f.failCreate {
		return "", 0, nil, assertErr
	}
	sock := &fakeSocket{}
	f.lastSocket = sock
	return "10.0.0.5", 16002, sock, nil
}
func (f *fakeFactory) SetUplinkCallback(sock btsmodel.RTPSocket, cb func(frame []byte)) {}

func newTestHandler() (*Handler, *btsmodel.TRX, *fakeFactory) {
	bts := btsmodel.NewBTS(4)
	trx := btsmodel.NewTRX(bts, 0)
	trx.ConfigureTimeslot(1, btsmodel.PCHAN_TCH_F)
	factory := &fakeFactory{}
	return New(bts, factory, nil), trx, factory
}

func crcxBody(remoteIP string, remotePort uint16, payload byte) []byte {
	ip := parseIPStr(remoteIP)
	body := []byte{rsl.IPAC_IE_REMOTE_IP, byte(len(ip))}
	body = append(body, ip...)
	body = append(body, rsl.IPAC_IE_REMOTE_PORT, 2, byte(remotePort>>8), byte(remotePort))
	body = append(body, rsl.IPAC_IE_PAYLOAD_TYPE, 1, payload)
	return body
}

func TestCRCXHappyPath(t *testing.T) {
	h, trx, _ := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res := h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Reply)
	assert.Equal(t, byte(rsl.MT_IPAC_CRCX_ACK), res.Reply.MsgType)

	lc := trx.Timeslots[1].LChans[0]
	require.NotNil(t, lc.RTP)
	assert.Equal(t, "192.0.2.5", lc.RTP.ConnectIP)
	assert.Equal(t, uint16(16000), lc.RTP.ConnectPort)
}

func TestCRCXRejectsWhenSocketAlreadyExists(t *testing.T) {
	h, trx, _ := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res1 := h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98))
	require.NoError(t, res1.Err)

	res2 := h.CRCX(trx, chanNr, crcxBody("192.0.2.6", 16001, 98))
	require.Error(t, res2.Err)
	assert.Equal(t, rsl.ERR_RES_UNAVAIL, rsl.CauseOf(res2.Err))
}

func TestCRCXBothPayloadIEsIsMandatoryIEError(t *testing.T) {
	h, trx, _ := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	body := crcxBody("192.0.2.5", 16000, 98)
	body = append(body, rsl.IPAC_IE_RTP_PAYLOAD2, 1, 99)

	res := h.CRCX(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_MAND_IE_ERROR, rsl.CauseOf(res.Err))
}

// failOnCreateFactory returns a socket pre-armed to fail Connect, so the
// very first CRCX on a channel exercises the connect-failure cleanup path.
type failOnCreateFactory struct {
	lastSocket *fakeSocket
}

func (f *failOnCreateFactory) Create(bindIP string, jitterAdaptive bool) (string, uint16, btsmodel.RTPSocket, error) {
	sock := &fakeSocket{failConnect: true}
	f.lastSocket = sock
	return "10.0.0.5", 16002, sock, nil
}
func (f *failOnCreateFactory) SetUplinkCallback(sock btsmodel.RTPSocket, cb func(frame []byte)) {}

func TestCRCXFreesSocketOnConnectFailure(t *testing.T) {
	bts := btsmodel.NewBTS(4)
	trx := btsmodel.NewTRX(bts, 0)
	trx.ConfigureTimeslot(1, btsmodel.PCHAN_TCH_F)
	factory := &failOnCreateFactory{}
	h := New(bts, factory, nil)
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res := h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98))
	require.Error(t, res.Err)
	assert.True(t, factory.lastSocket.freed)
	assert.Nil(t, trx.Timeslots[1].LChans[0].RTP)
}

func TestMDCXRequiresExistingSocket(t *testing.T) {
	h, trx, _ := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr

	res := h.MDCX(trx, chanNr, crcxBody("192.0.2.6", 16002, 98))
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_RES_UNAVAIL, rsl.CauseOf(res.Err))
}

func TestMDCXAppliesNewRemote(t *testing.T) {
	h, trx, _ := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	require.NoError(t, h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98)).Err)

	res := h.MDCX(trx, chanNr, crcxBody("192.0.2.6", 16002, 98))
	require.NoError(t, res.Err)
	assert.Equal(t, byte(rsl.MT_IPAC_MDCX_ACK), res.Reply.MsgType)
	assert.Equal(t, "192.0.2.6", trx.Timeslots[1].LChans[0].RTP.ConnectIP)
}

func TestDLCXFreesSocketAndReportsStats(t *testing.T) {
	h, trx, factory := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	require.NoError(t, h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98)).Err)
	factory.lastSocket.stats = btsmodel.RTPStats{PacketsSent: 42}

	body := []byte{rsl.IPAC_IE_CONN_ID, 2, 0, 1}
	res := h.DLCX(trx, chanNr, body)
	require.NoError(t, res.Err)
	assert.Equal(t, byte(rsl.MT_IPAC_DLCX_ACK), res.Reply.MsgType)
	assert.True(t, factory.lastSocket.freed)
	assert.Nil(t, trx.Timeslots[1].LChans[0].RTP)
}

func TestTeardownEmitsDLCXIndWithStats(t *testing.T) {
	h, trx, factory := newTestHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	require.NoError(t, h.CRCX(trx, chanNr, crcxBody("192.0.2.5", 16000, 98)).Err)
	factory.lastSocket.stats = btsmodel.RTPStats{PacketsLost: 3}

	lc := trx.Timeslots[1].LChans[0]
	f := h.Teardown(lc)
	require.NotNil(t, f)
	assert.Equal(t, byte(rsl.MT_IPAC_DLCX_IND), f.MsgType)
	assert.True(t, factory.lastSocket.freed)
	assert.Nil(t, lc.RTP)
}

func TestTeardownNoOpWithoutEndpoint(t *testing.T) {
	h, trx, _ := newTestHandler()
	lc := trx.Timeslots[1].LChans[0]
	assert.Nil(t, h.Teardown(lc))
}
