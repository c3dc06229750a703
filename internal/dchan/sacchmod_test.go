package dchan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmobts/rslbts/internal/rsl"
)

func TestSACCHInfoModifyRejectsStartingTime(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	body := []byte{rsl.IE_STARTING_TIME, 2, 0x00, 0x00}
	res := h.SACCHInfoModify(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_SERV_OPT_UNIMPL, rsl.CauseOf(res.Err))
}

func TestSACCHInfoModifyMissingSysinfoType(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	res := h.SACCHInfoModify(trx, chanNr, nil)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_MAND_IE_ERROR, rsl.CauseOf(res.Err))
}

func TestSACCHInfoModifyRejectsNonSACCHType(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	body := []byte{rsl.IE_SYSINFO_TYPE, 1, byte(rsl.SI_3)}
	res := h.SACCHInfoModify(trx, chanNr, body)
	require.Error(t, res.Err)
	assert.Equal(t, rsl.ERR_IE_CONTENT, rsl.CauseOf(res.Err))
}

func TestSACCHInfoModifyStoresL3InfoWithLAPDmHeader(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	body := []byte{rsl.IE_SYSINFO_TYPE, 1, byte(rsl.SI_5)}
	body = append(body, rsl.IE_L3_INFO, 2, 0xaa, 0xbb)

	res := h.SACCHInfoModify(trx, chanNr, body)
	require.NoError(t, res.Err)

	lc := trx.Timeslots[1].LChans[0]
	require.Contains(t, lc.SACCHSI, rsl.SI_5)
	buf := lc.SACCHSI[rsl.SI_5]
	require.Len(t, buf, rsl.SYSINFO_BUF)
	assert.Equal(t, []byte{0x03, 0x03, 0xaa, 0xbb}, buf[:4])
}

func TestSACCHInfoModifyAbsentL3InfoClearsEntry(t *testing.T) {
	h, trx, _ := newHandler()
	chanNr := trx.Timeslots[1].LChans[0].ChanNr
	h.ChannelActivation(trx, chanNr, activationBody(rsl.ActIntraNormal, rsl.SpdIndSpeech))

	lc := trx.Timeslots[1].LChans[0]
	lc.SACCHSI[rsl.SI_5] = []byte{0x03, 0x03, 0xaa}

	body := []byte{rsl.IE_SYSINFO_TYPE, 1, byte(rsl.SI_5)}
	res := h.SACCHInfoModify(trx, chanNr, body)
	require.NoError(t, res.Err)
	assert.NotContains(t, lc.SACCHSI, rsl.SI_5)
}
