package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	ENCRYPTION COMMAND (rsl.c rsl_rx_encr_cmd). Unlike the
 *		ENCR_INFO IE accepted inline during CHANNEL ACTIVATION, a
 *		standalone update to an already-active lchan's cipher must
 *		reach LAPDm before the response frame is generated, since
 *		the L3 message it carries is ciphered under the new key.
 *
 *------------------------------------------------------------------*/

// EncryptionCommand handles an inbound ENCRYPTION COMMAND message.
func (h *Handler) EncryptionCommand(trx *btsmodel.TRX, chanNr byte, body []byte) Result {
	ts := trx.Timeslots[chanNr&0x07]
	if ts == nil {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}
	lc := ts.LChanByChanNr(chanNr)
	if lc == nil || lc.State != btsmodel.StateActive {
		return errorReport(rsl.ERR_RES_UNAVAIL)
	}

	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	enc, err := tp.Require(rsl.IE_ENCR_INFO)
	if err != nil || len(enc) == 0 {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}
	if !cipherSupported(h.BTS, enc[0]) {
		return errorReport(rsl.ERR_IE_CONTENT)
	}

	l3, err := tp.Require(rsl.IE_L3_INFO)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	lc.Encr = btsmodel.Encryption{AlgID: enc[0], Key: append([]byte(nil), enc[1:]...)}

	if h.LAPDm != nil {
		if err := h.LAPDm.RecvMsg(lc, append([]byte(nil), l3...)); err != nil {
			return errorReport(rsl.ERR_PROTO)
		}
	}

	return Result{}
}
