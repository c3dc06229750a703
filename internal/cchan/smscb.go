package cchan

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	SMS BROADCAST COMMAND.
 *
 *------------------------------------------------------------------*/

// SMSBroadcastCommand handles an inbound SMS BC COMMAND message.
func (h *Handler) SMSBroadcastCommand(body []byte) Result {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	cmdType, err := tp.Byte(rsl.IE_CB_CMD_TYPE)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	msg, err := tp.Require(rsl.IE_SMSCB_MESS)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	if h.BTS.OnSMSCB != nil {
		h.BTS.OnSMSCB(cmdType, msg)
	}
	h.Log.Info("SMSCB forwarded", "cmd_type", cmdType, "len", len(msg))
	return Result{}
}
