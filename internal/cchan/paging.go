package cchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	PAGING COMMAND.
 *
 *------------------------------------------------------------------*/

// PagingCommand handles an inbound PAGING COMMAND message.
func (h *Handler) PagingCommand(body []byte) Result {
	tp, err := rsl.ParseTLV(body)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	group, err := tp.Byte(rsl.IE_PAGING_GROUP)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	msIdentity, err := tp.Require(rsl.IE_MS_IDENTITY)
	if err != nil {
		return errorReport(rsl.ERR_MAND_IE_ERROR)
	}

	idLV := make([]byte, 0, len(msIdentity)+1)
	idLV = append(idLV, byte(len(msIdentity)))
	idLV = append(idLV, msIdentity...)

	var chanNeeded byte
	hasChanNeeded := tp.Present(rsl.IE_CHAN_NEEDED)
	if hasChanNeeded {
		chanNeeded, _ = tp.Byte(rsl.IE_CHAN_NEEDED)
	}

	h.BTS.Paging[group] = append(h.BTS.Paging[group], btsmodel.PagingEntry{
		IdentityLV:    idLV,
		ChanNeeded:    chanNeeded,
		HasChanNeeded: hasChanNeeded,
	})

	if h.Paging != nil {
		h.Paging.AddIdentity(group, idLV, chanNeeded, hasChanNeeded)
	}
	if h.PCU != nil {
		_ = h.PCU.TxPagingRequest(idLV, chanNeeded, hasChanNeeded)
	}

	h.Log.Info("paging command queued", "group", group, "chan_needed", chanNeeded)
	return Result{}
}
