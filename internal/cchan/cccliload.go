package cchan

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	CCCH LOAD IND. Outbound only: PCH form
 *		carries one 16-bit paging_avail, RACH form carries
 *		{total, busy, access} as three 16-bit counters.
 *
 *------------------------------------------------------------------*/

// PCHLoadInd builds a CCCH LOAD IND (PCH form).
func PCHLoadInd(pagingAvail uint16) rsl.Frame {
	val := []byte{byte(pagingAvail >> 8), byte(pagingAvail)}
	return rsl.TRXFrame(rsl.MT_CCCH_LOAD_IND, rsl.IE{Tag: rsl.IE_PAGING_LOAD, Value: val})
}

// RACHLoadInd builds a CCCH LOAD IND (RACH form): a single 6-byte tagged
// IE carrying three 16-bit big-endian counters.
func RACHLoadInd(total, busy, access uint16) rsl.Frame {
	val := []byte{
		byte(total >> 8), byte(total),
		byte(busy >> 8), byte(busy),
		byte(access >> 8), byte(access),
	}
	return rsl.TRXFrame(rsl.MT_CCCH_LOAD_IND, rsl.IE{Tag: rsl.IE_RACH_LOAD, Value: val})
}
