package rsl

/*------------------------------------------------------------------
 *
 * Purpose:	Channel number (chan_nr) IE decoding (08.58 §9.3.1).
 *
 * Description:	chan_nr is one byte: the top 5 bits ("C-bits") encode the
 *		subchannel type and subslot, the bottom 3 bits the
 *		timeslot number.
 *
 *------------------------------------------------------------------*/

// Cbits values recognized by this core. Bm/Lm naming follows 08.58 Table
// 9.3.1 and osmocom's RSL_CHAN_* constants.
const (
	CBITS_Bm_ACCHs    byte = 0x01 // TCH/F
	CBITS_Lm_ACCHs0   byte = 0x02 // TCH/H, subslot 0
	CBITS_Lm_ACCHs1   byte = 0x03 // TCH/H, subslot 1
	CBITS_SDCCH4_MIN  byte = 0x04
	CBITS_SDCCH4_MAX  byte = 0x07
	CBITS_SDCCH8_MIN  byte = 0x08
	CBITS_SDCCH8_MAX  byte = 0x0f
	CBITS_BCCH        byte = 0x10
	CBITS_RACH        byte = 0x18
	CBITS_OSMO_PDCH   byte = 0x19 // ip.access/osmocom vendor extension
)

// Cbits extracts the 5-bit C-bits field from a chan_nr byte.
func Cbits(chanNr byte) byte {
	return chanNr >> 3
}

// TN extracts the 3-bit timeslot-number field from a chan_nr byte.
func TN(chanNr byte) byte {
	return chanNr & 0x07
}

// IsLmACCHs reports whether cbits selects a TCH/H (Lm+ACCHs) subchannel,
// either subslot.
func IsLmACCHs(cbits byte) bool {
	return cbits == CBITS_Lm_ACCHs0 || cbits == CBITS_Lm_ACCHs1
}
