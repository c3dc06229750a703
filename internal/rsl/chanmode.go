package rsl

/*------------------------------------------------------------------
 *
 * Purpose:	Channel Mode IE (08.58 §9.3.6) parsing. Four octets:
 *		dtx_dtu, spd_ind, chan_rate_type and a codec/data-rate
 *		selector.
 *
 *------------------------------------------------------------------*/

// DTX bits of the dtx_dtu octet (value[0]).
const (
	CModDTXu byte = 0x01
	CModDTXd byte = 0x02
)

// Speed indication values (octet 2).
const (
	SpdIndSign   byte = 0x00
	SpdIndSpeech byte = 0x01
	SpdIndData   byte = 0x02
)

// Channel rate/type values (octet 3).
const (
	ChanRateTypeSDCCH byte = 0x00
	ChanRateTypeFull  byte = 0x08
	ChanRateTypeHalf  byte = 0x09
)

// Codec/data-rate selector values (octet 4), meaning depends on
// spd_ind: for speech it selects the codec, for data the data rate.
const (
	CodecFR     byte = 0x01
	CodecEFR    byte = 0x05
	CodecAMR    byte = 0x06
	DataRate14k5 byte = 0x01
	DataRate12k0 byte = 0x02
	DataRate6k0  byte = 0x03
)

// ChanModeValue is the parsed Channel Mode IE.
type ChanModeValue struct {
	DtxDtu       byte
	SpdInd       byte
	ChanRateType byte
	Codec        byte
}

// Dtxd reports whether the downlink DTX bit is set in dtx_dtu.
func (cm ChanModeValue) Dtxd() bool { return cm.DtxDtu&CModDTXd != 0 }

// ParseChanMode parses a Channel Mode IE value (the tagged IE's V
// part, without tag/length).
func ParseChanMode(value []byte) (ChanModeValue, error) {
	if len(value) < 3 {
		return ChanModeValue{}, ErrIEContent(IE_CHAN_MODE, "too short")
	}
	return ChanModeValue{
		DtxDtu:       value[0],
		SpdInd:       value[1],
		ChanRateType: value[2],
		Codec:        value[len(value)-1],
	}, nil
}
