// Package rsl implements the wire format of the A-bis Radio Signalling
// Link protocol (GSM TS 08.58) as seen on the BTS side, plus the
// ip.access vendor extension for RTP endpoint management.
package rsl

/*------------------------------------------------------------------
 *
 * Purpose:	Message discriminators, message types, IE tags and cause
 *		codes for GSM TS 08.58 RSL plus the ip.access extension.
 *
 * Reference:	GSM TS 08.58, osmo-bts src/common/rsl.c
 *
 *------------------------------------------------------------------*/

// MsgDiscr is the first header byte with bit 0, the transparent/
// non-transparent flag, masked off before comparison.
type MsgDiscr uint8

const (
	MDISC_RLL      MsgDiscr = 0x02
	MDISC_DED_CHAN MsgDiscr = 0x08
	MDISC_COM_CHAN MsgDiscr = 0x06
	MDISC_TRX      MsgDiscr = 0x10
	MDISC_IPACCESS MsgDiscr = 0x7e

	mdiscTransparentMask = 0x01
)

// Discr masks off the transparent-flag bit of a raw discriminator byte.
func Discr(b byte) MsgDiscr {
	return MsgDiscr(b &^ mdiscTransparentMask)
}

// Message types, grouped the way 08.58 §9.1 groups them.
const (
	MT_CHAN_ACTIV            = 0x01
	MT_CHAN_ACTIV_ACK        = 0x02
	MT_CHAN_ACTIV_NACK       = 0x03
	MT_CONN_FAIL             = 0x04
	MT_DEACTIVATE_SACCH      = 0x05
	MT_ENCR_CMD              = 0x06
	MT_HANDO_DET             = 0x07
	MT_MEAS_RES              = 0x08
	MT_MODE_MODIFY_REQ       = 0x09
	MT_MODE_MODIFY_ACK       = 0x0a
	MT_MODE_MODIFY_NACK      = 0x0b
	MT_PHY_CONTEXT_REQ       = 0x0c
	MT_PHY_CONTEXT_CONF      = 0x0d
	MT_RF_CHAN_REL           = 0x0e
	MT_MS_POWER_CONTROL      = 0x0f
	MT_BS_POWER_CONTROL      = 0x10
	MT_PREPROC_CONFIG        = 0x11
	MT_PREPROC_MEAS_RES      = 0x12
	MT_RF_CHAN_REL_ACK       = 0x13
	MT_SACCH_INFO_MODIFY     = 0x14
	MT_TALKER_DET            = 0x15
	MT_LISTENER_DET          = 0x16
	MT_REMOTE_CODEC_CONF_REP = 0x17
	MT_RTD_REP               = 0x18
	MT_PRE_HANDO_NOTIF       = 0x19
	MT_MULTICHAN_HANDO_NOTIF = 0x20

	MT_BCCH_INFO       = 0x41
	MT_CCCH_LOAD_IND   = 0x42
	MT_CHAN_RQD        = 0x43
	MT_DELETE_IND      = 0x44
	MT_PAGING_CMD      = 0x45
	MT_IMMEDIATE_ASS   = 0x46
	MT_SMS_BC_REQ      = 0x47
	MT_SMS_BC_CMD      = 0x4e
	MT_NOT_CMD         = 0x4c
	MT_SACCH_FILL      = 0x48

	MT_ERROR_REPORT = 0x61
	MT_RF_RES_IND   = 0x62
	MT_SACCH_INFO   = 0x63
	MT_OVERLOAD     = 0x64

	MT_DATA_REQ  = 0x01
	MT_DATA_IND  = 0x02
	MT_ERROR_IND = 0x03
	MT_EST_REQ   = 0x04
	MT_EST_CONF  = 0x05
	MT_EST_IND   = 0x06
	MT_REL_REQ   = 0x07
	MT_REL_CONF  = 0x08
	MT_REL_IND   = 0x09
	MT_UNIT_DATA_REQ = 0x0a
	MT_UNIT_DATA_IND = 0x0b

	// ip.access vendor extension.
	MT_IPAC_CRCX      = 0x70
	MT_IPAC_CRCX_ACK  = 0x71
	MT_IPAC_CRCX_NACK = 0x72
	MT_IPAC_MDCX      = 0x73
	MT_IPAC_MDCX_ACK  = 0x74
	MT_IPAC_MDCX_NACK = 0x75
	MT_IPAC_DLCX_IND  = 0x76
	MT_IPAC_DLCX      = 0x77
	MT_IPAC_DLCX_ACK  = 0x78
	MT_IPAC_DLCX_NACK = 0x79
	MT_IPAC_PDCH_ACT       = 0x48
	MT_IPAC_PDCH_ACT_ACK   = 0x49
	MT_IPAC_PDCH_ACT_NACK  = 0x4a
	MT_IPAC_PDCH_DEACT     = 0x4b
	MT_IPAC_PDCH_DEACT_ACK = 0x4c
	MT_IPAC_PDCH_DEACT_NACK = 0x4d
)

// Information element tags (08.58 §9.3, ip.access vendor tags for C4).
const (
	IE_CHAN_NR          = 0x01
	IE_LINK_IDENT       = 0x02
	IE_ACT_TYPE         = 0x03
	IE_BS_POWER         = 0x04
	IE_CHAN_IDENT       = 0x05
	IE_CHAN_MODE        = 0x06
	IE_ENCR_INFO        = 0x07
	IE_FRAME_NUMBER     = 0x08
	IE_HANDO_REF        = 0x09
	IE_L1_INFO          = 0x0a
	IE_L3_INFO          = 0x0b
	IE_MS_IDENTITY      = 0x0c
	IE_MS_POWER         = 0x0d
	IE_PAGING_GROUP     = 0x0e
	IE_PAGING_LOAD      = 0x0f
	IE_PHYSICAL_CONTEXT = 0x10
	IE_ACCESS_DELAY     = 0x11
	IE_RACH_LOAD        = 0x12
	IE_REQ_REFERENCE    = 0x13
	IE_RELEASE_MODE     = 0x14
	IE_RESOURCE_INFO    = 0x15
	IE_RLM_CAUSE        = 0x16
	IE_STARTING_TIME    = 0x17
	IE_TIMING_ADVANCE   = 0x18
	IE_UPLINK_MEAS      = 0x19
	IE_CAUSE            = 0x1a
	IE_MEAS_RES_NUMBER  = 0x1b
	IE_MESSAGE_ID       = 0x1c
	IE_SYSINFO_TYPE     = 0x1e
	IE_MS_POWER_PARAM   = 0x1f
	IE_BS_POWER_PARAM   = 0x20
	IE_PREPROC_PARAM    = 0x21
	IE_PREPROC_MEAS     = 0x22
	IE_IMM_ASS_INFO     = 0x23
	IE_SMSCB_INFO       = 0x24
	IE_FULL_BCCH_INFO   = 0x25
	IE_CHAN_NEEDED      = 0x26
	IE_CB_CMD_TYPE      = 0x27
	IE_SMSCB_MESS       = 0x28
	IE_FULL_IMM_ASS_INFO = 0x2b
	IE_SACCH_INFO       = 0x29
	IE_CBCH_LOAD_INFO   = 0x2a
	IE_MS_POWER_CAP     = 0x2d
	IE_ERR_MSG          = 0x30
	IE_UIC              = 0x63
	IE_MAIN_CHAN_REF    = 0x64
	IE_MULTIRATE_CONF   = 0x65
	IE_MULTIRATE_CTRL   = 0x66
	IE_SUPP_CODEC_TYPES = 0x67
	IE_CODEC_CONF       = 0x68
	IE_ERR_ATT          = 0x69

	// ip.access CRCX/MDCX/DLCX tags.
	IPAC_IE_CHAN_NR     = 0xf0
	IPAC_IE_RTP_CSD_FMT = 0xf8
	IPAC_IE_RTP_JIT_BUF = 0xf9
	IPAC_IE_LOCAL_IP    = 0xf5
	IPAC_IE_LOCAL_PORT  = 0xf6
	IPAC_IE_SPEECH_MODE = 0xfd
	IPAC_IE_REMOTE_IP   = 0xf1
	IPAC_IE_REMOTE_PORT = 0xf2
	IPAC_IE_CONN_STAT   = 0xf3
	IPAC_IE_PAYLOAD_TYPE = 0xf7
	IPAC_IE_CONN_ID     = 0xfe
	IPAC_IE_RTP_PAYLOAD2 = 0xfc
	IPAC_IE_OSMO_TRAINING_SEQUENCE = 0x60
)

// Cause codes (08.58 §9.3.26), one byte on the wire.
type Cause uint8

const (
	ERR_RADIO_IF_FAIL   Cause = 0x01
	ERR_EQUIPMENT_FAIL  Cause = 0x20
	ERR_RR_UNAVAIL      Cause = 0x21
	ERR_NORMAL_UNSPEC   Cause = 0x22
	ERR_T_MSGTYPE       Cause = 0x30
	ERR_MSG_DISCR       Cause = 0x31
	ERR_IE_ERROR        Cause = 0x32
	ERR_MAND_IE_ERROR   Cause = 0x33
	ERR_IE_NONEXIST     Cause = 0x34
	ERR_IE_LENGTH       Cause = 0x35
	ERR_IE_CONTENT      Cause = 0x36
	ERR_PROTO           Cause = 0x37
	ERR_INTERWORKING    Cause = 0x38
	ERR_RES_UNAVAIL     Cause = 0x51
	ERR_RES_UNAVAIL_IPA Cause = 0x52
	ERR_SERV_OPT_UNIMPL Cause = 0x08
)

// SI (System Information) types as carried in the RSL Sysinfo Type IE.
type SIType uint8

const (
	SI_1 SIType = iota
	SI_2
	SI_2bis
	SI_2ter
	SI_2quater
	SI_3
	SI_4
	SI_5
	SI_5bis
	SI_5ter
	SI_6
	SI_7
	SI_8
	SI_9
	SI_10
	SI_13
	SI_16
	SI_17
	SI_18
	SI_19
	SI_20
	SI_EXT_MEAS_ORDER
	SI_MEAS_INFO
	siTypeCount
)

// SACCHSITypes lists the SI types accepted as SACCH fillings; all others
// are BCCH-only (rsl.c's rsl_sacch_sitypes array).
var SACCHSITypes = []SIType{SI_5, SI_6, SI_5bis, SI_5ter, SI_EXT_MEAS_ORDER, SI_MEAS_INFO}

// IsSACCHOnly reports whether si may only be filled via SACCH FILLING.
func IsSACCHOnly(si SIType) bool {
	for _, s := range SACCHSITypes {
		if s == si {
			return true
		}
	}
	return false
}

// SYSINFO_BUF is the fixed length of each per-SI-type buffer in the BTS
// global SI store.
const SYSINFO_BUF = 23

// MRConfigMaxLen is the largest MultiRate Configuration IE value rsl.c
// accepts before rejecting CHANNEL ACTIVATION/MODE MODIFY with
// ERR_IE_CONTENT (sizeof lchan->mr_bts_lv, minus the length-prefix byte
// it is memcpy'd alongside).
const MRConfigMaxLen = 8

// GSMPad is the GSM padding byte (0x2B) used to fill unused bytes of a
// stored SI buffer.
const GSMPad = 0x2b

// LAPDmUIHeader is the 2-byte prefix (0x03, 0x03) that SACCH SI buffers
// always carry in front of the payload.
var LAPDmUIHeader = [2]byte{0x03, 0x03}

// ActivationType is the value carried in the CHANNEL ACTIVATION IE
// IE_ACT_TYPE (08.58 §9.3.3).
type ActivationType byte

const (
	ActIntraNormal ActivationType = 0x00
	ActInterAsync  ActivationType = 0x01
	ActInterSync   ActivationType = 0x02
	ActSecondary   ActivationType = 0x03
	// ActOsmoPDCH is the ip.access/osmocom extension value used to
	// activate the PDCH subchannel of a three-way dynamic timeslot
	// through ordinary CHANNEL ACTIVATION rather than IPAC PDCH ACT.
	ActOsmoPDCH ActivationType = 0x30
)

// IsInterCell reports whether t is one of the inter-cell handover
// activation types, the only ones that carry a handover reference.
func (t ActivationType) IsInterCell() bool {
	return t == ActInterAsync || t == ActInterSync
}
