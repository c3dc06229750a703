package btsmodel

import "github.com/osmobts/rslbts/internal/rsl"

/*------------------------------------------------------------------
 *
 * Purpose:	Logical channel (lchan) state.
 *
 *------------------------------------------------------------------*/

// State is the lchan activation state machine.
type State int

const (
	StateNone State = iota
	StateActReq
	StateActive
	StateInactive
	StateRelReq
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateActReq:
		return "ACT_REQ"
	case StateActive:
		return "ACTIVE"
	case StateInactive:
		return "INACTIVE"
	case StateRelReq:
		return "REL_REQ"
	default:
		return "?"
	}
}

// RelActKind records who is driving the current activation/release so
// the completion handler knows whether an RSL ACK is owed.
type RelActKind int

const (
	RelActNone  RelActKind = iota
	RelActRSL              // BSC-driven via RSL; ACK/NACK owed
	RelActPCU              // PCU-driven; silent on the RSL side
	RelActReact            // automatic reactivation (e.g. SI3 AGCH mismatch)
)

// CMode is the RSL channel mode (rsl_cmode): signalling, speech or data.
type CMode int

const (
	CModeSignalling CMode = iota
	CModeSpeech
	CModeData
)

// TCHMode is the traffic channel codec/data mode (tch_mode).
type TCHMode int

const (
	TCHModeSign TCHMode = iota
	TCHModeSpeechV1
	TCHModeSpeechEFR
	TCHModeSpeechAMR
	TCHModeData14k5
	TCHModeData12k0
	TCHModeData6k0
)

// Encryption holds the A5 cipher algorithm and key in use on an lchan.
type Encryption struct {
	AlgID byte
	Key   []byte // up to 8 bytes
}

// PowerControl holds MS/BS power control state for an lchan.
type PowerControl struct {
	MSPower byte
	BSPower byte
	Fixed   bool // BSC override: suppress BTS-side autonomous power control
}

// Handover holds handover-detection bookkeeping for an lchan.
type Handover struct {
	Active bool
	Ref    byte
}

// MultiRateConfig is the parsed AMR multirate configuration IE. Rate
// adaptation itself is out of scope here; this only stores what
// CHANNEL ACTIVATION/MODE MODIFY hand the AMR codec helper.
type MultiRateConfig struct {
	Present  bool
	Raw      []byte
	Icmi     bool
	StartMode int
}

// LChan is one logical subchannel of a Timeslot.
type LChan struct {
	TS     *Timeslot
	Sub    int // index within ts.LChans
	ChanNr byte

	State State

	RSLCMode CMode
	TCHMode  TCHMode

	Encr Encryption
	Pwr  PowerControl

	TimingAdvance byte

	HO Handover

	RelActKind RelActKind

	// SACCH SI buffers, keyed by the SI types valid on SACCH. Each
	// buffer, when present, begins with the 2-byte LAPDm UI header.
	SACCHSI map[rsl.SIType][]byte

	MultiRate MultiRateConfig

	RTP *RTPEndpoint

	// DLQ is the downlink TCH frame queue, flushed whenever the RTP
	// endpoint is torn down.
	DLQ DLQueue

	// LAPDmChannel is an opaque handle to the per-lchan LAPDm entity.
	// No code in this repository assigns it a non-nil value (nothing
	// calls collab.LAPDm.EstablishChannel), so it stays nil.
	LAPDmChannel any

	// MeasResNr is the MEAS RES NUMBER sequence counter (rsl.c
	// meas_res_nr), incremented for each MEASUREMENT RESULT forwarded
	// and wrapping modulo 256.
	MeasResNr byte
}

// NewLChan allocates an lchan in state NONE.
func NewLChan(ts *Timeslot, sub int) *LChan {
	return &LChan{
		TS:      ts,
		Sub:     sub,
		State:   StateNone,
		SACCHSI: make(map[rsl.SIType][]byte),
	}
}

// Reset returns the lchan to its post-release, pre-activation state:
// state NONE, no RTP endpoint, no LAPDm channel, no pending flags -
// a release followed by Reset must be idempotent regardless of how
// many times it runs.
func (lc *LChan) Reset() {
	lc.State = StateNone
	lc.RelActKind = RelActNone
	lc.RTP = nil
	lc.LAPDmChannel = nil
	lc.HO = Handover{}
	lc.Pwr.Fixed = false
	lc.DLQ.Flush()
	lc.MeasResNr = 0
}

// CanCarryRTP reports whether this lchan's channel type may carry an RTP
// endpoint: only TCH/F and TCH/H (dynamic pchans in a TCH mode count).
func (lc *LChan) CanCarryRTP() bool {
	switch lc.TS.Pchan {
	case PCHAN_TCH_F, PCHAN_TCH_H, PCHAN_TCH_F_PDCH, PCHAN_TCH_F_TCH_H_PDCH:
		return true
	default:
		return false
	}
}
