package btsmodel

import (
	"math/bits"

	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	BTS-wide state: the system-information store, paging
 *		state and AGCH queue.
 *
 * Description:	Single-threaded global state, written only by the
 *		common-channel handler and read by the SACCH/BCCH transmit
 *		paths - no locking required.
 *
 *------------------------------------------------------------------*/

const maxSITypes = 32 // si_valid is a bitmap; 32 bits comfortably covers all SIType values

// PagingEntry is one queued paging request (PAGING COMMAND).
type PagingEntry struct {
	IdentityLV []byte // length-value encoded IMSI/TMSI
	ChanNeeded byte
	HasChanNeeded bool
}

// AGCHQueue is the BTS-wide Access Grant Channel queue fed by IMMEDIATE
// ASSIGN.
type AGCHQueue struct {
	Cap   int
	items [][]byte
}

// NewAGCHQueue allocates a queue with the given capacity.
func NewAGCHQueue(cap int) *AGCHQueue {
	return &AGCHQueue{Cap: cap}
}

// Push enqueues msg, reporting false (message should be released by the
// caller) if the queue is full.
func (q *AGCHQueue) Push(msg []byte) bool {
	if len(q.items) >= q.Cap {
		return false
	}
	q.items = append(q.items, msg)
	return true
}

// Pop dequeues the oldest message, or nil if empty.
func (q *AGCHQueue) Pop() []byte {
	if len(q.items) == 0 {
		return nil
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m
}

// Len reports the number of queued messages.
func (q *AGCHQueue) Len() int { return len(q.items) }

// BTS holds the state shared by all TRX of one base station.
type BTS struct {
	TRXs []*TRX

	siValid uint32
	siBuf   [maxSITypes][]byte

	Paging map[byte][]PagingEntry // keyed by paging group

	AGCH *AGCHQueue

	CipherAlgsSupported map[byte]bool

	// AGCHCount is the number of Access Grant Channels configured for
	// TRX 0, as carried in SI3's control-channel-description rest
	// octets. BCCH INFO compares it against the expected value of 1 to
	// decide whether to auto-reactivate the CCCH.
	AGCHCount int

	// Dtxd is the BTS-wide downlink DTX enable flag, last set by the
	// dtx_dtu octet of whichever CHANNEL ACTIVATION/MODE MODIFY Channel
	// Mode IE was processed most recently.
	Dtxd bool

	onNewSysinfo []func(rsl.SIType)

	// SMSCB and PCU notification hooks; cmd/rslbts sets neither, so
	// both may be nil. internal/cchan calls OnSMSCB only when non-nil;
	// nothing in this repository calls OnPageAdd.
	OnSMSCB    func(cmdType byte, msg []byte)
	OnPageAdd  func(group byte, idLV []byte, chanNeeded byte, hasChanNeeded bool)
}

// NewBTS allocates an empty BTS with the given AGCH queue depth.
func NewBTS(agchDepth int) *BTS {
	return &BTS{
		Paging:              make(map[byte][]PagingEntry),
		AGCH:                NewAGCHQueue(agchDepth),
		CipherAlgsSupported: map[byte]bool{0: true, 1: true}, // A5/0, A5/1 by default
		AGCHCount:           1,
	}
}

// SIValid reports whether si currently has a stored, valid buffer.
func (b *BTS) SIValid(si rsl.SIType) bool {
	return b.siValid&(1<<uint(si)) != 0
}

// SIBuf returns the stored buffer for si, or nil.
func (b *BTS) SIBuf(si rsl.SIType) []byte {
	return b.siBuf[si]
}

// SetSI stores payload into the si buffer, padded to SYSINFO_BUF with
// GSM padding, and sets the valid bit. A payload longer than
// SYSINFO_BUF is truncated, matching rsl.c's rsl_rx_bcch_info.
func (b *BTS) SetSI(si rsl.SIType, payload []byte) {
	buf := make([]byte, rsl.SYSINFO_BUF)
	for i := range buf {
		buf[i] = rsl.GSMPad
	}
	copy(buf, payload)
	b.siBuf[si] = buf
	b.siValid |= 1 << uint(si)
	b.notifyNewSysinfo(si)
}

// ClearSI clears the valid bit for si (payload IEs both absent).
func (b *BTS) ClearSI(si rsl.SIType) {
	b.siValid &^= 1 << uint(si)
	b.notifyNewSysinfo(si)
}

// OnNewSysinfo registers fn to be called whenever a SI buffer changes.
func (b *BTS) OnNewSysinfo(fn func(rsl.SIType)) {
	b.onNewSysinfo = append(b.onNewSysinfo, fn)
}

func (b *BTS) notifyNewSysinfo(si rsl.SIType) {
	for _, fn := range b.onNewSysinfo {
		fn(si)
	}
}

// SIValidCount reports how many SI types currently have a valid buffer,
// mostly useful for tests/diagnostics.
func (b *BTS) SIValidCount() int {
	return bits.OnesCount32(b.siValid)
}
