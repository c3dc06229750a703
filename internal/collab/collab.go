// Package collab declares the interfaces of the external collaborators
// the RSL core depends on: PHY/L1, LAPDm, PCU, the RTP socket library
// and the paging state machine. Only contracts live here; their
// implementations live elsewhere and are out of scope for this module.
package collab

import "github.com/osmobts/rslbts/internal/btsmodel"

/*------------------------------------------------------------------
 *
 * Purpose:	Collaborator interfaces consumed by the RSL core.
 *
 * Description:	Asynchronous confirmations are modeled as plain
 *		callback registration rather than channels, matching a
 *		single-threaded cooperative event loop: PHY and PCU invoke
 *		the registered callback inline from whatever goroutine
 *		drives the loop, there is no concurrent access.
 *
 *------------------------------------------------------------------*/

// PHY is the lower-layer PHY/L1 driver ("bts_model"/l1sap).
type PHY interface {
	// Disconnect requests the PHY release whatever physical mode ts is
	// currently running, ahead of a Connect to a new mode. Completion
	// is reported via the ts-connected/disconnected callbacks
	// registered through SetCallbacks.
	Disconnect(ts *btsmodel.Timeslot) error

	// Connect requests the PHY bring ts up in pchan mode.
	Connect(ts *btsmodel.Timeslot, pchan btsmodel.Pchan) error

	// ActivateLChan requests activation of lc per its current State
	// and mode fields. Completion (or failure) arrives via the
	// act-confirm callback.
	ActivateLChan(lc *btsmodel.LChan) error

	// DeactivateLChan requests release of lc. Completion arrives via
	// the rel-confirm callback.
	DeactivateLChan(lc *btsmodel.LChan) error

	// AdjustMSPower requests a PHY-side MS power adjustment. When
	// lc.Pwr.Fixed is true (BSC override via MS POWER CONTROL) the PHY
	// must not run its own autonomous power-control loop for lc.
	AdjustMSPower(lc *btsmodel.LChan) error

	// ModifyLChan requests the PHY apply a changed channel mode
	// in-place (MODE MODIFY), without a release/re-activate cycle.
	ModifyLChan(lc *btsmodel.LChan) error

	SetCallbacks(cb PHYCallbacks)
}

// PHYCallbacks are the asynchronous confirmations the PHY delivers back
// into the core.
type PHYCallbacks struct {
	TSConnected    func(ts *btsmodel.Timeslot, err error)
	TSDisconnected func(ts *btsmodel.Timeslot, err error)
	ActConfirm     func(lc *btsmodel.LChan, err error)
	RelConfirm     func(lc *btsmodel.LChan, err error)
}

// LAPDm is the link-layer entity tunneling over RLL messages.
type LAPDm interface {
	// RecvMsg takes ownership of an RSL RLL message bound for lc's
	// channel (rslms_recvmsg).
	RecvMsg(lc *btsmodel.LChan, msg []byte) error

	// EstablishChannel brings up a LAPDm channel handle for lc,
	// returning the opaque handle stored as lc.LAPDmChannel.
	EstablishChannel(lc *btsmodel.LChan) (any, error)

	// ReleaseChannel tears down lc's LAPDm channel.
	ReleaseChannel(lc *btsmodel.LChan, handle any) error

	// SetUplinkCallback registers the handler for uplink L3/measurement
	// traffic (lapdm_rll_tx_cb).
	SetUplinkCallback(cb func(lc *btsmodel.LChan, l3 []byte))
}

// PCU is the Packet Control Unit IPC channel.
type PCU interface {
	Connected() bool
	TxInfoInd() error
	TxPagingRequest(idLV []byte, chanNeeded byte, hasChanNeeded bool) error

	// SetConnectedCallback registers a callback fired when the PCU
	// transitions from disconnected to connected, so deferred
	// info-indications for a three-way dynamic PDCH can be sent.
	SetConnectedCallback(cb func())

	// SetInfoCompleteCallback registers the callback fired once the PCU
	// has finished its own SAPI activation following a TxInfoInd,
	// completing a pending legacy PDCH ACT.
	SetInfoCompleteCallback(cb func(ts *btsmodel.Timeslot))
}

// RTPSocketFactory is the RTP socket library: create, bind, set
// parameters, connect, stats, free.
type RTPSocketFactory interface {
	// Create allocates a socket in poll mode and binds it to bindIP
	// (or, if bindIP is "0.0.0.0", lets the OS/connect() choose).
	// Returns the bound local ip:port and the socket handle.
	Create(bindIP string, jitterAdaptive bool) (localIP string, localPort uint16, sock btsmodel.RTPSocket, err error)

	// SetUplinkCallback installs sock's per-socket rx callback that
	// forwards uplink RTP frames to L1.
	SetUplinkCallback(sock btsmodel.RTPSocket, cb func(frame []byte))
}

// Paging is the paging state machine (paging_add_identity).
type Paging interface {
	AddIdentity(group byte, idLV []byte, chanNeeded byte, hasChanNeeded bool)
}
