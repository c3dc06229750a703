// Package cchan implements the Common-Channel Handler:
// BCCH/SACCH system-information storage, paging, SMSCB broadcast,
// immediate assignment and CCCH load reports.
package cchan

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/collab"
	"github.com/osmobts/rslbts/internal/rsl"
)

// Handler owns no state of its own; it reads and mutates the shared BTS
// model and calls out to the Paging/PCU collaborators.
type Handler struct {
	BTS    *btsmodel.BTS
	Paging collab.Paging
	PCU    collab.PCU
	Log    *log.Logger

	// ReactivateCCCH is set by the process-wiring layer to
	// internal/dchan's release/reactivation path, so BCCHInfo's SI3/
	// AGCH-count mismatch handling can drive it without an import
	// cycle between cchan and dchan.
	ReactivateCCCH func(lc *btsmodel.LChan)
}

// New builds a Handler. log may be nil, in which case a discard logger
// is used - callers that don't care about BTS-wide logging (e.g. unit
// tests) aren't forced to wire one up.
func New(bts *btsmodel.BTS, paging collab.Paging, pcu collab.PCU, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{BTS: bts, Paging: paging, PCU: pcu, Log: logger}
}

// Result is the outcome of handling one inbound message: at most one
// reply frame to send, and whether the dispatcher should treat this as
// an error (affecting only logging/metrics - the reply, if any, is
// still authoritative for what goes on the wire).
type Result struct {
	Reply *rsl.Frame
	Err   error
}

func errorReport(cause rsl.Cause) Result {
	f := rsl.TRXFrame(rsl.MT_ERROR_REPORT, rsl.TV1(rsl.IE_CAUSE, byte(cause)))
	return Result{Reply: &f, Err: rsl.NewCauseError(cause, "error report")}
}
