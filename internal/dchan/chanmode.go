package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Maps a parsed Channel Mode IE onto an lchan's RSLCMode/
 *		TCHMode fields.
 *
 *------------------------------------------------------------------*/

func applyChanMode(bts *btsmodel.BTS, lc *btsmodel.LChan, cm rsl.ChanModeValue) {
	bts.Dtxd = cm.Dtxd()
	switch cm.SpdInd {
	case rsl.SpdIndData:
		lc.RSLCMode = btsmodel.CModeData
		switch cm.Codec {
		case rsl.DataRate14k5:
			lc.TCHMode = btsmodel.TCHModeData14k5
		case rsl.DataRate12k0:
			lc.TCHMode = btsmodel.TCHModeData12k0
		default:
			lc.TCHMode = btsmodel.TCHModeData6k0
		}
	case rsl.SpdIndSpeech:
		lc.RSLCMode = btsmodel.CModeSpeech
		switch cm.Codec {
		case rsl.CodecEFR:
			lc.TCHMode = btsmodel.TCHModeSpeechEFR
		case rsl.CodecAMR:
			lc.TCHMode = btsmodel.TCHModeSpeechAMR
		default:
			lc.TCHMode = btsmodel.TCHModeSpeechV1
		}
	default:
		lc.RSLCMode = btsmodel.CModeSignalling
		lc.TCHMode = btsmodel.TCHModeSign
	}
}

// cipherSupported reports whether the BTS implements A5/algID, per its
// CipherAlgsSupported table.
func cipherSupported(bts *btsmodel.BTS, algID byte) bool {
	return bts.CipherAlgsSupported[algID]
}
