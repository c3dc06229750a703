package dchan

import (
	"github.com/osmobts/rslbts/internal/btsmodel"
	"github.com/osmobts/rslbts/internal/rsl"
)

/*------------------------------------------------------------------
 *
 * Purpose:	CHANNEL ACTIVATION's per-channel SACCH info (IE_SACCH_INFO)
 *		and MultiRate Configuration IE handling.
 *
 *------------------------------------------------------------------*/

// applySACCHInfo parses the optional IE_SACCH_INFO value, a run of
// {si_type, len, value} triplets, storing each valid one on lc. If the
// IE is absent, the BTS-wide SACCH SI store is copied onto lc instead.
func applySACCHInfo(bts *btsmodel.BTS, lc *btsmodel.LChan, tp rsl.TLVMap) {
	if !tp.Present(rsl.IE_SACCH_INFO) {
		copyBTSWideSACCHSI(bts, lc)
		return
	}
	applySACCHInfoRaw(lc, tp.Val(rsl.IE_SACCH_INFO))
}

func copyBTSWideSACCHSI(bts *btsmodel.BTS, lc *btsmodel.LChan) {
	for _, si := range rsl.SACCHSITypes {
		if bts.SIValid(si) {
			lc.SACCHSI[si] = append([]byte(nil), bts.SIBuf(si)...)
		}
	}
}

func applySACCHInfoRaw(lc *btsmodel.LChan, raw []byte) {
	if len(raw) == 0 {
		return
	}
	numMsgs := int(raw[0])
	i := 1
	for n := 0; n < numMsgs && i+2 <= len(raw); n++ {
		siType := rsl.SIType(raw[i])
		length := int(raw[i+1])
		i += 2
		if i+length > len(raw) {
			return
		}
		value := raw[i : i+length]
		i += length

		if !rsl.IsSACCHOnly(siType) {
			continue
		}
		if length+len(rsl.LAPDmUIHeader) > rsl.SYSINFO_BUF {
			continue
		}
		buf := make([]byte, 0, len(rsl.LAPDmUIHeader)+length)
		buf = append(buf, rsl.LAPDmUIHeader[:]...)
		buf = append(buf, value...)
		lc.SACCHSI[siType] = buf
	}
}

// applyMultiRate parses the MultiRate Configuration IE value.
func applyMultiRate(lc *btsmodel.LChan, raw []byte) {
	mr := btsmodel.MultiRateConfig{Present: true, Raw: append([]byte(nil), raw...)}
	if len(raw) > 0 {
		mr.Icmi = raw[0]&0x04 != 0
		mr.StartMode = int(raw[0] & 0x03)
	}
	lc.MultiRate = mr
}
