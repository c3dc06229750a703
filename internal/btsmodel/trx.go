package btsmodel

/*------------------------------------------------------------------
 *
 * Purpose:	One TRX (radio carrier) of a BTS: 8 timeslots.
 *
 *------------------------------------------------------------------*/

// TRX is one radio carrier. Timeslots holds exactly 8 entries, indexed
// by timeslot number.
type TRX struct {
	BTS       *BTS
	Nr        int
	Timeslots [8]*Timeslot
}

// NewTRX allocates a TRX and wires it into bts.TRXs.
func NewTRX(bts *BTS, nr int) *TRX {
	trx := &TRX{BTS: bts, Nr: nr}
	bts.TRXs = append(bts.TRXs, trx)
	return trx
}

// ConfigureTimeslot (re)creates timeslot index with the given pchan.
func (t *TRX) ConfigureTimeslot(index int, pchan Pchan) *Timeslot {
	ts := NewTimeslot(t, index, pchan)
	t.Timeslots[index] = ts
	return ts
}

// LookupLChan finds the lchan owning chanNr: the timeslot is chanNr's TN
// field, and within it the lchan matching chanNr's full byte (subslot
// cbits) is returned. Mirrors rsl.c's rsl_lchan_lookup / lchan_lookup.
func (t *TRX) LookupLChan(chanNr byte) *LChan {
	tn := int(chanNrTN(chanNr))
	if tn < 0 || tn >= len(t.Timeslots) {
		return nil
	}
	ts := t.Timeslots[tn]
	if ts == nil {
		return nil
	}
	return ts.LChanByChanNr(chanNr)
}

func chanNrTN(chanNr byte) byte {
	return chanNr & 0x07
}
