package tracelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmobts/rslbts/internal/rsl"
)

func TestWriteCreatesDailyFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	defer l.Close()

	ts := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	err = l.Write(Record{
		Time: ts, TRXNr: 0, Discr: rsl.MDISC_DED_CHAN, MsgType: rsl.MT_CHAN_ACTIV,
		ChanNr: 0x09, HasChanNr: true, Outcome: "ok",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "2026-07-29.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), header)
	assert.Contains(t, string(data), "0x09")
	assert.Contains(t, string(data), "ok")
}

func TestWriteRotatesOnDateChange(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	defer l.Close()

	day1 := time.Date(2026, 7, 29, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 7, 30, 0, 1, 0, 0, time.UTC)

	require.NoError(t, l.Write(Record{Time: day1, Outcome: "ok"}))
	require.NoError(t, l.Write(Record{Time: day2, Outcome: "ok"}))

	_, err = os.Stat(filepath.Join(dir, "2026-07-29.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "2026-07-30.csv"))
	assert.NoError(t, err)
}

func TestWriteDoesNotDuplicateHeaderOnReopen(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)

	l1, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l1.Write(Record{Time: ts, Outcome: "ok"}))
	require.NoError(t, l1.Close())

	l2, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, l2.Write(Record{Time: ts, Outcome: "nack"}))
	require.NoError(t, l2.Close())

	data, err := os.ReadFile(filepath.Join(dir, "2026-07-29.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(string(data), header))
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
