// Package tracelog implements the optional RSL dispatch trace log: one
// CSV row per dispatched message, appended to a daily-rotated file that
// rotates at UTC midnight and keeps a single CSV header per file.
package tracelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/osmobts/rslbts/internal/rsl"
)

const header = "utime,isotime,trx,discr,msg_type,chan_nr,outcome\n"

// Logger appends one CSV row per dispatched RSL message to a
// daily-rotated file under dir. Not safe for concurrent use: the RSL
// dispatcher that calls it runs single-threaded, and so does this.
type Logger struct {
	dir      string
	pattern  *strftime.Strftime
	fp       *os.File
	openName string
}

// New builds a Logger writing into dir, creating it if necessary.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tracelog: create dir %s: %w", dir, err)
	}
	pattern, err := strftime.New("%Y-%m-%d.csv")
	if err != nil {
		return nil, fmt.Errorf("tracelog: compile filename pattern: %w", err)
	}
	return &Logger{dir: dir, pattern: pattern}, nil
}

// Record describes one dispatched RSL message for the trace log.
type Record struct {
	Time      time.Time
	TRXNr     int
	Discr     rsl.MsgDiscr
	MsgType   byte
	ChanNr    byte
	HasChanNr bool
	Outcome   string // e.g. "ok", "nack", "dropped", "error"
}

// Write appends one row, opening (or rotating to) the day's file first.
func (l *Logger) Write(rec Record) error {
	fname := l.pattern.FormatString(rec.Time.UTC())
	if l.fp != nil && fname != l.openName {
		l.fp.Close()
		l.fp = nil
	}
	if l.fp == nil {
		full := filepath.Join(l.dir, fname)
		_, statErr := os.Stat(full)
		alreadyThere := statErr == nil

		f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return fmt.Errorf("tracelog: open %s: %w", full, err)
		}
		l.fp = f
		l.openName = fname

		if !alreadyThere {
			if _, err := l.fp.WriteString(header); err != nil {
				return err
			}
		}
	}

	chanNr := ""
	if rec.HasChanNr {
		chanNr = fmt.Sprintf("0x%02x", rec.ChanNr)
	}

	w := csv.NewWriter(l.fp)
	row := []string{
		fmt.Sprintf("%d", rec.Time.Unix()),
		rec.Time.UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", rec.TRXNr),
		fmt.Sprintf("0x%02x", byte(rec.Discr)),
		fmt.Sprintf("0x%02x", rec.MsgType),
		chanNr,
		rec.Outcome,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Close closes the currently open day's file, if any.
func (l *Logger) Close() error {
	if l.fp == nil {
		return nil
	}
	err := l.fp.Close()
	l.fp = nil
	return err
}
