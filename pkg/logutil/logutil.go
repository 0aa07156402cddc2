// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	out     = &switchWriter{w: io.Discard}
	outFile *os.File
	outMu   sync.Mutex
)

// GetLogger gets a logger with a prefix. Loggers obtained this way all share
// the output set by SetOutput or SetOutputFile, which discards everything by
// default.
func GetLogger(prefix string) *log.Logger {
	return log.New(out, prefix, log.LstdFlags)
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// w. A nil w discards the output.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	setOutput(w)
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file, which is truncated. If fname is empty, the output is
// discarded.
func SetOutputFile(fname string) error {
	outMu.Lock()
	defer outMu.Unlock()
	if fname == "" {
		setOutput(nil)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	setOutput(file)
	outFile = file
	return nil
}

// Must be called with outMu held.
func setOutput(w io.Writer) {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	if w == nil {
		w = io.Discard
	}
	out.set(w)
}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *switchWriter) set(w io.Writer) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.w = w
}

func (sw *switchWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}
