package main

import (
	"io"
	"log"
)

// cliLogger writes leveled messages to the command's error stream. Debug
// messages are dropped unless verbose is set.
type cliLogger struct {
	verbose bool
	l       *log.Logger
}

func newCLILogger(w io.Writer, verbose bool) *cliLogger {
	return &cliLogger{verbose: verbose, l: log.New(w, "", log.LstdFlags)}
}

func (c *cliLogger) Debugf(format string, args ...any) {
	if c.verbose {
		c.l.Printf("DEBUG "+format, args...)
	}
}

func (c *cliLogger) Infof(format string, args ...any) {
	c.l.Printf("INFO "+format, args...)
}

func (c *cliLogger) Warnf(format string, args ...any) {
	c.l.Printf("WARN "+format, args...)
}

func (c *cliLogger) Errorf(format string, args ...any) {
	c.l.Printf("ERROR "+format, args...)
}
