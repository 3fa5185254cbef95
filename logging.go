// logging.go - subsystem loggers

package main

import (
	"log"
	"os"
)

// Per-subsystem loggers, each tagged with a short prefix. Mirrors the
// reference engine's habit of prefixing fatal log lines with the owning
// chip's name rather than routing everything through one global logger.
var (
	pixLog  = log.New(os.Stderr, "pix: ", log.Ltime|log.Lmicroseconds)
	cgiaLog = log.New(os.Stderr, "cgia: ", log.Ltime|log.Lmicroseconds)
	sguLog  = log.New(os.Stderr, "sgu: ", log.Ltime|log.Lmicroseconds)
	busLog  = log.New(os.Stderr, "bus: ", log.Ltime|log.Lmicroseconds)
)
