// Package logger provides preconfigured charmbracelet/log loggers with
// per-component prefixes.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	loggers []*log.Logger
)

// New creates a logger with the given prefix. Loggers are registered so
// a later SetLevel call reaches them; package-level loggers are built
// during init, before configuration is read.
func New(prefix string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
	mu.Lock()
	loggers = append(loggers, l)
	mu.Unlock()
	return l
}

// SetLevel parses a level name and applies it to every registered
// logger. Unknown names fall back to info.
func SetLevel(name string) {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		lvl = log.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		l.SetLevel(lvl)
	}
}
