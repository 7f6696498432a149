package activity

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/engine"
)

// Logger records user visible actions on the address book.
type Logger interface {
	Log(message string)
}

// FileLogger appends "[HH:MM:SS] message" lines to a text file.
// Write failures are reported through slog and never reach the caller.
type FileLogger struct {
	Path  string
	Clock engine.Clock
}

// NewFileLogger returns a FileLogger stamping lines with the real clock.
func NewFileLogger(path string) *FileLogger {
	return &FileLogger{Path: path, Clock: engine.RealClock{}}
}

// Log appends message to the activity file.
func (l *FileLogger) Log(message string) {
	line := fmt.Sprintf(config.FormatActivityLine, l.Clock.Now().Format(config.DateFormatActivity), message)

	if err := l.append(line); err != nil {
		slog.Warn(config.ErrActivityLog,
			config.LogKeyComponent, config.CompActivity,
			config.LogKeyFile, l.Path,
			config.LogKeyError, err,
		)
	}
}

func (l *FileLogger) append(line string) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Nop discards every message.
type Nop struct{}

func (Nop) Log(string) {}
