package types

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/journald"
)

const logDir = "/var/log/diskwatch"

func journaldAvailable() bool {
	conn, err := net.Dial("unixgram", "/run/systemd/journal/socket")
	if err != nil {
		return false
	}
	defer conn.Close()
	return true
}

// Logger wraps zerolog for the whole pipeline. It writes to journald when the
// socket is reachable, otherwise to a file under /var/log/diskwatch guarded
// by a flock, plus the console unless quiet.
type Logger struct {
	zerolog.Logger
	fileLock *flock.Flock
	logFile  *os.File
}

// NewLogger builds a Logger named name at the given level. The level can be
// escalated to debug by setting $NAME_DEBUG in the environment.
func NewLogger(name, level string, quiet bool) Logger {
	var writers []io.Writer
	var fileLock *flock.Flock
	var logFile *os.File

	if journaldAvailable() {
		writers = append(writers, journald.NewJournalDWriter())
	} else {
		_ = os.MkdirAll(logDir, os.ModeDir|os.ModePerm)
		logPath := filepath.Join(logDir, fmt.Sprintf("%s.log", name))
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			logFile = f
			fileLock = flock.New(logPath + ".lock")
			writers = append(writers, &lockedWriter{
				w:    zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true},
				lock: fileLock,
			})
		}
	}

	if !quiet {
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = time.RFC3339
		}))
	}

	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	if os.Getenv(fmt.Sprintf("%s_DEBUG", strings.ToUpper(name))) != "" {
		l = zerolog.DebugLevel
	}

	return Logger{
		Logger:   zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(l),
		fileLock: fileLock,
		logFile:  logFile,
	}
}

// NewBufferLogger collects output in b, for tests.
func NewBufferLogger(b *bytes.Buffer) Logger {
	return Logger{Logger: zerolog.New(b).With().Timestamp().Logger()}
}

// NewNullLogger discards everything.
func NewNullLogger() Logger {
	return Logger{Logger: zerolog.New(io.Discard).With().Timestamp().Logger()}
}

func (l *Logger) SetLevel(level string) {
	parsed, _ := zerolog.ParseLevel(level)
	l.Logger = l.Logger.Level(parsed)
}

func (l Logger) IsDebug() bool {
	return l.Logger.GetLevel() == zerolog.DebugLevel
}

// lockedWriter takes the flock around every write so concurrent invocations
// sharing the log file do not interleave lines.
type lockedWriter struct {
	w    io.Writer
	lock *flock.Flock
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	if err := lw.lock.Lock(); err == nil {
		defer lw.lock.Unlock()
	}
	return lw.w.Write(p)
}

// Cleanup releases the log file and its lock, if any.
func (l *Logger) Cleanup() {
	if l.fileLock != nil {
		_ = l.fileLock.Unlock()
		l.fileLock = nil
	}
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
}
