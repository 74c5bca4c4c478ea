package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Logger provides leveled logging (info/warning/error) to stdout/stderr
// and, when a log directory is configured, to per-level files.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	logDir     string
	files      []*os.File
	mu         sync.Mutex
}

// NewLogger creates a Logger. An empty logDir logs to the console only.
func NewLogger(logDir string) (*Logger, error) {
	l := &Logger{logDir: logDir}
	if err := l.setupLoggers(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewWithWriters creates a Logger writing info to out and warnings/errors to errOut.
func NewWithWriters(out, errOut io.Writer) *Logger {
	l := &Logger{}
	l.infoLog = log.New(out, "INFO    ", log.Ldate|log.Ltime)
	l.warningLog = log.New(errOut, "WARNING ", log.Ldate|log.Ltime)
	l.errorLog = log.New(errOut, "ERROR   ", log.Ldate|log.Ltime)
	return l
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard)
}

// setupLoggers initializes writers and per-level loggers.
func (l *Logger) setupLoggers() error {
	var infoWriter, warningWriter, errorWriter io.Writer = os.Stdout, os.Stderr, os.Stderr

	if l.logDir != "" {
		if err := os.MkdirAll(l.logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		infoFile, err := l.openLogFile(filepath.Join(l.logDir, "info.log"))
		if err != nil {
			return err
		}
		warningFile, err := l.openLogFile(filepath.Join(l.logDir, "warning.log"))
		if err != nil {
			return err
		}
		errorFile, err := l.openLogFile(filepath.Join(l.logDir, "error.log"))
		if err != nil {
			return err
		}

		infoWriter = io.MultiWriter(os.Stdout, infoFile)
		warningWriter = io.MultiWriter(os.Stderr, warningFile)
		errorWriter = io.MultiWriter(os.Stderr, errorFile)
	}

	l.infoLog = log.New(infoWriter, "ℹ️  INFO    ", log.Ldate|log.Ltime)
	l.warningLog = log.New(warningWriter, "⚠️  WARNING ", log.Ldate|log.Ltime)
	l.errorLog = log.New(errorWriter, "❌ ERROR   ", log.Ldate|log.Ltime)
	return nil
}

// openLogFile opens or creates a log file for appending.
func (l *Logger) openLogFile(filename string) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filename, err)
	}
	l.files = append(l.files, file)
	return file, nil
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Printf(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Printf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}

// Close closes any log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
