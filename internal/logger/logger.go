package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"posecam/internal/config"
	"sync"
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	logDir     string
	files      []*os.File
	mu         sync.Mutex
}

// NewLogger creates a Logger writing to LogDirectory and the console.
func NewLogger(config *config.Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{logDir: config.LogDirectory}

	handles := make([]io.Writer, 0, 3)
	for _, name := range []string{"info.log", "warning.log", "error.log"} {
		file, err := os.OpenFile(filepath.Join(logger.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		logger.files = append(logger.files, file)
		handles = append(handles, file)
	}

	logger.setupLoggers(
		io.MultiWriter(os.Stdout, handles[0]),
		io.MultiWriter(os.Stdout, handles[1]),
		io.MultiWriter(os.Stderr, handles[2]),
	)
	return logger, nil
}

// NewWithWriters creates a Logger that writes each level to the given writer
// only. It does not touch the filesystem.
func NewWithWriters(info, warning, errs io.Writer) *Logger {
	logger := &Logger{}
	logger.setupLoggers(info, warning, errs)
	return logger
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard, io.Discard)
}

func (l *Logger) setupLoggers(info, warning, errs io.Writer) {
	l.infoLog = log.New(info, "ℹ️  INFO    ", logFlags)
	l.warningLog = log.New(warning, "⚠️  WARNING ", logFlags)
	l.errorLog = log.New(errs, "❌ ERROR   ", logFlags)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// Directory returns the directory holding the log files, empty for
// writer-backed loggers.
func (l *Logger) Directory() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return fmt.Errorf("logger has no log directory")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(filepath.Join(l.logDir, fileName), os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to truncate %s: %w", fileName, err)
	}
	return file.Close()
}

// Close closes the underlying log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, file := range l.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
