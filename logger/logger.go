// Package logger provides leveled logging with a console backend and an
// optional file backend.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
)

const (
	logFileName = "steamlib.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	logger  *logging.Logger
	logFile *os.File
)

// InitLogger initializes the logging backends. Console logging uses the
// given level; file logging is enabled only when logFolder is non-empty and
// always records at DEBUG level.
func InitLogger(level logging.Level, logFolder string) {
	newLogger := logging.MustGetLogger("steamlib")
	backends := make([]logging.Backend, 0, 2)

	consoleBackend := logging.NewLogBackend(os.Stderr, "", 0)
	consoleFormatted := logging.NewBackendFormatter(consoleBackend, newFormatter(true))
	consoleLeveled := logging.AddModuleLevel(consoleFormatted)
	consoleLeveled.SetLevel(level, "steamlib")
	backends = append(backends, consoleLeveled)

	if fileBackend := initFileBackend(logFolder); fileBackend != nil {
		fileLeveled := logging.AddModuleLevel(fileBackend)
		fileLeveled.SetLevel(logging.DEBUG, "steamlib")
		backends = append(backends, fileLeveled)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

func initFileBackend(logFolder string) logging.Backend {
	if logFolder == "" {
		return nil
	}
	if err := os.MkdirAll(logFolder, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logFolder, err)
		return nil
	}

	logPath := filepath.Join(logFolder, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	backend := logging.NewLogBackend(file, "", 0)
	return logging.NewBackendFormatter(backend, newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger releases the log file, if one was opened.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	if logger != nil {
		logger.Debug(args...)
	}
}

func Debugf(format string, args ...any) {
	if logger != nil {
		logger.Debugf(format, args...)
	}
}

func Info(args ...any) {
	if logger != nil {
		logger.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

func Warning(args ...any) {
	if logger != nil {
		logger.Warning(args...)
	}
}

func Warningf(format string, args ...any) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

func Error(args ...any) {
	if logger != nil {
		logger.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}
