package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Log levels
const (
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
	DEBUG = "DEBUG"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger struct
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
}

// getDefaultLogFilePath returns the default log file path
func getDefaultLogFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	logDir := filepath.Join(homeDir, ".dynlist")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	return filepath.Join(logDir, "dynlist.log")
}

// NewLogger creates the logger instance (singleton). Subsequent calls return
// the first instance regardless of arguments.
func NewLogger(logFilePath string, debugMode bool) *Logger {
	once.Do(func() {
		if logFilePath == "" {
			logFilePath = getDefaultLogFilePath()
		}

		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}

		instance = newLogger(file, os.Stdout, debugMode)
	})
	return instance
}

// newLogger logs every level to both file and console, except DEBUG which
// only reaches the console in debug mode.
func newLogger(file, console io.Writer, debugMode bool) *Logger {
	multiWriter := io.MultiWriter(file, console)

	debugWriter := file
	if debugMode {
		debugWriter = multiWriter
	}

	return &Logger{
		infoLogger:  log.New(multiWriter, "[INFO] ", log.Ldate|log.Ltime),
		warnLogger:  log.New(multiWriter, "[WARN] ", log.Ldate|log.Ltime),
		errorLogger: log.New(multiWriter, "[ERROR] ", log.Ldate|log.Ltime),
		debugLogger: log.New(debugWriter, "[DEBUG] ", log.Ldate|log.Ltime),
	}
}

// GetLogger retrieves the singleton logger instance
func GetLogger() *Logger {
	if instance == nil {
		log.Fatalf("Logger has not been initialized. Call NewLogger() first.")
	}
	return instance
}

// Logging methods
func (l *Logger) Info(message string) {
	l.infoLogger.Println(message)
}

func (l *Logger) Warn(message string) {
	l.warnLogger.Println(message)
}

func (l *Logger) Error(message string) {
	l.errorLogger.Println(message)
}

func (l *Logger) Debug(message string) {
	l.debugLogger.Println(message)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}
