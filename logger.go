package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes timestamped lines to a file. The terminal belongs to the
// visualization, so nothing is printed to stdout once the TUI runs.
type Logger struct {
	out   io.Writer
	file  *os.File
	debug bool
	mutex sync.Mutex
}

var globalLogger *Logger

// InitLogger opens (or creates) the log file in append mode.
func InitLogger(filepath string, debug bool) error {
	f, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	globalLogger = &Logger{out: f, file: f, debug: debug}
	globalLogger.Info("=== Thinking Visualizer Started ===")
	return nil
}

func CloseLogger() {
	if globalLogger == nil {
		return
	}
	globalLogger.Info("=== Thinking Visualizer Stopped ===")
	if globalLogger.file != nil {
		globalLogger.file.Close()
	}
	globalLogger = nil
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// Debug lines are dropped unless the logger was opened with debug on.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l != nil && l.debug {
		l.write("DEBUG", format, args...)
	}
}

func (l *Logger) Panic(panicValue interface{}, context string) {
	l.write("PANIC", "%s: %v", context, panicValue)
}

func (l *Logger) write(level, format string, args ...interface{}) {
	if l == nil {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	io.WriteString(l.out, fmt.Sprintf("[%s] %s: %s\n", timestamp, level, message))
	if l.file != nil {
		l.file.Sync()
	}
}

func LogInfo(format string, args ...interface{})  { globalLogger.Info(format, args...) }
func LogWarn(format string, args ...interface{})  { globalLogger.Warn(format, args...) }
func LogError(format string, args ...interface{}) { globalLogger.Error(format, args...) }
func LogDebug(format string, args ...interface{}) { globalLogger.Debug(format, args...) }

func LogPanic(panicValue interface{}, context string) {
	globalLogger.Panic(panicValue, context)
}
