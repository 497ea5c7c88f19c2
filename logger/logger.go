// Package logger writes the per-run application log. Services either take
// the plain func(string) returned by Func or a named *zap.Logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger handles application logging
type Logger struct {
	file  *os.File
	zl    *zap.Logger
	level zap.AtomicLevel
	mu    sync.Mutex
}

// NewLogger creates a new Logger instance. It discards everything until Init.
func NewLogger() *Logger {
	return &Logger{
		zl:    zap.NewNop(),
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
}

// Init opens deckstudio_<date>_<n>.log in logDir, n counting the runs of the day.
func (l *Logger) Init(logDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closeLocked()

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	dateStr := time.Now().Format("2006-01-02")
	pattern := filepath.Join(logDir, fmt.Sprintf("deckstudio_%s_*.log", dateStr))
	matches, _ := filepath.Glob(pattern)
	runCount := len(matches) + 1
	filename := filepath.Join(logDir, fmt.Sprintf("deckstudio_%s_%d.log", dateStr, runCount))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), l.level)

	l.file = f
	l.zl = zap.New(core)
	l.zl.Info("App Started", zap.String("file", filepath.Base(filename)))
	return nil
}

// SetDetailed switches debug-level output on or off.
func (l *Logger) SetDetailed(on bool) {
	if on {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

// Log writes a message to the log file
func (l *Logger) Log(message string) {
	l.Zap().Info(message)
}

// Logf writes a formatted message to the log file
func (l *Logger) Logf(format string, args ...interface{}) {
	l.Zap().Info(fmt.Sprintf(format, args...))
}

// Func adapts the logger to the func(string) callback services accept.
func (l *Logger) Func() func(string) {
	return l.Log
}

// Zap returns the underlying structured logger.
func (l *Logger) Zap() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

// Named returns a child logger tagged with component.
func (l *Logger) Named(component string) *zap.Logger {
	return l.Zap().Named(component)
}

// Close closes the log file
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
}

func (l *Logger) closeLocked() {
	if l.file == nil {
		return
	}
	l.zl.Info("Logging disabled or App stopped.")
	_ = l.zl.Sync()
	l.file.Close()
	l.file = nil
	l.zl = zap.NewNop()
}
