package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/shuttle/internal/config"
)

// defaultDevLogDir is used when the config leaves logging.dev_file.dir empty.
const defaultDevLogDir = ".shuttle/log"

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures log sinks from CLI and config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	console := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{console},
		consoleSink:    console,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	path, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// File output stays logfmt so it can be grepped and parsed.
	logger.sinks = append(logger.sinks, charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	}))
	logger.closeFile = f.Close
	logger.devLog = path
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes the dev-file sink, if any.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	return sink != l.consoleSink || l.consoleEnabled
}

func (l *runtimeLogger) log(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if l.shouldLogToSink(sink) {
			sink.Log(level, msg, keyvals...)
		}
	}
}

// Debug logs a debug event to all enabled sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.log(charmLog.DebugLevel, msg, keyvals...)
}

// Info logs an informational event to all enabled sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.log(charmLog.InfoLevel, msg, keyvals...)
}

// Warn logs a warning to all enabled sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	l.log(charmLog.WarnLevel, msg, keyvals...)
}

// Error logs an error to all enabled sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.log(charmLog.ErrorLevel, msg, keyvals...)
}

// devLogFilePath resolves the per-day dev log file, anchoring relative dirs at the workspace root.
func devLogFilePath(dir, appName string, now time.Time) (string, error) {
	base := strings.TrimSpace(dir)
	if base == "" {
		base = defaultDevLogDir
	}
	if !filepath.IsAbs(base) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		base = filepath.Join(workspaceRootFrom(cwd), base)
	}
	name := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), now.Format("20060102"))
	return filepath.Join(filepath.Clean(base), name), nil
}

// workspaceRootFrom walks up from start to the nearest go.mod or .git directory.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	if start == "" {
		return "."
	}
	for dir := start; ; {
		if hasWorkspaceMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func hasWorkspaceMarker(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// sanitizeLogFileStem turns an app name into a safe file-name segment.
func sanitizeLogFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "shuttle"
	}
	return stem
}
