package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level                string // debug|info|warn|error
	FilePath             string // path template, e.g. "logs/{start}.log" or "" (no file)
	ConsoleOnly          bool   // if true, do not write to the file
	HideSecretsInConsole bool   // if true, secrets are masked in the console

	// Console receives console output; os.Stderr when nil so stdout stays
	// free for command results.
	Console zapcore.WriteSyncer
}

var StartTime = time.Now()

// Nop until Init is called, so packages can log unconditionally.
var (
	global  = zap.NewNop()
	sugar   = global.Sugar()
	fileOut *os.File
)

// Init initializes the global logger.
// cfg.FilePath may contain {start} and {pid}; if empty, or cfg.ConsoleOnly=true, no file is written.
// cfg.HideSecretsInConsole controls masking in the console.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "lvl",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleEncCfg := encCfg
	consoleEncCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncCfg)

	fileEncCfg := encCfg
	fileEncCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	fileEncoder := zapcore.NewConsoleEncoder(fileEncCfg)

	var cores []zapcore.Core

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(console), level)
	if cfg.HideSecretsInConsole {
		consoleCore = NewMaskingCore(consoleCore)
	}
	cores = append(cores, consoleCore)

	// a previous Init may still hold a run log open
	closeFile()

	if cfg.FilePath != "" && !cfg.ConsoleOnly {
		resolved := resolvePath(cfg.FilePath)
		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(resolved, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		fileOut = f
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.PanicLevel),
	)
	zap.ReplaceGlobals(logger)

	global = logger
	sugar = logger.Sugar()
	return nil
}

// Close syncs and closes the file (if open).
func Close() {
	_ = global.Sync()
	closeFile()
}

func closeFile() {
	if fileOut != nil {
		_ = fileOut.Sync()
		_ = fileOut.Close()
		fileOut = nil
	}
}

func L() *zap.Logger        { return global }
func S() *zap.SugaredLogger { return sugar }

func With(name string) *zap.SugaredLogger     { return sugar.Named(name) }
func WithFields(kv ...any) *zap.SugaredLogger { return sugar.With(kv...) }

func resolvePath(tmpl string) string {
	repl := map[string]string{
		"{start}": StartTime.Format("2006-01-02_15-04-05"),
		"{pid}":   fmt.Sprintf("%d", os.Getpid()),
	}
	path := tmpl
	for k, v := range repl {
		path = strings.ReplaceAll(path, k, v)
	}
	return path
}

func parseLevel(lvl string) zapcore.LevelEnabler {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error", "err":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
