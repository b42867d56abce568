package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format int

const (
	// FormatAuto picks console output for terminals and JSON otherwise.
	FormatAuto Format = iota
	FormatJSON
	FormatConsole
)

// Options configures New.
type Options struct {
	// Debug enables V(1) messages.
	Debug  bool
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a zap-backed logr.Logger and a flush function that should be
// called before the process exits.
func New(opts Options) (logr.Logger, func()) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		// logr V(1) maps to zap level -1.
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if resolveFormat(opts.Format, out) == FormatConsole {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)
	zl := zap.New(core, zap.ErrorOutput(zapcore.Lock(zapcore.AddSync(os.Stderr))))

	return zapr.NewLogger(zl), func() { _ = zl.Sync() }
}

func resolveFormat(f Format, out io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := out.(*os.File); ok && isTerminal(file.Fd()) {
		return FormatConsole
	}
	return FormatJSON
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
