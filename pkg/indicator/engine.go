package indicator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"finance4go/config"
	"finance4go/internal/logger"
	"finance4go/internal/metrics"
	"finance4go/pkg/series"
)

// Indicator types understood by Engine.
const (
	TypeBBands = "BBANDS"
	TypeTR     = "TR"
	TypeATR    = "ATR"
	TypeRSI    = "RSI"
	TypeMACD   = "MACD"
)

var (
	ErrUnknownIndicator  = errors.New("unknown indicator")
	ErrInvalidWindow     = errors.New("window must be >= 1")
	ErrInvalidMultiplier = errors.New("std multiplier must be positive")
	ErrMissingInput      = errors.New("missing input series")
	ErrLengthMismatch    = errors.New("high, low and close differ in length")
)

// IndicatorConfig specifies a single indicator to compute.
// Zero-valued parameters take the engine's configured defaults.
type IndicatorConfig struct {
	Type   string  // "BBANDS", "TR", "ATR", "RSI", "MACD"
	Window int     // BBANDS, ATR, RSI
	NumStd float64 // BBANDS
	Fast   int     // MACD
	Slow   int     // MACD
}

// Input holds the price columns an indicator reads. Close-only indicators
// ignore High and Low.
type Input struct {
	High  series.Series
	Low   series.Series
	Close series.Series
}

// Engine runs indicators by name with configured defaults. Unlike the bare
// functions it validates requests and reports failures as errors; every
// computation is logged at debug level and recorded in metrics.
//
// Engine is safe for concurrent use.
type Engine struct {
	cfg     *config.Config
	log     *slog.Logger
	out     io.Writer
	reg     prometheus.Registerer
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. It takes precedence over WithLogOutput.
// Without either, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLogOutput logs JSON to w at the config's log level.
func WithLogOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithRegisterer registers the engine's metrics on reg.
// Without it metrics go to a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.reg = reg }
}

// NewEngine creates an engine. A nil cfg uses config.Default().
func NewEngine(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	switch {
	case e.log != nil:
	case e.out != nil:
		e.log = logger.New(e.out, "indicator", cfg.SlogLevel())
	default:
		e.log = logger.Discard()
	}
	e.metrics = metrics.NewMetrics(e.reg)
	return e
}

// Config returns the engine's defaults.
func (e *Engine) Config() *config.Config { return e.cfg }

// WithTraceID returns a context whose trace ID is attached to the engine's
// log lines.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return logger.WithTraceID(ctx, traceID)
}

// Compute runs one indicator over in.
func (e *Engine) Compute(ctx context.Context, ic IndicatorConfig, in Input) (*series.Frame, error) {
	kind := strings.ToUpper(strings.TrimSpace(ic.Type))
	ic = e.withDefaults(kind, ic)

	if err := validate(kind, ic, in); err != nil {
		e.metrics.ObserveError(reason(err))
		e.log.Warn("indicator rejected", logger.LogWithTrace(ctx,
			slog.String("indicator", ic.Type),
			slog.String("error", err.Error()),
		)...)
		return nil, err
	}

	start := time.Now()
	f := run(kind, ic, in)
	dur := time.Since(start)

	nans := 0
	for _, c := range f.Columns() {
		nans += c.Values.CountNaN()
	}
	e.metrics.ObserveCompute(kind, dur, nans)
	e.log.Debug("indicator computed", logger.LogWithTrace(ctx,
		slog.String("indicator", kind),
		slog.Int("rows", f.Len()),
		slog.Int("nan", nans),
		slog.Duration("dur", dur),
	)...)
	return f, nil
}

// ComputeAll runs every indicator in order and joins the results into one
// frame. Two indicators producing the same column name is an error, e.g. TR
// together with ATR. Without a trace ID in ctx the batch gets a fresh one.
func (e *Engine) ComputeAll(ctx context.Context, ics []IndicatorConfig, in Input) (*series.Frame, error) {
	if logger.TraceID(ctx) == "" {
		ctx = logger.WithTraceID(ctx, logger.GenerateTraceID("batch", time.Now()))
	}

	var out *series.Frame
	for i, ic := range ics {
		f, err := e.Compute(ctx, ic, in)
		if err != nil {
			return nil, fmt.Errorf("indicator %d (%s): %w", i, ic.Type, err)
		}
		if out == nil {
			out = f
			continue
		}
		if out, err = out.Join(f); err != nil {
			return nil, fmt.Errorf("indicator %d (%s): %w", i, ic.Type, err)
		}
	}

	if out == nil {
		out = series.NewFrame(len(in.Close))
	}
	return out, nil
}

func (e *Engine) withDefaults(kind string, ic IndicatorConfig) IndicatorConfig {
	ic.Type = kind
	switch kind {
	case TypeBBands:
		if ic.Window == 0 {
			ic.Window = e.cfg.BBands.Window
		}
		if ic.NumStd == 0 {
			ic.NumStd = e.cfg.BBands.NumStd
		}
	case TypeATR:
		if ic.Window == 0 {
			ic.Window = e.cfg.ATR.Window
		}
	case TypeRSI:
		if ic.Window == 0 {
			ic.Window = e.cfg.RSI.Window
		}
	case TypeMACD:
		if ic.Fast == 0 {
			ic.Fast = e.cfg.MACD.Fast
		}
		if ic.Slow == 0 {
			ic.Slow = e.cfg.MACD.Slow
		}
	}
	return ic
}

func validate(kind string, ic IndicatorConfig, in Input) error {
	switch kind {
	case TypeBBands:
		if ic.Window < 1 {
			return fmt.Errorf("%s window %d: %w", kind, ic.Window, ErrInvalidWindow)
		}
		if !(ic.NumStd > 0) {
			return fmt.Errorf("%s num_std %v: %w", kind, ic.NumStd, ErrInvalidMultiplier)
		}
		return requireClose(kind, in)
	case TypeTR:
		return requireHLC(kind, in)
	case TypeATR:
		if ic.Window < 1 {
			return fmt.Errorf("%s window %d: %w", kind, ic.Window, ErrInvalidWindow)
		}
		return requireHLC(kind, in)
	case TypeRSI:
		if ic.Window < 1 {
			return fmt.Errorf("%s window %d: %w", kind, ic.Window, ErrInvalidWindow)
		}
		return requireClose(kind, in)
	case TypeMACD:
		if ic.Fast < 1 || ic.Slow < 1 {
			return fmt.Errorf("%s periods %d/%d: %w", kind, ic.Fast, ic.Slow, ErrInvalidWindow)
		}
		return requireClose(kind, in)
	default:
		return fmt.Errorf("%q: %w", kind, ErrUnknownIndicator)
	}
}

func requireClose(kind string, in Input) error {
	if len(in.Close) == 0 {
		return fmt.Errorf("%s needs close: %w", kind, ErrMissingInput)
	}
	return nil
}

func requireHLC(kind string, in Input) error {
	if len(in.High) == 0 || len(in.Low) == 0 || len(in.Close) == 0 {
		return fmt.Errorf("%s needs high, low and close: %w", kind, ErrMissingInput)
	}
	if len(in.High) != len(in.Close) || len(in.Low) != len(in.Close) {
		return fmt.Errorf("%s got %d/%d/%d rows: %w", kind, len(in.High), len(in.Low), len(in.Close), ErrLengthMismatch)
	}
	return nil
}

// run dispatches a validated request.
func run(kind string, ic IndicatorConfig, in Input) *series.Frame {
	switch kind {
	case TypeBBands:
		return BBands(in.Close, ic.Window, ic.NumStd)
	case TypeTR:
		return TrueRange(in.High, in.Low, in.Close)
	case TypeATR:
		return AverageTrueRange(in.High, in.Low, in.Close, ic.Window)
	case TypeRSI:
		return series.MustFrameOf(RSI(in.Close, ic.Window))
	case TypeMACD:
		return MACD(in.Close, ic.Fast, ic.Slow)
	}
	panic("indicator: unvalidated type " + kind)
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownIndicator):
		return "unknown_indicator"
	case errors.Is(err, ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, ErrInvalidMultiplier):
		return "invalid_multiplier"
	case errors.Is(err, ErrMissingInput):
		return "missing_input"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	}
	return "other"
}
