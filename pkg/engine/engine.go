// Package engine is the entry point used by the CLI, the REST API and the MCP server.
// It runs numeric evaluation, calculus and symbolic evaluation, tags every call with an
// ID, logs it and records its latency and outcome.
package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yqhp/calc-engine/internal/calculus"
	"yqhp/calc-engine/internal/config"
	"yqhp/calc-engine/internal/expression"
	"yqhp/calc-engine/internal/polynomial"
	"yqhp/calc-engine/internal/symbolic"
	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/metrics"
)

// Operation names, also used as metric prefixes.
const (
	OpEvaluate         = "evaluate"
	OpDifferentiate    = "differentiate"
	OpIntegrate        = "integrate"
	OpDefiniteIntegral = "definite_integral"
	OpSymbolic         = "symbolic"
	OpCalculate        = "calculate"
)

// Mode tells how a result was produced.
type Mode string

const (
	ModeNumeric  Mode = "numeric"
	ModeSymbolic Mode = "symbolic"
	ModeCalculus Mode = "calculus"
)

// Settings are the defaults applied when a caller does not choose its own.
type Settings struct {
	PreferFraction bool
	AngleUnit      expression.AngleUnit
	MaxDenominator int64
}

// DefaultSettings mirrors config.DefaultConfig().Engine.
func DefaultSettings() Settings {
	return Settings{
		PreferFraction: false,
		AngleUnit:      expression.Degrees,
		MaxDenominator: 1_000_000,
	}
}

// SettingsFromConfig converts the engine section of the configuration.
func SettingsFromConfig(cfg config.EngineConfig) (Settings, error) {
	unit, err := expression.ParseAngleUnit(cfg.AngleUnit)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		PreferFraction: cfg.PreferFraction,
		AngleUnit:      unit,
		MaxDenominator: cfg.MaxDenominator,
	}, nil
}

// Result is the outcome of one engine call. Output is always the display text, including
// for calculus failures, which are reported as text.
type Result struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	Mode      Mode              `json:"mode"`
	Input     string            `json:"input"`
	Output    string            `json:"output"`
	Value     *expression.Value `json:"-"`
	Elapsed   time.Duration     `json:"elapsed"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics sets the registry that receives per-operation metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	settings  Settings
	evaluator *expression.DefaultEvaluator
	log       *zap.Logger
	metrics   *metrics.Registry
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		settings: DefaultSettings(),
		log:      zap.NewNop(),
		metrics:  metrics.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.evaluator = expression.NewEvaluator(expression.WithMaxDenominator(e.settings.MaxDenominator))
	return e
}

// Settings returns the engine defaults.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Metrics returns the metrics registry.
func (e *Engine) Metrics() *metrics.Registry {
	return e.metrics
}

// Evaluate evaluates expr numerically with the given mode and angle unit.
func (e *Engine) Evaluate(expr string, preferFraction bool, unit expression.AngleUnit) (Result, error) {
	start := time.Now()
	res := e.newResult(OpEvaluate, ModeNumeric, expr)

	v, err := e.evaluator.Evaluate(expr, preferFraction, unit)
	if err == nil {
		res.Value = &v
		res.Output = expression.Format(v)
	}
	return e.finish(res, start, err)
}

// EvaluateDefault evaluates expr with the engine settings.
func (e *Engine) EvaluateDefault(expr string) (Result, error) {
	return e.Evaluate(expr, e.settings.PreferFraction, e.settings.AngleUnit)
}

// Differentiate differentiates a polynomial. The output holds the derivative or the error
// text; the returned error carries the typed failure.
func (e *Engine) Differentiate(expr string) (Result, error) {
	start := time.Now()
	res := e.newResult(OpDifferentiate, ModeCalculus, expr)
	res.Output = calculus.Differentiate(expr)

	var err error
	if isErrorText(res.Output) {
		err = displayError(res.Output, func() error {
			_, err := polynomial.Parse(expr)
			return err
		})
	}
	return e.finish(res, start, err)
}

// Integrate returns the indefinite integral of a polynomial, with the same error contract
// as Differentiate.
func (e *Engine) Integrate(expr string) (Result, error) {
	start := time.Now()
	res := e.newResult(OpIntegrate, ModeCalculus, expr)
	res.Output = calculus.Integrate(expr)

	var err error
	if isErrorText(res.Output) {
		err = displayError(res.Output, func() error {
			p, err := polynomial.Parse(expr)
			if err != nil {
				return err
			}
			_, err = calculus.Antiderivative(p)
			return err
		})
	}
	return e.finish(res, start, err)
}

// DefiniteIntegral integrates a polynomial from a to b.
func (e *Engine) DefiniteIntegral(expr string, a, b float64) (Result, error) {
	start := time.Now()
	res := e.newResult(OpDefiniteIntegral, ModeCalculus, expr)

	area, err := calculus.DefiniteIntegral(expr, a, b)
	if err == nil {
		v := expression.FloatValue(area)
		res.Value = &v
		res.Output = expression.FormatFloat(area)
	}
	return e.finish(res, start, err)
}

// Symbolic solves an equation or expands a product.
func (e *Engine) Symbolic(expr string) (Result, error) {
	start := time.Now()
	res := e.newResult(OpSymbolic, ModeSymbolic, expr)

	out, err := symbolic.Evaluate(expr)
	res.Output = out
	return e.finish(res, start, err)
}

// Calculate tries symbolic evaluation first and falls back to numeric evaluation with the
// engine settings. When both fail the symbolic error is returned.
func (e *Engine) Calculate(expr string) (Result, error) {
	start := time.Now()
	res := e.newResult(OpCalculate, ModeSymbolic, expr)

	out, symErr := symbolic.Evaluate(expr)
	if symErr == nil {
		res.Output = out
		return e.finish(res, start, nil)
	}

	v, numErr := e.evaluator.Evaluate(expr, e.settings.PreferFraction, e.settings.AngleUnit)
	if numErr != nil {
		e.log.Debug("numeric fallback failed",
			zap.String("expression", expr),
			zap.NamedError("symbolic_error", symErr),
			zap.NamedError("numeric_error", numErr))
		return e.finish(res, start, symErr)
	}
	res.Mode = ModeNumeric
	res.Value = &v
	res.Output = expression.Format(v)
	return e.finish(res, start, nil)
}

func (e *Engine) newResult(op string, mode Mode, expr string) Result {
	return Result{
		ID:        uuid.NewString(),
		Operation: op,
		Mode:      mode,
		Input:     expr,
	}
}

func (e *Engine) finish(res Result, start time.Time, err error) (Result, error) {
	res.Elapsed = time.Since(start)

	kind := ""
	if err != nil {
		kind = calcerr.KindOf(err).String()
	}
	e.metrics.Record(res.Operation, res.Elapsed, kind)

	fields := []zap.Field{
		zap.String("id", res.ID),
		zap.String("op", res.Operation),
		zap.String("expression", res.Input),
		zap.Duration("latency", res.Elapsed),
	}
	if err != nil {
		e.log.Debug("operation failed", append(fields, zap.String("kind", kind), zap.Error(err))...)
		return res, err
	}
	e.log.Debug("operation completed", append(fields, zap.String("output", res.Output))...)
	return res, nil
}

func isErrorText(out string) bool {
	return strings.HasPrefix(out, "Error")
}

// displayError recovers the typed error behind a calculus error text.
func displayError(out string, typed func() error) error {
	if err := typed(); err != nil {
		return err
	}
	return calcerr.NewMalformedExpression("%s", out)
}
