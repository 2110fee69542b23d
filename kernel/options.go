package kernel

import (
	"log"
	"os"
)

// Options configures an Elaborator. By default statement checks are lenient,
// expression steps go unchecked, the cursor makes its extra advance after
// every definition, the first failure halts the run and substitution is
// naive.
type Options struct {
	// StrictStatements makes an ill-typed theorem statement fatal. Otherwise
	// the failure is recorded as a diagnostic and only the proof comparison
	// decides.
	StrictStatements bool
	// CheckExprs synthesizes the type of bare expression steps.
	CheckExprs bool
	// NoSkip disables the extra advance that passes over the first step of
	// each freshly substituted remainder.
	NoSkip bool
	// KeepGoing records a failing step and continues with the unmodified
	// remainder instead of halting.
	KeepGoing bool
	// Fuel bounds each normalization in beta steps; zero or less is
	// unlimited.
	Fuel   int
	Subst  Substituter
	Logger *log.Logger
}

type Option func(*Options)

func WithStrictStatements() Option {
	return func(o *Options) { o.StrictStatements = true }
}

func WithExprChecking() Option {
	return func(o *Options) { o.CheckExprs = true }
}

func WithoutSkip() Option {
	return func(o *Options) { o.NoSkip = true }
}

func WithKeepGoing() Option {
	return func(o *Options) { o.KeepGoing = true }
}

func WithFuel(n int) Option {
	return func(o *Options) { o.Fuel = n }
}

// WithHygiene switches every substitution the pipeline performs to the
// capture-avoiding one, renaming with names.
func WithHygiene(names NameSupply) Option {
	return func(o *Options) { o.Subst = Hygienic{Names: names} }
}

// WithLogger traces each step to l. Setting COC_TRACE=1 in the environment
// traces to the standard logger when no logger is given.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func newOptions(opts []Option) Options {
	o := Options{Fuel: DefaultFuel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Subst == nil {
		o.Subst = Naive{}
	}
	if o.Logger == nil && os.Getenv("COC_TRACE") == "1" {
		o.Logger = log.Default()
	}
	return o
}
