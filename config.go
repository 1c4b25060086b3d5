package bintree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// Config configures a forest.
type Config struct {
	// InitialCapacity is the number of nodes a forest may hold before its
	// arena has to grow. 0 lets the arena start empty.
	InitialCapacity int
	// Tracer receives diagnostic output of the forest. If nil, the tracer
	// registered for TraceKey is used.
	Tracer tracing.Trace
	// TraceKey selects a tracer from the global tracing configuration.
	// Defaults to DefaultTraceKey.
	TraceKey string
}

func (cfg Config) normalized() Config {
	if cfg.TraceKey == "" {
		cfg.TraceKey = DefaultTraceKey
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.InitialCapacity < 0 {
		return fmt.Errorf("%w: negative initial capacity %d", ErrInvalidConfig, cfg.InitialCapacity)
	}
	return nil
}
