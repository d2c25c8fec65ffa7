package driver

import (
	"ddl/internal/config"
	"ddl/internal/diag"
	"ddl/internal/eval"
)

const (
	DefaultMaxFiles    = 1000
	DefaultMaxIncludes = 100
)

// Options are the engine limits of one unit.
type Options struct {
	ErrorCap    int    // 0 = diag.DefaultCap
	MemCap      int    // value slots, 0 = eval.DefaultMemCap
	MaxFiles    int    // distinct files an engine may open
	MaxIncludes int    // include directives per unit
	MaxFileLen  uint64 // 0 = unlimited
	Observer    PhaseObserver
}

// OptionsFrom takes the [engine] section of a configuration.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		ErrorCap:    cfg.Engine.ErrorCap,
		MemCap:      cfg.Engine.MemCap,
		MaxFiles:    cfg.Engine.MaxFiles,
		MaxIncludes: cfg.Engine.MaxIncludes,
		MaxFileLen:  cfg.Engine.MaxFileLen,
	}
}

func (o Options) withDefaults() Options {
	if o.ErrorCap <= 0 {
		o.ErrorCap = diag.DefaultCap
	}
	if o.MemCap <= 0 {
		o.MemCap = eval.DefaultMemCap
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxIncludes <= 0 {
		o.MaxIncludes = DefaultMaxIncludes
	}
	return o
}
