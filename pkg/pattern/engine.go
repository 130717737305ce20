package pattern

import (
	"fmt"
	"strings"
	"time"
)

// Engine selects the regular expression engine a Pattern is compiled with.
type Engine string

const (
	// EngineRE2 uses the standard library's RE2 implementation: linear time, no backreferences or lookaround.
	EngineRE2 Engine = "re2"
	// EngineBacktrack uses a backtracking engine that supports lookaround and backreferences.
	EngineBacktrack Engine = "backtrack"
)

// Engines lists the supported engines, default first.
var Engines = []Engine{EngineRE2, EngineBacktrack}

// ParseEngine resolves an engine name as found in config files and flags.
// The empty string selects the default engine.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "re2", "regexp":
		return EngineRE2, nil
	case "backtrack", "regexp2", "pcre":
		return EngineBacktrack, nil
	}
	return "", fmt.Errorf("unknown regex engine '%s'", name)
}

// matcher is implemented by every engine backend.
type matcher interface {
	// find returns the submatch byte offsets of the leftmost-first match in the
	// layout of regexp.FindStringSubmatchIndex, or nil if there is no match.
	find(subject string) ([]int, error)
	// groupNames returns one entry per group (index 0 is the whole match),
	// the empty string for unnamed groups.
	groupNames() []string
}

// Option configures Compile.
type Option func(*options)

type options struct {
	engine  Engine
	timeout time.Duration
}

// WithEngine selects the engine. Defaults to EngineRE2.
func WithEngine(engine Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithTimeout bounds a single match on the backtracking engine.
// Zero means no limit. The RE2 engine runs in linear time and ignores it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func buildOptions(opts []Option) options {
	o := options{engine: EngineRE2}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == "" {
		o.engine = EngineRE2
	}
	return o
}
