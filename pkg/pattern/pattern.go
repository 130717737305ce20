// Package pattern compiles regular expressions with named capture groups and
// matches them against subject strings.
//
// A compiled Pattern is immutable and may be shared by any number of
// goroutines. Match is a pure function of the pattern and the subject: it
// returns the leftmost-first match, or nil when the subject does not match.
package pattern

import (
	"errors"
	"time"
)

// Pattern is a compiled regular expression together with its declared named groups.
type Pattern struct {
	src     string
	engine  Engine
	timeout time.Duration
	m       matcher

	names      []string
	groupNames []string
	index      map[string]int
}

// Compile parses src and prepares it for matching. All syntax problems,
// duplicate group names and constructs the engine does not support are
// reported here as *InvalidPatternError, never at match time.
func Compile(src string, opts ...Option) (*Pattern, error) {
	o := buildOptions(opts)

	invalid := func(reason string, err error) error {
		return &InvalidPatternError{Source: src, Engine: o.engine, Reason: reason, Err: err}
	}

	var (
		m     matcher
		names []string
		err   error
	)
	switch o.engine {
	case EngineRE2:
		var re *re2Matcher
		if re, err = compileRE2(src); err != nil {
			return nil, invalid("syntax error", err)
		}
		if names, err = declaredNames(re.groupNames()); err != nil {
			return nil, invalid("bad group names", err)
		}
		m = re
	case EngineBacktrack:
		groups := scanGroups(src)
		if names, err = declaredNames(groups); err != nil {
			return nil, invalid("bad group names", err)
		}
		if m, err = compileBacktrack(src, groups, o.timeout); err != nil {
			if errors.Is(err, errUnknownGroup) {
				return nil, invalid("bad group names", err)
			}
			return nil, invalid("syntax error", err)
		}
	default:
		return nil, invalid("unknown engine", nil)
	}

	groupNames := m.groupNames()
	index := make(map[string]int, len(names))
	for i, name := range groupNames {
		if name != "" {
			index[name] = i
		}
	}

	return &Pattern{
		src:        src,
		engine:     o.engine,
		timeout:    o.timeout,
		m:          m,
		names:      names,
		groupNames: groupNames,
		index:      index,
	}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(src string, opts ...Option) *Pattern {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Match finds the leftmost-first match of the pattern in subject.
// It returns nil, nil if there is no match anywhere in subject.
func (p *Pattern) Match(subject string) (*Result, error) {
	loc, err := p.m.find(subject)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	return newResult(subject, loc, p.groupNames, p.index), nil
}

// Names returns the named groups in declaration order.
func (p *Pattern) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// NumGroups returns the number of capture groups, named or not, excluding the whole match.
func (p *Pattern) NumGroups() int {
	return len(p.groupNames) - 1
}

// Engine returns the engine the pattern was compiled with.
func (p *Pattern) Engine() Engine {
	return p.engine
}

// Timeout returns the per-match timeout, zero if unbounded.
func (p *Pattern) Timeout() time.Duration {
	return p.timeout
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string {
	return p.src
}
