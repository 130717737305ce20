// Package capture turns a match into an ordered name -> substring mapping.
package capture

import (
	"fmt"

	"github.com/iwilltry42/addrmatch/pkg/pattern"
)

// Source is anything that can look up a capture group by name.
// *pattern.Result implements it.
type Source interface {
	Named(name string) (pattern.Group, bool)
}

// UnknownGroupError is returned when a requested name is not a group of the
// match. It means the name list and the pattern are out of sync.
type UnknownGroupError struct {
	Name string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("capture: unknown group '%s'", e.Name)
}

// Extract builds a Map from src, visiting names in order. Groups that did
// not take part in the match are left out; groups that matched the empty
// string are kept.
func Extract(src Source, names []string) (*Map, error) {
	m := newMap(len(names))
	for _, name := range names {
		g, ok := src.Named(name)
		if !ok {
			return nil, &UnknownGroupError{Name: name}
		}
		if !g.Matched {
			continue
		}
		m.set(name, g.Value)
	}
	return m, nil
}

// ExtractResult extracts every named group of p from res.
// A nil res (no match) yields a nil Map and no error.
func ExtractResult(res *pattern.Result, p *pattern.Pattern) (*Map, error) {
	if res == nil {
		return nil, nil
	}
	return Extract(res, p.Names())
}
