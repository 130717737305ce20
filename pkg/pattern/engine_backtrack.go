package pattern

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// backtrackMatcher runs patterns on regexp2 in RE2-compat mode, so that
// (?P<name>re) is accepted next to the .NET style (?<name>re) and (?'name're).
type backtrackMatcher struct {
	re      *regexp2.Regexp
	timeout time.Duration
	numbers []int
	names   []string
}

// errUnknownGroup means a group found in the source is not known to regexp2.
var errUnknownGroup = errors.New("named group not known to the engine")

// compileBacktrack compiles src. groups lists the capturing groups of src in
// order of their opening parenthesis, "" for unnamed ones, as returned by scanGroups.
func compileBacktrack(src string, groups []string, timeout time.Duration) (*backtrackMatcher, error) {
	re, err := regexp2.Compile(src, regexp2.RE2)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	declared := make(map[string]bool, len(groups))
	for _, name := range groups {
		if name == "" {
			continue
		}
		if re.GroupNumberFromName(name) < 0 {
			return nil, fmt.Errorf("%w: '%s'", errUnknownGroup, name)
		}
		declared[name] = true
	}

	numbers := sourceOrder(re, groups)
	names := make([]string, len(numbers))
	for i, num := range numbers {
		if name := re.GroupNameFromNumber(num); declared[name] {
			names[i] = name
		}
	}

	return &backtrackMatcher{
		re:      re,
		timeout: timeout,
		numbers: numbers,
		names:   names,
	}, nil
}

// sourceOrder returns the group numbers of re in the order the groups are
// opened in the source. regexp2 numbers unnamed groups before named ones;
// if groups does not account for exactly the engine's groups, the engine's
// own order is returned.
func sourceOrder(re *regexp2.Regexp, groups []string) []int {
	engine := re.GetGroupNumbers()
	if len(engine) != len(groups)+1 {
		return engine
	}

	known := make(map[int]bool, len(engine))
	for _, num := range engine {
		known[num] = true
	}

	numbers := make([]int, 0, len(engine))
	numbers = append(numbers, 0)
	unnamed := 0
	for _, name := range groups {
		num := re.GroupNumberFromName(name)
		if name == "" {
			unnamed++
			num = unnamed
		}
		if !known[num] {
			return engine
		}
		delete(known, num)
		numbers = append(numbers, num)
	}
	return numbers
}

func (m *backtrackMatcher) find(subject string) ([]int, error) {
	match, err := m.re.FindStringMatch(subject)
	if err != nil {
		return nil, fmt.Errorf("%w after %s: %v", ErrMatchTimeout, m.timeout, err)
	}
	if match == nil {
		return nil, nil
	}

	// regexp2 reports rune offsets; callers get byte offsets into subject
	offsets := runeOffsets(subject)
	loc := make([]int, 2*len(m.numbers))
	for i, num := range m.numbers {
		g := match.GroupByNumber(num)
		if g == nil || len(g.Captures) == 0 {
			loc[2*i], loc[2*i+1] = -1, -1
			continue
		}
		loc[2*i] = offsets[g.Index]
		loc[2*i+1] = offsets[g.Index+g.Length]
	}
	return loc, nil
}

func (m *backtrackMatcher) groupNames() []string {
	return m.names
}

// runeOffsets maps rune positions to byte positions, with one extra entry
// for the end of the string. Invalid bytes count as one rune each, as they
// do when the string is converted to []rune.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
