package pattern

// Group is one capture group of a match. Matched tells whether the group
// took part in the match; a group that matched the empty string has
// Matched set and an empty Value. Start and End are byte offsets into the
// subject, -1 when the group did not take part.
type Group struct {
	Index   int
	Name    string
	Matched bool
	Start   int
	End     int
	Value   string
}

// Result is the outcome of one successful Match. It is never modified after creation.
type Result struct {
	subject string
	groups  []Group
	index   map[string]int
}

func newResult(subject string, loc []int, groupNames []string, index map[string]int) *Result {
	groups := make([]Group, len(groupNames))
	for i, name := range groupNames {
		g := Group{Index: i, Name: name, Start: -1, End: -1}
		if 2*i+1 < len(loc) && loc[2*i] >= 0 {
			g.Matched = true
			g.Start, g.End = loc[2*i], loc[2*i+1]
			g.Value = subject[g.Start:g.End]
		}
		groups[i] = g
	}
	return &Result{subject: subject, groups: groups, index: index}
}

// Subject returns the string the match was run against.
func (r *Result) Subject() string {
	return r.subject
}

// Text returns the text of the whole match.
func (r *Result) Text() string {
	return r.groups[0].Value
}

// Span returns the byte offsets of the whole match.
func (r *Result) Span() (int, int) {
	return r.groups[0].Start, r.groups[0].End
}

// NumGroups returns the number of capture groups, excluding the whole match.
func (r *Result) NumGroups() int {
	return len(r.groups) - 1
}

// Group returns group i, where 0 is the whole match. ok is false when i is out of range.
func (r *Result) Group(i int) (g Group, ok bool) {
	if r == nil || i < 0 || i >= len(r.groups) {
		return Group{}, false
	}
	return r.groups[i], true
}

// Named returns the group declared under name. ok is false when the pattern
// has no such group; whether the group took part is reported by g.Matched.
func (r *Result) Named(name string) (g Group, ok bool) {
	if r == nil {
		return Group{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Group{}, false
	}
	return r.groups[i], true
}

// Groups returns a copy of all groups, the whole match first.
func (r *Result) Groups() []Group {
	groups := make([]Group, len(r.groups))
	copy(groups, r.groups)
	return groups
}
