package pattern

import (
	"fmt"
	"strings"
)

// declaredNames returns the named groups of an RE2 group-name table in
// declaration order and rejects names used more than once.
func declaredNames(groupNames []string) ([]string, error) {
	var names []string
	seen := make(map[string]bool, len(groupNames))
	for _, name := range groupNames {
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate group name '%s'", name)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// scanNamedGroups lists the named groups opened in src, in order of their
// opening parenthesis.
func scanNamedGroups(src string) []string {
	var names []string
	for _, name := range scanGroups(src) {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// scanGroups lists every capturing group opened in src in order of its
// opening parenthesis, with "" for unnamed groups. It understands escapes,
// character classes, \Q...\E literals, (?#...) comments, lookaround
// openers and # comments in free-spacing (?x) mode, including the scope of
// inline flags.
func scanGroups(src string) []string {
	groups := []string{}
	extended := false
	var scopes []bool
	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\\':
			if i+1 < len(src) && src[i+1] == 'Q' {
				end := strings.Index(src[i+2:], `\E`)
				if end < 0 {
					return groups
				}
				i += end + 3
				continue
			}
			i++
		case c == '[':
			i = skipClass(src, i)
		case c == '#' && extended:
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return groups
			}
			i += end
		case c == ')':
			if n := len(scopes); n > 0 {
				extended = scopes[n-1]
				scopes = scopes[:n-1]
			}
		case c == '(':
			if strings.HasPrefix(src[i:], "(?#") {
				end := strings.IndexByte(src[i:], ')')
				if end < 0 {
					return groups
				}
				i += end
				continue
			}
			if on, set, scoped, n := inlineFlags(src[i:]); n > 0 {
				if scoped {
					scopes = append(scopes, extended)
				}
				if set {
					extended = on
				}
				i += n - 1
				continue
			}
			scopes = append(scopes, extended)
			if i+1 < len(src) && src[i+1] != '?' {
				groups = append(groups, "")
			} else if name, ok := groupName(src[i:]); ok {
				groups = append(groups, name)
			}
		}
	}
	return groups
}

// inlineFlags parses a flag group such as (?x), (?i-x) or (?x: at the
// start of s. n is the length of the opener, zero if s does not start with
// one. set reports whether the x flag is mentioned, on its new value, and
// scoped whether the opener starts a group that a later ')' closes.
func inlineFlags(s string) (on, set, scoped bool, n int) {
	if !strings.HasPrefix(s, "(?") {
		return false, false, false, 0
	}
	negate := false
	for i := 2; i < len(s); i++ {
		switch s[i] {
		case 'i', 'm', 'n', 's', 'U':
		case 'x':
			on, set = !negate, true
		case '-':
			negate = true
		case ')':
			if i == 2 {
				return false, false, false, 0
			}
			return on, set, false, i + 1
		case ':':
			if i == 2 {
				return false, false, false, 0
			}
			return on, set, true, i + 1
		default:
			return false, false, false, 0
		}
	}
	return false, false, false, 0
}

// skipClass returns the index of the ']' closing the class opened at src[start].
func skipClass(src string, start int) int {
	i := start + 1
	if i < len(src) && src[i] == '^' {
		i++
	}
	// a leading ']' is a literal
	if i < len(src) && src[i] == ']' {
		i++
	}
	for ; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			if i+1 < len(src) && src[i+1] == ':' {
				if end := strings.Index(src[i:], ":]"); end >= 0 {
					i += end + 1
				}
			}
		case ']':
			return i
		}
	}
	return len(src)
}

func groupName(s string) (string, bool) {
	var rest string
	var closer byte
	switch {
	case strings.HasPrefix(s, "(?P<"):
		rest, closer = s[4:], '>'
	case strings.HasPrefix(s, "(?<="), strings.HasPrefix(s, "(?<!"):
		return "", false
	case strings.HasPrefix(s, "(?<"):
		rest, closer = s[3:], '>'
	case strings.HasPrefix(s, "(?'"):
		rest, closer = s[3:], '\''
	default:
		return "", false
	}
	end := strings.IndexByte(rest, closer)
	if end <= 0 {
		return "", false
	}
	name := rest[:end]
	// .NET balancing groups (?<open-close>...) are declared under their first name
	switch dash := strings.IndexByte(name, '-'); {
	case dash == 0:
		return "", false
	case dash > 0:
		name = name[:dash]
	}
	// (?<2>...) assigns a number, not a name
	if strings.Trim(name, "0123456789") == "" {
		return "", false
	}
	return name, true
}
