package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanNamedGroups(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"none", `\d+\s+\w+`, nil},
		{"all syntaxes", `(?P<a>x)(?<b>y)(?'c'z)`, []string{"a", "b", "c"}},
		{"escaped paren", `\(?<not>x)(?<yes>y)`, []string{"yes"}},
		{"inside class", `[(?<not>]+(?<yes>y)`, []string{"yes"}},
		{"class with leading bracket", `[]((?<not>]+(?<yes>y)`, []string{"yes"}},
		{"posix class", `[[:alpha:](?<not>](?<yes>y)`, []string{"yes"}},
		{"lookbehind", `(?<=a)(?<!b)(?<yes>c)`, []string{"yes"}},
		{"quoted literal", `\Q(?<not>x)\E(?<yes>y)`, []string{"yes"}},
		{"comment", `(?#(?<not>x))(?<yes>y)`, []string{"yes"}},
		{"numbered group", `(?<2>x)(?<yes>y)`, []string{"yes"}},
		{"balancing group", `(?<open-close>x)(?<-close>y)`, []string{"open"}},
		{"nested", `(?<outer>a(?<inner>b))`, []string{"outer", "inner"}},
		{"duplicates are kept", `(?<d>a)(?<d>b)`, []string{"d", "d"}},
		{"free spacing comment", "(?x) (?<a>\\d+) # (?<not>x)\n(?<b>y)", []string{"a", "b"}},
		{"free spacing switched off", "(?x)(?-x)#(?<yes>y)", []string{"yes"}},
		{"scoped free spacing", "(?x:a #(?<not>b)\n)#(?<yes>c)", []string{"yes"}},
		{"hash without free spacing", `#(?<yes>y)`, []string{"yes"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanNamedGroups(tt.src))
		})
	}
}

func TestDeclaredNames(t *testing.T) {
	t.Parallel()
	names, err := declaredNames([]string{"", "a", "", "b"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = declaredNames([]string{"", "a", "a"})
	assert.Error(t, err)
}

func TestScanGroups(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"none", `abc`, []string{}},
		{"unnamed and named", `(a)(?:b)(?<n>c)((?=d)e)`, []string{"", "n", ""}},
		{"lookbehind and flags", `(?i)(?<=x)(a)(?s:b)(?P<n>c)`, []string{"", "n"}},
		{"nested", `((?<a>x)(y))`, []string{"", "a", ""}},
		{"escaped and class", `\((a)[(](?'n'b)`, []string{"", "n"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanGroups(tt.src))
		})
	}
}
