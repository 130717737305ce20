package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/iwilltry42/addrmatch/pkg/api"
	"github.com/iwilltry42/addrmatch/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"addrmatch"}, args...))
	return out.String(), err
}

func TestParseArgs(t *testing.T) {
	out, err := run(t, "", "parse", "123 Main St, Westminster, CO 80020")
	require.NoError(t, err)
	assert.Contains(t, out, "-> address")
	assert.Contains(t, out, `number: "123"`)
	assert.Contains(t, out, `zip: "80020"`)
	assert.Less(t, strings.Index(out, "number:"), strings.Index(out, "street:"))
}

func TestParseStdinJSON(t *testing.T) {
	stdin := "45 Lakeview Ave, Chicago, IL\n\nGrand Blvd & Lakeview Ave, Chicago, IL\n"
	out, err := run(t, stdin, "--engine", "backtrack", "parse", "--json", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second api.ParseResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "address", first.Rule)
	assert.Equal(t, []string{"number", "street", "city", "state"}, first.Captures.Keys())
	assert.Equal(t, "intersection", second.Rule)
}

func TestParseUnmatched(t *testing.T) {
	out, err := run(t, "", "parse", "123 Main St", "Grand Boulevard at Lakeview Avenue Chicago IL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 addresses did not match")
	assert.Contains(t, out, "Grand Boulevard at Lakeview Avenue Chicago IL -> no match")
}

func TestParseWithRule(t *testing.T) {
	_, err := run(t, "", "parse", "--rule", "intersection", "123 Main St")
	assert.Error(t, err)

	_, err = run(t, "", "parse", "--rule", "nope", "123 Main St")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	out, err := run(t, "", "match", "--pattern", `(?<house>\d+)\s+(?<street>[A-Za-z ]+)`, "123 Main St")
	require.NoError(t, err)
	assert.Contains(t, out, "123 Main St -> match")
	assert.Contains(t, out, `house: "123"`)
	assert.Contains(t, out, `street: "Main St"`)

	out, err = run(t, "no unit here\n", "match", "--pattern", `(?<unit>Apt \d+)?`)
	require.NoError(t, err)
	assert.Equal(t, "no unit here -> match\n", out)
}

func TestMatchInvalidPattern(t *testing.T) {
	_, err := run(t, "", "match", "--pattern", `(?<dup>a)(?<dup>b)`, "ab")
	var invalid *pattern.InvalidPatternError
	assert.True(t, errors.As(err, &invalid))
}

func TestRules(t *testing.T) {
	out, err := run(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "address (priority 10, re2)")
	assert.Contains(t, out, "address_unit (priority 20, re2)")
	assert.Contains(t, out, "intersection (priority 30, re2)")
	assert.Contains(t, out, "groups: street1, street2, city, state")
}

func TestRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules:
  - name: zip_only
    priority: 1
    pattern: '^(?P<zip>\d{5})$'
`), 0o644))

	out, err := run(t, "", "--rules", path, "parse", "95472")
	require.NoError(t, err)
	assert.Contains(t, out, "-> zip_only")
}

func TestToken(t *testing.T) {
	_, err := run(t, "", "token", "--subject", "ci")
	assert.Error(t, err)

	t.Setenv("ADDRMATCH_AUTH_SECRET", "s3cr3t")
	out, err := run(t, "", "token", "--subject", "ci", "--ttl", "5m")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}

func TestBench(t *testing.T) {
	out, err := run(t, "", "bench", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "re2")
	assert.Contains(t, out, "backtrack")
	assert.Contains(t, out, "parses/s")
}

func TestUnknownEngine(t *testing.T) {
	_, err := run(t, "", "--engine", "perl", "rules")
	assert.Error(t, err)
}
