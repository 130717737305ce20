package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
rules:
  - name: po_box
    priority: 5
    description: post office boxes
    pattern: '^(?i:P\.?O\.?\s+Box)\s+(?P<box>\d+)(?:,\s+(?P<city>[^,]+),\s+(?P<state>[A-Z]{2}))?$'
  - name: zip_only
    priority: 50
    engine: backtrack
    pattern: '^(?<zip>\d{5})(?:-(?<plus4>\d{4}))?$'
`

func TestLoadRules(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "po_box", rules[0].Name)
	assert.Equal(t, 5, rules[0].Priority)
	assert.Equal(t, "backtrack", rules[1].Engine)

	r := NewRegistry()
	require.NoError(t, r.AddAll(rules))

	parsed, err := r.Parse("PO Box 42, Springfield, IL")
	require.NoError(t, err)
	assert.Equal(t, "po_box", parsed.Rule)
	assert.Equal(t, []string{"box", "city", "state"}, parsed.Captures.Keys())

	parsed, err = r.Parse("95472")
	require.NoError(t, err)
	assert.Equal(t, "zip_only", parsed.Rule)
	assert.Equal(t, []string{"zip"}, parsed.Captures.Keys(), "unmatched plus4 is omitted")
}

func TestParseRulesErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"not yaml":     "rules: [",
		"missing name": "rules:\n  - pattern: 'a'\n",
		"no pattern":   "rules:\n  - name: empty\n",
	}
	for name, data := range tests {
		_, err := ParseRules([]byte(data))
		assert.Error(t, err, name)
	}

	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
