package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Map is a name -> substring mapping that remembers insertion order.
// The zero value and the nil pointer are empty maps.
type Map struct {
	keys   []string
	values map[string]string
}

func newMap(size int) *Map {
	return &Map{
		keys:   make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

func (m *Map) set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value captured under key.
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key was captured.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key, value string) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap returns the entries as a plain (unordered) map.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	m.Range(func(k, v string) bool {
		out[k] = v
		return true
	})
	return out
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	m.Range(func(k, v string) bool {
		if sb.Len() > 1 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %q", k, v)
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the map as a JSON object with keys in order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	m.Range(func(k, v string) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(v); err != nil {
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("capture: expected JSON object, got %v", tok)
	}

	*m = Map{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("capture: expected string key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("capture: value for '%s': %w", key, err)
		}
		m.set(key, value)
	}
	_, err = dec.Token()
	return err
}
