package grammar

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one named pattern of a grammar. Rules with a lower Priority are tried first.
type Rule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Priority    int    `yaml:"priority"`
	Engine      string `yaml:"engine,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// RuleSet is the layout of a rules file.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rules file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes YAML rule definitions. Patterns are not compiled here.
func ParseRules(data []byte) ([]Rule, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	for i, rule := range set.Rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule #%d has no name", i+1)
		}
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rule '%s' has no pattern", rule.Name)
		}
	}
	return set.Rules, nil
}
