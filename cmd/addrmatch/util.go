package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/iwilltry42/addrmatch/pkg/capture"
	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/iwilltry42/addrmatch/pkg/pattern"
	"github.com/iwilltry42/addrmatch/pkg/types"
	log "github.com/sirupsen/logrus"
)

var (
	matchStyle   = color.New(color.FgGreen, color.Bold)
	noMatchStyle = color.New(color.FgRed, color.Bold)
	keyStyle     = color.New(color.FgCyan)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
)

// buildRegistry compiles the configured rules, or the built-in ones when no rules file is set
func buildRegistry(cfg *types.Config) (*grammar.Registry, error) {
	engine, err := pattern.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	normalizers := []grammar.Normalizer{grammar.NormalizeNFC}
	if cfg.Grammar.FoldAccents {
		normalizers = append(normalizers, grammar.FoldAccents)
	}
	normalizers = append(normalizers, grammar.CollapseSpace)

	registry := grammar.NewRegistry(
		grammar.WithEngine(engine),
		grammar.WithTimeout(cfg.MatchTimeout),
		grammar.WithNormalizer(grammar.Chain(normalizers...)),
		grammar.WithInclude(cfg.Grammar.Include),
		grammar.WithExclude(cfg.Grammar.Exclude),
	)

	rules := grammar.DefaultRules()
	if cfg.Grammar.RulesFile != "" {
		rules, err = grammar.LoadRules(cfg.Grammar.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from '%s': %w", cfg.Grammar.RulesFile, err)
		}
	}
	if err := registry.AddAll(rules); err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		return nil, errors.New("no rules left after applying the include and exclude filters")
	}

	log.Debugf("Loaded %d rules with engine '%s'", registry.Len(), engine)
	return registry, nil
}

// readLines returns the non-blank lines of r
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// printCaptures writes one indented "key: value" line per capture, in group order
func printCaptures(w io.Writer, captures *capture.Map) {
	captures.Range(func(key, value string) bool {
		fmt.Fprintf(w, "  %s %q\n", keyStyle.Sprintf("%s:", key), value)
		return true
	})
}

func printNoMatch(w io.Writer, subject string) {
	fmt.Fprintf(w, "%s %s\n", subject, noMatchStyle.Sprint("-> no match"))
}
