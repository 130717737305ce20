// Package grammar keeps a registry of named patterns and parses subjects by
// trying the rules in priority order until one matches.
package grammar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/capture"
	"github.com/iwilltry42/addrmatch/pkg/metrics"
	"github.com/iwilltry42/addrmatch/pkg/pattern"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoMatch is returned when no rule of the registry matches a subject.
	ErrNoMatch = errors.New("grammar: no rule matched")
	// ErrUnknownRule is returned when a rule is requested by a name the registry does not know.
	ErrUnknownRule = errors.New("grammar: unknown rule")
)

// ad-hoc patterns are dropped from the cache once it holds this many
const maxCachedPatterns = 1024

// Parsed is a successful parse: the rule that matched and what it captured.
type Parsed struct {
	Input    string       `json:"input"`
	Rule     string       `json:"rule"`
	Captures *capture.Map `json:"captures"`
}

type compiledRule struct {
	Rule
	pattern *pattern.Pattern
	seq     int
}

// Registry maps rule names to compiled patterns. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	rules  []*compiledRule
	byName map[string]*compiledRule
	seq    int

	normalize Normalizer
	engine    pattern.Engine
	timeout   time.Duration
	include   map[string]bool
	exclude   map[string]bool

	cache pattern.Cache
}

// Option configures a Registry.
type Option func(*Registry)

// WithNormalizer replaces the subject normalizer. nil disables normalization.
func WithNormalizer(n Normalizer) Option {
	return func(r *Registry) {
		r.normalize = n
	}
}

// WithEngine sets the engine for rules that do not name one.
func WithEngine(engine pattern.Engine) Option {
	return func(r *Registry) {
		r.engine = engine
	}
}

// WithTimeout sets the per-match timeout for backtracking rules.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		r.timeout = timeout
	}
}

// WithInclude restricts the registry to the named rules.
func WithInclude(names []string) Option {
	return func(r *Registry) {
		r.include = toSet(names)
	}
}

// WithExclude keeps the named rules out of the registry.
func WithExclude(names []string) Option {
	return func(r *Registry) {
		r.exclude = toSet(names)
	}
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// NewRegistry returns an empty registry. By default subjects are NFC
// normalized and whitespace runs are collapsed before matching.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:    make(map[string]*compiledRule),
		normalize: Chain(NormalizeNFC, CollapseSpace),
		engine:    pattern.EngineRE2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// admits applies the include and exclude lists; exclusion wins.
func (r *Registry) admits(name string) bool {
	if r.exclude[name] {
		return false
	}
	return r.include == nil || r.include[name]
}

// Add compiles rule and registers it. Rules filtered out by the include or
// exclude lists are skipped without error.
func (r *Registry) Add(rule Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if !r.admits(rule.Name) {
		log.Debugf("Skipping rule '%s' (filtered by include/exclude list)", rule.Name)
		return nil
	}

	engine := r.engine
	if rule.Engine != "" {
		var err error
		if engine, err = pattern.ParseEngine(rule.Engine); err != nil {
			return fmt.Errorf("rule '%s': %w", rule.Name, err)
		}
	}

	p, err := pattern.Compile(rule.Pattern, pattern.WithEngine(engine), pattern.WithTimeout(r.timeout))
	if err != nil {
		metrics.PatternCompileTotal.WithLabelValues(string(engine), metrics.CompileInvalid).Inc()
		return fmt.Errorf("rule '%s': %w", rule.Name, err)
	}
	metrics.PatternCompileTotal.WithLabelValues(string(engine), metrics.CompileOK).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[rule.Name]; exists {
		return fmt.Errorf("duplicate rule '%s'", rule.Name)
	}
	r.seq++
	cr := &compiledRule{Rule: rule, pattern: p, seq: r.seq}
	r.byName[rule.Name] = cr
	r.rules = append(r.rules, cr)
	sort.SliceStable(r.rules, func(i, j int) bool {
		if r.rules[i].Priority != r.rules[j].Priority {
			return r.rules[i].Priority < r.rules[j].Priority
		}
		return r.rules[i].seq < r.rules[j].seq
	})

	log.Debugf("Registered rule '%s' (priority %d, engine %s, groups %v)", rule.Name, rule.Priority, engine, p.Names())
	return nil
}

// AddAll adds rules in order and stops at the first error.
func (r *Registry) AddAll(rules []Rule) error {
	for _, rule := range rules {
		if err := r.Add(rule); err != nil {
			return err
		}
	}
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(rule Rule) {
	if err := r.Add(rule); err != nil {
		panic(err)
	}
}

// Rules returns the registered rules in the order Parse tries them.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, len(r.rules))
	for i, cr := range r.rules {
		rules[i] = cr.Rule
	}
	return rules
}

// Get returns a rule and its compiled pattern.
func (r *Registry) Get(name string) (Rule, *pattern.Pattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cr, ok := r.byName[name]
	if !ok {
		return Rule{}, nil, false
	}
	return cr.Rule, cr.pattern, true
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func (r *Registry) snapshot() []*compiledRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]*compiledRule, len(r.rules))
	copy(rules, r.rules)
	return rules
}

func (r *Registry) prepare(subject string) string {
	if r.normalize == nil {
		return subject
	}
	return r.normalize(subject)
}

// Parse tries every rule in priority order and returns the first match.
// A rule that times out is skipped; if no later rule matches, the timeout
// error is returned instead of ErrNoMatch.
func (r *Registry) Parse(input string) (*Parsed, error) {
	subject := r.prepare(input)

	var timeoutErr error
	for _, rule := range r.snapshot() {
		parsed, err := r.try(rule, input, subject)
		switch {
		case errors.Is(err, pattern.ErrMatchTimeout):
			log.Warnf("Rule '%s' timed out on '%s', trying next rule", rule.Name, subject)
			if timeoutErr == nil {
				timeoutErr = err
			}
		case err != nil:
			return nil, err
		case parsed != nil:
			return parsed, nil
		}
	}
	if timeoutErr != nil {
		return nil, timeoutErr
	}
	return nil, ErrNoMatch
}

// ParseWith matches input against a single rule.
func (r *Registry) ParseWith(name, input string) (*Parsed, error) {
	r.mu.RLock()
	rule, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownRule, name)
	}

	parsed, err := r.try(rule, input, r.prepare(input))
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, ErrNoMatch
	}
	return parsed, nil
}

// try runs one rule. It returns nil, nil when the rule does not match.
func (r *Registry) try(rule *compiledRule, input, subject string) (*Parsed, error) {
	start := time.Now()
	res, err := rule.pattern.Match(subject)
	metrics.MatchDurationSeconds.WithLabelValues(string(rule.pattern.Engine())).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MatchTotal.WithLabelValues(rule.Name, metrics.OutcomeTimeout).Inc()
		return nil, fmt.Errorf("rule '%s': %w", rule.Name, err)
	}
	if res == nil {
		metrics.MatchTotal.WithLabelValues(rule.Name, metrics.OutcomeNoMatch).Inc()
		return nil, nil
	}
	metrics.MatchTotal.WithLabelValues(rule.Name, metrics.OutcomeMatched).Inc()

	captures, err := capture.ExtractResult(res, rule.pattern)
	if err != nil {
		metrics.ExtractErrorsTotal.WithLabelValues(rule.Name).Inc()
		log.WithError(err).WithField("rule", rule.Name).Error("Failed to extract captures")
		return nil, fmt.Errorf("rule '%s': %w", rule.Name, err)
	}

	return &Parsed{Input: input, Rule: rule.Name, Captures: captures}, nil
}

// ParseAll parses subjects with up to workers goroutines (unbounded if
// workers <= 0) and returns the results in input order. Subjects no rule
// matched have a nil entry. The first other error cancels the batch.
func (r *Registry) ParseAll(ctx context.Context, subjects []string, workers int) ([]*Parsed, error) {
	results := make([]*Parsed, len(subjects))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, subject := range subjects {
		i, subject := i, subject
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed, err := r.Parse(subject)
			if errors.Is(err, ErrNoMatch) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("parse '%s': %w", subject, err)
			}
			results[i] = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MatchPattern matches subject against an ad-hoc pattern source. Compiled
// patterns are cached, so repeated calls with the same source compile once.
// It returns nil, nil when the pattern does not match. The subject is not normalized.
func (r *Registry) MatchPattern(src, subject string, opts ...pattern.Option) (*capture.Map, error) {
	opts = append([]pattern.Option{pattern.WithEngine(r.engine), pattern.WithTimeout(r.timeout)}, opts...)

	if r.cache.Len() >= maxCachedPatterns {
		log.Debugf("Pattern cache reached %d entries, clearing", maxCachedPatterns)
		r.cache.Clear()
	}
	p, err := r.cache.Get(src, opts...)
	if err != nil {
		var invalid *pattern.InvalidPatternError
		if errors.As(err, &invalid) {
			metrics.PatternCompileTotal.WithLabelValues(string(invalid.Engine), metrics.CompileInvalid).Inc()
		}
		return nil, err
	}

	res, err := p.Match(subject)
	if err != nil {
		return nil, err
	}
	return capture.ExtractResult(res, p)
}

// NewDefaultRegistry returns a registry holding DefaultRules.
func NewDefaultRegistry(opts ...Option) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := r.AddAll(DefaultRules()); err != nil {
		return nil, err
	}
	return r, nil
}
