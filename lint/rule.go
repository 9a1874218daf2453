package lint

import (
	"sort"
	"sync"

	"github.com/lex00/kitsplit/ast"
)

// File is one parsed source file handed to the rules.
type File struct {
	Path    string
	Source  []byte
	Program *ast.Program
}

// Rule defines the interface for lint rules.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "KIT001").
	ID() string
	// Description returns a brief description of what the rule checks.
	Description() string
	// Check analyzes the given file and returns any issues found.
	Check(file *File) []Issue
}

// FixableRule is a Rule that can automatically fix the issues it finds.
type FixableRule interface {
	Rule
	// Fix attempts to fix the given issue in the file.
	// Returns the modified source code, or an error if the fix failed.
	Fix(file *File, issue Issue) ([]byte, error)
}

// RuleRegistry maintains a collection of rules.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRuleRegistry creates a new empty rule registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it will be replaced.
func (r *RuleRegistry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// Get returns the rule with the given ID, or nil if not found.
func (r *RuleRegistry) Get(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[id]
}

// All returns all registered rules ordered by ID.
func (r *RuleRegistry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// Enabled returns the registered rules cfg does not disable, ordered by ID.
func (r *RuleRegistry) Enabled(cfg *Config) []Rule {
	all := r.All()
	if cfg == nil {
		return all
	}
	rules := all[:0]
	for _, rule := range all {
		if !cfg.IsRuleDisabled(rule.ID()) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// IDs returns all registered rule IDs in sorted order.
func (r *RuleRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
