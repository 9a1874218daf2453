package lint

import (
	"fmt"
	"sort"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/parser"
	"github.com/lex00/kitsplit/printer"
	"github.com/lex00/kitsplit/rewrite"
)

// MemberSet reports whether a library provides a member.
// *modules.Registry implements it.
type MemberSet interface {
	Has(lib, member string) (bool, error)
}

// DefaultRules returns the rules for lib. A nil resolver makes KIT001
// report-only and a nil member set disables KIT003.
func DefaultRules(lib string, resolver rewrite.Resolver, members MemberSet) []Rule {
	rules := []Rule{
		&AggregateImport{Lib: lib, Resolver: resolver},
		&WildcardReexport{Lib: lib},
		&DynamicAccess{Lib: lib},
		&BareReference{Lib: lib},
	}
	if members != nil {
		rules = append(rules, &UnknownMember{Lib: lib, Members: members})
	}
	return rules
}

// NewDefaultRegistry registers DefaultRules in a fresh registry.
func NewDefaultRegistry(lib string, resolver rewrite.Resolver, members MemberSet) *RuleRegistry {
	registry := NewRuleRegistry()
	for _, rule := range DefaultRules(lib, resolver, members) {
		registry.Register(rule)
	}
	return registry
}

// AggregateImport (KIT001) flags imports and re-exports of the whole
// library. It is fixed by running the rewrite over the file.
type AggregateImport struct {
	Lib      string
	Resolver rewrite.Resolver
}

func (r *AggregateImport) ID() string { return "KIT001" }

func (r *AggregateImport) Description() string {
	return "aggregate library imported instead of its submodules"
}

func (r *AggregateImport) Check(file *File) []Issue {
	var locs []ast.Loc
	for _, imp := range ast.ImportsOf(file.Program, r.Lib) {
		locs = append(locs, imp.Loc)
	}
	for _, exp := range ast.ExportsOf(file.Program, r.Lib) {
		if exp.Kind == ast.ExportFrom {
			locs = append(locs, exp.Loc)
		}
	}
	sort.SliceStable(locs, func(i, j int) bool { return locs[i].Line < locs[j].Line })

	var issues []Issue
	for _, loc := range locs {
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    fmt.Sprintf("%q is imported as a whole; import the submodules that are used", r.Lib),
			Line:       loc.Line,
			Column:     loc.Column,
			Severity:   SeverityWarning,
			Suggestion: "run kitsplit rewrite or kitsplit lint --fix",
			Fixable:    r.Resolver != nil,
		})
	}
	return issues
}

// Fix rewrites the whole file. Later KIT001 issues of the same file see
// the rewritten source and have nothing left to change.
func (r *AggregateImport) Fix(file *File, issue Issue) ([]byte, error) {
	prog, err := parser.Parse(file.Path, file.Source)
	if err != nil {
		return nil, err
	}
	result, err := rewrite.Transform(prog, rewrite.Options{Lib: r.Lib, Resolver: r.Resolver})
	if err != nil {
		return nil, err
	}
	return result.Source, nil
}

// WildcardReexport (KIT002) flags re-exports that hand the whole library
// to importers. The rewrite rejects them.
type WildcardReexport struct {
	Lib string
}

func (r *WildcardReexport) ID() string { return "KIT002" }

func (r *WildcardReexport) Description() string {
	return "whole library re-exported"
}

func (r *WildcardReexport) Check(file *File) []Issue {
	var issues []Issue
	for _, exp := range file.Program.Exports {
		switch exp.Kind {
		case ast.ExportStar:
			if exp.Source != r.Lib {
				continue
			}
			issues = append(issues, Issue{
				Rule:       r.ID(),
				Message:    fmt.Sprintf("`export *` from %q re-exports every member", r.Lib),
				Line:       exp.Loc.Line,
				Column:     exp.Loc.Column,
				Severity:   SeverityError,
				Suggestion: "list the re-exported members: export { a, b } from " + printer.Quote(r.Lib),
			})
		case ast.ExportClause:
			for _, item := range exp.Items {
				if !file.Program.ModuleBinding(item.Ref, r.Lib) {
					continue
				}
				issues = append(issues, Issue{
					Rule:     r.ID(),
					Message:  fmt.Sprintf("%s exports the whole %q library", item.Name, r.Lib),
					Line:     item.Loc.Line,
					Column:   item.Loc.Column,
					Severity: SeverityError,
				})
			}
		}
	}
	return issues
}

// UnknownMember (KIT003) flags names used from the library that have no
// submodule.
type UnknownMember struct {
	Lib     string
	Members MemberSet
}

func (r *UnknownMember) ID() string { return "KIT003" }

func (r *UnknownMember) Description() string {
	return "member not provided by the library"
}

type memberUse struct {
	name string
	loc  ast.Loc
}

func (r *UnknownMember) uses(prog *ast.Program) []memberUse {
	var uses []memberUse
	for _, imp := range ast.ImportsOf(prog, r.Lib) {
		for _, item := range imp.Items {
			if item.Kind == ast.ImportNamed {
				uses = append(uses, memberUse{item.Imported, imp.Loc})
			}
		}
	}
	for _, exp := range ast.ExportsOf(prog, r.Lib) {
		if exp.Kind != ast.ExportFrom {
			continue
		}
		for _, item := range exp.Items {
			uses = append(uses, memberUse{item.Name, exp.Loc})
		}
	}
	for _, use := range prog.Uses {
		if (use.Kind == ast.UseMember || use.Kind == ast.UseIndex) && prog.ModuleBinding(use.Ref, r.Lib) {
			uses = append(uses, memberUse{use.Member, use.Loc})
		}
	}
	return uses
}

func (r *UnknownMember) Check(file *File) []Issue {
	var issues []Issue
	for _, use := range r.uses(file.Program) {
		ok, err := r.Members.Has(r.Lib, use.name)
		if err != nil {
			// the library itself is missing; one issue says it all
			return []Issue{{
				Rule:     r.ID(),
				Message:  err.Error(),
				Line:     use.loc.Line,
				Column:   use.loc.Column,
				Severity: SeverityError,
			}}
		}
		if ok {
			continue
		}
		issues = append(issues, Issue{
			Rule:     r.ID(),
			Message:  fmt.Sprintf("%q has no member %q", r.Lib, use.name),
			Line:     use.loc.Line,
			Column:   use.loc.Column,
			Severity: SeverityError,
		})
	}
	return issues
}

// DynamicAccess (KIT004) flags computed member accesses on the library,
// which the rewrite leaves in place.
type DynamicAccess struct {
	Lib string
}

func (r *DynamicAccess) ID() string { return "KIT004" }

func (r *DynamicAccess) Description() string {
	return "computed member access on the library"
}

func (r *DynamicAccess) Check(file *File) []Issue {
	var issues []Issue
	for _, use := range file.Program.Uses {
		if use.Kind != ast.UseDynamic || !file.Program.ModuleBinding(use.Ref, r.Lib) {
			continue
		}
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    fmt.Sprintf("%s[...] cannot be resolved to a submodule", use.Name),
			Line:       use.Loc.Line,
			Column:     use.Loc.Column,
			Severity:   SeverityWarning,
			Suggestion: "access the member by name",
		})
	}
	return issues
}

// BareReference (KIT005) flags whole-library bindings used as values.
// The rewrite replaces them with null.
type BareReference struct {
	Lib string
}

func (r *BareReference) ID() string { return "KIT005" }

func (r *BareReference) Description() string {
	return "library binding used as a value"
}

// Check skips member accesses, which the rewrite resolves, and export
// clauses, which are KIT002's concern.
func (r *BareReference) Check(file *File) []Issue {
	var issues []Issue
	for _, use := range file.Program.Uses {
		if use.Kind != ast.UsePlain && use.Kind != ast.UseShorthand {
			continue
		}
		if !file.Program.ModuleBinding(use.Ref, r.Lib) {
			continue
		}
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    fmt.Sprintf("%s is used as a value and will be replaced with null", use.Name),
			Line:       use.Loc.Line,
			Column:     use.Loc.Column,
			Severity:   SeverityWarning,
			Suggestion: "pass the members that are needed instead of the library",
		})
	}
	return issues
}
