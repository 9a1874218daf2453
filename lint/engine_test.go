package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/discover"
)

// testRule reports every import of a given source
type testRule struct {
	id       string
	source   string
	severity Severity
}

func (r *testRule) ID() string          { return r.id }
func (r *testRule) Description() string { return "Test rule: " + r.id }
func (r *testRule) Check(file *File) []Issue {
	var issues []Issue
	for _, imp := range ast.ImportsOf(file.Program, r.source) {
		issues = append(issues, Issue{
			Rule:     r.id,
			Message:  "import matches trigger",
			Line:     imp.Loc.Line,
			Column:   imp.Loc.Column,
			Severity: r.severity,
		})
	}
	return issues
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLintFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "index.js")
	writeSource(t, testFile, "import a from \"trigger\";\nimport b from \"trigger\";\n")

	rules := []Rule{
		&testRule{id: "TEST001", source: "trigger"},
		&testRule{id: "TEST002", source: "other"},
	}

	t.Run("returns issues matching rules", func(t *testing.T) {
		issues, err := LintFile(testFile, rules, nil)
		if err != nil {
			t.Fatalf("LintFile() error = %v", err)
		}
		if len(issues) != 2 {
			t.Fatalf("LintFile() returned %d issues, want 2", len(issues))
		}
		if issues[0].Rule != "TEST001" || issues[0].Line != 1 || issues[1].Line != 2 {
			t.Errorf("LintFile() issues = %v", issues)
		}
	})

	t.Run("sets file path on issues", func(t *testing.T) {
		issues, _ := LintFile(testFile, rules, nil)
		if len(issues) > 0 && issues[0].File != testFile {
			t.Errorf("Issue.File = %q, want %q", issues[0].File, testFile)
		}
	})

	t.Run("respects disabled rules", func(t *testing.T) {
		issues, err := LintFile(testFile, rules, &Config{DisabledRules: []string{"TEST001"}})
		if err != nil {
			t.Fatalf("LintFile() error = %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("LintFile() returned %d issues, want 0", len(issues))
		}
	})

	t.Run("filters by severity", func(t *testing.T) {
		warn := []Rule{&testRule{id: "TEST003", source: "trigger", severity: SeverityWarning}}
		issues, _ := LintFile(testFile, warn, &Config{MinSeverity: SeverityError})
		if len(issues) != 0 {
			t.Errorf("LintFile() returned %d issues, want 0", len(issues))
		}
		issues, _ = LintFile(testFile, warn, &Config{MinSeverity: SeverityWarning})
		if len(issues) != 2 {
			t.Errorf("LintFile() returned %d issues, want 2", len(issues))
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		if _, err := LintFile("/nonexistent/file.js", rules, nil); err == nil {
			t.Error("LintFile() expected error for non-existent file")
		}
	})
}

func TestLintDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, filepath.Join(tmpDir, "a.js"), `import a from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "b.mjs"), `import b from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "c.txt"), `import c from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "sub", "d.js"), `import d from "trigger";`)

	rules := []Rule{&testRule{id: "TEST001", source: "trigger"}}

	issues, err := LintDir(tmpDir, rules, nil)
	if err != nil {
		t.Fatalf("LintDir() error = %v", err)
	}
	if len(issues) != 2 {
		t.Errorf("LintDir() returned %d issues, want 2", len(issues))
	}

	if _, err := LintDir("/nonexistent/dir", rules, nil); err == nil {
		t.Error("LintDir() expected error for non-existent directory")
	}
}

func TestLintDirRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, filepath.Join(tmpDir, "a.js"), `import a from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "sub", "deep", "b.js"), `import b from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "node_modules", "x", "c.js"), `import c from "trigger";`)

	rules := []Rule{&testRule{id: "TEST001", source: "trigger"}}

	issues, err := LintDirRecursive(tmpDir, discover.DefaultWalkOptions(), rules, nil)
	if err != nil {
		t.Fatalf("LintDirRecursive() error = %v", err)
	}
	if len(issues) != 2 {
		t.Errorf("LintDirRecursive() returned %d issues, want 2", len(issues))
	}

	writeSource(t, filepath.Join(tmpDir, "broken.js"), `import {`)
	if _, err := LintDirRecursive(tmpDir, discover.DefaultWalkOptions(), rules, nil); err == nil {
		t.Error("LintDirRecursive() expected parse error")
	}
}

func TestLintBytes(t *testing.T) {
	rules := []Rule{&testRule{id: "TEST001", source: "trigger"}}

	issues, err := LintBytes([]byte(`import a from "trigger";`), "mem.js", rules, nil)
	if err != nil {
		t.Fatalf("LintBytes() error = %v", err)
	}
	if len(issues) != 1 || issues[0].File != "mem.js" {
		t.Errorf("LintBytes() = %v", issues)
	}

	if _, err := LintBytes([]byte(`import {`), "bad.js", rules, nil); err == nil {
		t.Error("LintBytes() expected error for invalid source")
	}
}
