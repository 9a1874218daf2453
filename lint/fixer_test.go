package lint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/discover"
)

// fixableTestRule reports the first import of source and fixes it by
// returning fixed
type fixableTestRule struct {
	id     string
	source string
	fixed  []byte
	err    error
}

func (r *fixableTestRule) ID() string          { return r.id }
func (r *fixableTestRule) Description() string { return "Fixable rule: " + r.id }
func (r *fixableTestRule) Check(file *File) []Issue {
	imports := ast.ImportsOf(file.Program, r.source)
	if len(imports) == 0 {
		return nil
	}
	return []Issue{{Rule: r.id, Message: "fix me", Line: imports[0].Loc.Line, Fixable: true}}
}

func (r *fixableTestRule) Fix(file *File, issue Issue) ([]byte, error) {
	return r.fixed, r.err
}

func TestFix(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "index.js")
	writeSource(t, testFile, `import a from "trigger";`)

	t.Run("fixes fixable issues", func(t *testing.T) {
		rules := []Rule{&fixableTestRule{id: "FIX001", source: "trigger", fixed: []byte("a();\n")}}
		results, err := Fix(testFile, rules, nil)
		if err != nil {
			t.Fatalf("Fix() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Fix() returned %d results, want 1", len(results))
		}
		if !results[0].Fixed || string(results[0].NewCode) != "a();\n" {
			t.Errorf("Fix() result = %+v", results[0])
		}

		// Fix does not write
		content, _ := os.ReadFile(testFile)
		if string(content) != `import a from "trigger";` {
			t.Errorf("Fix() modified the file: %q", content)
		}
	})

	t.Run("records fix errors", func(t *testing.T) {
		rules := []Rule{&fixableTestRule{id: "FIX001", source: "trigger", err: errors.New("cannot fix")}}
		results, err := Fix(testFile, rules, nil)
		if err != nil {
			t.Fatalf("Fix() error = %v", err)
		}
		if len(results) != 1 || results[0].Fixed || results[0].Error == nil {
			t.Errorf("Fix() results = %+v, want one failed fix", results)
		}
	})

	t.Run("rejects fixes that do not parse", func(t *testing.T) {
		rules := []Rule{&fixableTestRule{id: "FIX001", source: "trigger", fixed: []byte("import {")}}
		results, err := Fix(testFile, rules, nil)
		if err != nil {
			t.Fatalf("Fix() error = %v", err)
		}
		if len(results) != 1 || results[0].Fixed || results[0].Error == nil {
			t.Errorf("Fix() results = %+v, want one failed fix", results)
		}
	})

	t.Run("non-fixable rules report only", func(t *testing.T) {
		rules := []Rule{&testRule{id: "TEST001", source: "trigger"}}
		results, err := Fix(testFile, rules, nil)
		if err != nil {
			t.Fatalf("Fix() error = %v", err)
		}
		if len(results) != 1 || results[0].Fixed {
			t.Errorf("Fix() results = %+v, want one unfixed issue", results)
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		if _, err := Fix("/nonexistent/file.js", nil, nil); err == nil {
			t.Error("Fix() expected error for non-existent file")
		}
	})
}

func TestFixFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "index.js")
	writeSource(t, testFile, `import a from "trigger";`)

	rules := []Rule{&fixableTestRule{id: "FIX001", source: "trigger", fixed: []byte("a();\n")}}
	results, err := FixFile(testFile, rules, nil)
	if err != nil {
		t.Fatalf("FixFile() error = %v", err)
	}
	if len(results) != 1 || !results[0].Fixed {
		t.Fatalf("FixFile() results = %+v", results)
	}

	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "a();\n" {
		t.Errorf("FixFile() wrote %q, want %q", content, "a();\n")
	}

	// nothing left to fix
	results, err = FixFile(testFile, rules, nil)
	if err != nil {
		t.Fatalf("FixFile() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("FixFile() second run returned %d results, want 0", len(results))
	}
}

func TestFixDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeSource(t, filepath.Join(tmpDir, "a.js"), `import a from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "sub", "b.js"), `import b from "trigger";`)
	writeSource(t, filepath.Join(tmpDir, "c.js"), `c();`)

	rules := []Rule{&fixableTestRule{id: "FIX001", source: "trigger", fixed: []byte("fixed();\n")}}
	results, err := FixDir(tmpDir, discover.DefaultWalkOptions(), rules, nil)
	if err != nil {
		t.Fatalf("FixDir() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("FixDir() returned %d results, want 2", len(results))
	}

	content, _ := os.ReadFile(filepath.Join(tmpDir, "sub", "b.js"))
	if string(content) != "fixed();\n" {
		t.Errorf("FixDir() left %q", content)
	}
	content, _ = os.ReadFile(filepath.Join(tmpDir, "c.js"))
	if string(content) != "c();" {
		t.Errorf("FixDir() modified a clean file: %q", content)
	}
}

func TestFixFile_AggregateImport(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "index.js")
	writeSource(t, testFile, `import { map } from "kit";
import kit from "kit";
map(kit.map);
`)

	kit := newFakeKit("map")
	rules := DefaultRules("kit", kit, kit)
	results, err := FixFile(testFile, rules, &Config{MinSeverity: SeverityWarning})
	if err != nil {
		t.Fatalf("FixFile() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("FixFile() returned %d results, want 2", len(results))
	}

	content, _ := os.ReadFile(testFile)
	want := "import _map from \"kit/es/src/map\";\n_map(_map);\n"
	if string(content) != want {
		t.Errorf("FixFile() wrote %q, want %q", content, want)
	}
}
