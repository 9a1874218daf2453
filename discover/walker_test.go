package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create directory structure
	subDir := filepath.Join(tmpDir, "sub")
	modulesDir := filepath.Join(tmpDir, "node_modules", "kit")
	hiddenDir := filepath.Join(tmpDir, ".cache")
	for _, dir := range []string{subDir, modulesDir, hiddenDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	// Create test files
	files := []string{
		filepath.Join(tmpDir, "index.js"),
		filepath.Join(tmpDir, "index.test.js"),
		filepath.Join(tmpDir, "notes.md"),
		filepath.Join(subDir, "sub.mjs"),
		filepath.Join(subDir, "view.jsx"),
		filepath.Join(modulesDir, "index.js"),
		filepath.Join(hiddenDir, "hidden.js"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("export default 1;"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	collect := func(t *testing.T, opts WalkOptions) []string {
		t.Helper()
		var visited []string
		err := WalkDir(tmpDir, opts, func(path string) error {
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("WalkDir() error = %v", err)
		}
		return visited
	}

	t.Run("walks all source files with default options", func(t *testing.T) {
		visited := collect(t, WalkOptions{})
		if len(visited) != 6 {
			t.Errorf("WalkDir() visited %d files, want 6: %v", len(visited), visited)
		}
	})

	t.Run("skips test files", func(t *testing.T) {
		for _, v := range collect(t, WalkOptions{SkipTests: true}) {
			if filepath.Base(v) == "index.test.js" {
				t.Error("WalkDir() should skip test files")
			}
		}
	})

	t.Run("skips node_modules", func(t *testing.T) {
		for _, v := range collect(t, WalkOptions{SkipNodeModules: true}) {
			if filepath.Base(filepath.Dir(filepath.Dir(v))) == "node_modules" {
				t.Error("WalkDir() should skip node_modules")
			}
		}
	})

	t.Run("skips hidden directories", func(t *testing.T) {
		for _, v := range collect(t, WalkOptions{SkipHidden: true}) {
			if filepath.Base(filepath.Dir(v)) == ".cache" {
				t.Error("WalkDir() should skip hidden directories")
			}
		}
	})

	t.Run("skips excluded directories", func(t *testing.T) {
		for _, v := range collect(t, WalkOptions{ExcludeDirs: []string{"sub"}}) {
			if filepath.Base(filepath.Dir(v)) == "sub" {
				t.Error("WalkDir() should skip excluded directories")
			}
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		visited := collect(t, WalkOptions{Extensions: []string{".jsx"}})
		if len(visited) != 1 || filepath.Base(visited[0]) != "view.jsx" {
			t.Errorf("WalkDir() visited %v, want only view.jsx", visited)
		}
	})

	t.Run("default options", func(t *testing.T) {
		visited := collect(t, DefaultWalkOptions())
		if len(visited) != 4 {
			t.Errorf("WalkDir() visited %d files, want 4: %v", len(visited), visited)
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		err := WalkDir("/nonexistent/dir", WalkOptions{}, func(path string) error {
			return nil
		})
		if err == nil {
			t.Error("WalkDir() expected error for non-existent directory")
		}
	})
}

func TestCollectSourceFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		filepath.Join(tmpDir, "a.js"),
		filepath.Join(tmpDir, "b.mjs"),
		filepath.Join(tmpDir, "c.spec.js"),
		filepath.Join(tmpDir, "d.txt"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte(""), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("collects source files", func(t *testing.T) {
		got, err := CollectSourceFiles(tmpDir, WalkOptions{})
		if err != nil {
			t.Fatalf("CollectSourceFiles() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("CollectSourceFiles() returned %d files, want 3", len(got))
		}
		if filepath.Base(got[0]) != "a.js" {
			t.Errorf("CollectSourceFiles()[0] = %q, want lexical order", got[0])
		}
	})

	t.Run("skips test files", func(t *testing.T) {
		got, err := CollectSourceFiles(tmpDir, WalkOptions{SkipTests: true})
		if err != nil {
			t.Fatalf("CollectSourceFiles() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("CollectSourceFiles() with SkipTests returned %d files, want 2", len(got))
		}
	})
}
