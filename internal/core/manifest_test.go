package core

import (
	"os"
	"path/filepath"
	"testing"
)

func buildTestManifest(t *testing.T, args []string) []Entry {
	t.Helper()
	paths, err := ParseArgs(args)
	if err != nil {
		t.Fatalf("failed to parse args: %v", err)
	}
	tree, err := BuildFiletree(paths)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	entries, err := BuildManifest(tree, MD5)
	if err != nil {
		t.Fatalf("failed to build manifest: %v", err)
	}
	return entries
}

func findEntry(t *testing.T, entries []Entry, name string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.Filename == name {
			return e
		}
	}
	t.Fatalf("no entry for %s", name)
	return Entry{}
}

func TestBuildManifest(t *testing.T) {
	t.Run("nested directory paths", func(t *testing.T) {
		structure := map[string]interface{}{
			"cmd": map[string]interface{}{
				"server": map[string]interface{}{
					"main.go": "package main",
				},
				"root.go": "package cmd",
			},
		}
		rootDir := setupNestedTestDir(t, structure)

		entries := buildTestManifest(t, []string{filepath.Join(rootDir, "cmd")})

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}

		main := findEntry(t, entries, "main.go")
		if main.DirectoryPath != "cmd/server/" {
			t.Errorf("expected 'cmd/server/', got %s", main.DirectoryPath)
		}
		if main.FileType != "file" {
			t.Errorf("expected file type 'file', got %s", main.FileType)
		}
		if main.Size != int64(len("package main")) {
			t.Errorf("unexpected size %d", main.Size)
		}
		if len(main.Checksum) != 32 {
			t.Errorf("expected 32 hex digits, got %q", main.Checksum)
		}

		root := findEntry(t, entries, "root.go")
		if root.DirectoryPath != "cmd/" {
			t.Errorf("expected 'cmd/', got %s", root.DirectoryPath)
		}
	})

	t.Run("loose file uses parent directory", func(t *testing.T) {
		dirPath := setupTestDir(t, "docs", map[string]string{
			"guide.md": "# Guide",
		})

		entries := buildTestManifest(t, []string{filepath.Join(dirPath, "guide.md")})

		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].DirectoryPath != "docs/" {
			t.Errorf("expected 'docs/', got %s", entries[0].DirectoryPath)
		}
	})

	t.Run("virtual root is not part of the path", func(t *testing.T) {
		a := setupTestDir(t, "alpha", map[string]string{"a.txt": "a"})
		b := setupTestDir(t, "beta", map[string]string{"b.txt": "b"})

		entries := buildTestManifest(t, []string{a, b})

		if got := findEntry(t, entries, "a.txt").DirectoryPath; got != "alpha/" {
			t.Errorf("expected 'alpha/', got %s", got)
		}
		if got := findEntry(t, entries, "b.txt").DirectoryPath; got != "beta/" {
			t.Errorf("expected 'beta/', got %s", got)
		}
	})

	t.Run("relative dot argument resolves to directory name", func(t *testing.T) {
		dirPath := setupTestDir(t, "project", map[string]string{"go.mod": "module x"})
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dirPath); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(wd)

		entries := buildTestManifest(t, []string{"."})

		if got := findEntry(t, entries, "go.mod").DirectoryPath; got != "project/" {
			t.Errorf("expected 'project/', got %s", got)
		}
	})

	t.Run("empty directory yields no entries", func(t *testing.T) {
		entries := buildTestManifest(t, []string{t.TempDir()})

		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}
