package core

import "testing"

// Test helpers

func newTestFile(path, name string, size int64) *File {
	return &File{
		path: path,
		name: name,
		size: size,
	}
}

func newTestDir(path, name string) *Dir {
	return &Dir{
		path:     path,
		name:     name,
		children: []Node{},
	}
}

// Tests

func TestFile(t *testing.T) {
	file := newTestFile("/home/user/document.txt", "document.txt", 42)

	if file.Path() != "/home/user/document.txt" {
		t.Errorf("expected '/home/user/document.txt', got %s", file.Path())
	}
	if file.Name() != "document.txt" {
		t.Errorf("expected 'document.txt', got %s", file.Name())
	}
	if file.Size() != 42 {
		t.Errorf("expected size 42, got %d", file.Size())
	}
	if file.Dir() != nil {
		t.Error("expected loose file to have no directory")
	}
}

func TestDir(t *testing.T) {
	t.Run("accessors", func(t *testing.T) {
		dir := newTestDir("/home/user/documents", "documents")

		if dir.Path() != "/home/user/documents" {
			t.Errorf("expected '/home/user/documents', got %s", dir.Path())
		}
		if dir.Name() != "documents" {
			t.Errorf("expected 'documents', got %s", dir.Name())
		}
		if dir.IsVirtual() {
			t.Error("expected real directory")
		}
	})

	t.Run("children and parent", func(t *testing.T) {
		parent := newTestDir("/a", "a")
		child := newTestDir("/a/b", "b")
		file := newTestFile("/a/f.txt", "f.txt", 1)
		child.parent = parent
		file.dir = parent
		parent.children = append(parent.children, child, file)

		if len(parent.Children()) != 2 {
			t.Fatalf("expected 2 children, got %d", len(parent.Children()))
		}
		if child.Parent() != parent {
			t.Error("expected child parent link")
		}
		if file.Dir() != parent {
			t.Error("expected file directory link")
		}
	})
}

func TestNode(t *testing.T) {
	var nodes []Node
	nodes = append(nodes, newTestFile("/file.txt", "file.txt", 0))
	nodes = append(nodes, newTestDir("/dir", "dir"))

	if len(nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(nodes))
	}
}
