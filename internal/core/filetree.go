package core

import (
	"fmt"
	"os"
	"path/filepath"
)

type Filetree struct {
	Root Node
}

func BuildFiletree(paths []ParsedPath) (*Filetree, error) {
	var rootNodes []Node

	for _, parsedPath := range paths {
		if parsedPath.Kind == PathDir {
			dirNode, err := buildDirTree(parsedPath.FullPath)
			if err != nil {
				return nil, err
			}
			rootNodes = append(rootNodes, dirNode)
		} else {
			info, err := os.Stat(parsedPath.FullPath)
			if err != nil {
				return nil, err
			}
			fileNode := &File{
				path: parsedPath.FullPath,
				name: filepath.Base(parsedPath.FullPath),
				size: info.Size(),
			}
			rootNodes = append(rootNodes, fileNode)
		}
	}

	if len(rootNodes) == 0 {
		return nil, fmt.Errorf("no valid paths provided")
	}

	// determine root
	var root Node
	if len(rootNodes) == 1 {
		root = rootNodes[0]
	} else {
		root = createVirtualRoot(rootNodes)
	}

	return &Filetree{Root: root}, nil
}

// buildDirTree walks dirPath recursively. Symlinks, sockets and other
// non-regular entries are skipped.
func buildDirTree(dirPath string) (*Dir, error) {
	dir := &Dir{
		path:     dirPath,
		name:     filepath.Base(dirPath),
		children: []Node{},
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		childPath := filepath.Join(dirPath, entry.Name())

		switch {
		case entry.IsDir():
			childDir, err := buildDirTree(childPath)
			if err != nil {
				return nil, err
			}
			childDir.parent = dir
			dir.children = append(dir.children, childDir)
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return nil, err
			}
			dir.children = append(dir.children, &File{
				path: childPath,
				name: entry.Name(),
				size: info.Size(),
				dir:  dir,
			})
		}
	}

	return dir, nil
}

func createVirtualRoot(children []Node) *Dir {
	virtualRoot := &Dir{
		children: children,
		virtual:  true,
	}

	for _, child := range children {
		if dir, ok := child.(*Dir); ok {
			dir.parent = virtualRoot
		} else if file, ok := child.(*File); ok {
			file.dir = virtualRoot
		}
	}

	return virtualRoot
}

// FlattenTree lists every node in the tree, parents before their children.
func (ft *Filetree) FlattenTree() []Node {
	var nodes []Node
	var walk func(Node)
	walk = func(n Node) {
		nodes = append(nodes, n)
		if d, ok := n.(*Dir); ok {
			for _, child := range d.children {
				walk(child)
			}
		}
	}
	walk(ft.Root)
	return nodes
}

// Files returns the regular files of the tree in walk order.
func (ft *Filetree) Files() []*File {
	var files []*File
	for _, n := range ft.FlattenTree() {
		if f, ok := n.(*File); ok {
			files = append(files, f)
		}
	}
	return files
}

// TotalSize sums the sizes of all files in the tree.
func (ft *Filetree) TotalSize() int64 {
	var total int64
	for _, f := range ft.Files() {
		total += f.size
	}
	return total
}
