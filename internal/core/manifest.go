package core

import (
	"path/filepath"
	"slices"
	"strings"
)

// Entry is the metadata registered for one file. Field names match the
// server's create request.
type Entry struct {
	DirectoryPath string `json:"directory_path"`
	Filename      string `json:"filename"`
	FileType      string `json:"file_type"`
	Size          int64  `json:"size"`
	Checksum      string `json:"checksum"`
}

// BuildManifest hashes every file of the tree and describes it as an Entry.
// Directory paths are slash separated, start at the walked directory and end
// with a slash, e.g. "cmd/server/".
func BuildManifest(ft *Filetree, algo Algorithm) ([]Entry, error) {
	files := ft.Files()
	entries := make([]Entry, 0, len(files))

	for _, f := range files {
		sum, size, err := ChecksumFile(f.Path(), algo)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			DirectoryPath: directoryPath(f),
			Filename:      f.Name(),
			FileType:      "file",
			Size:          size,
			Checksum:      sum,
		})
	}

	return entries, nil
}

func directoryPath(f *File) string {
	var parts []string
	for d := f.dir; d != nil && !d.virtual; d = d.parent {
		if name := baseName(d.path); name != "" {
			parts = append(parts, name)
		}
	}
	// A file named on the command line is labelled by its parent directory.
	if f.dir == nil || f.dir.virtual {
		if name := baseName(filepath.Dir(f.path)); name != "" {
			parts = append(parts, name)
		}
	}

	if len(parts) == 0 {
		return "./"
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/") + "/"
}

// baseName is the last element of p after resolving "." and "..".
// The filesystem root has no name.
func baseName(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	b := filepath.Base(p)
	if b == string(filepath.Separator) || b == "." {
		return ""
	}
	return b
}
