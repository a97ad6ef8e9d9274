package core

import (
	"fmt"
	"os"
	"path/filepath"
)

type ValidationError struct {
	Arg   string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

type PathKind int

const (
	PathFile PathKind = iota
	PathDir
)

type ParsedPath struct {
	FullPath string
	Kind     PathKind
}

// ParseArgs checks that every argument names an existing regular file or
// directory. Repeated arguments are kept once.
func ParseArgs(args []string) ([]ParsedPath, error) {
	if len(args) == 0 {
		return nil, &ValidationError{Arg: "<path>", Cause: "no paths provided"}
	}

	var out []ParsedPath
	seen := make(map[string]bool)

	for _, raw := range args {
		p := filepath.Clean(raw)
		info, err := os.Stat(p)
		if err != nil {
			return nil, &ValidationError{Arg: raw, Cause: "not found or not accessible"}
		}

		var kind PathKind
		switch {
		case info.IsDir():
			kind = PathDir
		case info.Mode().IsRegular():
			kind = PathFile
		default:
			return nil, &ValidationError{Arg: raw, Cause: "not a regular file or directory"}
		}

		if seen[p] {
			continue
		}
		seen[p] = true

		out = append(out, ParsedPath{FullPath: p, Kind: kind})
	}

	return out, nil
}

// ParseAlgorithm resolves the -algo flag value.
func ParseAlgorithm(name string) (Algorithm, error) {
	algo := Algorithm(name)
	switch algo {
	case MD5, SHA256, BLAKE2b:
		return algo, nil
	}
	return "", &ValidationError{Arg: name, Cause: "unknown checksum algorithm (want md5, sha256 or blake2b)"}
}
