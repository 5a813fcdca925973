package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAnchorNotFound is returned when no directory up the tree holds the marker.
var ErrAnchorNotFound = errors.New("anchor directory not found")

// FindAnchor walks up from start looking for a directory containing marker.
// If start is empty the working directory is used; if it is a file, its
// directory is the starting point.
func FindAnchor(start, marker string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	info, err := os.Stat(start)
	if err != nil {
		return "", err
	}
	dir := start
	if !info.IsDir() {
		dir = filepath.Dir(start)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s: %w", marker, ErrAnchorNotFound)
}

// ResolvePath joins rel onto anchor. An absolute rel wins over the anchor.
func ResolvePath(anchor, rel string) (string, error) {
	if rel == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel), nil
	}
	abs, err := filepath.Abs(filepath.Join(anchor, rel))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rel, err)
	}
	return abs, nil
}
