package search

import (
	"os"
	"path/filepath"
)

// WalkFunc is called for every file found by Walk. err is set when path is a
// directory that could not be listed; the walk goes on with its siblings.
type WalkFunc func(path string, err error)

// Walk calls onFile for every file under root, descending into
// subdirectories depth first in the order os.ReadDir lists them.
//
// Only an unusable root fails the walk, with a *PathError. Symlinks are
// followed, and there is no cycle detection: a link pointing back to one of
// its parents recurses until the OS rejects the path.
func Walk(root string, onFile WalkFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return &PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &PathError{Path: root, Err: ErrNotDirectory}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return &PathError{Path: root, Err: err}
	}
	walkEntries(root, entries, onFile)
	return nil
}

func walkDir(dir string, onFile WalkFunc) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		onFile(dir, err)
		return
	}
	walkEntries(dir, entries, onFile)
}

func walkEntries(dir string, entries []os.DirEntry, onFile WalkFunc) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// Stat follows links. If it fails the entry is handed over as a file
		// and the reader reports it.
		info, err := os.Stat(path)
		if err != nil {
			onFile(path, nil)
			continue
		}

		switch {
		case info.IsDir():
			walkDir(path, onFile)
		case info.Mode().IsRegular():
			onFile(path, nil)
		}
	}
}
