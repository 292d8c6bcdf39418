package enumerate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
)

// Result describes a completed manifest run.
type Result struct {
	ManifestPath string
	Entries      []string
}

// Generate enumerates opts.Root and overwrites the manifest file with the result.
func Generate(opts Options) (*Result, error) {
	entries, err := Collect(opts)
	if err != nil {
		return nil, err
	}

	path := opts.ManifestPath()
	if err := Write(path, entries); err != nil {
		return nil, err
	}

	opts.logger().Info("manifest written",
		zap.String("path", path),
		zap.Int("entries", len(entries)))

	return &Result{ManifestPath: path, Entries: entries}, nil
}

// Collect returns the root-relative, slash-separated paths of every file
// under opts.Root, excluding any file named opts.ManifestName. Files of a
// directory are listed before its subdirectories are visited; within a
// directory, entries come in filesystem listing order.
func Collect(opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("reading root directory %s: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", opts.Root)
	}

	w := walker{opts: opts, log: opts.logger()}
	if err := w.walk(opts.Root, ""); err != nil {
		return nil, err
	}

	entries := w.entries
	if entries == nil {
		entries = []string{}
	}
	if opts.Order != OrderTraversal {
		slices.Sort(entries)
	}
	return entries, nil
}

type walker struct {
	opts    Options
	log     *zap.Logger
	entries []string
}

// walk lists dir, whose path relative to the root is rel ("" for the root).
func (w *walker) walk(dir, rel string) error {
	des, err := readDirUnsorted(dir)
	if err != nil {
		return err
	}
	w.log.Debug("visiting directory", zap.String("dir", dir), zap.Int("entries", len(des)))

	var subdirs []fs.DirEntry
	for _, de := range des {
		isDir, err := w.isDir(dir, de)
		if err != nil {
			return err
		}
		if isDir {
			if de.Type()&fs.ModeSymlink == 0 {
				subdirs = append(subdirs, de)
			}
			continue
		}
		if de.Name() == w.opts.ManifestName {
			continue
		}
		w.entries = append(w.entries, joinRel(rel, de.Name()))
	}

	for _, de := range subdirs {
		if err := w.walk(filepath.Join(dir, de.Name()), joinRel(rel, de.Name())); err != nil {
			return err
		}
	}
	return nil
}

// readDirUnsorted lists dir in the order the filesystem returns entries.
// Unlike os.ReadDir it does not sort, so OrderTraversal reflects the
// directory's on-disk listing.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	defer f.Close()

	des, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return des, nil
}

// isDir reports whether de is a directory, resolving symlinks. A symlink to a
// directory counts as a directory but is never descended; a dangling symlink
// counts as a file.
func (w *walker) isDir(dir string, de fs.DirEntry) (bool, error) {
	if de.Type()&fs.ModeSymlink == 0 {
		return de.IsDir(), nil
	}
	info, err := os.Stat(filepath.Join(dir, de.Name()))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("resolving symlink %s: %w", filepath.Join(dir, de.Name()), err)
	}
	return info.IsDir(), nil
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
