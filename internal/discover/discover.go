// Package discover finds procedure files in a procedure directory.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ErrDirectoryUnreadable is returned when a procedure directory cannot be listed.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// FileEntry represents a discovered procedure file.
type FileEntry struct {
	Path string // dir joined with the file name
	Name string // file stem; the procedure name
}

// Files lists the files directly inside dir whose extension is ext, sorted
// by name. Hidden files, subdirectories and paths matched by a .gitignore in
// dir are skipped. Symlinks are followed; broken ones are skipped.
func Files(dir, ext string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)
	}

	gi := loadGitignore(dir)

	var results []FileEntry
	for _, d := range entries {
		name := d.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		if gi != nil && gi.MatchesPath(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if d.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		} else if !d.Type().IsRegular() {
			continue
		}

		results = append(results, FileEntry{Path: path, Name: Stem(name)})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadGitignore(dir string) *ignore.GitIgnore {
	path := filepath.Join(dir, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
