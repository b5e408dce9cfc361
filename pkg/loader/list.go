package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ListTextFiles returns the .txt files directly inside dir in natural order
// ("book2" before "book10"). A non-empty only restricts the result to those
// base names.
func ListTextFiles(dir string, only []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[filepath.Base(name)] = true
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		if len(wanted) > 0 && !wanted[e.Name()] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	sort.Slice(files, func(i, j int) bool {
		return naturalLess(filepath.Base(files[i]), filepath.Base(files[j]))
	})
	return files, nil
}

// naturalLess orders names case-insensitively, comparing digit runs by value.
func naturalLess(a, b string) bool {
	return natural.Less(strings.ToLower(a), strings.ToLower(b))
}
