package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StripExt returns the file name of p without directory and extension.
func StripExt(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath places the stem of srcPath in outDir with a new suffix, e.g.
// "in/book1.txt" -> "out/book1.meta.json" for suffix ".meta.json".
func OutputPath(srcPath, outDir, suffix string) (string, error) {
	if srcPath == "" {
		return "", errors.New("source path is empty")
	}
	return filepath.Join(outDir, StripExt(srcPath)+suffix), nil
}

func ValidateDirPath(dirPath string) error {
	fi, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory %s does not exist", dirPath)
		}
		return fmt.Errorf("checking directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dirPath)
	}
	return nil
}

func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", p, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", p, err)
	}
	return os.WriteFile(p, data, 0o644)
}
