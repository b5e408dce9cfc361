// Package loader turns user files into source text for translation. It
// rejects unsupported or oversized files before any remote call is made.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyenvanduocit/grctrans/pkg/util"
	"golang.org/x/text/unicode/norm"
)

const MaxFileSize = 5 << 20

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the 5 MB limit")
	ErrInvalidEncoding     = errors.New("file is not valid UTF-8")
)

var supportedExts = map[string]bool{
	".txt":   true,
	".html":  true,
	".htm":   true,
	".xhtml": true,
}

// ValidateUpload checks the name and declared size of a file before it is read.
func ValidateUpload(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !supportedExts[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ReadText reads a file body and returns its text, NFC-normalized. HTML
// sources contribute the text of their paragraphs, one per block.
func ReadText(name string, r io.Reader) (string, error) {
	if err := ValidateUpload(name, 0); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	var text string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		text = strings.ReplaceAll(string(data), "\r\n", "\n")
	default:
		doc, err := util.ReadDocument(strings.NewReader(string(data)))
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", name, err)
		}
		text = extractParagraphs(doc)
	}

	return norm.NFC.String(text), nil
}

func extractParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p, h1, h2, h3, h4, h5, h6, blockquote").Each(func(i int, s *goquery.Selection) {
		// blockquotes usually wrap paragraphs that are already collected
		if goquery.NodeName(s) == "blockquote" && s.Find("p").Length() > 0 {
			return
		}
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	if len(paragraphs) == 0 {
		return strings.TrimSpace(doc.Find("body").Text())
	}
	return strings.Join(paragraphs, "\n\n")
}

// LoadFile reads a source file from disk.
func LoadFile(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if err := ValidateUpload(path, fi.Size()); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return ReadText(path, f)
}
