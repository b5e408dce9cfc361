// Package chunker splits source text into paragraph-bounded pieces that fit
// a model request. A paragraph is never cut: one that is longer than the
// limit travels as its own oversized chunk.
package chunker

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// ParagraphSeparator delimits paragraphs in the source and in the joined output.
	ParagraphSeparator = "\n\n"

	DefaultMaxChunkSize = 4000
)

var ErrInvalidChunkSize = errors.New("max chunk size must be a positive integer")

// Chunk greedily packs paragraphs into chunks of at most maxChunkSize
// characters. The separator that would join the next paragraph is not counted
// against the limit. Empty input yields no chunks.
func Chunk(text string, maxChunkSize int) ([]string, error) {
	if maxChunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, paragraph := range strings.Split(text, ParagraphSeparator) {
		paragraphLen := utf8.RuneCountInString(paragraph)

		if currentLen+paragraphLen > maxChunkSize && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(paragraph)
			currentLen = paragraphLen
			continue
		}

		if current.Len() > 0 {
			current.WriteString(ParagraphSeparator)
			currentLen += utf8.RuneCountInString(ParagraphSeparator)
		}
		current.WriteString(paragraph)
		currentLen += paragraphLen
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks, nil
}

// Join reassembles translated chunks in order.
func Join(chunks []string) string {
	return strings.Join(chunks, ParagraphSeparator)
}
