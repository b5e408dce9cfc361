package util

import (
	"io"

	"github.com/PuerkitoBio/goquery"
)

// ReadDocument parses an HTML or XHTML body.
func ReadDocument(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}
