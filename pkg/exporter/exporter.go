// Package exporter renders a translation result as a downloadable file.
package exporter

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/nguyenvanduocit/grctrans/pkg/pipeline"
)

type Format string

const (
	FormatText     Format = "txt"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

//go:embed templates/*.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(template.New("export.html.tmpl").Funcs(template.FuncMap{
	"paragraphs": paragraphs,
}).ParseFS(templateFS, "templates/export.html.tmpl"))

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatText, FormatHTML, FormatMarkdown, FormatJSON:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	case "text", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Filename is the suggested attachment name, stamped with the result time.
func Filename(f Format, r *pipeline.TranslationResult) string {
	return "greek_translation_" + r.Timestamp.Format("20060102_150405") + f.Extension()
}

func Render(f Format, r *pipeline.TranslationResult) ([]byte, error) {
	if r == nil {
		return nil, errors.New("no translation to export")
	}

	switch f {
	case FormatText:
		return []byte(r.TranslatedText), nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := htmlTemplate.Execute(&buf, r); err != nil {
			return nil, fmt.Errorf("rendering html: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return renderMarkdown(r), nil
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

func renderMarkdown(r *pipeline.TranslationResult) []byte {
	var b strings.Builder
	b.WriteString("# Ancient Greek Translation\n\n")
	fmt.Fprintf(&b, "- **Model:** %s\n", r.ModelID)
	fmt.Fprintf(&b, "- **Date:** %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Chunks:** %d\n\n", r.ChunkCount)
	b.WriteString("## Original Text\n\n")
	writeFenced(&b, r.OriginalText)
	b.WriteString("\n## Translation\n\n")
	writeFenced(&b, r.TranslatedText)
	return []byte(b.String())
}

// writeFenced uses a fence longer than any backtick run in text.
func writeFenced(b *strings.Builder, text string) {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	b.WriteString(fence + "\n" + text + "\n" + fence + "\n")
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
