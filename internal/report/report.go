package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/vbonduro/filmlog/internal/domain"
)

//go:embed templates/report.html
var templatesFS embed.FS

var reportTmpl = template.Must(template.New("report.html").
	Funcs(template.FuncMap{"cellText": cellText}).
	ParseFS(templatesFS, "templates/report.html"))

// DefaultTitle is used when the source database has no title.
const DefaultTitle = "Film log"

// Document is everything that goes into one report.
type Document struct {
	Title      string
	Shots      []domain.Shot
	FilmChart  []byte
	BrandChart []byte
}

type cell struct {
	Text   string
	Absent bool
}

type view struct {
	Title      string
	Columns    []domain.Field
	Rows       [][]cell
	FilmChart  template.URL
	BrandChart template.URL
}

// Render builds the self-contained HTML report: the shot table followed by the
// film chart and then the brand chart, both inlined as PNG data URIs.
func Render(doc Document) ([]byte, error) {
	v := view{
		Title:      doc.Title,
		Columns:    domain.Columns,
		Rows:       make([][]cell, 0, len(doc.Shots)),
		FilmChart:  dataURI(doc.FilmChart),
		BrandChart: dataURI(doc.BrandChart),
	}
	if v.Title == "" {
		v.Title = DefaultTitle
	}

	for _, shot := range doc.Shots {
		row := make([]cell, 0, len(domain.Columns))
		for _, col := range domain.Columns {
			text, ok := shot.Value(col)
			row = append(row, cell{Text: text, Absent: !ok})
		}
		v.Rows = append(v.Rows, row)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// cellText escapes a table value. Carriage returns are written as character
// references because HTML parsers fold a raw CR or CRLF into LF. NUL has no
// HTML representation and becomes U+FFFD.
func cellText(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\r", "&#13;"))
}

// dataURI wraps PNG bytes so html/template keeps the data: scheme in src.
func dataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
