package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

// Figure is one image on the page.
type Figure struct {
	Src string
	Alt string
}

// Page is the static HTML page listing every chart.
type Page struct {
	Title   string
	Figures []Figure
}

// DefaultTitle is the title of the generated page.
const DefaultTitle = "R-tree Benchmarks"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
  <head><title>{{.Title}}</title>
  <meta charset="utf-8"/></head>
  <body>
{{- range .Figures}}
    <figure><img src="{{.Src}}" alt="{{.Alt}}"/></figure>
{{- end}}
  </body>
</html>
`))

// WriteHTML renders page to w. Figures appear in the order given.
func WriteHTML(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = DefaultTitle
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// SaveHTML renders page to path, replacing any existing file.
func SaveHTML(path string, page Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteHTML(f, page); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
