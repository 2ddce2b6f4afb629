package service

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"

	"brickvault/listsync"
	"brickvault/models"
	"brickvault/session"
	"brickvault/utils"
)

// Page is the data every layout render receives
type Page struct {
	Title    string
	Path     string // request URI, used for retry links and redirects back
	Auth     session.Auth
	Flashes  []session.Flash
	Currency string
	Data     any
}

// RenderService parses the embedded templates once and renders pages
type RenderService struct {
	pages  map[string]*template.Template
	export *template.Template
}

// NewRenderService parses the layout and partials, then one clone per page
// under pages/. Page names are file names without extension.
func NewRenderService(fsys fs.FS) (*RenderService, error) {
	base, err := template.New("layout").Funcs(TemplateFuncs()).ParseFS(fsys, "layout.html", "partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", file, err)
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = clone
	}

	export, err := template.New("export.html").Funcs(TemplateFuncs()).ParseFS(fsys, "export.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse export template: %w", err)
	}

	return &RenderService{pages: pages, export: export}, nil
}

// Has reports whether a page with the given name exists
func (s *RenderService) Has(name string) bool {
	_, ok := s.pages[name]
	return ok
}

// Render executes the named page inside the layout. Output is buffered so a
// failing template never produces a half-written response.
func (s *RenderService) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := s.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to execute page %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderExport executes the standalone printable sheet
func (s *RenderService) RenderExport(data ExportSheet) (string, error) {
	var buf bytes.Buffer
	if err := s.export.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute export template: %w", err)
	}
	return buf.String(), nil
}

// TemplateFuncs returns the helpers available to every template
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatPrice":   utils.FormatPrice,
		"formatCount":   utils.FormatCount,
		"add":           func(a, b int) int { return a + b },
		"sub":           func(a, b int) int { return a - b },
		"pageRange":     pageRange,
		"withParam":     withParam,
		"query":         queryOf,
		"pager":         pagerData,
		"itoa":          strconv.Itoa,
		"unconstrained": listsync.Unconstrained,
	}
}

// pageRange returns the page numbers to link around current, at most
// five of them, clamped to [1, total].
func pageRange(current, total int) []int {
	if total < 1 {
		return nil
	}
	start := max(current-2, 1)
	end := min(start+4, total)
	start = max(end-4, 1)
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// withParam returns base with key set to value, keeping other parameters
func withParam(base url.Values, key string, value any) string {
	q := url.Values{}
	for k, v := range base {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, fmt.Sprint(value))
	return "?" + q.Encode()
}

// queryOf builds query values from key/value pairs, skipping empty values
func queryOf(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

// pagerData bundles the arguments of the pager partial
func pagerData(p models.Pagination, base url.Values) map[string]any {
	return map[string]any{"Pagination": p, "Base": base}
}
