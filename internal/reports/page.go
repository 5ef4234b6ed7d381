// Package reports builds the HTML page around the two charts.
package reports

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/filter"
	"tvcharts/internal/loader"
	"tvcharts/internal/render/echarts"
)

//go:embed templates/*.html
var templateFS embed.FS

// Image is a static chart image linked from the page
type Image struct {
	Title string
	Src   string
}

// PageData is the data the page template is executed with
type PageData struct {
	Title       string
	GeneratedAt string
	Version     string
	ScriptURL   string
	// Interactive pages render the filter buttons as forms posting back to the server
	Interactive bool
	Filters     []filter.Filter
	Charts      []echarts.Snippet
	Images      []Image
	Summary     template.HTML
	Notice      string
}

// ErrorData is the data the error page template is executed with
type ErrorData struct {
	Title   string
	Source  string
	Message string
	Version string
}

// PageBuilder renders pages with goldmark and html/template
type PageBuilder struct {
	goldmark goldmark.Markdown
	page     *template.Template
	errPage  *template.Template
	now      func() time.Time
}

// NewPageBuilder parses the embedded templates
func NewPageBuilder() (*PageBuilder, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	page, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	errPage, err := template.ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse error template: %w", err)
	}

	return &PageBuilder{goldmark: md, page: page, errPage: errPage, now: time.Now}, nil
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (p *PageBuilder) ConvertMarkdownToHTML(markdownContent string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// BuildPage renders the dashboard page for the controller state in res.
// res must come from a dashboard.State command so the chart snippets are set.
func (p *PageBuilder) BuildPage(res dashboard.Result, interactive bool, images []Image) ([]byte, error) {
	summary, err := p.ConvertMarkdownToHTML(BuildSummaryMarkdown(res.Status))
	if err != nil {
		return nil, err
	}

	data := PageData{
		Title:       "TV energy consumption",
		GeneratedAt: p.now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:     config.GetVersion(),
		ScriptURL:   echarts.ScriptURL,
		Interactive: interactive,
		Filters:     res.Status.Filters,
		Charts:      res.Snippets,
		Images:      images,
		Summary:     summary,
	}
	if res.Status.Filtered == 0 {
		data.Notice = fmt.Sprintf("No %s records: the histogram keeps showing the previous selection.", filterLabel(res.Status))
	}

	var buf bytes.Buffer
	if err := p.page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildErrorPage renders the page shown when the dataset could not be loaded
func (p *PageBuilder) BuildErrorPage(err error) ([]byte, error) {
	data := ErrorData{
		Title:   "Dataset unavailable",
		Message: err.Error(),
		Version: config.GetVersion(),
	}
	var le *loader.LoadError
	if errors.As(err, &le) {
		data.Source = le.Source
		data.Message = le.Err.Error()
	}

	var buf bytes.Buffer
	if err := p.errPage.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute error template: %w", err)
	}
	return buf.Bytes(), nil
}
