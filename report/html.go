package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/medibot/medibot/session"
)

// HTMLFileName returns the HTML export filename for a report id.
func HTMLFileName(reportID string) string {
	return "medical-report-" + reportID + ".html"
}

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Medical Consultation Report {{.ReportID}}</title>
<style>
body { font-family: Georgia, serif; max-width: 44rem; margin: 2rem auto; padding: 0 1rem; color: #1f2933; }
header { border-bottom: 2px solid #1f2933; padding-bottom: 0.5rem; margin-bottom: 1.5rem; }
h1 { font-size: 1.4rem; margin: 0; }
.meta { color: #52606d; font-size: 0.9rem; margin-top: 0.25rem; }
blockquote { border-left: 3px solid #9aa5b1; margin: 0; padding-left: 1rem; color: #3e4c59; }
footer { margin-top: 2rem; border-top: 1px solid #cbd2d9; padding-top: 0.75rem; font-size: 0.8rem; color: #616e7c; }
</style>
</head>
<body>
<header>
<h1>Medical Consultation Report</h1>
<div class="meta">Report {{.ReportID}} &middot; {{.Generated}}</div>
</header>
<h2>Patient Question</h2>
<blockquote>{{.Query}}</blockquote>
<h2>Assistant Response</h2>
{{.Response}}
<footer>{{.Disclaimer}}</footer>
</body>
</html>
`))

var htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// BuildHTML renders the report as a standalone HTML document. The response
// body is treated as Markdown, so emphasis and lists survive in the export.
func BuildHTML(e session.Entry) ([]byte, error) {
	var body bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(e.Response), &body); err != nil {
		return nil, fmt.Errorf("render response markdown: %w", err)
	}

	var out bytes.Buffer
	err := htmlPage.Execute(&out, struct {
		ReportID   string
		Generated  string
		Query      string
		Response   template.HTML
		Disclaimer string
	}{
		ReportID:   e.ReportID,
		Generated:  e.Timestamp.Format(timestampLayout),
		Query:      e.Query,
		Response:   template.HTML(body.String()),
		Disclaimer: Disclaimer,
	})
	if err != nil {
		return nil, fmt.Errorf("render report page: %w", err)
	}
	return out.Bytes(), nil
}

// ExportHTML writes the HTML report into dir and returns the written path.
func ExportHTML(e session.Entry, dir string) (string, error) {
	content, err := BuildHTML(e)
	if err != nil {
		return "", err
	}
	return writeReport(dir, HTMLFileName(e.ReportID), content)
}
