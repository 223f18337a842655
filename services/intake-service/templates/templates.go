// Package templates holds the notification bodies sent for every stored submission.
package templates

import (
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed submission.html submission.txt
var files embed.FS

// Submission returns the parsed HTML and plain-text notification templates.
// Both execute against models.SubmissionView.
func Submission() (*htmltemplate.Template, *texttemplate.Template, error) {
	html, err := htmltemplate.ParseFS(files, "submission.html")
	if err != nil {
		return nil, nil, err
	}
	text, err := texttemplate.ParseFS(files, "submission.txt")
	if err != nil {
		return nil, nil, err
	}
	return html, text, nil
}
