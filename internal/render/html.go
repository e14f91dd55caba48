// Package render turns a tailored resume record into an HTML document and,
// via headless Chrome, an A4 PDF.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names accepted by BuildHTML.
const (
	TemplateModern  = "modern"
	TemplateClassic = "classic"
)

// TemplateNames lists the bundled resume templates.
func TemplateNames() []string {
	return []string{TemplateModern, TemplateClassic}
}

// BuildHTML renders the resume record with the named bundled template.
func BuildHTML(record *types.ResumeRecord, templateName string) (string, error) {
	if templateName == "" {
		templateName = TemplateModern
	}

	tmpl, err := template.New(templateName+".html").Funcs(template.FuncMap{
		"join": strings.Join,
		"dateRange": func(start, end string) string {
			switch {
			case start == "" && end == "":
				return ""
			case end == "":
				return start + " - Present"
			case start == "":
				return end
			default:
				return start + " - " + end
			}
		},
	}).ParseFS(templateFS, "templates/"+templateName+".html")
	if err != nil {
		return "", &TemplateError{
			Message: fmt.Sprintf("unknown template %q", templateName),
			Cause:   err,
		}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, record); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}
