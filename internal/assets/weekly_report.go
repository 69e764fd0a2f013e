package assets

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/at-ishikawa/teacherlee/internal/statistics"
)

const weeklyReportTemplateName = "weekly-report.md.go.tmpl"

//go:embed templates/weekly-report.md.go.tmpl
var fallbackWeeklyReportTemplate string

var weeklyReportFuncs = template.FuncMap{
	"goalTitles": func(goals []statistics.SubjectGoal) string {
		titles := make([]string, 0, len(goals))
		for _, g := range goals {
			titles = append(titles, g.Subject.Title)
		}
		return strings.Join(titles, ", ")
	},
	"lowProgressPercent": func() int {
		return statistics.LowProgressPercent
	},
}

// ParseWeeklyReportTemplate parses the template at templatePath, falling back to the
// embedded one when the path is empty, missing or invalid.
func ParseWeeklyReportTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, weeklyReportTemplateName, fallbackWeeklyReportTemplate, weeklyReportFuncs)
}

func WriteWeeklyReport(output io.Writer, templatePath string, report statistics.WeeklyReport) error {
	tmpl, err := ParseWeeklyReportTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseWeeklyReportTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, report); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
