package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/teacherlee/internal/assets"
	"github.com/at-ishikawa/teacherlee/internal/pdf"
	"github.com/at-ishikawa/teacherlee/internal/statistics"
)

type ReportFormat string

func (f *ReportFormat) Set(val string) error {
	for _, format := range allReportFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid report format: %s", val)
}

func (f ReportFormat) String() string {
	return string(f)
}

func (f *ReportFormat) Type() string {
	return "ReportFormat"
}

const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatPDF      ReportFormat = "pdf"
)

var (
	_                pflag.Value = (*ReportFormat)(nil)
	allReportFormats             = []ReportFormat{ReportFormatMarkdown, ReportFormatPDF}
)

func newReportCommand() *cobra.Command {
	format := ReportFormatMarkdown
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the weekly learning report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				now := time.Now()
				report := statistics.CalculateWeeklyReport(session.store.LearningState(cmd.Context()), now)

				var markdown bytes.Buffer
				if err := assets.WriteWeeklyReport(&markdown, session.cfg.Report.Template, report); err != nil {
					return fmt.Errorf("assets.WriteWeeklyReport() > %w", err)
				}

				switch format {
				case ReportFormatPDF:
					if output == "" {
						output = filepath.Join(session.cfg.Report.OutputDirectory, reportFileName(now, ".pdf"))
					}
					path, err := pdf.WriteMarkdownAsPDF(markdown.Bytes(), output)
					if err != nil {
						return fmt.Errorf("pdf.WriteMarkdownAsPDF() > %w", err)
					}
					_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "PDF created: %s\n", path)
				default:
					if output == "" {
						_, err := cmd.OutOrStdout().Write(markdown.Bytes())
						return err
					}
					if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
						return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(output), err)
					}
					if err := os.WriteFile(output, markdown.Bytes(), 0644); err != nil {
						return fmt.Errorf("os.WriteFile(%s) > %w", output, err)
					}
					_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Report written: %s\n", output)
				}

				if len(report.LowProgressSubjects) > 0 {
					_, _ = color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "%d subject(s) below %d%% of the weekly goal\n",
						len(report.LowProgressSubjects), statistics.LowProgressPercent)
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Var(&format, "format", fmt.Sprintf("Output format. Possible values are %v", allReportFormats))
	flags.StringVarP(&output, "output", "o", "", "Output file. Markdown goes to stdout and PDF to the report output directory by default")
	return cmd
}

func reportFileName(now time.Time, ext string) string {
	return "weekly-report-" + now.Format("2006-01-02") + ext
}
