package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingest"
	"github.com/jonathan/resume-tailor/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to HTML or PDF",
	Long: `Renders a structured resume (typically the output of the tailor
command) with one of the bundled templates. Output format follows the file
extension of --out: .html writes the document directly, .pdf renders it
through headless Chrome.`,
	RunE: runRender,
}

var (
	renderResume   string
	renderOut      string
	renderTemplate string
)

func init() {
	renderCmd.Flags().StringVarP(&renderResume, "resume", "r", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "resume.pdf", "Output path, .html or .pdf")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", render.TemplateModern,
		fmt.Sprintf("Resume template: %s", strings.Join(render.TemplateNames(), ", ")))

	_ = renderCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	record, err := ingest.LoadResume(renderResume)
	if err != nil {
		return err
	}

	html, err := render.BuildHTML(record, renderTemplate)
	if err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(renderOut), ".html") {
		if err := os.WriteFile(renderOut, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", renderOut)
		return nil
	}

	pdf, err := render.ToPDF(ctx, html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", renderOut)
	return nil
}
