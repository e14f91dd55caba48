package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/ingest"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/render"
	"github.com/jonathan/resume-tailor/internal/store"
	"github.com/jonathan/resume-tailor/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job posting",
	Long: `Runs the full tailoring pipeline: analyze the job posting, plan an
optimization strategy, rewrite the resume, then review the result. The job
posting can come from a text file (--job) or a URL (--job-url).`,
	RunE: runTailor,
}

var (
	tailorResume       string
	tailorJob          string
	tailorJobURL       string
	tailorIndustry     string
	tailorOut          string
	tailorPDF          string
	tailorTemplate     string
	tailorKeepOriginal bool
	tailorAPIKey       string
	tailorDatabaseURL  string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorResume, "resume", "r", "", "Path to resume JSON file (required)")
	tailorCmd.Flags().StringVar(&tailorJob, "job", "", "Path to job posting text file (mutually exclusive with --job-url)")
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	tailorCmd.Flags().StringVarP(&tailorIndustry, "industry", "i", "", "Industry hint, e.g. software-engineering (default: general)")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Path for the tailored resume JSON (default: stdout)")
	tailorCmd.Flags().StringVar(&tailorPDF, "pdf", "", "Also render the tailored resume to this PDF path (requires Chrome)")
	tailorCmd.Flags().StringVarP(&tailorTemplate, "template", "t", render.TemplateModern,
		fmt.Sprintf("Resume template for PDF output: %s", strings.Join(render.TemplateNames(), ", ")))
	tailorCmd.Flags().BoolVar(&tailorKeepOriginal, "keep-original-on-failure", false,
		"Write the untouched original resume to --out when the pipeline fails")
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
	tailorCmd.Flags().StringVar(&tailorDatabaseURL, "db-url", "", "PostgreSQL URL for artifact persistence (defaults to DATABASE_URL env var)")

	_ = tailorCmd.MarkFlagRequired("resume")
	tailorCmd.MarkFlagsMutuallyExclusive("job", "job-url")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	apiKey := tailorAPIKey
	if apiKey == "" {
		apiKey = viper.GetString("api-key")
	}
	if apiKey == "" {
		return fmt.Errorf("a Gemini API key is required (--api-key or GEMINI_API_KEY)")
	}

	resume, err := ingest.LoadResume(tailorResume)
	if err != nil {
		return err
	}

	var jobText string
	switch {
	case tailorJob != "":
		jobText, err = ingest.JobFromFile(tailorJob)
	case tailorJobURL != "":
		jobText, err = ingest.JobFromURL(ctx, tailorJobURL, nil)
	default:
		return fmt.Errorf("either --job or --job-url is required")
	}
	if err != nil {
		return err
	}

	caller, err := llm.NewCaller(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = caller.Close() }()

	var artifactStore pipeline.ArtifactStore
	dbURL := tailorDatabaseURL
	if dbURL == "" {
		dbURL = viper.GetString("db-url")
	}
	if dbURL != "" {
		st, err := store.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
		artifactStore = st
	}

	input := types.PipelineInput{
		Resume:         *resume,
		JobDescription: jobText,
		Industry:       tailorIndustry,
	}

	result, err := pipeline.Run(ctx, input, pipeline.Options{
		Caller: caller,
		Store:  artifactStore,
		Logger: log,
		OnProgress: func(event types.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", event.Percentage, event.Message)
		},
	})
	if err != nil {
		if tailorKeepOriginal {
			log.Warn("pipeline failed, keeping original resume", zap.Error(err))
			return writeTailoredOutput(resume)
		}
		return err
	}

	if err := writeTailoredOutput(result); err != nil {
		return err
	}

	if tailorPDF != "" {
		html, err := render.BuildHTML(result, tailorTemplate)
		if err != nil {
			return err
		}
		pdf, err := render.ToPDF(ctx, html)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tailorPDF, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		log.Info("wrote PDF", zap.String("path", tailorPDF))
	}

	return nil
}

// writeTailoredOutput serializes the record to --out, or stdout when unset.
func writeTailoredOutput(record *types.ResumeRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize resume: %w", err)
	}
	data = append(data, '\n')

	if tailorOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(tailorOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
