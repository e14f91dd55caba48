// Package main provides the resume_tailor CLI: tailor a resume to a job
// posting, render it to PDF, or serve the REST API.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-tailor/internal/logger"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "resume_tailor",
	Short: "AI-assisted resume tailoring",
	Long:  "resume_tailor rewrites a structured resume for a specific job posting using a staged model pipeline, then renders it to HTML or PDF.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}

	if err := viper.BindEnv("api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("db-url", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}
	if err := viper.BindEnv("jwt-secret", "JWT_SECRET"); err != nil {
		log.Fatalf("binding JWT_SECRET environment variable: %v", err)
	}
}

// newLogger builds the process logger from the persistent flags.
func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}
