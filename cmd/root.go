package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/pipeline"
	"github.com/mattborgard/reimburse-parser/internal/review"
)

var (
	configPath string
	dryRun     bool
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reimburse-parser",
		Short: "PTA reimbursement form parser with OCR and spreadsheet filing",
		Long: `reimburse-parser turns emailed PTA reimbursement forms into tracked
spreadsheet rows.

It OCRs the attached form, extracts the request fields, walks you through
an interactive review, then appends the finalized row to the treasurer's
sheet and archives the paperwork in Drive.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "parse and review but write nothing")

	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newProcessFolderCmd())
	cmd.AddCommand(newGmailCmd())
	cmd.AddCommand(newPrintersCmd())

	return cmd
}

// loadConfig reads the configured YAML file, or falls back to the stock
// defaults when no path is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newProcessor(opts pipeline.Options) (*pipeline.Processor, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts.DryRun = dryRun
	prompter := review.NewConsolePrompter(os.Stdin, os.Stdout)
	return pipeline.New(cfg, prompter, opts)
}
