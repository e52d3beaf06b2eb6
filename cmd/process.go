package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattborgard/reimburse-parser/internal/pipeline"
)

func newProcessCmd() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "process <file.eml>",
		Short: "Process one saved reimbursement email",
		Long: `Parses a saved .eml file, OCRs its attachments, and opens the
interactive review. A finalized record is appended to the spreadsheet and
its paperwork archived; --dry-run stops short of the writes.`,
		Example: `  # Review a saved email end to end
  reimburse-parser process request.eml --config config.yaml

  # See what would be extracted without touching the sheet
  reimburse-parser process request.eml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProcessor(opts)
			if err != nil {
				return err
			}
			return p.ProcessEML(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "print archived documents after filing")
	cmd.Flags().StringVar(&opts.PrinterName, "printer", "", "CUPS printer name (default destination if empty)")

	return cmd
}

func newProcessFolderCmd() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "process-folder <dir>",
		Short: "Process every .eml file in a directory",
		Long: `Runs each .eml file in the directory through the pipeline in name
order. A failing file is logged and skipped; the batch continues and ends
with a summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProcessor(opts)
			if err != nil {
				return err
			}
			return p.ProcessFolder(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "print archived documents after filing")
	cmd.Flags().StringVar(&opts.PrinterName, "printer", "", "CUPS printer name (default destination if empty)")

	return cmd
}
