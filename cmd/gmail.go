package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattborgard/reimburse-parser/internal/gmail"
	"github.com/mattborgard/reimburse-parser/internal/pipeline"
)

func newGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "List and process reimbursement emails straight from Gmail",
	}
	cmd.AddCommand(newGmailListCmd())
	cmd.AddCommand(newGmailProcessCmd())
	return cmd
}

func newGmailListCmd() *cobra.Command {
	var (
		query string
		max   int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidate messages with their ids",
		Example: `  # Recent messages with attachments from the form address
  reimburse-parser gmail list --query "has:attachment reimbursement" --max 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := gmail.New(cmd.Context(), cfg.Gmail)
			if err != nil {
				return err
			}
			msgs, err := client.List(cmd.Context(), query, max)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tFROM\tSUBJECT")
			for _, m := range msgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					m.ID, m.Date.Format("2006-01-02"), m.SenderEmail, m.Subject)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "has:attachment", "Gmail search query")
	cmd.Flags().Int64Var(&max, "max", 10, "maximum messages to list")

	return cmd
}

func newGmailProcessCmd() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "process <message-id>",
		Short: "Fetch one message by id and run it through the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProcessor(opts)
			if err != nil {
				return err
			}
			return p.ProcessMessage(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "print archived documents after filing")
	cmd.Flags().StringVar(&opts.PrinterName, "printer", "", "CUPS printer name (default destination if empty)")

	return cmd
}
