package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattborgard/reimburse-parser/internal/printer"
)

func newPrintersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List the CUPS printers available for --printer",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := printer.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no printers found")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}
