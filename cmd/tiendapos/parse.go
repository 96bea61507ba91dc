package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tiendapos/internal/domain"
	"tiendapos/internal/logger"
	"tiendapos/internal/parser"
	"tiendapos/internal/validator"
)

type parseOutput struct {
	Invoice *domain.ParsedInvoice `json:"invoice"`
	Checks  *validator.Report     `json:"checks"`
}

func newParseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <invoice.xml>",
		Short: "Parse an electronic invoice and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read invoice: %w", err)
			}
			inv, err := parser.Parse(data)
			if err != nil {
				return err
			}

			log := logger.Discard()
			if root.verbose {
				if _, l, lerr := root.load(); lerr == nil {
					log = l
				}
			}
			report := validator.NewEngine(validator.DefaultRegistry(), log).Run(cmd.Context(), inv)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(parseOutput{Invoice: inv, Checks: report})
		},
	}
}
