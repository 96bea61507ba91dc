package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tiendapos/internal/domain"
	sheetrepo "tiendapos/internal/repository/sheet"
	"tiendapos/internal/sheet/xlsx"
)

const seedBatchSize = 500

type seedOptions struct {
	workbook string
	sheet    string
	out      string
}

// newSeedCmd converts the inventory worksheet of a workbook into a SQL seed
// for the products table, so a shop can move from the xlsx store to postgres.
func newSeedCmd(root *rootOptions) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a products SQL seed from an inventory workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			if opts.workbook == "" {
				opts.workbook = cfg.Store.WorkbookPath
			}
			if opts.sheet == "" {
				opts.sheet = cfg.Store.InventorySheet
			}

			wb, err := xlsx.Open(opts.workbook)
			if err != nil {
				return err
			}
			records, err := sheetrepo.NewInventoryRepo(wb.Sheet(opts.sheet)).ListRecords(cmd.Context())
			if err != nil {
				return fmt.Errorf("read inventory: %w", err)
			}

			f, err := os.Create(opts.out)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = f.Close() }()

			if err := writeSeed(f, records); err != nil {
				return err
			}
			log.Infof("seed: wrote %d products to %s", len(records), opts.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.workbook, "workbook", "", "workbook path (defaults to the configured store)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "inventory worksheet name (defaults to the configured one)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "db/seeds/products.sql", "output SQL file")
	return cmd
}

// writeSeed writes batched multi-row INSERTs wrapped in one transaction.
func writeSeed(out io.Writer, records []domain.InventoryRecord) error {
	header := []string{
		"-- Product seed data generated from the inventory workbook.",
		fmt.Sprintf("-- %d products in batches of %d.", len(records), seedBatchSize),
		"BEGIN;",
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := 0; i < len(records); i += seedBatchSize {
		end := i + seedBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := writeSeedBatch(out, records[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	if _, err := fmt.Fprintln(out, "\nCOMMIT;"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

func writeSeedBatch(out io.Writer, batch []domain.InventoryRecord) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO products (product_id, name, price, stock, cost, supplier_sku) VALUES\n")
	for i := range batch {
		r := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		price := "NULL"
		if r.Price != nil {
			price = r.Price.String()
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %s, %s, %s, '%s')",
			escapeSQL(r.ProductID), escapeSQL(r.Name), price, r.Stock.String(), r.Cost.String(), escapeSQL(r.SupplierSKU))
	}
	b.WriteString(";\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
