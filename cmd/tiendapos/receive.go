package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tiendapos/internal/app"
	"tiendapos/internal/csvexport"
	"tiendapos/internal/domain"
	"tiendapos/internal/service"
)

type receiveOptions struct {
	file      string
	acceptAll bool
	apply     bool
	reportDir string
}

func newReceiveCmd(root *rootOptions) *cobra.Command {
	opts := &receiveOptions{}
	cmd := &cobra.Command{
		Use:   "receive --file <invoice.xml>",
		Short: "Reconcile a supplier invoice against the inventory",
		Long: `Loads the invoice, matches every line against the inventory and prints
the reconciliation. With --apply the reception is finalized and written to
the store. Received quantities default to the invoiced ones unless blind
counting is configured, in which case --accept-all copies them over.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReceive(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "invoice XML file")
	cmd.Flags().BoolVar(&opts.acceptAll, "accept-all", false, "set every received quantity to the invoiced quantity")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "finalize and apply the reception to the inventory")
	cmd.Flags().StringVar(&opts.reportDir, "report", "", "write the reconciliation CSV into this directory")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runReceive(cmd *cobra.Command, root *rootOptions, opts *receiveOptions) error {
	ctx := cmd.Context()
	cfg, log, err := root.load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read invoice: %w", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	svc := a.Reception
	view, err := svc.Start(ctx, service.StartReceptionInput{FileName: filepath.Base(opts.file), Data: data})
	if err != nil {
		return err
	}
	if opts.acceptAll {
		if view, err = svc.AcceptAll(ctx, view.ID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printReception(out, view)

	if opts.reportDir != "" {
		hdr := view.Invoice.Header
		path := filepath.Join(opts.reportDir, csvexport.BuildFilename(hdr.SupplierName, hdr.Folio))
		if err := writeReportFile(path, view); err != nil {
			return err
		}
		fmt.Fprintf(out, "report: %s\n", path)
	}

	if !opts.apply {
		return svc.Cancel(ctx, view.ID)
	}
	if _, err = svc.StartCounting(ctx, view.ID); err != nil {
		return err
	}
	if _, err = svc.Finalize(ctx, view.ID); err != nil {
		return err
	}
	applied, err := svc.Apply(ctx, view.ID)
	if err != nil {
		return err
	}
	printApplyResult(out, applied.Result)
	return nil
}

func printApplyResult(out io.Writer, result *domain.ApplyResult) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tACTION\tSKU\tNAME\tQTY\tSTOCK\tCOST")
	for i := range result.Log {
		e := &result.Log[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, e.Action, e.SKU, e.Name, e.Quantity.String(), e.NewStock.String(), e.Cost.String())
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "applied: %d updated, %d created\n", result.Updated, result.Created)
}

func writeReportFile(path string, view *service.ReceptionView) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return csvexport.WriteReport(f, view.Lines)
}

func printReception(out io.Writer, view *service.ReceptionView) {
	hdr := view.Invoice.Header
	fmt.Fprintf(out, "%s  folio %s  %s  total %s\n", hdr.SupplierName, hdr.Folio, hdr.IssueDate, hdr.GrandTotal.StringFixed(2))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSKU\tNAME\tSTATUS\tINVOICED\tRECEIVED\tCOST\tVAR%")
	for i := range view.Lines {
		l := &view.Lines[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Seq, l.SupplierSKU, l.DisplayName, l.Status,
			l.Quantity.String(), l.ReceivedQty.String(), l.UnitCost.String(), l.VariancePct.StringFixed(1))
	}
	_ = tw.Flush()

	s := view.Summary
	fmt.Fprintf(out, "%d lines: %d existing, %d new; %d ok, %d short, %d over\n",
		s.Lines, s.Existing, s.New, s.OK, s.Shortage, s.Overage)
	if view.Checks != nil {
		for _, f := range view.Checks.Failures {
			fmt.Fprintf(out, "%s: %s\n", f.Severity, f.Message)
		}
	}
}
