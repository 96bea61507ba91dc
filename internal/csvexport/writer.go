package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
	"tiendapos/internal/reconcile"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the reconciliation report header row.
var columns = []string{
	"Seq",
	"SKU_Proveedor",
	"Nombre",
	"Estado",
	"Facturado",
	"Recibido",
	"Diferencia",
	"Discrepancia",
	"Costo_Unitario",
	"Costo_Anterior",
	"Variacion_Pct",
}

// Writer wraps csv.Writer for exporting reconciled lines as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteLines converts reconciled lines to CSV rows and writes them.
func (w *Writer) WriteLines(lines []domain.ReconciledLine) error {
	for i := range lines {
		if err := w.csv.Write(lineToRow(&lines[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteReport writes BOM, header and every line, then flushes.
func WriteReport(out io.Writer, lines []domain.ReconciledLine) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteLines(lines); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func lineToRow(l *domain.ReconciledLine) []string {
	return []string{
		strconv.Itoa(l.Seq),
		l.SupplierSKU,
		l.DisplayName,
		string(l.Status),
		l.Quantity.String(),
		l.ReceivedQty.String(),
		reconcile.Diff(l).String(),
		string(reconcile.Classify(l)),
		formatMoney(l.UnitCost),
		formatMoney(l.PreviousCost),
		l.VariancePct.StringFixed(2),
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces anything outside [a-zA-Z0-9_-] with _, collapses
// runs of underscores and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: recepcion_{supplier}_{folio}_{YYYY-MM-DD}.csv
func BuildFilename(supplier, folio string) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("recepcion_%s_%s_%s.csv", SanitizeFilename(supplier), SanitizeFilename(folio), date)
}
