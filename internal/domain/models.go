package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceHeader holds the document-level fields of a supplier invoice.
type InvoiceHeader struct {
	SupplierName string          `json:"supplier_name"`
	Folio        string          `json:"folio"`
	IssueDate    string          `json:"issue_date"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// InvoiceLine is a single purchased item as it appears on the invoice.
type InvoiceLine struct {
	Seq         int             `json:"seq"`
	SupplierSKU string          `json:"supplier_sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// SkippedLine records an invoice line that could not be extracted.
type SkippedLine struct {
	Seq    int    `json:"seq"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ParsedInvoice is the result of decoding one electronic invoice document.
type ParsedInvoice struct {
	Header  InvoiceHeader `json:"header"`
	Lines   []InvoiceLine `json:"lines"`
	Skipped []SkippedLine `json:"skipped,omitempty"`
	// Wrapped is true when the invoice was embedded in an AttachedDocument envelope.
	Wrapped bool `json:"wrapped"`
}

// InventoryRecord is one product row read from the inventory store.
type InventoryRecord struct {
	// RowKey locates the record in its store (sheet row number or table key).
	RowKey      string           `json:"row_key"`
	ProductID   string           `json:"product_id"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       decimal.Decimal  `json:"stock"`
	Cost        decimal.Decimal  `json:"cost"`
	SupplierSKU string           `json:"supplier_sku"`
}

// LineStatus tells whether an invoice line matched an existing product.
type LineStatus string

const (
	LineStatusExisting LineStatus = "EXISTING"
	LineStatusNew      LineStatus = "NEW"
)

// Discrepancy classifies received against invoiced quantity.
type Discrepancy string

const (
	DiscrepancyOK       Discrepancy = "OK"
	DiscrepancyShortage Discrepancy = "SHORTAGE"
	DiscrepancyOverage  Discrepancy = "OVERAGE"
)

// ReconciledLine is an invoice line joined against the inventory snapshot.
type ReconciledLine struct {
	InvoiceLine
	Match        *InventoryRecord `json:"match,omitempty"`
	Status       LineStatus       `json:"status"`
	DisplayName  string           `json:"display_name"`
	PreviousCost decimal.Decimal  `json:"previous_cost"`
	VariancePct  decimal.Decimal  `json:"variance_pct"`
	ReceivedQty  decimal.Decimal  `json:"received_qty"`
}

// ApplyAction tags an entry of the apply log.
type ApplyAction string

const (
	ApplyActionUpdated ApplyAction = "updated"
	ApplyActionNew     ApplyAction = "new"
)

// ApplyLogEntry describes one mutation emitted by the inventory applier.
type ApplyLogEntry struct {
	Action   ApplyAction     `json:"action"`
	Seq      int             `json:"seq"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	NewStock decimal.Decimal `json:"new_stock"`
	Cost     decimal.Decimal `json:"cost"`
}

// ApplyResult summarizes an inventory apply.
type ApplyResult struct {
	Updated int             `json:"updated"`
	Created int             `json:"created"`
	Log     []ApplyLogEntry `json:"log"`
}

// FieldUpdate is a targeted change to one stored record.
type FieldUpdate struct {
	RowKey string
	Fields map[string]string
}

// CartItem is one product line of a sale.
type CartItem struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleItem is a priced cart line.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Sale is a completed point-of-sale transaction.
type Sale struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	CustomerRef string          `json:"customer_ref"`
	Items       []SaleItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Summary     string          `json:"summary"`
}

// Purchase is the log entry written after a received invoice is applied.
type Purchase struct {
	ID           string          `json:"id"`
	ReceivedAt   time.Time       `json:"received_at"`
	SupplierName string          `json:"supplier_name"`
	Folio        string          `json:"folio"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"tax_total"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	LineCount    int             `json:"line_count"`
}

// ReceptionSession is the persisted form of one reception workflow.
type ReceptionSession struct {
	ID         string           `json:"id"`
	State      ReceptionState   `json:"state"`
	Invoice    ParsedInvoice    `json:"invoice"`
	Lines      []ReconciledLine `json:"lines"`
	ArchiveKey string           `json:"archive_key,omitempty"`
	Result     *ApplyResult     `json:"result,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
