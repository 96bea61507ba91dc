package domain

// Inventory store columns, matched by exact header name.
const (
	ColProductID   = "ID_Producto"
	ColName        = "Nombre"
	ColPrice       = "Precio"
	ColStock       = "Stock"
	ColCost        = "Costo"
	ColSupplierSKU = "SKU_Proveedor"
)

// InventoryColumns is the canonical header order of the inventory sheet.
var InventoryColumns = []string{ColProductID, ColName, ColPrice, ColStock, ColCost, ColSupplierSKU}

// RequiredInventoryColumns must be present before any inventory write.
var RequiredInventoryColumns = []string{ColStock, ColCost, ColSupplierSKU}

// Sales log columns.
const (
	ColSaleID   = "ID_Venta"
	ColDate     = "Fecha"
	ColCustomer = "Cliente"
	ColTotal    = "Total"
	ColDetail   = "Detalle"
)

// SalesColumns is the header order of the sales sheet.
var SalesColumns = []string{ColSaleID, ColDate, ColCustomer, ColTotal, ColDetail}

// Purchases log columns.
const (
	ColPurchaseID = "ID_Compra"
	ColSupplier   = "Proveedor"
	ColFolio      = "Folio"
	ColSubtotal   = "Subtotal"
	ColTaxes      = "Impuestos"
	ColLines      = "Lineas"
)

// PurchaseColumns is the header order of the purchases sheet.
var PurchaseColumns = []string{ColPurchaseID, ColDate, ColSupplier, ColFolio, ColSubtotal, ColTaxes, ColTotal, ColLines}

// GenericSKU is assigned to invoice lines that carry no item identifier.
const GenericSKU = "GENERIC"

// ReceptionState is a stage of the invoice reception workflow.
type ReceptionState string

const (
	ReceptionLoaded    ReceptionState = "loaded"
	ReceptionCounting  ReceptionState = "counting"
	ReceptionFinalized ReceptionState = "finalized"
	ReceptionApplied   ReceptionState = "applied"
	ReceptionCancelled ReceptionState = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s ReceptionState) IsTerminal() bool {
	return s == ReceptionApplied || s == ReceptionCancelled
}

// AllowedContentTypes lists the upload content types accepted for invoices.
var AllowedContentTypes = map[string]bool{
	"application/xml": true,
	"text/xml":        true,
}
