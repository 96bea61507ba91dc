package parser

// Policy is the treatment a field receives when it is missing or malformed.
type Policy string

const (
	PolicyPlaceholder Policy = "placeholder"
	PolicyZero        Policy = "zero"
	PolicyDerive      Policy = "derive"
	PolicyDropLine    Policy = "drop_line"
	PolicyEmpty       Policy = "empty"
	PolicyGeneric     Policy = "generic"
	PolicyNone        Policy = "n/a"
)

// Field names used in FieldPolicies and in domain.SkippedLine.Field.
const (
	FieldSupplierName = "supplier_name"
	FieldFolio        = "folio"
	FieldIssueDate    = "issue_date"
	FieldSubtotal     = "subtotal"
	FieldPayable      = "payable_total"
	FieldTaxTotal     = "tax_total"
	FieldQuantity     = "line.quantity"
	FieldUnitPrice    = "line.unit_price"
	FieldLineSubtotal = "line.subtotal"
	FieldLineTax      = "line.tax_amount"
	FieldDescription  = "line.description"
	FieldSKU          = "line.sku"
)

// FieldPolicy describes how one extracted field degrades.
type FieldPolicy struct {
	Field     string
	Missing   Policy
	Malformed Policy
	// Default is the placeholder text for PolicyPlaceholder fields.
	Default string
}

// FieldPolicies is the tolerant-parsing boundary. Anything not listed here
// as drop_line is absorbed; nothing in it aborts the parse.
var FieldPolicies = map[string]FieldPolicy{
	FieldSupplierName: {Field: FieldSupplierName, Missing: PolicyPlaceholder, Malformed: PolicyNone, Default: "Unknown Supplier"},
	FieldFolio:        {Field: FieldFolio, Missing: PolicyPlaceholder, Malformed: PolicyNone, Default: "Unknown Folio"},
	FieldIssueDate:    {Field: FieldIssueDate, Missing: PolicyPlaceholder, Malformed: PolicyNone, Default: "Unknown Date"},
	FieldSubtotal:     {Field: FieldSubtotal, Missing: PolicyZero, Malformed: PolicyZero},
	FieldPayable:      {Field: FieldPayable, Missing: PolicyZero, Malformed: PolicyZero},
	FieldTaxTotal:     {Field: FieldTaxTotal, Missing: PolicyDerive, Malformed: PolicyDerive},
	FieldQuantity:     {Field: FieldQuantity, Missing: PolicyDropLine, Malformed: PolicyDropLine},
	FieldUnitPrice:    {Field: FieldUnitPrice, Missing: PolicyDropLine, Malformed: PolicyDropLine},
	FieldLineSubtotal: {Field: FieldLineSubtotal, Missing: PolicyDropLine, Malformed: PolicyDropLine},
	FieldLineTax:      {Field: FieldLineTax, Missing: PolicyZero, Malformed: PolicyZero},
	FieldDescription:  {Field: FieldDescription, Missing: PolicyEmpty, Malformed: PolicyNone},
	FieldSKU:          {Field: FieldSKU, Missing: PolicyGeneric, Malformed: PolicyNone},
}
