package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
	"tiendapos/internal/parser"
)

// Amounts on supplier invoices are rounded per line; a peso of drift is normal.
var mathTolerance = decimal.NewFromInt(1)

// builtin wraps a check function and its metadata.
type builtin struct {
	key      string
	name     string
	ruleType RuleType
	sev      Severity
	fn       func(*domain.ParsedInvoice) []Result
}

func (b *builtin) Validate(_ context.Context, inv *domain.ParsedInvoice) []Result {
	return b.fn(inv)
}
func (b *builtin) RuleKey() string    { return b.key }
func (b *builtin) RuleName() string   { return b.name }
func (b *builtin) RuleType() RuleType { return b.ruleType }
func (b *builtin) Severity() Severity { return b.sev }

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mathResult(passed bool, field string, expected, actual decimal.Decimal, name string) Result {
	msg := fmt.Sprintf("%s: %s matches", name, field)
	if !passed {
		msg = fmt.Sprintf("%s: %s mismatch (expected %s, got %s)", name, field, expected.StringFixed(2), actual.StringFixed(2))
	}
	return Result{
		Passed: passed, Field: field,
		Expected: expected.StringFixed(2), Actual: actual.StringFixed(2), Message: msg,
	}
}

func placeholderResult(field, value, name string) Result {
	def := parser.FieldPolicies[field].Default
	if value == def {
		return Result{Field: field, Actual: value, Message: fmt.Sprintf("%s: %s missing from document", name, field)}
	}
	return Result{Passed: true, Field: field, Actual: value}
}

// BuiltinValidators returns every built-in invoice check.
func BuiltinValidators() []Validator {
	return []Validator{
		&builtin{
			key: "required.supplier_name", name: "Required: Supplier",
			ruleType: RuleTypeRequired, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				return []Result{placeholderResult(parser.FieldSupplierName, inv.Header.SupplierName, "Required: Supplier")}
			},
		},
		&builtin{
			key: "required.folio", name: "Required: Folio",
			ruleType: RuleTypeRequired, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				return []Result{placeholderResult(parser.FieldFolio, inv.Header.Folio, "Required: Folio")}
			},
		},
		&builtin{
			key: "format.issue_date", name: "Format: Issue Date",
			ruleType: RuleTypeFormat, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				raw := inv.Header.IssueDate
				if raw == parser.FieldPolicies[parser.FieldIssueDate].Default {
					return []Result{{Field: parser.FieldIssueDate, Actual: raw, Message: "Format: Issue Date: issue_date missing from document"}}
				}
				if _, err := time.Parse("2006-01-02", raw); err != nil {
					return []Result{{Field: parser.FieldIssueDate, Expected: "YYYY-MM-DD", Actual: raw, Message: fmt.Sprintf("Format: Issue Date: %q is not a calendar date", raw)}}
				}
				return []Result{{Passed: true, Field: parser.FieldIssueDate, Actual: raw}}
			},
		},
		&builtin{
			key: "logical.has_lines", name: "Logical: Has Lines",
			ruleType: RuleTypeLogical, sev: SeverityError,
			fn: func(inv *domain.ParsedInvoice) []Result {
				if len(inv.Lines) == 0 {
					return []Result{{Field: "lines", Actual: "0", Message: "Logical: Has Lines: no usable invoice lines"}}
				}
				return []Result{{Passed: true, Field: "lines"}}
			},
		},
		&builtin{
			key: "logical.skipped_lines", name: "Logical: Skipped Lines",
			ruleType: RuleTypeLogical, sev: SeverityError,
			fn: func(inv *domain.ParsedInvoice) []Result {
				results := make([]Result, 0, len(inv.Skipped))
				for _, s := range inv.Skipped {
					results = append(results, Result{
						Field:   fmt.Sprintf("lines[%d]", s.Seq),
						Actual:  s.Field,
						Message: fmt.Sprintf("Logical: Skipped Lines: line %d dropped, %s %s", s.Seq, s.Field, s.Reason),
					})
				}
				return results
			},
		},
		&builtin{
			key: "logical.line.zero_quantity", name: "Logical: Zero Quantity",
			ruleType: RuleTypeLogical, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				results := make([]Result, 0, len(inv.Lines))
				for i := range inv.Lines {
					l := &inv.Lines[i]
					r := Result{Passed: !l.Quantity.IsZero(), Field: fmt.Sprintf("lines[%d].quantity", l.Seq), Actual: l.Quantity.String()}
					if !r.Passed {
						r.Message = fmt.Sprintf("Logical: Zero Quantity: line %d (%s) invoices nothing", l.Seq, l.SupplierSKU)
					}
					results = append(results, r)
				}
				return results
			},
		},
		&builtin{
			key: "math.line.subtotal", name: "Math: Line Subtotal",
			ruleType: RuleTypeSum, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				results := make([]Result, 0, len(inv.Lines))
				for i := range inv.Lines {
					l := &inv.Lines[i]
					expected := l.Quantity.Mul(l.UnitCost)
					fp := fmt.Sprintf("lines[%d].subtotal", l.Seq)
					results = append(results, mathResult(approxEqual(expected, l.Subtotal), fp, expected, l.Subtotal, "Math: Line Subtotal"))
				}
				return results
			},
		},
		&builtin{
			key: "math.header.subtotal", name: "Math: Invoice Subtotal",
			ruleType: RuleTypeSum, sev: SeverityWarning,
			fn: func(inv *domain.ParsedInvoice) []Result {
				sum := decimal.Zero
				for i := range inv.Lines {
					sum = sum.Add(inv.Lines[i].Subtotal)
				}
				return []Result{mathResult(approxEqual(sum, inv.Header.Subtotal), "header.subtotal", sum, inv.Header.Subtotal, "Math: Invoice Subtotal")}
			},
		},
		&builtin{
			key: "math.header.total", name: "Math: Invoice Total",
			ruleType: RuleTypeSum, sev: SeverityError,
			fn: func(inv *domain.ParsedInvoice) []Result {
				expected := inv.Header.Subtotal.Add(inv.Header.TaxTotal)
				return []Result{mathResult(approxEqual(expected, inv.Header.GrandTotal), "header.grand_total", expected, inv.Header.GrandTotal, "Math: Invoice Total")}
			},
		},
	}
}
