// Package parser decodes UBL 2.1 electronic invoices, optionally wrapped in
// an AttachedDocument envelope, into domain.ParsedInvoice values.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"tiendapos/internal/domain"
)

// Parse decodes an invoice document. Envelope unwrapping is automatic: an
// AttachedDocument carrying an embedded invoice is parsed through to the
// inner document.
func Parse(data []byte) (*domain.ParsedInvoice, error) {
	root, err := decodeRoot(newDecoder(data), StageDocument)
	if err != nil {
		return nil, err
	}

	switch root.Name {
	case xml.Name{Space: NamespaceInvoice, Local: "Invoice"}:
		var inv ublInvoice
		if err := decodeInto(newDecoder(data), &inv, StageInvoice); err != nil {
			return nil, err
		}
		return build(&inv, false), nil

	case xml.Name{Space: NamespaceAttachedDocument, Local: "AttachedDocument"}:
		var env ublAttachedDocument
		if err := decodeInto(newDecoder(data), &env, StageEnvelope); err != nil {
			return nil, err
		}
		payload, present := env.payload()
		if !present {
			// No embedded payload: the outer document is read as the invoice.
			var inv ublInvoice
			if err := decodeInto(newDecoder(data), &inv, StageEnvelope); err != nil {
				return nil, err
			}
			return build(&inv, false), nil
		}
		if payload == "" {
			return nil, newParseError(StageEnvelope, "embedded invoice payload is empty", nil)
		}
		inner := []byte(payload)
		innerRoot, err := decodeRoot(newPayloadDecoder(inner), StageInvoice)
		if err != nil {
			return nil, err
		}
		if innerRoot.Name != (xml.Name{Space: NamespaceInvoice, Local: "Invoice"}) {
			return nil, newParseError(StageInvoice, fmt.Sprintf("unexpected embedded root element %s", describe(innerRoot.Name)), nil)
		}
		var inv ublInvoice
		if err := decodeInto(newPayloadDecoder(inner), &inv, StageInvoice); err != nil {
			return nil, err
		}
		return build(&inv, true), nil

	default:
		return nil, newParseError(StageDocument, fmt.Sprintf("unexpected root element %s", describe(root.Name)), nil)
	}
}

// payload returns the first Attachment/ExternalReference/Description found
// and whether such an element exists at all.
func (d *ublAttachedDocument) payload() (string, bool) {
	for _, att := range d.Attachments {
		for _, ref := range att.ExternalReferences {
			if ref.Description != nil {
				return strings.TrimSpace(*ref.Description), true
			}
		}
	}
	return "", false
}

func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// newPayloadDecoder reads an embedded invoice. The outer decoder already
// produced UTF-8 text, so the inner encoding declaration is ignored.
func newPayloadDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	return dec
}

// decodeRoot walks the whole document once so that malformed XML anywhere
// is reported, and returns the root start element.
func decodeRoot(dec *xml.Decoder, stage string) (xml.StartElement, error) {
	var root xml.StartElement
	found := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return xml.StartElement{}, newParseError(stage, "document is not well-formed XML", err)
		}
		if se, ok := tok.(xml.StartElement); ok && !found {
			root = se.Copy()
			found = true
		}
	}
	if !found {
		return xml.StartElement{}, newParseError(stage, "document has no root element", nil)
	}
	return root, nil
}

func decodeInto(dec *xml.Decoder, v any, stage string) error {
	if err := dec.Decode(v); err != nil {
		return newParseError(stage, "decoding document", err)
	}
	return nil
}

func describe(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return fmt.Sprintf("{%s}%s", n.Space, n.Local)
}

func build(inv *ublInvoice, wrapped bool) *domain.ParsedInvoice {
	out := &domain.ParsedInvoice{
		Header:  buildHeader(inv),
		Lines:   make([]domain.InvoiceLine, 0, len(inv.InvoiceLines)),
		Wrapped: wrapped,
	}
	for i := range inv.InvoiceLines {
		seq := i + 1
		line, skip := buildLine(seq, &inv.InvoiceLines[i])
		if skip != nil {
			out.Skipped = append(out.Skipped, *skip)
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func buildHeader(inv *ublInvoice) domain.InvoiceHeader {
	h := domain.InvoiceHeader{
		SupplierName: textOr(FieldSupplierName, supplierName(inv)),
		Folio:        textOr(FieldFolio, deref(inv.ID)),
		IssueDate:    textOr(FieldIssueDate, deref(inv.IssueDate)),
	}

	var lineExt, payable *string
	if inv.LegalMonetaryTotal != nil {
		lineExt = inv.LegalMonetaryTotal.LineExtensionAmount
		payable = inv.LegalMonetaryTotal.PayableAmount
	}
	h.Subtotal = headerAmount(lineExt)
	h.GrandTotal = headerAmount(payable)

	tax, ok := sumTaxTotals(inv.TaxTotals)
	if !ok && FieldPolicies[FieldTaxTotal].Missing == PolicyDerive {
		tax = h.GrandTotal.Sub(h.Subtotal)
	}
	h.TaxTotal = tax
	return h
}

func supplierName(inv *ublInvoice) string {
	if inv.AccountingSupplierParty == nil || inv.AccountingSupplierParty.Party == nil {
		return ""
	}
	p := inv.AccountingSupplierParty.Party
	for _, ts := range p.PartyTaxSchemes {
		if v := deref(ts.RegistrationName); v != "" {
			return v
		}
	}
	for _, le := range p.PartyLegalEntities {
		if v := deref(le.RegistrationName); v != "" {
			return v
		}
	}
	for _, pn := range p.PartyNames {
		if v := deref(pn.Name); v != "" {
			return v
		}
	}
	return ""
}

// sumTaxTotals adds every TaxTotal/TaxAmount. ok is false when none of them
// carried a usable amount.
func sumTaxTotals(totals []ublTaxTotal) (decimal.Decimal, bool) {
	sum := decimal.Zero
	ok := false
	for _, tt := range totals {
		v, err := parseAmount(tt.TaxAmount)
		if err != nil {
			continue
		}
		sum = sum.Add(v)
		ok = true
	}
	return sum, ok
}

func buildLine(seq int, l *ublInvoiceLine) (domain.InvoiceLine, *domain.SkippedLine) {
	line := domain.InvoiceLine{Seq: seq}

	qty, skip := lineAmount(seq, FieldQuantity, l.InvoicedQuantity)
	if skip != nil {
		return line, skip
	}
	if qty.IsNegative() {
		return line, &domain.SkippedLine{Seq: seq, Field: FieldQuantity, Reason: "negative quantity " + qty.String()}
	}

	var priceRaw *string
	if l.Price != nil {
		priceRaw = l.Price.PriceAmount
	}
	price, skip := lineAmount(seq, FieldUnitPrice, priceRaw)
	if skip != nil {
		return line, skip
	}

	subtotal, skip := lineAmount(seq, FieldLineSubtotal, l.LineExtensionAmount)
	if skip != nil {
		return line, skip
	}

	tax, _ := sumTaxTotals(l.TaxTotals)

	line.Quantity = qty
	line.UnitCost = price
	line.Subtotal = subtotal
	line.TaxAmount = tax
	line.Total = subtotal.Add(tax)
	line.Description = description(l.Item)
	line.SupplierSKU = resolveSKU(l.Item)
	return line, nil
}

// lineAmount applies the field's policy. A non-nil SkippedLine means the
// line must be dropped.
func lineAmount(seq int, field string, raw *string) (decimal.Decimal, *domain.SkippedLine) {
	policy := FieldPolicies[field]
	if raw == nil || strings.TrimSpace(*raw) == "" {
		if policy.Missing == PolicyDropLine {
			return decimal.Zero, &domain.SkippedLine{Seq: seq, Field: field, Reason: "missing"}
		}
		return decimal.Zero, nil
	}
	v, err := parseAmount(raw)
	if err != nil {
		if policy.Malformed == PolicyDropLine {
			return decimal.Zero, &domain.SkippedLine{Seq: seq, Field: field, Reason: fmt.Sprintf("malformed value %q", strings.TrimSpace(*raw))}
		}
		return decimal.Zero, nil
	}
	return v, nil
}

// headerAmount reads a header numeric; missing and malformed are both zero.
func headerAmount(raw *string) decimal.Decimal {
	v, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func description(item *ublItem) string {
	if item == nil {
		return ""
	}
	for _, d := range item.Descriptions {
		if v := strings.TrimSpace(d); v != "" {
			return v
		}
	}
	return ""
}

func resolveSKU(item *ublItem) string {
	if item != nil {
		if item.StandardItemIdentification != nil {
			if v := deref(item.StandardItemIdentification.ID); v != "" {
				return v
			}
		}
		if item.SellersItemIdentification != nil {
			if v := deref(item.SellersItemIdentification.ID); v != "" {
				return v
			}
		}
	}
	return domain.GenericSKU
}

var errMissing = errors.New("missing")

func parseAmount(raw *string) (decimal.Decimal, error) {
	if raw == nil {
		return decimal.Zero, errMissing
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return decimal.Zero, errMissing
	}
	return decimal.NewFromString(s)
}

func textOr(field, v string) string {
	if v != "" {
		return v
	}
	return FieldPolicies[field].Default
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
