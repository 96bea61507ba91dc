package validator

import (
	"context"

	"github.com/sirupsen/logrus"

	"tiendapos/internal/domain"
)

// Report collects the failed checks of one invoice.
type Report struct {
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Failures []Result `json:"failures"`
}

// Clean reports whether every check passed.
func (r *Report) Clean() bool {
	return r.Errors == 0 && r.Warnings == 0
}

// Engine runs every registered validator against an invoice.
type Engine struct {
	registry *Registry
	log      logrus.FieldLogger
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, log logrus.FieldLogger) *Engine {
	return &Engine{registry: registry, log: log}
}

// Run evaluates all rules. Passed results are dropped.
func (e *Engine) Run(ctx context.Context, inv *domain.ParsedInvoice) *Report {
	report := &Report{Failures: []Result{}}
	for _, v := range e.registry.All() {
		for _, res := range v.Validate(ctx, inv) {
			if res.Passed {
				continue
			}
			res.RuleKey = v.RuleKey()
			res.Severity = v.Severity()
			report.Failures = append(report.Failures, res)
			if res.Severity == SeverityError {
				report.Errors++
			} else {
				report.Warnings++
			}
		}
	}

	if !report.Clean() {
		e.log.WithFields(logrus.Fields{
			"supplier": inv.Header.SupplierName,
			"folio":    inv.Header.Folio,
			"errors":   report.Errors,
			"warnings": report.Warnings,
		}).Debug("validator.Run: invoice has inconsistencies")
	}
	return report
}
