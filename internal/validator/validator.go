// Package validator runs consistency checks over a parsed invoice before it
// is counted. Checks never block a reception; they are shown to the operator.
package validator

import (
	"context"

	"tiendapos/internal/domain"
)

// Severity tells how much attention a failed check deserves.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// RuleType groups checks by what they inspect.
type RuleType string

const (
	RuleTypeRequired RuleType = "required"
	RuleTypeFormat   RuleType = "format"
	RuleTypeSum      RuleType = "sum_check"
	RuleTypeLogical  RuleType = "logical"
)

// Result is the outcome of one rule against one field.
type Result struct {
	RuleKey  string   `json:"rule_key"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Message  string   `json:"message"`
}

// Validator is the interface for a single built-in check.
type Validator interface {
	Validate(ctx context.Context, inv *domain.ParsedInvoice) []Result
	RuleKey() string
	RuleName() string
	RuleType() RuleType
	Severity() Severity
}
