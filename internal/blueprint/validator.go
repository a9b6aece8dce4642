package blueprint

import (
	"fmt"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/codegen"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError blocks consumption of the generated module
	SeverityError Severity = "error"
	// SeverityWarning is advisory only
	SeverityWarning Severity = "warning"
)

// Issue is one structured validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
}

// Result is the outcome of validating one generated module.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Validate structurally re-checks a generated module against its source
// node. It never mutates the module and never fails: every problem surfaces
// as an error or warning in the result.
func Validate(module *codegen.Module, source *schema.Node) Result {
	result := Result{Errors: []Issue{}, Warnings: []Issue{}}
	if module == nil {
		result.Errors = append(result.Errors, Issue{
			Severity: SeverityError,
			Message:  "no module to validate",
		})
		return result
	}

	checkIdentifier(module, &result)
	checkExports(module, &result)
	if source != nil {
		checkStringConstraints(module, source, &result)
		checkNumericConstraints(module, source, &result)
		checkArrayConstraints(module, source, &result)
		checkAnnotations(module, source, &result)
		checkFailureMessages(module, &result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func checkIdentifier(module *codegen.Module, result *Result) {
	if !codegen.IdentifierPattern.MatchString(module.Identifier) {
		result.Errors = append(result.Errors, Issue{
			Severity: SeverityError,
			Message:  "sanitized identifier is malformed",
			Location: module.PropertyPath,
			Expected: codegen.IdentifierPattern.String(),
			Actual:   module.Identifier,
		})
	}
}

func checkExports(module *codegen.Module, result *Result) {
	schemaConst := module.SchemaExport()
	typeName := module.TypeExport()

	if !strings.Contains(module.SourceText, "export const "+schemaConst) {
		result.Errors = append(result.Errors, Issue{
			Severity: SeverityError,
			Message:  "schema constant declaration missing from source text",
			Location: module.FileName,
			Expected: "export const " + schemaConst,
		})
	}
	if !strings.Contains(module.SourceText, "export type "+typeName) {
		result.Errors = append(result.Errors, Issue{
			Severity: SeverityError,
			Message:  "type declaration missing from source text",
			Location: module.FileName,
			Expected: "export type " + typeName,
		})
	}

	exported := make(map[string]bool, len(module.Exports))
	for _, name := range module.Exports {
		exported[name] = true
	}
	for _, required := range []string{schemaConst, typeName} {
		if !exported[required] {
			result.Errors = append(result.Errors, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("required export %q absent from exports list", required),
				Location: module.FileName,
				Expected: required,
			})
		}
	}
}

// checkStringConstraints verifies every declared string constraint is
// actually encoded; these are errors because a silently dropped constraint
// weakens validation downstream.
func checkStringConstraints(module *codegen.Module, source *schema.Node, result *Result) {
	if source.Kind() != schema.KindString {
		return
	}
	checks := []struct {
		declared bool
		token    string
		name     string
	}{
		{source.MinLength != nil, "Schema.minLength(", "minLength"},
		{source.MaxLength != nil, "Schema.maxLength(", "maxLength"},
		{source.Pattern != "", "Schema.pattern(", "pattern"},
	}
	for _, check := range checks {
		if check.declared && !strings.Contains(module.SourceText, check.token) {
			result.Errors = append(result.Errors, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("string constraint %q declared but not encoded", check.name),
				Location: module.FileName,
				Expected: check.token,
			})
		}
	}
}

func checkNumericConstraints(module *codegen.Module, source *schema.Node, result *Result) {
	kind := source.Kind()
	if kind != schema.KindNumber && kind != schema.KindInteger {
		return
	}
	if source.Minimum != nil && !strings.Contains(module.SourceText, "Schema.greaterThanOrEqualTo(") {
		result.Warnings = append(result.Warnings, warning(module, "minimum", "Schema.greaterThanOrEqualTo("))
	}
	if source.Maximum != nil && !strings.Contains(module.SourceText, "Schema.lessThanOrEqualTo(") {
		result.Warnings = append(result.Warnings, warning(module, "maximum", "Schema.lessThanOrEqualTo("))
	}
}

func checkArrayConstraints(module *codegen.Module, source *schema.Node, result *Result) {
	if source.Kind() != schema.KindArray {
		return
	}
	if source.MinItems != nil && !strings.Contains(module.SourceText, "Schema.minItems(") {
		result.Warnings = append(result.Warnings, warning(module, "minItems", "Schema.minItems("))
	}
	if source.MaxItems != nil && !strings.Contains(module.SourceText, "Schema.maxItems(") {
		result.Warnings = append(result.Warnings, warning(module, "maxItems", "Schema.maxItems("))
	}
}

func checkAnnotations(module *codegen.Module, source *schema.Node, result *Result) {
	checks := []struct {
		declared bool
		token    string
		name     string
	}{
		{source.Title != "", "title:", "title"},
		{source.Description != "", "description:", "description"},
		{len(source.Examples) > 0, "examples:", "examples"},
	}
	for _, check := range checks {
		if check.declared && !strings.Contains(module.SourceText, check.token) {
			result.Warnings = append(result.Warnings, Issue{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("source declares %s but no annotation was generated", check.name),
				Location: module.FileName,
				Expected: check.token,
			})
		}
	}
}

// validation clause tokens that should each carry a custom failure message
var clauseTokens = []string{
	"Schema.minLength(", "Schema.maxLength(", "Schema.pattern(",
	"Schema.greaterThanOrEqualTo(", "Schema.lessThanOrEqualTo(",
	"Schema.greaterThan(", "Schema.lessThan(",
	"Schema.minItems(", "Schema.maxItems(",
}

// checkFailureMessages warns when a validation clause appears without an
// accompanying custom failure message.
func checkFailureMessages(module *codegen.Module, result *Result) {
	clauses := 0
	for _, token := range clauseTokens {
		clauses += strings.Count(module.SourceText, token)
	}
	messages := strings.Count(module.SourceText, "message:")
	if clauses > messages {
		result.Warnings = append(result.Warnings, Issue{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%d validation clause(s) lack a custom failure message",
				clauses-messages),
			Location: module.FileName,
		})
	}
}

func warning(module *codegen.Module, name, token string) Issue {
	return Issue{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("numeric or array constraint %q declared but not encoded", name),
		Location: module.FileName,
		Expected: token,
	}
}
