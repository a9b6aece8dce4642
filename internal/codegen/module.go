package codegen

import (
	"regexp"
	"strings"
)

// Module is one generated runtime-validation source module: a composable
// validation expression paired with a type declaration, ready to be written
// to its own output file.
type Module struct {
	PropertyPath string   `json:"propertyPath"`
	Identifier   string   `json:"sanitizedIdentifier"`
	FileName     string   `json:"fileName"`
	SourceText   string   `json:"sourceText"`
	Exports      []string `json:"exports"`
	Imports      []string `json:"imports"`
}

// SchemaExport returns the name of the module's schema constant.
func (m *Module) SchemaExport() string {
	return m.Identifier + "Schema"
}

// TypeExport returns the name of the module's type alias.
func (m *Module) TypeExport() string {
	return m.Identifier
}

// IdentifierPattern is the well-formedness rule for sanitized identifiers.
var IdentifierPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

var wordSplit = regexp.MustCompile(`[.\-_\s]+`)

// Identifier converts a dot-joined property path into a PascalCase
// identifier, one token per path segment with -/_ word splits capitalized.
// "automation_trigger.http.post" becomes "AutomationTriggerHttpPost".
func Identifier(path string) string {
	var b strings.Builder
	for _, word := range wordSplit.Split(path, -1) {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		if len(word) > 1 {
			b.WriteString(strings.ToLower(word[1:]))
		}
	}
	return b.String()
}

// FileName converts a property path into its kebab-cased output file name.
func FileName(path string) string {
	var words []string
	for _, word := range wordSplit.Split(strings.ToLower(path), -1) {
		if word != "" {
			words = append(words, word)
		}
	}
	return strings.Join(words, "-") + ".ts"
}
