package codegen

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/omnera-dev/schemapipe/internal/errors"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Generator emits one runtime-validation module per schema node. The
// definitions map supplies content for references the resolver left
// unresolved; a Generator is safe for concurrent use across distinct
// property paths because it never mutates its inputs.
type Generator struct {
	definitions map[string]*schema.Node
}

// New creates a Generator backed by the given named definitions.
func New(definitions map[string]*schema.Node) *Generator {
	return &Generator{definitions: definitions}
}

// Generate builds the validation module for a property path and its resolved
// schema node.
func (g *Generator) Generate(path string, node *schema.Node) (*Module, error) {
	if node == nil {
		return nil, errors.New(errors.ErrCodeGenUnsupportedNode,
			fmt.Sprintf("no schema node for path %q", path))
	}

	identifier := Identifier(path)
	if !IdentifierPattern.MatchString(identifier) {
		return nil, errors.New(errors.ErrCodeGenIdentifier,
			fmt.Sprintf("path %q yields malformed identifier %q", path, identifier))
	}

	module := &Module{
		PropertyPath: path,
		Identifier:   identifier,
		FileName:     FileName(path),
		Imports:      []string{"effect"},
	}

	expr := g.expr(node, 1)

	var b strings.Builder
	if doc := docComment(node); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n")
	}
	b.WriteString("import { Schema } from \"effect\"\n\n")
	b.WriteString(fmt.Sprintf("export const %s = %s\n\n", module.SchemaExport(), expr))
	b.WriteString(fmt.Sprintf("export type %s = typeof %s.Type\n",
		module.TypeExport(), module.SchemaExport()))

	module.SourceText = b.String()
	module.Exports = []string{module.SchemaExport(), module.TypeExport()}
	return module, nil
}

// expr renders the validation expression for a node. depth controls the
// indentation of nested struct fields.
func (g *Generator) expr(node *schema.Node, depth int) string {
	if node == nil {
		return "Schema.Unknown"
	}

	var body string
	switch {
	case node.Kind() == schema.KindReference:
		body = g.referenceExpr(node, depth)
	case node.HasConst:
		body = fmt.Sprintf("Schema.Literal(%s)", literal(node.Const))
	case len(node.Enum) > 0:
		body = enumExpr(node.Enum)
	default:
		switch node.Kind() {
		case schema.KindString:
			body = stringExpr(node)
		case schema.KindNumber, schema.KindInteger:
			body = numberExpr(node)
		case schema.KindBoolean:
			body = "Schema.Boolean"
		case schema.KindArray:
			body = g.arrayExpr(node, depth)
		case schema.KindObject:
			body = g.objectExpr(node, depth)
		case schema.KindUnion:
			body = g.unionExpr(node, depth)
		default:
			body = "Schema.Unknown"
		}
	}

	if ann := annotations(node); ann != "" {
		body += ann
	}
	return body
}

// stringExpr chains the string constraint clauses, each with a generated
// failure message.
func stringExpr(node *schema.Node) string {
	var clauses []string
	if node.MinLength != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.minLength(%d, { message: () => %q })",
			*node.MinLength, minLengthMessage(*node.MinLength)))
	}
	if node.MaxLength != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.maxLength(%d, { message: () => %q })",
			*node.MaxLength, fmt.Sprintf("Must be at most %d characters", *node.MaxLength)))
	}
	if node.Pattern != "" {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.pattern(/%s/, { message: () => %q })",
			node.Pattern, patternMessage(node)))
	}
	return piped("Schema.String", clauses)
}

// minLengthMessage returns the canned required-field message for a minimum
// length of one and a generic length message otherwise.
func minLengthMessage(min int) string {
	if min == 1 {
		return "This field is required"
	}
	return fmt.Sprintf("Must be at least %d characters", min)
}

// patternMessage uses the node's own description as the failure message when
// one was authored, with a generic fallback.
func patternMessage(node *schema.Node) string {
	if node.Description != "" {
		return node.Description
	}
	return "Invalid format"
}

func numberExpr(node *schema.Node) string {
	base := "Schema.Number"
	if node.Type == "integer" {
		base = "Schema.Int"
	}
	var clauses []string
	if node.Minimum != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.greaterThanOrEqualTo(%s, { message: () => %q })",
			number(*node.Minimum), fmt.Sprintf("Must be at least %s", number(*node.Minimum))))
	}
	if node.Maximum != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.lessThanOrEqualTo(%s, { message: () => %q })",
			number(*node.Maximum), fmt.Sprintf("Must be at most %s", number(*node.Maximum))))
	}
	if node.ExclusiveMinimum != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.greaterThan(%s, { message: () => %q })",
			number(*node.ExclusiveMinimum),
			fmt.Sprintf("Must be greater than %s", number(*node.ExclusiveMinimum))))
	}
	if node.ExclusiveMaximum != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.lessThan(%s, { message: () => %q })",
			number(*node.ExclusiveMaximum),
			fmt.Sprintf("Must be less than %s", number(*node.ExclusiveMaximum))))
	}
	return piped(base, clauses)
}

func (g *Generator) arrayExpr(node *schema.Node, depth int) string {
	item := "Schema.Unknown"
	if node.Items != nil {
		item = g.expr(node.Items, depth)
	}
	base := fmt.Sprintf("Schema.Array(%s)", item)

	var clauses []string
	if node.MinItems != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.minItems(%d, { message: () => %q })",
			*node.MinItems, fmt.Sprintf("Must have at least %d item(s)", *node.MinItems)))
	}
	if node.MaxItems != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Schema.maxItems(%d, { message: () => %q })",
			*node.MaxItems, fmt.Sprintf("Must have at most %d item(s)", *node.MaxItems)))
	}
	return piped(base, clauses)
}

func (g *Generator) objectExpr(node *schema.Node, depth int) string {
	if len(node.Properties) == 0 {
		return "Schema.Struct({})"
	}

	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	indent := strings.Repeat("  ", depth)
	var b strings.Builder
	b.WriteString("Schema.Struct({\n")
	for _, name := range names {
		field := g.expr(node.Properties[name], depth+1)
		if !node.IsRequired(name) {
			field = fmt.Sprintf("Schema.optional(%s)", field)
		}
		b.WriteString(fmt.Sprintf("%s%s: %s,\n", indent, fieldKey(name), field))
	}
	b.WriteString(strings.Repeat("  ", depth-1) + "})")
	return b.String()
}

func (g *Generator) unionExpr(node *schema.Node, depth int) string {
	variants := node.Variants()
	rendered := make([]string, 0, len(variants))
	for _, variant := range variants {
		rendered = append(rendered, g.expr(variant, depth+1))
	}
	indent := strings.Repeat("  ", depth)
	return fmt.Sprintf("Schema.Union(\n%s%s\n%s)",
		indent, strings.Join(rendered, ",\n"+indent), strings.Repeat("  ", depth-1))
}

// referenceExpr inlines a definition for an unresolved reference when the
// definitions map has it, and otherwise leaves a named schema reference.
func (g *Generator) referenceExpr(node *schema.Node, depth int) string {
	name := refName(node.Ref)
	if def, ok := g.definitions[name]; ok {
		return g.expr(def, depth)
	}
	return Identifier(name) + "Schema"
}

// refName extracts the referenced definition name: the last fragment segment
// when present, otherwise the file base name without its schema extensions.
func refName(ref string) string {
	if idx := strings.Index(ref, "#"); idx >= 0 {
		fragment := strings.Trim(ref[idx+1:], "/")
		segments := strings.Split(fragment, "/")
		return segments[len(segments)-1]
	}
	name := ref
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".json")
	name = strings.TrimSuffix(name, ".schema")
	return name
}

// annotations renders the trailing annotation clause carrying the node's
// title, description, and examples verbatim.
func annotations(node *schema.Node) string {
	var fields []string
	if node.Title != "" {
		fields = append(fields, fmt.Sprintf("title: %q", node.Title))
	}
	if node.Description != "" {
		fields = append(fields, fmt.Sprintf("description: %q", node.Description))
	}
	if len(node.Examples) > 0 {
		rendered := make([]string, 0, len(node.Examples))
		for _, example := range node.Examples {
			rendered = append(rendered, literal(example))
		}
		fields = append(fields, fmt.Sprintf("examples: [%s]", strings.Join(rendered, ", ")))
	}
	if len(fields) == 0 {
		return ""
	}
	return fmt.Sprintf(".annotations({ %s })", strings.Join(fields, ", "))
}

// docComment emits the module's leading documentation comment from the
// node's title, description, business rules, and first example.
func docComment(node *schema.Node) string {
	if node.Title == "" && node.Description == "" && len(node.Examples) == 0 && len(node.BusinessRules) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("/**\n")
	if node.Title != "" {
		b.WriteString(fmt.Sprintf(" * %s\n", node.Title))
	}
	if node.Description != "" {
		if node.Title != "" {
			b.WriteString(" *\n")
		}
		b.WriteString(fmt.Sprintf(" * %s\n", node.Description))
	}
	if len(node.BusinessRules) > 0 {
		if node.Title != "" || node.Description != "" {
			b.WriteString(" *\n")
		}
		b.WriteString(" * Business rules:\n")
		for _, rule := range node.BusinessRules {
			b.WriteString(fmt.Sprintf(" * - %s\n", rule))
		}
	}
	if len(node.Examples) > 0 {
		b.WriteString(fmt.Sprintf(" * @example %s\n", literal(node.Examples[0])))
	}
	b.WriteString(" */")
	return b.String()
}

func enumExpr(values []any) string {
	rendered := make([]string, 0, len(values))
	for _, value := range values {
		rendered = append(rendered, literal(value))
	}
	return fmt.Sprintf("Schema.Literal(%s)", strings.Join(rendered, ", "))
}

// piped chains constraint clauses onto a base expression.
func piped(base string, clauses []string) string {
	if len(clauses) == 0 {
		return base
	}
	return fmt.Sprintf("%s.pipe(%s)", base, strings.Join(clauses, ", "))
}

// literal renders a Go value as a TypeScript literal.
func literal(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func number(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// fieldKey quotes an object key that is not a valid TypeScript identifier.
func fieldKey(name string) string {
	for i, r := range name {
		valid := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !valid {
			return fmt.Sprintf("%q", name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}
