package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnera-dev/schemapipe/internal/codegen"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

func generated(t *testing.T, path, doc string) (*codegen.Module, *schema.Node) {
	t.Helper()
	node, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	module, err := codegen.New(nil).Generate(path, node)
	require.NoError(t, err)
	return module, node
}

func TestValidateGeneratedModulePasses(t *testing.T) {
	module, node := generated(t, "name", `{
		"type": "string",
		"title": "Application Name",
		"minLength": 1,
		"maxLength": 50
	}`)

	result := Validate(module, node)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateNilModule(t *testing.T) {
	result := Validate(nil, nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
}

func TestValidateMalformedIdentifier(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string"}`)
	module.Identifier = "123bad"

	result := Validate(module, node)

	assert.False(t, result.Valid)
	found := false
	for _, issue := range result.Errors {
		if issue.Message == "sanitized identifier is malformed" {
			found = true
		}
	}
	assert.True(t, found, "errors = %v", result.Errors)
}

func TestValidateMissingExports(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string"}`)
	module.SourceText = "// emptied out\n"
	module.Exports = nil

	result := Validate(module, node)

	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 2,
		"missing declarations and missing exports-list entries are all errors")
}

func TestValidateDroppedStringConstraintIsError(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string", "minLength": 1}`)
	module.SourceText = "import { Schema } from \"effect\"\n\n" +
		"export const NameSchema = Schema.String\n\n" +
		"export type Name = typeof NameSchema.Type\n"

	result := Validate(module, node)

	assert.False(t, result.Valid)
	found := false
	for _, issue := range result.Errors {
		if issue.Expected == "Schema.minLength(" {
			found = true
		}
	}
	assert.True(t, found, "errors = %v", result.Errors)
}

func TestValidateDroppedNumericConstraintIsWarning(t *testing.T) {
	module, node := generated(t, "columns", `{"type": "integer", "minimum": 1}`)
	module.SourceText = "import { Schema } from \"effect\"\n\n" +
		"export const ColumnsSchema = Schema.Int\n\n" +
		"export type Columns = typeof ColumnsSchema.Type\n"

	result := Validate(module, node)

	assert.True(t, result.Valid, "numeric encoding gaps are advisory")
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, "Schema.greaterThanOrEqualTo(", result.Warnings[0].Expected)
}

func TestValidateMissingAnnotationIsWarning(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string", "title": "Application Name"}`)
	module.SourceText = "import { Schema } from \"effect\"\n\n" +
		"export const NameSchema = Schema.String\n\n" +
		"export type Name = typeof NameSchema.Type\n"

	result := Validate(module, node)

	assert.True(t, result.Valid)
	found := false
	for _, issue := range result.Warnings {
		if issue.Expected == "title:" {
			found = true
		}
	}
	assert.True(t, found, "warnings = %v", result.Warnings)
}

func TestValidateClauseWithoutMessageIsWarning(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string", "minLength": 1}`)
	module.SourceText = "import { Schema } from \"effect\"\n\n" +
		"export const NameSchema = Schema.String.pipe(Schema.minLength(1))\n\n" +
		"export type Name = typeof NameSchema.Type\n"

	result := Validate(module, node)

	assert.True(t, result.Valid)
	found := false
	for _, issue := range result.Warnings {
		if issue.Message == "1 validation clause(s) lack a custom failure message" {
			found = true
		}
	}
	assert.True(t, found, "warnings = %v", result.Warnings)
}

// Validation must be read-only: running it twice over the same module yields
// the same result and leaves the module untouched.
func TestValidateIdempotent(t *testing.T) {
	module, node := generated(t, "name", `{"type": "string", "minLength": 1, "title": "Name"}`)
	before := module.SourceText

	first := Validate(module, node)
	second := Validate(module, node)

	assert.Equal(t, first, second)
	assert.Equal(t, before, module.SourceText)
}
