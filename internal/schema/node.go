package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Kind identifies the structural shape of a Node. Traversal, diffing, and
// code generation switch exhaustively over Kind instead of probing raw maps.
type Kind int

const (
	// KindAny is a node with no recognizable type information.
	KindAny Kind = iota
	// KindString is a string-typed node.
	KindString
	// KindNumber is a floating-point numeric node.
	KindNumber
	// KindInteger is an integer numeric node.
	KindInteger
	// KindBoolean is a boolean node.
	KindBoolean
	// KindObject is an object node with named properties.
	KindObject
	// KindArray is an array node with an item schema.
	KindArray
	// KindUnion is a node whose shape is an anyOf/oneOf variant list.
	KindUnion
	// KindReference is a node still carrying an unresolved $ref.
	KindReference
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	case KindReference:
		return "reference"
	default:
		return "any"
	}
}

// Node is one schema tree node. Optional scalar constraints are pointers so
// that "absent" and "zero" stay distinguishable; nested nodes are pointers so
// a resolved tree can be spliced without copying whole subtrees.
type Node struct {
	// Core metadata
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Examples    []any  `json:"examples,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	// Numeric constraints
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// Array shape
	Items      *Node   `json:"-"`
	TupleItems []*Node `json:"-"`
	MinItems   *int    `json:"minItems,omitempty"`
	MaxItems   *int    `json:"maxItems,omitempty"`

	// Literal sets
	Enum     []any `json:"enum,omitempty"`
	Const    any   `json:"-"`
	HasConst bool  `json:"-"`

	// Object shape
	Properties           map[string]*Node `json:"properties,omitempty"`
	Required             []string         `json:"required,omitempty"`
	AdditionalProperties *bool            `json:"additionalProperties,omitempty"`

	// Variant lists
	AnyOf []*Node `json:"anyOf,omitempty"`
	OneOf []*Node `json:"oneOf,omitempty"`
	AllOf []*Node `json:"allOf,omitempty"`

	// References
	Ref         string           `json:"$ref,omitempty"`
	Definitions map[string]*Node `json:"definitions,omitempty"`

	// Pipeline extensions
	UserStories   []string    `json:"x-user-stories,omitempty"`
	BusinessRules []string    `json:"x-business-rules,omitempty"`
	Specs         []SpecEntry `json:"specs,omitempty"`
}

// Kind classifies the node. A node that still carries a $ref is a reference
// regardless of any inline content; a bare anyOf/oneOf node is a union.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindAny
	}
	if n.Ref != "" {
		return KindReference
	}
	switch n.Type {
	case "string":
		return KindString
	case "number":
		return KindNumber
	case "integer":
		return KindInteger
	case "boolean":
		return KindBoolean
	case "object":
		return KindObject
	case "array":
		return KindArray
	}
	if len(n.AnyOf) > 0 || len(n.OneOf) > 0 {
		return KindUnion
	}
	return KindAny
}

// Variants returns the node's anyOf list, falling back to oneOf. The two
// keywords are interchangeable for traversal and diffing.
func (n *Node) Variants() []*Node {
	if len(n.AnyOf) > 0 {
		return n.AnyOf
	}
	return n.OneOf
}

// IsRequired reports whether name appears in the node's required set.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// nodeAlias avoids recursive UnmarshalJSON dispatch.
type nodeAlias Node

type nodeWire struct {
	nodeAlias
	Items json.RawMessage `json:"items,omitempty"`
	Const json.RawMessage `json:"const,omitempty"`
}

// UnmarshalJSON decodes a schema document, splitting the polymorphic `items`
// keyword into a single node or a tuple and tracking `const` presence so a
// literal null constant is not confused with an absent keyword.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wire nodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode schema node: %w", err)
	}
	*n = Node(wire.nodeAlias)

	if len(wire.Items) > 0 {
		if wire.Items[0] == '[' {
			var tuple []*Node
			if err := json.Unmarshal(wire.Items, &tuple); err != nil {
				return fmt.Errorf("decode tuple items: %w", err)
			}
			n.TupleItems = tuple
		} else {
			var item Node
			if err := json.Unmarshal(wire.Items, &item); err != nil {
				return fmt.Errorf("decode items: %w", err)
			}
			n.Items = &item
		}
	}

	if len(wire.Const) > 0 {
		n.HasConst = true
		if err := json.Unmarshal(wire.Const, &n.Const); err != nil {
			return fmt.Errorf("decode const: %w", err)
		}
	}

	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (n *Node) MarshalJSON() ([]byte, error) {
	wire := nodeWire{nodeAlias: nodeAlias(*n)}

	switch {
	case len(n.TupleItems) > 0:
		raw, err := json.Marshal(n.TupleItems)
		if err != nil {
			return nil, err
		}
		wire.Items = raw
	case n.Items != nil:
		raw, err := json.Marshal(n.Items)
		if err != nil {
			return nil, err
		}
		wire.Items = raw
	}

	if n.HasConst {
		raw, err := json.Marshal(n.Const)
		if err != nil {
			return nil, err
		}
		wire.Const = raw
	}

	return json.Marshal(wire)
}

// Clone returns a deep copy of the node. The resolver splices referenced
// content into clones so that source trees stay immutable across runs.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n

	out.Examples = cloneAnySlice(n.Examples)
	out.Enum = cloneAnySlice(n.Enum)
	out.Required = append([]string(nil), n.Required...)
	out.UserStories = append([]string(nil), n.UserStories...)
	out.BusinessRules = append([]string(nil), n.BusinessRules...)
	out.Specs = append([]SpecEntry(nil), n.Specs...)

	out.MinLength = cloneInt(n.MinLength)
	out.MaxLength = cloneInt(n.MaxLength)
	out.MinItems = cloneInt(n.MinItems)
	out.MaxItems = cloneInt(n.MaxItems)
	out.Minimum = cloneFloat(n.Minimum)
	out.Maximum = cloneFloat(n.Maximum)
	out.ExclusiveMinimum = cloneFloat(n.ExclusiveMinimum)
	out.ExclusiveMaximum = cloneFloat(n.ExclusiveMaximum)
	if n.AdditionalProperties != nil {
		v := *n.AdditionalProperties
		out.AdditionalProperties = &v
	}

	out.Items = n.Items.Clone()
	out.TupleItems = cloneNodeSlice(n.TupleItems)
	out.AnyOf = cloneNodeSlice(n.AnyOf)
	out.OneOf = cloneNodeSlice(n.OneOf)
	out.AllOf = cloneNodeSlice(n.AllOf)
	out.Properties = cloneNodeMap(n.Properties)
	out.Definitions = cloneNodeMap(n.Definitions)

	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneAnySlice(in []any) []any {
	if in == nil {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneAny(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return v
	}
}

func cloneNodeSlice(in []*Node) []*Node {
	if in == nil {
		return nil
	}
	out := make([]*Node, len(in))
	for i, child := range in {
		out[i] = child.Clone()
	}
	return out
}

func cloneNodeMap(in map[string]*Node) map[string]*Node {
	if in == nil {
		return nil
	}
	out := make(map[string]*Node, len(in))
	for k, child := range in {
		out[k] = child.Clone()
	}
	return out
}
