package resolver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Context carries the per-run state of one top-level resolution: the cache of
// fully resolved file content and the in-flight guard set that breaks
// reference cycles. A Context must not be reused across unrelated resolution
// runs; cached content is only valid for the base paths of this run.
type Context struct {
	runID    string
	cache    map[string]*schema.Node
	inflight map[string]bool
	repo     schema.Repository
	logger   *log.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for resolution warnings.
func WithLogger(logger *log.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithRepository sets the schema repository used to load referenced files.
func WithRepository(repo schema.Repository) Option {
	return func(c *Context) {
		c.repo = repo
	}
}

// NewContext creates a fresh resolution context with its own cache and guard
// set.
func NewContext(opts ...Option) *Context {
	c := &Context{
		runID:    uuid.NewString(),
		cache:    make(map[string]*schema.Node),
		inflight: make(map[string]bool),
		repo:     schema.NewFileRepository(),
		logger:   log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("run_id", c.runID)
	return c
}

// RunID returns the unique identifier of this resolution run.
func (c *Context) RunID() string {
	return c.runID
}

// Resolve returns a deep copy of root in which every file reference reachable
// from it has been replaced by the referenced content. baseDir is the
// directory the root document lives in; relative references are resolved
// against it. Resolution is best-effort: unreadable files, dead fragment
// pointers, and cycles leave the affected node's $ref in place and resolution
// continues for all sibling nodes.
func (c *Context) Resolve(root *schema.Node, baseDir string) *schema.Node {
	out := root.Clone()
	c.resolveNode(out, baseDir)
	return out
}

// ResolveFile loads the schema document at path and resolves it. The file
// itself joins the in-flight guard set for the duration of the run so that a
// reference chain leading back to it breaks instead of recursing forever.
func (c *Context) ResolveFile(path string) (*schema.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schema path: %w", err)
	}

	root, err := c.repo.Load(abs)
	if err != nil {
		return nil, fmt.Errorf("load root schema: %w", err)
	}

	c.inflight[abs] = true
	resolved := c.Resolve(root, filepath.Dir(abs))
	delete(c.inflight, abs)
	c.cache[abs] = resolved

	return resolved, nil
}

// resolveNode rewrites n in place. When a file reference is spliced the
// result is already fully resolved against the referenced file's own
// directory, so the spliced subtree is not walked again.
func (c *Context) resolveNode(n *schema.Node, baseDir string) {
	if n == nil {
		return
	}

	if n.Ref != "" && !strings.HasPrefix(n.Ref, "#") {
		if c.resolveRef(n, baseDir) {
			return
		}
	}

	for _, child := range n.Properties {
		c.resolveNode(child, baseDir)
	}
	c.resolveNode(n.Items, baseDir)
	for _, child := range n.TupleItems {
		c.resolveNode(child, baseDir)
	}
	for _, child := range n.AnyOf {
		c.resolveNode(child, baseDir)
	}
	for _, child := range n.OneOf {
		c.resolveNode(child, baseDir)
	}
	for _, child := range n.AllOf {
		c.resolveNode(child, baseDir)
	}
	for _, child := range n.Definitions {
		c.resolveNode(child, baseDir)
	}
}

// resolveRef replaces the node's file reference with the referenced content.
// Returns true when content was spliced; false when resolution was abandoned
// and the $ref stays in place.
func (c *Context) resolveRef(n *schema.Node, baseDir string) bool {
	filePart, fragment := splitRef(n.Ref)
	if filePart == "" {
		return false
	}

	abs, err := filepath.Abs(filepath.Join(baseDir, filePart))
	if err != nil {
		c.logger.Warn("skipping unresolvable reference path",
			"ref", n.Ref, "base", baseDir, "error", err)
		return false
	}

	// Cycle break: the referenced file is still being resolved further up
	// this run's call chain.
	if c.inflight[abs] {
		c.logger.Debug("reference cycle detected, leaving $ref unresolved",
			"ref", n.Ref, "file", abs)
		return false
	}

	content, ok := c.cache[abs]
	if !ok {
		loaded, err := c.repo.Load(abs)
		if err != nil {
			c.logger.Warn("skipping unreadable reference file",
				"ref", n.Ref, "file", abs, "error", err)
			return false
		}

		c.inflight[abs] = true
		c.resolveNode(loaded, filepath.Dir(abs))
		delete(c.inflight, abs)

		c.cache[abs] = loaded
		content = loaded
	}

	target := content
	if fragment != "" {
		target = walkPointer(content, fragment)
		if target == nil {
			c.logger.Warn("fragment pointer not found in referenced file",
				"ref", n.Ref, "file", abs, "fragment", fragment)
			return false
		}
	}

	splice(n, target)
	return true
}

// splice replaces dst's reference with the target content. Fields authored
// inline next to the $ref (titles, descriptions, behavior stories) win over
// the referenced content.
func splice(dst, target *schema.Node) {
	merged := target.Clone()
	overlay(merged, dst)
	merged.Ref = ""
	*dst = *merged
}

// overlay copies every field set on local onto base.
func overlay(base, local *schema.Node) {
	if local.Type != "" {
		base.Type = local.Type
	}
	if local.Title != "" {
		base.Title = local.Title
	}
	if local.Description != "" {
		base.Description = local.Description
	}
	if local.Default != nil {
		base.Default = local.Default
	}
	if len(local.Examples) > 0 {
		base.Examples = local.Examples
	}
	if local.MinLength != nil {
		base.MinLength = local.MinLength
	}
	if local.MaxLength != nil {
		base.MaxLength = local.MaxLength
	}
	if local.Pattern != "" {
		base.Pattern = local.Pattern
	}
	if local.Format != "" {
		base.Format = local.Format
	}
	if local.Minimum != nil {
		base.Minimum = local.Minimum
	}
	if local.Maximum != nil {
		base.Maximum = local.Maximum
	}
	if local.ExclusiveMinimum != nil {
		base.ExclusiveMinimum = local.ExclusiveMinimum
	}
	if local.ExclusiveMaximum != nil {
		base.ExclusiveMaximum = local.ExclusiveMaximum
	}
	if local.Items != nil {
		base.Items = local.Items
	}
	if len(local.TupleItems) > 0 {
		base.TupleItems = local.TupleItems
	}
	if local.MinItems != nil {
		base.MinItems = local.MinItems
	}
	if local.MaxItems != nil {
		base.MaxItems = local.MaxItems
	}
	if len(local.Enum) > 0 {
		base.Enum = local.Enum
	}
	if local.HasConst {
		base.Const = local.Const
		base.HasConst = true
	}
	if len(local.Properties) > 0 {
		base.Properties = local.Properties
	}
	if len(local.Required) > 0 {
		base.Required = local.Required
	}
	if local.AdditionalProperties != nil {
		base.AdditionalProperties = local.AdditionalProperties
	}
	if len(local.AnyOf) > 0 {
		base.AnyOf = local.AnyOf
	}
	if len(local.OneOf) > 0 {
		base.OneOf = local.OneOf
	}
	if len(local.AllOf) > 0 {
		base.AllOf = local.AllOf
	}
	if len(local.Definitions) > 0 {
		base.Definitions = local.Definitions
	}
	if len(local.UserStories) > 0 {
		base.UserStories = local.UserStories
	}
	if len(local.BusinessRules) > 0 {
		base.BusinessRules = local.BusinessRules
	}
	if len(local.Specs) > 0 {
		base.Specs = local.Specs
	}
}

// splitRef splits a reference into its file part and fragment pointer.
// "common.json#/definitions/id" yields ("common.json", "definitions/id").
func splitRef(ref string) (filePart, fragment string) {
	if idx := strings.Index(ref, "#"); idx >= 0 {
		filePart = ref[:idx]
		fragment = strings.TrimPrefix(ref[idx+1:], "/")
	} else {
		filePart = ref
	}
	return filePart, fragment
}

// walkPointer walks slash-separated fragment segments into a resolved node.
// Returns nil as soon as a segment does not exist.
func walkPointer(n *schema.Node, fragment string) *schema.Node {
	segments := strings.Split(fragment, "/")
	cur := n
	for i := 0; i < len(segments); i++ {
		if cur == nil {
			return nil
		}
		switch segments[i] {
		case "definitions":
			i++
			if i >= len(segments) {
				return nil
			}
			cur = cur.Definitions[segments[i]]
		case "properties":
			i++
			if i >= len(segments) {
				return nil
			}
			cur = cur.Properties[segments[i]]
		case "items":
			cur = cur.Items
		case "anyOf", "oneOf", "allOf":
			var list []*schema.Node
			switch segments[i] {
			case "anyOf":
				list = cur.AnyOf
			case "oneOf":
				list = cur.OneOf
			default:
				list = cur.AllOf
			}
			i++
			if i >= len(segments) {
				return nil
			}
			idx, err := parseIndex(segments[i])
			if err != nil || idx < 0 || idx >= len(list) {
				return nil
			}
			cur = list[idx]
		default:
			return nil
		}
	}
	return cur
}

func parseIndex(s string) (int, error) {
	var idx int
	_, err := fmt.Sscanf(s, "%d", &idx)
	return idx, err
}

// Unresolved collects the paths of every node still carrying a reference
// after resolution, so callers can treat leftover $refs as incomplete
// subtrees instead of relying on thrown errors.
func Unresolved(root *schema.Node) []string {
	var out []string
	var walk func(n *schema.Node, path string)
	walk = func(n *schema.Node, path string) {
		if n == nil {
			return
		}
		if n.Ref != "" && !strings.HasPrefix(n.Ref, "#") {
			out = append(out, path)
		}
		for name, child := range n.Properties {
			walk(child, joinPath(path, name))
		}
		walk(n.Items, joinPath(path, "items"))
		for i, child := range n.TupleItems {
			walk(child, joinPath(path, fmt.Sprintf("items[%d]", i)))
		}
		for i, child := range n.AnyOf {
			walk(child, joinPath(path, fmt.Sprintf("anyOf[%d]", i)))
		}
		for i, child := range n.OneOf {
			walk(child, joinPath(path, fmt.Sprintf("oneOf[%d]", i)))
		}
		for i, child := range n.AllOf {
			walk(child, joinPath(path, fmt.Sprintf("allOf[%d]", i)))
		}
		for name, child := range n.Definitions {
			walk(child, joinPath(path, "definitions."+name))
		}
	}
	walk(root, "")
	sort.Strings(out)
	return out
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
