package topic

import (
	"strings"
)

// Builder encapsulates the logic for constructing MQTT topic strings
// below a root namespace and a device identifier.
type Builder struct {
	// root is the base namespace for all topics (e.g., "vocbridge", "home/cars").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.Trim(root, "/")}
}

// Root returns the namespace of the builder.
func (b *Builder) Root() string {
	return b.root
}

// Build joins the root, the device id and the given segments.
// Pattern: {root}/{id}/{segments...}
func (b *Builder) Build(id string, segments ...string) string {
	parts := make([]string, 0, len(segments)+2)
	if b.root != "" {
		parts = append(parts, b.root)
	}
	parts = append(parts, id)
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// BuildWildcard is Build with a single-level wildcard after the segment,
// followed by the optional suffix.
// Pattern: {root}/{id}/{segment}/+/{suffix}
func (b *Builder) BuildWildcard(id, segment string, suffix ...string) string {
	return b.Build(id, append([]string{segment, Wildcard}, suffix...)...)
}

// Match extracts the part of topic matched by the wildcard of
// BuildWildcard(id, segment, suffix...). ok is false when topic does not fit.
func (b *Builder) Match(topic, id, segment string, suffix ...string) (string, bool) {
	prefix := b.Build(id, segment) + "/"
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(topic, prefix)

	if tail := strings.Join(suffix, "/"); tail != "" {
		if !strings.HasSuffix(rest, "/"+tail) {
			return "", false
		}
		rest = strings.TrimSuffix(rest, "/"+tail)
	}
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
