// Package fingerprint implements the tagged-sum identity contract that
// every cacheable pipeline artifact carries: a Fingerprint's canonical
// textual serialization is its identity, and its dependency list is itself
// a slice of fingerprints, so the transitive closure of any artifact is
// encoded in its own top-level fingerprint.
package fingerprint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fingerprint is an immutable value identifying a cacheable artifact.
// Two fingerprints are equal iff their String() output is byte-identical.
type Fingerprint struct {
	kind         string
	fields       map[string]string
	dependencies []Fingerprint
}

// Kind returns the variant tag (e.g. "FastProp", "LinearRegression").
func (f Fingerprint) Kind() string { return f.kind }

// Dependencies returns the fingerprint's direct dependency list.
func (f Fingerprint) Dependencies() []Fingerprint {
	out := make([]Fingerprint, len(f.dependencies))
	copy(out, f.dependencies)
	return out
}

// Field looks up a canonicalized scalar field by name.
func (f Fingerprint) Field(name string) (string, bool) {
	v, ok := f.fields[name]
	return v, ok
}

// String produces the canonical wire form: kind, then sorted field
// key=value pairs, then each dependency's own canonical form in order.
// This is the single source of truth for equality and hashing.
func (f Fingerprint) String() string {
	var b strings.Builder
	b.WriteString(f.kind)
	b.WriteByte('{')

	keys := make([]string, 0, len(f.fields))
	for k := range f.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(f.fields[k])
	}
	b.WriteByte('}')

	if len(f.dependencies) > 0 {
		b.WriteString("[")
		for i, d := range f.dependencies {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(d.String())
		}
		b.WriteString("]")
	}
	return b.String()
}

// Equal reports whether two fingerprints share the same canonical form.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.String() == other.String()
}

// Less provides a total order over fingerprints, sufficient for use as a
// sorted map key or in a btree-backed cache.
func (f Fingerprint) Less(other Fingerprint) bool {
	return f.String() < other.String()
}

// IsZero reports whether f is the zero-value Fingerprint (no kind set).
func (f Fingerprint) IsZero() bool { return f.kind == "" }

// builder assembles a Fingerprint from a kind tag and canonicalized fields.
type builder struct {
	kind   string
	fields map[string]string
	deps   []Fingerprint
}

func newBuilder(kind string) *builder {
	return &builder{kind: kind, fields: make(map[string]string)}
}

func (b *builder) str(name, value string) *builder {
	b.fields[name] = value
	return b
}

func (b *builder) i(name string, value int) *builder {
	b.fields[name] = strconv.Itoa(value)
	return b
}

func (b *builder) f64(name string, value float64) *builder {
	// Fixed, platform-stable textual form: no exponent ambiguity, shortest
	// round-trippable representation.
	b.fields[name] = strconv.FormatFloat(value, 'g', -1, 64)
	return b
}

func (b *builder) bool(name string, value bool) *builder {
	b.fields[name] = strconv.FormatBool(value)
	return b
}

func (b *builder) strs(name string, values []string) *builder {
	b.fields[name] = strings.Join(values, "\x1f")
	return b
}

func (b *builder) ints(name string, values []int) *builder {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	b.fields[name] = strings.Join(parts, "\x1f")
	return b
}

func (b *builder) f64s(name string, values []float64) *builder {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	b.fields[name] = strings.Join(parts, "\x1f")
	return b
}

func (b *builder) deps(d []Fingerprint) *builder {
	b.deps = append(b.deps, d...)
	return b
}

func (b *builder) build() Fingerprint {
	return Fingerprint{kind: b.kind, fields: b.fields, dependencies: b.deps}
}

// ErrMissingDependency is returned by ValidateClosure when a fingerprint's
// transitive closure references a dependency that cannot be resolved.
// Constructing a fingerprint never defers this check: every variant
// constructor in this package requires its dependencies up front, so this
// error only ever surfaces from ValidateClosure on hand-assembled or
// deserialized fingerprints.
type ErrMissingDependency struct {
	Fingerprint string
}

func (e *ErrMissingDependency) Error() string {
	return fmt.Sprintf("fingerprint: missing dependency referenced by %s", e.Fingerprint)
}
