package configmapper

import (
	"reflect"
	"sort"
	"strings"
)

// FieldDescriptor is the metadata for a single configurable field.
// Descriptors are values: a Catalog hands out copies and never
// changes them after it is built.
type FieldDescriptor struct {
	// Identifier is the dotted path that names the field in the Catalog
	Identifier string
	// Name is the Go name of the field in the struct that declares it
	Name        string
	Type        reflect.Type
	Position    int // -1 when the field can only be supplied by key
	Description []string
	Required    bool
	// Default is the value the field had when the catalog was built.  Nil
	// slices are reported as empty slices.
	Default interface{}

	env  string
	path []fieldStep
}

// fieldStep is one hop from a struct value towards the field.  The
// last step is the field itself; earlier steps are nested structs.
type fieldStep struct {
	name    string
	index   []int  // may pass through embedded structs
	segment string // identifier segment consumed by this hop
}

// Positional reports if the field has a positional slot
func (d FieldDescriptor) Positional() bool { return d.Position >= 0 }

// Nested reports if the field lives inside a nested struct
func (d FieldDescriptor) Nested() bool { return len(d.path) > 1 }

// child returns the descriptor as seen from the nested struct
// named by the first step of the path.
func (d FieldDescriptor) child() FieldDescriptor {
	n := d
	n.Identifier = strings.TrimPrefix(d.Identifier, d.path[0].segment+".")
	n.path = d.path[1:]
	return n
}

func (d FieldDescriptor) clone() FieldDescriptor {
	n := d
	if d.Description != nil {
		n.Description = make([]string, len(d.Description))
		copy(n.Description, d.Description)
	}
	return n
}

// Catalog is the flattened set of configurable fields of a struct type,
// keyed by identifier.  It is read-only and safe to share.
type Catalog struct {
	typ        reflect.Type
	fields     map[string]FieldDescriptor
	byPosition map[int]string
	sole       string
}

func newCatalog(t reflect.Type, fields map[string]FieldDescriptor) Catalog {
	c := Catalog{
		typ:        t,
		fields:     fields,
		byPosition: make(map[int]string),
	}
	for id, field := range fields {
		if field.Positional() {
			c.byPosition[field.Position] = id
		}
		if len(fields) == 1 {
			c.sole = id
		}
	}
	return c
}

// Type is the struct type that was cataloged
func (c Catalog) Type() reflect.Type { return c.typ }

func (c Catalog) Len() int { return len(c.fields) }

func (c Catalog) Lookup(identifier string) (FieldDescriptor, bool) {
	d, ok := c.fields[identifier]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.clone(), true
}

// AtPosition finds the field that accepts the positional value at index i
func (c Catalog) AtPosition(i int) (FieldDescriptor, bool) {
	id, ok := c.byPosition[i]
	if !ok {
		return FieldDescriptor{}, false
	}
	return c.Lookup(id)
}

// Identifiers returns all identifiers, sorted
func (c Catalog) Identifiers() []string {
	ids := make([]string, 0, len(c.fields))
	for id := range c.fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fields returns copies of all descriptors sorted by identifier
func (c Catalog) Fields() []FieldDescriptor {
	ids := c.Identifiers()
	fields := make([]FieldDescriptor, len(ids))
	for i, id := range ids {
		fields[i] = c.fields[id].clone()
	}
	return fields
}
