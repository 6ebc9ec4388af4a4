// Package entity defines the generic data model for feed records: an
// ordered mapping from field names to untyped values which may be scalars,
// repeated groups or nested entities. The model itself carries no behavior
// beyond construction and lookup; rendering lives in render.go.
package entity

// Value is the tagged union over everything a field may hold. Exactly three
// concrete types implement it: Scalar, Repeated and *Entity. A nil Value is
// a legal absent scalar and renders as empty element content.
type Value interface {
	value()
}

// Scalar is a plain text field value. May be empty.
type Scalar string

// Repeated represents a field occurring multiple times within one entity.
// Element order is significant. Elements are usually scalars or entities,
// nesting of repeated groups is possible but not expected in practice.
type Repeated []Value

func (Scalar) value()   {}
func (Repeated) value() {}
func (*Entity) value()  {}

// Field is a single named member of an entity.
type Field struct {
	Name  string
	Value Value
}

// Entity is one feed record. Field names are unique, insertion order is
// preserved and significant for output. Entities coming from the server or
// from parsed documents are treated as read-only once built.
type Entity struct {
	fields []Field
	index  map[string]int
}

func New() *Entity {
	return &Entity{index: make(map[string]int)}
}

// Set adds a field or, when the name is already present, replaces its value
// in place keeping the original position (last write wins).
func (e *Entity) Set(name string, v Value) {
	if i, ok := e.index[name]; ok {
		e.fields[i].Value = v
		return
	}
	e.index[name] = len(e.fields)
	e.fields = append(e.fields, Field{Name: name, Value: v})
}

// Get returns the value of the named field. The second result reports
// whether the field exists; an existing field may still hold a nil value.
func (e *Entity) Get(name string) (Value, bool) {
	if i, ok := e.index[name]; ok {
		return e.fields[i].Value, true
	}
	return nil, false
}

// Fields returns entity members in insertion order. The returned slice is
// the entity's own backing storage and must not be modified.
func (e *Entity) Fields() []Field {
	return e.fields
}

func (e *Entity) Len() int {
	return len(e.fields)
}

// Feed is an ordered sequence of entities as returned by the server. Order
// is preserved on output, there is no deduplication or reordering.
type Feed []*Entity
