// Package dataset holds the in-memory columnar data model: a Schema of typed
// fields, four nullable column variants and the Dataset that pairs header names
// with columns.
//
// Columns and datasets are immutable once constructed. Every read-only method
// is safe for concurrent use.
package dataset

import (
	"fmt"
	"strings"
)

// DataType is the logical element type of a column.
type DataType int

const (
	Int DataType = iota
	Float
	Str
	Bool
)

// String returns the canonical type name ("Int", "Float", "Str", "Bool").
func (t DataType) String() string {
	switch t {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Str:
		return "Str"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ParseDataType maps a type name onto a DataType. Matching is case-insensitive
// and accepts the database-ish aliases commonly found in config files.
//
//	"int", "integer", "int64", "bigint"      → Int
//	"float", "double", "float64", "real"     → Float
//	"str", "string", "text", "varchar"       → Str
//	"bool", "boolean"                        → Bool
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "int64", "bigint", "i64":
		return Int, nil
	case "float", "double", "float64", "real", "f64":
		return Float, nil
	case "str", "string", "text", "varchar":
		return Str, nil
	case "bool", "boolean":
		return Bool, nil
	}
	return 0, fmt.Errorf("dataset: unknown data type %q", s)
}

// Field is a named, typed slot in a Schema.
type Field struct {
	Name string
	Type DataType
}

// NewField is a small convenience constructor.
func NewField(name string, t DataType) Field { return Field{Name: name, Type: t} }

// Schema is an ordered list of fields. It drives typed parsing during
// ingestion; the i-th field describes the i-th cell of every record.
type Schema struct {
	fields []Field
}

// NewSchema copies fields into a new Schema.
func NewSchema(fields ...Field) Schema {
	return Schema{fields: append([]Field(nil), fields...)}
}

// Fields returns a copy of the schema fields in declaration order.
func (s Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field returns the i-th field.
func (s Schema) Field(i int) Field { return s.fields[i] }

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the first field named name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
