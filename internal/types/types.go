// Package types implements the Pascal-lite type descriptor graph: primitive,
// sub-range, enumeration, array, record, and pointer types, along with the
// size and ordinal-range rules the parser and interpreter both rely on.
package types

import "fmt"

// Kind identifies which variant of the type descriptor graph a Type is.
type Kind byte

const (
	Integer Kind = iota
	Real
	Boolean
	Character
	Enumeration
	Array
	Record
	Pointer
)

var kindNames = [...]string{
	Integer:     "integer",
	Real:        "real",
	Boolean:     "boolean",
	Character:   "character",
	Enumeration: "enumeration",
	Array:       "array",
	Record:      "record",
	Pointer:     "pointer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "???"
}

// Range is an inclusive [Min, Max] ordinal sub-range.
type Range struct {
	Min, Max int64
}

// Span returns the number of ordinal values the range covers.
func (r Range) Span() int64 {
	return r.Max - r.Min + 1
}

// MaxRange is the full representable integer range; assignments into a
// variable whose declared range is MaxRange never need a bounds check.
var MaxRange = Range{Min: minInt64, Max: maxInt64}

const (
	minInt64 = -1 << 63
	maxInt64 = 1<<63 - 1
)

// Field is one named member of a Record, holding its byte... rather, datum
// offset from the start of the record and its type.
type Field struct {
	Name   string
	Offset int
	Type   *Type
}

// Type is a node in the shared, possibly-cyclic (through Pointer) type
// descriptor graph.
type Type struct {
	Kind  Kind
	Size  int   // size in datums
	Range Range // valid for ordinal kinds only

	// Array
	IndexType *Type
	ElemType  *Type

	// Record
	Fields []Field

	// Pointer
	Pointee *Type

	// Enumeration
	Names []string
}

// Predefined primitive descriptors, shared by every reference to "integer",
// "real", "boolean", or "char" so identity comparisons on the primitives
// remain cheap; see original_source/type.h and dis/typedesc.go for the
// shared-descriptor idiom this mirrors.
var (
	IntegerType = &Type{Kind: Integer, Size: 1, Range: MaxRange}
	RealType    = &Type{Kind: Real, Size: 1}
	BooleanType = &Type{Kind: Boolean, Size: 1, Range: Range{0, 1}}
	CharType    = &Type{Kind: Character, Size: 1, Range: Range{0, 255}}
)

// NewSubrangeInt returns a new sub-range integer type, [min,max].
func NewSubrangeInt(min, max int64) *Type {
	return &Type{Kind: Integer, Size: 1, Range: Range{Min: min, Max: max}}
}

// NewEnum returns a new enumeration type over names, plus the ordinal value
// (0, 1, 2, …) assigned to each name in order.
func NewEnum(names []string) (*Type, map[string]int64) {
	max := int64(0)
	if len(names) > 0 {
		max = int64(len(names) - 1)
	}
	t := &Type{
		Kind:  Enumeration,
		Size:  1,
		Range: Range{Min: 0, Max: max},
		Names: append([]string(nil), names...),
	}
	values := make(map[string]int64, len(names))
	for i, name := range names {
		values[name] = int64(i)
	}
	return t, values
}

// NewArray returns a new array type over indexType (which must be ordinal)
// with elements of elemType. Size is span(index) · size(element).
func NewArray(indexType, elemType *Type) *Type {
	span := int64(1)
	if indexType != nil {
		span = indexType.Range.Span()
	}
	return &Type{
		Kind:      Array,
		Size:      int(span) * elemType.Size,
		IndexType: indexType,
		ElemType:  elemType,
	}
}

// NewRecord returns a new record type over an ordered field list; each
// Field's Offset is computed here as the running sum of preceding fields'
// sizes, and the returned type's Size is their total.
func NewRecord(names []string, fieldTypes []*Type) *Type {
	fields := make([]Field, len(names))
	offset := 0
	for i, name := range names {
		fields[i] = Field{Name: name, Offset: offset, Type: fieldTypes[i]}
		offset += fieldTypes[i].Size
	}
	return &Type{Kind: Record, Size: offset, Fields: fields}
}

// NewPointer returns a new pointer type to pointee. Pointee is nil for the
// type of the nil constant, which AssignCompatible matches only against
// another nil pointee.
func NewPointer(pointee *Type) *Type {
	return &Type{Kind: Pointer, Size: 1, Pointee: pointee}
}

// IsOrdinal reports whether t's values are totally ordered and enumerable:
// integer, boolean, character, or enumeration.
func (t *Type) IsOrdinal() bool {
	switch t.Kind {
	case Integer, Boolean, Character, Enumeration:
		return true
	default:
		return false
	}
}

// FieldByName returns the named field's offset and type, and whether it was
// found. t must be a Record.
func (t *Type) FieldByName(name string) (offset int, ftype *Type, ok bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Offset, f.Type, true
		}
	}
	return 0, nil, false
}

// AssignCompatible reports whether a value of type src may be assigned (after
// any numeric promotion the caller has already applied) into a variable of
// type dst: same kind and matching structural invariants — same element type
// for arrays, same pointee for pointers, same field sequence for records.
// Sub-range bounds never affect compatibility; they only trigger a run-time
// range check.
func AssignCompatible(dst, src *Type) bool {
	if dst == nil || src == nil {
		return false
	}
	if dst.Kind != src.Kind {
		return false
	}
	switch dst.Kind {
	case Array:
		return AssignCompatible(dst.ElemType, src.ElemType)
	case Pointer:
		if dst.Pointee == nil || src.Pointee == nil {
			return dst.Pointee == src.Pointee
		}
		return AssignCompatible(dst.Pointee, src.Pointee)
	case Record:
		if len(dst.Fields) != len(src.Fields) {
			return false
		}
		for i := range dst.Fields {
			if dst.Fields[i].Name != src.Fields[i].Name {
				return false
			}
			if !AssignCompatible(dst.Fields[i].Type, src.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t *Type) String() string {
	switch t.Kind {
	case Array:
		return fmt.Sprintf("array[%d..%d] of %s", t.IndexType.Range.Min, t.IndexType.Range.Max, t.ElemType)
	case Pointer:
		if t.Pointee == nil {
			return "^?"
		}
		return "^" + t.Pointee.String()
	case Record:
		return "record"
	case Enumeration:
		return "enumeration"
	default:
		return t.Kind.String()
	}
}
