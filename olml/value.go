package olml

import (
	"fmt"
	"slices"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindChar
	KindStr
	KindBytes
	KindSome
	KindUnit
	KindUnitNamed   // Unit struct: S
	KindUnitVariant // Payload-free enum case: E::A
	KindNewtypeNamed
	KindNewtypeVariant
	KindTuple
	KindTupleNamed   // Tuple struct: S(a, b)
	KindTupleVariant // E::S(a, b)
	KindMap
	KindStructNamed
	KindStructVariant // E::S{r: 1}
	KindSeq
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindStr:
		return "str"
	case KindBytes:
		return "bytes"
	case KindSome:
		return "some"
	case KindUnit:
		return "unit"
	case KindUnitNamed:
		return "unit_struct"
	case KindUnitVariant:
		return "unit_variant"
	case KindNewtypeNamed:
		return "newtype_struct"
	case KindNewtypeVariant:
		return "newtype_variant"
	case KindTuple:
		return "tuple"
	case KindTupleNamed:
		return "tuple_struct"
	case KindTupleVariant:
		return "tuple_variant"
	case KindMap:
		return "map"
	case KindStructNamed:
		return "struct"
	case KindStructVariant:
		return "struct_variant"
	case KindSeq:
		return "seq"
	default:
		return "unknown"
	}
}

// Value is one node of the shape tree handed to the encoder.
// Only the payload matching kind is meaningful.
type Value struct {
	kind Kind

	// Scalars
	boolVal  bool
	intVal   int64
	uintVal  uint64
	floatVal float64
	bits     int // 32 or 64, floats only
	charVal  rune
	strVal   string
	bytesVal []byte

	// Type or enum name for named shapes and variants
	name string
	tag  string

	// Some, NewtypeNamed, NewtypeVariant
	inner *Value

	// Tuple, TupleNamed, TupleVariant, Seq
	elems []*Value

	// StructNamed, StructVariant
	fields []Field

	// Map
	entries []MapEntry
}

// Field is a named struct field.
type Field struct {
	Name  string
	Value *Value
}

// MapEntry is a key-value pair of a map. Keys are arbitrary values.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// F creates a Field for use with Struct and StructVariant.
func F(name string, v *Value) Field {
	return Field{Name: name, Value: v}
}

// Entry creates a MapEntry for use with Map.
func Entry(k, v *Value) MapEntry {
	return MapEntry{Key: k, Value: v}
}

// ============================================================
// Constructors
// ============================================================

// None creates an absent optional.
func None() *Value {
	return &Value{kind: KindNone}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates a signed integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Uint creates an unsigned integer value.
func Uint(v uint64) *Value {
	return &Value{kind: KindUint, uintVal: v}
}

// Float creates a 64-bit float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v, bits: 64}
}

// Float32 creates a 32-bit float value. It prints with float32 precision.
func Float32(v float32) *Value {
	return &Value{kind: KindFloat, floatVal: float64(v), bits: 32}
}

// Char creates a single character value.
func Char(v rune) *Value {
	return &Value{kind: KindChar, charVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindStr, strVal: v}
}

// Bytes creates a byte string value from a copy of v.
func Bytes(v []byte) *Value {
	return &Value{kind: KindBytes, bytesVal: slices.Clone(v)}
}

// Some wraps a present optional.
func Some(v *Value) *Value {
	return &Value{kind: KindSome, inner: v}
}

// Unit creates the empty value ().
func Unit() *Value {
	return &Value{kind: KindUnit}
}

// UnitStruct creates a field-less named struct.
func UnitStruct(name string) *Value {
	return &Value{kind: KindUnitNamed, name: name}
}

// UnitVariant creates an enum case without payload.
func UnitVariant(enum, tag string) *Value {
	return &Value{kind: KindUnitVariant, name: enum, tag: tag}
}

// NewtypeStruct creates a named single-value wrapper.
func NewtypeStruct(name string, v *Value) *Value {
	return &Value{kind: KindNewtypeNamed, name: name, inner: v}
}

// NewtypeVariant creates an enum case carrying one value.
func NewtypeVariant(enum, tag string, v *Value) *Value {
	return &Value{kind: KindNewtypeVariant, name: enum, tag: tag, inner: v}
}

// Tuple creates a fixed-size anonymous tuple.
func Tuple(elems ...*Value) *Value {
	return &Value{kind: KindTuple, elems: slices.Clone(elems)}
}

// TupleStruct creates a named tuple.
func TupleStruct(name string, elems ...*Value) *Value {
	return &Value{kind: KindTupleNamed, name: name, elems: slices.Clone(elems)}
}

// TupleVariant creates an enum case carrying a tuple.
func TupleVariant(enum, tag string, elems ...*Value) *Value {
	return &Value{kind: KindTupleVariant, name: enum, tag: tag, elems: slices.Clone(elems)}
}

// Map creates a map value. Entries are kept in the given order.
func Map(entries ...MapEntry) *Value {
	return &Value{kind: KindMap, entries: slices.Clone(entries)}
}

// Struct creates a named struct.
func Struct(name string, fields ...Field) *Value {
	return &Value{kind: KindStructNamed, name: name, fields: slices.Clone(fields)}
}

// StructVariant creates an enum case carrying named fields.
func StructVariant(enum, tag string, fields ...Field) *Value {
	return &Value{kind: KindStructVariant, name: enum, tag: tag, fields: slices.Clone(fields)}
}

// Seq creates a variable-length sequence.
func Seq(elems ...*Value) *Value {
	return &Value{kind: KindSeq, elems: slices.Clone(elems)}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the shape of the value. A nil value is None.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNone
	}
	return v.kind
}

// Name returns the type name of a named shape or the enum name of a variant.
func (v *Value) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Tag returns the variant tag, or "" for non-variants.
func (v *Value) Tag() string {
	if v == nil {
		return ""
	}
	return v.tag
}

// Inner returns the payload of Some, NewtypeNamed and NewtypeVariant.
func (v *Value) Inner() *Value {
	if v == nil {
		return nil
	}
	return v.inner
}

// Elems returns the elements of a tuple-like shape or sequence.
func (v *Value) Elems() []*Value {
	if v == nil {
		return nil
	}
	return v.elems
}

// Fields returns the fields of a struct or struct variant.
func (v *Value) Fields() []Field {
	if v == nil {
		return nil
	}
	return v.fields
}

// Entries returns the entries of a map.
func (v *Value) Entries() []MapEntry {
	if v == nil {
		return nil
	}
	return v.entries
}

// Len returns the number of nested values of a composite.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindTuple, KindTupleNamed, KindTupleVariant, KindSeq:
		return len(v.elems)
	case KindStructNamed, KindStructVariant:
		return len(v.fields)
	case KindMap:
		return len(v.entries)
	case KindBytes:
		return len(v.bytesVal)
	default:
		return 0
	}
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if err := v.expect(KindBool); err != nil {
		return false, err
	}
	return v.boolVal, nil
}

// AsInt returns the signed integer value.
func (v *Value) AsInt() (int64, error) {
	if err := v.expect(KindInt); err != nil {
		return 0, err
	}
	return v.intVal, nil
}

// AsUint returns the unsigned integer value.
func (v *Value) AsUint() (uint64, error) {
	if err := v.expect(KindUint); err != nil {
		return 0, err
	}
	return v.uintVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if err := v.expect(KindFloat); err != nil {
		return 0, err
	}
	return v.floatVal, nil
}

// AsChar returns the character value.
func (v *Value) AsChar() (rune, error) {
	if err := v.expect(KindChar); err != nil {
		return 0, err
	}
	return v.charVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if err := v.expect(KindStr); err != nil {
		return "", err
	}
	return v.strVal, nil
}

// AsBytes returns the byte string value.
func (v *Value) AsBytes() ([]byte, error) {
	if err := v.expect(KindBytes); err != nil {
		return nil, err
	}
	return v.bytesVal, nil
}

func (v *Value) expect(k Kind) error {
	if v == nil {
		return fmt.Errorf("olml: nil value")
	}
	if v.kind != k {
		return fmt.Errorf("olml: expected %s, got %s", k, v.kind)
	}
	return nil
}

// String returns the encoded text of the value.
func (v *Value) String() string {
	return Encode(v)
}
