package olml

import (
	"cmp"
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Marshaler is implemented by types that describe their own shape.
// Enums usually implement it to return one of the variant constructors.
type Marshaler interface {
	MarshalOLML() (*Value, error)
}

var (
	valuePtrType      = reflect.TypeOf((*Value)(nil))
	valueType         = valuePtrType.Elem()
	marshalerType     = reflect.TypeOf((*Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ValueOf walks a Go value and returns its shape tree.
//
// Pointers become optionals, []byte becomes Bytes, other slices become
// sequences, arrays become tuples, maps become maps with sorted keys and
// structs become named structs of their exported fields. Struct fields
// may be renamed or skipped with an `olml:"name,omitempty"` tag.
func ValueOf(v any) (*Value, error) {
	if v == nil {
		return None(), nil
	}
	return valueOf(reflect.ValueOf(v))
}

func valueOf(rv reflect.Value) (*Value, error) {
	if !rv.IsValid() {
		return None(), nil
	}

	t := rv.Type()
	switch t {
	case valuePtrType:
		if rv.IsNil() {
			return None(), nil
		}
		return rv.Interface().(*Value), nil
	case valueType:
		v := rv.Interface().(Value)
		return &v, nil
	}

	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return None(), nil
	}

	if t.Implements(marshalerType) {
		return callMarshaler(rv)
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return callMarshaler(rv.Addr())
	}
	if t.Implements(textMarshalerType) {
		return callTextMarshaler(rv)
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() && reflect.PointerTo(t).Implements(textMarshalerType) {
		return callTextMarshaler(rv.Addr())
	}

	switch rv.Kind() {
	case reflect.Pointer:
		inner, err := valueOf(rv.Elem())
		if err != nil {
			return nil, err
		}
		return Some(inner), nil

	case reflect.Interface:
		return valueOf(rv.Elem())

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil

	case reflect.Float32:
		return Float32(float32(rv.Float())), nil

	case reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.String:
		return Str(rv.String()), nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !implementsAny(t.Elem()) {
			return Bytes(rv.Bytes()), nil
		}
		elems, err := elemsOf(rv)
		if err != nil {
			return nil, err
		}
		return Seq(elems...), nil

	case reflect.Array:
		elems, err := elemsOf(rv)
		if err != nil {
			return nil, err
		}
		return Tuple(elems...), nil

	case reflect.Map:
		return mapOf(rv)

	case reflect.Struct:
		return structOf(rv)

	default:
		return nil, Errorf("olml: unsupported type %s", t)
	}
}

func implementsAny(t reflect.Type) bool {
	return t.Implements(marshalerType) || t.Implements(textMarshalerType)
}

func callMarshaler(rv reflect.Value) (*Value, error) {
	v, err := rv.Interface().(Marshaler).MarshalOLML()
	if err != nil {
		return nil, wrapValueError(rv.Type(), err)
	}
	if v == nil {
		return None(), nil
	}
	return v, nil
}

func callTextMarshaler(rv reflect.Value) (*Value, error) {
	text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return nil, wrapValueError(rv.Type(), err)
	}
	return Str(string(text)), nil
}

// wrapValueError reports a failure raised by a value's own logic.
// Errors that already are *Error pass through unchanged.
func wrapValueError(t reflect.Type, err error) error {
	var oe *Error
	if errors.As(err, &oe) {
		return err
	}
	return &Error{Msg: fmt.Sprintf("olml: marshal %s: %v", t, err), Err: err}
}

func elemsOf(rv reflect.Value) ([]*Value, error) {
	elems := make([]*Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := valueOf(rv.Index(i))
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

func mapOf(rv reflect.Value) (*Value, error) {
	entries := make([]MapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := valueOf(iter.Key())
		if err != nil {
			return nil, err
		}
		v, err := valueOf(iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: k, Value: v})
	}
	sortEntries(entries)
	return Map(entries...), nil
}

// sortEntries orders map entries by key so that Go's randomized map
// iteration never leaks into the output. Entries whose keys compare equal
// are ordered by their encoded value.
func sortEntries(entries []MapEntry) {
	slices.SortStableFunc(entries, func(a, b MapEntry) int {
		if c := compareKeys(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(Encode(a.Value), Encode(b.Value))
	})
}

// keyClass ranks key kinds: unit-like keys first, then booleans, numbers,
// text and finally composites.
func keyClass(k Kind) int {
	switch k {
	case KindNone, KindUnit, KindUnitNamed:
		return 0
	case KindBool:
		return 1
	case KindInt, KindUint, KindFloat:
		return 2
	case KindChar, KindStr:
		return 3
	default:
		return 4
	}
}

// compareKeys is a total order over keys. Numbers of any kind compare by
// value, with NaN below every other number. Text compares bytewise.
// Keys that are still equal fall back to kind, float width and encoded text.
func compareKeys(a, b *Value) int {
	ka, kb := a.Kind(), b.Kind()
	if c := cmp.Compare(keyClass(ka), keyClass(kb)); c != 0 {
		return c
	}
	var c int
	switch keyClass(ka) {
	case 1:
		c = compareBools(a.boolVal, b.boolVal)
	case 2:
		c = compareNumbers(a, b)
	case 3:
		c = strings.Compare(keyText(a), keyText(b))
	}
	if c != 0 {
		return c
	}
	if c := cmp.Compare(ka, kb); c != 0 {
		return c
	}
	if ka == KindFloat {
		if c := cmp.Compare(a.bits, b.bits); c != 0 {
			return c
		}
	}
	return strings.Compare(Encode(a), Encode(b))
}

func keyText(v *Value) string {
	if v.kind == KindChar {
		return string(v.charVal)
	}
	return v.strVal
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// compareNumbers compares two Int, Uint or Float values exactly.
func compareNumbers(a, b *Value) int {
	switch a.kind {
	case KindInt:
		switch b.kind {
		case KindInt:
			return cmp.Compare(a.intVal, b.intVal)
		case KindUint:
			return compareIntUint(a.intVal, b.uintVal)
		default:
			return compareIntFloat(a.intVal, b.floatVal)
		}
	case KindUint:
		switch b.kind {
		case KindInt:
			return -compareIntUint(b.intVal, a.uintVal)
		case KindUint:
			return cmp.Compare(a.uintVal, b.uintVal)
		default:
			return compareUintFloat(a.uintVal, b.floatVal)
		}
	default:
		switch b.kind {
		case KindInt:
			return -compareIntFloat(b.intVal, a.floatVal)
		case KindUint:
			return -compareUintFloat(b.uintVal, a.floatVal)
		default:
			// cmp.Compare puts NaN first and treats -0 and +0 as equal.
			return cmp.Compare(a.floatVal, b.floatVal)
		}
	}
}

func compareIntUint(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return cmp.Compare(uint64(i), u)
}

const (
	twoTo63 = 9223372036854775808.0
	twoTo64 = 18446744073709551616.0
)

func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= twoTo63:
		return -1
	case f < -twoTo63:
		return 1
	}
	whole := math.Trunc(f)
	if c := cmp.Compare(i, int64(whole)); c != 0 {
		return c
	}
	return cmp.Compare(whole, f)
}

func compareUintFloat(u uint64, f float64) int {
	switch {
	case math.IsNaN(f), f < 0:
		return 1
	case f >= twoTo64:
		return -1
	}
	whole := math.Trunc(f)
	if c := cmp.Compare(u, uint64(whole)); c != 0 {
		return c
	}
	return cmp.Compare(whole, f)
}

type fieldInfo struct {
	index     int
	name      string
	omitEmpty bool
}

// structFields caches the encodable fields of each struct type.
var structFields sync.Map // reflect.Type -> []fieldInfo

func fieldsOf(t reflect.Type) []fieldInfo {
	if cached, ok := structFields.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("olml")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, fieldInfo{
			index:     i,
			name:      name,
			omitEmpty: slices.Contains(strings.Split(opts, ","), "omitempty"),
		})
	}

	actual, _ := structFields.LoadOrStore(t, fields)
	return actual.([]fieldInfo)
}

func structOf(rv reflect.Value) (*Value, error) {
	t := rv.Type()
	infos := fieldsOf(t)
	if len(infos) == 0 {
		return UnitStruct(t.Name()), nil
	}

	fields := make([]Field, 0, len(infos))
	for _, fi := range infos {
		fv := rv.Field(fi.index)
		if fi.omitEmpty && fv.IsZero() {
			continue
		}
		v, err := valueOf(fv)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: fi.name, Value: v})
	}
	return Struct(t.Name(), fields...), nil
}
