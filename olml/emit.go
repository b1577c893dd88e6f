package olml

import (
	"math"
	"strconv"
	"strings"
)

// Encode converts a Value to OLML text. It never fails.
func Encode(v *Value) string {
	e := &emitter{}
	e.emit(v)
	return e.sb.String()
}

type emitter struct {
	sb strings.Builder
}

func (e *emitter) emit(v *Value) {
	switch v.Kind() {
	case KindNone, KindUnit, KindUnitNamed:
		e.sb.WriteString("null")

	case KindBool:
		if v.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}

	case KindInt:
		e.sb.WriteString(strconv.FormatInt(v.intVal, 10))

	case KindUint:
		e.sb.WriteString(strconv.FormatUint(v.uintVal, 10))

	case KindFloat:
		e.emitFloat(v.floatVal, v.bits)

	case KindChar:
		e.emitString(string(v.charVal))

	case KindStr:
		e.emitString(v.strVal)

	case KindBytes:
		e.emitBytes(v.bytesVal)

	case KindSome, KindNewtypeNamed:
		e.emit(v.inner)

	case KindUnitVariant:
		e.sb.WriteString(v.tag)

	case KindNewtypeVariant:
		e.sb.WriteByte('{')
		e.sb.WriteString(v.tag)
		e.sb.WriteByte(':')
		e.emit(v.inner)
		e.sb.WriteByte('}')

	case KindTuple, KindSeq:
		e.sb.WriteByte('[')
		e.emitElems(v.elems, ' ')
		e.sb.WriteByte(']')

	case KindTupleNamed:
		e.sb.WriteString("{[")
		e.emitElems(v.elems, ',')
		e.sb.WriteString("]}")

	case KindTupleVariant:
		// The tag takes the string path here, so it is quoted.
		e.sb.WriteByte('{')
		e.emitString(v.tag)
		e.sb.WriteString(":[")
		e.emitElems(v.elems, ' ')
		e.sb.WriteString("]}")

	case KindMap:
		e.emitMap(v.entries)

	case KindStructNamed:
		e.sb.WriteByte('{')
		e.emitFields(v.fields)
		e.sb.WriteByte('}')

	case KindStructVariant:
		e.sb.WriteByte('{')
		e.sb.WriteString(v.tag)
		e.sb.WriteString(":{")
		e.emitFields(v.fields)
		e.sb.WriteString("}}")
	}
}

func (e *emitter) emitFloat(f float64, bits int) {
	switch {
	case math.IsNaN(f):
		e.sb.WriteString("NaN")
	case math.IsInf(f, 1):
		e.sb.WriteString("inf")
	case math.IsInf(f, -1):
		e.sb.WriteString("-inf")
	default:
		if bits != 32 {
			bits = 64
		}
		e.sb.WriteString(strconv.FormatFloat(f, 'f', -1, bits))
	}
}

// emitString writes s between quotes. Contents are not escaped.
func (e *emitter) emitString(s string) {
	e.sb.WriteByte('"')
	e.sb.WriteString(s)
	e.sb.WriteByte('"')
}

// emitBytes writes a byte string as a sequence of unsigned integers.
func (e *emitter) emitBytes(b []byte) {
	e.sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			e.sb.WriteByte(' ')
		}
		e.sb.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	e.sb.WriteByte(']')
}

func (e *emitter) emitElems(elems []*Value, sep byte) {
	for i, elem := range elems {
		if i > 0 {
			e.sb.WriteByte(sep)
		}
		e.emit(elem)
	}
}

func (e *emitter) emitMap(entries []MapEntry) {
	e.sb.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			e.sb.WriteByte(' ')
		}
		e.emit(entry.Key)
		e.sb.WriteByte(':')
		e.emit(entry.Value)
	}
	e.sb.WriteByte('}')
}

func (e *emitter) emitFields(fields []Field) {
	for i, field := range fields {
		if i > 0 {
			e.sb.WriteByte(' ')
		}
		e.sb.WriteString(field.Name)
		e.sb.WriteByte(':')
		e.emit(field.Value)
	}
}
