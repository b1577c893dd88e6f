package olml

import (
	"math"
	"testing"
)

func checkEncode(t *testing.T, v *Value, want string) {
	t.Helper()
	if got := Encode(v); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

// ============================================================
// Scalar Tests
// ============================================================

func TestEncode_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(47), "47"},
		{"negative int", Int(-12), "-12"},
		{"min int", Int(math.MinInt64), "-9223372036854775808"},
		{"uint", Uint(math.MaxUint64), "18446744073709551615"},
		{"float", Float(0.5), "0.5"},
		{"integral float", Float(1), "1"},
		{"large float", Float(1e21), "1000000000000000000000"},
		{"small float", Float(1e-7), "0.0000001"},
		{"float32", Float32(0.1), "0.1"},
		{"nan", Float(math.NaN()), "NaN"},
		{"inf", Float(math.Inf(1)), "inf"},
		{"neg inf", Float(math.Inf(-1)), "-inf"},
		{"char", Char('x'), `"x"`},
		{"multibyte char", Char('é'), `"é"`},
		{"string", Str("hlp"), `"hlp"`},
		{"empty string", Str(""), `""`},
		{"unescaped", Str("a\nb"), "\"a\nb\""},
		{"none", None(), "null"},
		{"nil", nil, "null"},
		{"unit", Unit(), "null"},
		{"unit struct", UnitStruct("S"), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEncode(t, tt.value, tt.expected)
		})
	}
}

func TestEncode_Bytes(t *testing.T) {
	checkEncode(t, Bytes([]byte{0, 7, 255}), "[0 7 255]")
	checkEncode(t, Bytes(nil), "[]")
}

// ============================================================
// Wrapper and Variant Tests
// ============================================================

func TestEncode_Wrappers(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"some", Some(Int(3)), "3"},
		{"some none", Some(None()), "null"},
		{"newtype struct", NewtypeStruct("S", Uint(47)), "47"},
		{"unit variant", UnitVariant("E", "A"), "A"},
		{"newtype variant", NewtypeVariant("E", "Dp", Uint(47)), "{Dp:47}"},
		{"nested newtype variant", NewtypeVariant("E", "A", NewtypeVariant("F", "B", Str("x"))), `{A:{B:"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEncode(t, tt.value, tt.expected)
		})
	}
}

// ============================================================
// Composite Tests
// ============================================================

func TestEncode_Seq(t *testing.T) {
	elems := make([]*Value, 0, 10)
	for i := int64(1); i <= 10; i++ {
		elems = append(elems, Int(i))
	}
	checkEncode(t, Seq(elems...), "[1 2 3 4 5 6 7 8 9 10]")

	strs := Seq(Str("1"), Str("2"), Str("3"))
	checkEncode(t, strs, `["1" "2" "3"]`)
}

func TestEncode_Tuple(t *testing.T) {
	v := Tuple(Str("hlp"), Seq(Str("D"), Str("p")), Int(47))
	checkEncode(t, v, `["hlp" ["D" "p"] 47]`)
}

func TestEncode_TupleStruct(t *testing.T) {
	v := TupleStruct("S", Uint(47), Str("Dp"))
	checkEncode(t, v, `{[47,"Dp"]}`)

	checkEncode(t, TupleStruct("S", Int(1)), `{[1]}`)
	checkEncode(t, TupleStruct("S", Int(1), Int(2), Int(3)), `{[1,2,3]}`)
}

func TestEncode_TupleVariant(t *testing.T) {
	v := TupleVariant("E", "S", Str("Dp"), Uint(47))
	checkEncode(t, v, `{"S":["Dp" 47]}`)
}

func TestEncode_Map(t *testing.T) {
	v := Map(
		Entry(Int(1), Str("6,5")),
		Entry(Int(47), Str("Dp")),
	)
	checkEncode(t, v, `{1:"6,5" 47:"Dp"}`)

	strKeys := Map(Entry(Str("a"), Bool(true)))
	checkEncode(t, strKeys, `{"a":true}`)

	compositeKey := Map(Entry(Tuple(Int(1), Int(2)), Unit()))
	checkEncode(t, compositeKey, `{[1 2]:null}`)
}

func TestEncode_Struct(t *testing.T) {
	v := Struct("S", F("r", Uint(1)), F("g", Uint(2)), F("b", Uint(4)))
	checkEncode(t, v, "{r:1 g:2 b:4}")
}

func TestEncode_StructVariant(t *testing.T) {
	v := StructVariant("E", "S", F("r", Uint(1)), F("g", Uint(2)), F("b", Uint(4)))
	checkEncode(t, v, "{S:{r:1 g:2 b:4}}")
}

func TestEncode_EmptyComposites(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"seq", Seq(), "[]"},
		{"tuple", Tuple(), "[]"},
		{"tuple struct", TupleStruct("S"), "{[]}"},
		{"tuple variant", TupleVariant("E", "T"), `{"T":[]}`},
		{"map", Map(), "{}"},
		{"struct", Struct("S"), "{}"},
		{"struct variant", StructVariant("E", "T"), "{T:{}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEncode(t, tt.value, tt.expected)
		})
	}
}

func TestEncode_Nested(t *testing.T) {
	// Elements ending in a closing bracket must still be separated.
	v := Seq(
		Seq(),
		Map(),
		Seq(Seq(Int(1)), Seq()),
		Struct("S", F("a", Seq()), F("b", Map())),
		TupleStruct("T", Seq(), Seq(Int(2))),
	)
	checkEncode(t, v, "[[] {} [[1] []] {a:[] b:{}} {[[],[2]]}]")
}

func TestEncode_Deterministic(t *testing.T) {
	v := StructVariant("E", "S",
		F("items", Seq(Int(1), Float(2.5), Str("x"))),
		F("lookup", Map(Entry(Str("k"), Some(Char('c'))))),
		F("pair", TupleStruct("P", Bool(false), None())),
	)
	first := Encode(v)
	if second := Encode(v); second != first {
		t.Errorf("non-deterministic output\n  first:  %s\n  second: %s", first, second)
	}
	checkEncode(t, v, `{S:{items:[1 2.5 "x"] lookup:{"k":"c"} pair:{[false,null]}}}`)
}

func TestValue_String(t *testing.T) {
	if got := NewtypeVariant("E", "Dp", Int(47)).String(); got != "{Dp:47}" {
		t.Errorf("String() = %q, want %q", got, "{Dp:47}")
	}
}
