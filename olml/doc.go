// Package olml implements OLML, a compact bracket-delimited text encoding
// for structured values.
//
// OLML is one-way: values are encoded, never parsed back.
//
// # Data Model
//
// A Value is one of a closed set of shapes:
//
//	Scalars:   bool, int, uint, float, char, str, bytes
//	Absence:   none, unit, unit struct
//	Wrappers:  some, newtype struct, newtype variant
//	Sequences: seq, tuple, tuple struct, tuple variant
//	Records:   map, struct, struct variant, unit variant
//
// Go values are mapped onto shapes by ValueOf. Types that need a specific
// shape, enums in particular, implement Marshaler.
//
// # Syntax
//
//	Bool:            true / false
//	Number:          47, -3, 0.5
//	String, char:    "raw contents" (no escaping)
//	None, unit:      null
//	Unit variant:    A
//	Newtype variant: {Dp:47}
//	Seq, tuple:      [1 2 3]
//	Tuple struct:    {[47,"Dp"]}
//	Tuple variant:   {"S":["Dp" 47]}
//	Map:             {1:"6,5" 47:"Dp"}
//	Struct:          {r:1 g:2 b:4}
//	Struct variant:  {S:{r:1 g:2 b:4}}
//
// Some and newtype structs are transparent; bytes are written as a
// sequence of numbers.
//
// # Example
//
//	type Color struct {
//	    R uint8 `olml:"r"`
//	    G uint8 `olml:"g"`
//	    B uint8 `olml:"b"`
//	}
//
//	s, _ := olml.Marshal(Color{R: 1, G: 2, B: 4})
//	// s == "{r:1 g:2 b:4}"
package olml
