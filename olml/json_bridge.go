package olml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts JSON documents to Value trees. Comments and trailing commas
// (JSONC) are accepted. Object keys become Str keys in sorted order,
// integral numbers become Int (or Uint above int64) and every other
// number becomes Float.

// FromJSON converts JSON bytes to a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("JSON parse error: trailing data after top-level value")
	}
	return FromJSONValue(v)
}

// FromJSONValue converts a Go value produced by json.Unmarshal to a
// Value. Both float64 and json.Number numbers are accepted.
func FromJSONValue(v any) (*Value, error) {
	if v == nil {
		return None(), nil
	}

	switch val := v.(type) {
	case bool:
		return Bool(val), nil

	case float64:
		return Float(val), nil

	case json.Number:
		return fromJSONNumber(val)

	case string:
		return Str(val), nil

	case []any:
		items := make([]*Value, 0, len(val))
		for i, elem := range val {
			item, err := FromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Seq(items...), nil

	case map[string]any:
		entries := make([]MapEntry, 0, len(val))
		for k, elem := range val {
			item, err := FromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			entries = append(entries, MapEntry{Key: Str(k), Value: item})
		}
		sortEntries(entries)
		return Map(entries...), nil

	default:
		return nil, fmt.Errorf("unsupported JSON type: %T", v)
	}
}

func fromJSONNumber(n json.Number) (*Value, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}
