package olml

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format names a source data language that can be bridged into a Value.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "jsonc":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown format %q", s)
	}
}

// FormatFromPath guesses the format from a file extension.
// Compression suffixes (.gz, .zst) are ignored.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	if ext == "" {
		return 0, false
	}
	f, err := ParseFormat(ext[1:])
	if err != nil {
		return 0, false
	}
	return f, true
}

// FromFormat converts a document in the given format to a Value.
func FromFormat(f Format, data []byte) (*Value, error) {
	switch f {
	case FormatJSON:
		return FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	case FormatCBOR:
		return FromCBOR(data)
	default:
		return nil, fmt.Errorf("unsupported format %s", f)
	}
}

// ============================================================
// YAML Bridge
// ============================================================

// FromYAML converts the first YAML document in data to a Value.
// Mapping order is preserved; aliases are expanded.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case 0:
		return None(), nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return None(), nil
		}
		return fromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for i, c := range n.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, fmt.Errorf("sequence[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Seq(items...), nil

	case yaml.MappingNode:
		entries := make([]MapEntry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromYAMLNode(n.Content[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: key: %w", n.Content[i].Line, err)
			}
			v, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("mapping[%s]: %w", n.Content[i].Value, err)
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return Map(entries...), nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return None(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil

	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Uint(u), nil

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Float(f), nil

	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binary: %w", n.Line, err)
		}
		return Bytes(b), nil

	default:
		return Str(n.Value), nil
	}
}

// ============================================================
// CBOR Bridge
// ============================================================

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		BigIntDec: cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("olml: CBOR decoder initialization failed: " + err.Error())
	}
}

// FromCBOR converts one CBOR data item to a Value.
// Byte strings become Bytes and tagged items become their content.
func FromCBOR(data []byte) (*Value, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("CBOR parse error: %w", err)
	}
	return fromCBORValue(v)
}

func fromCBORValue(v any) (*Value, error) {
	switch val := v.(type) {
	case nil:
		return None(), nil

	case cbor.Tag:
		inner, err := fromCBORValue(val.Content)
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", val.Number, err)
		}
		return NewtypeStruct("tag"+strconv.FormatUint(val.Number, 10), inner), nil

	case cbor.ByteString:
		return Bytes([]byte(val)), nil

	case cbor.SimpleValue:
		return Uint(uint64(val)), nil

	case *big.Int:
		switch {
		case val.IsInt64():
			return Int(val.Int64()), nil
		case val.IsUint64():
			return Uint(val.Uint64()), nil
		default:
			return Str(val.String()), nil
		}

	case time.Time:
		return Str(val.Format(time.RFC3339Nano)), nil

	case []any:
		items := make([]*Value, 0, len(val))
		for i, elem := range val {
			item, err := fromCBORValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Seq(items...), nil

	case map[any]any:
		entries := make([]MapEntry, 0, len(val))
		for k, elem := range val {
			key, err := fromCBORValue(k)
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			item, err := fromCBORValue(elem)
			if err != nil {
				return nil, fmt.Errorf("map[%s]: %w", Encode(key), err)
			}
			entries = append(entries, MapEntry{Key: key, Value: item})
		}
		sortEntries(entries)
		return Map(entries...), nil

	default:
		// Scalars (bool, uint64, int64, float64, string, []byte) take
		// the reflection path.
		return ValueOf(val)
	}
}
