// Package canonical defines the format-independent tree value that all
// transcoding passes through. Every supported serialization format decodes
// into a Document and encodes from one.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Document is a format-independent tree value. The set of implementations
// is closed: Object, Array, String, Number, Bool, and Null are the only
// variants, so encoders and decoders can switch over them exhaustively.
type Document interface {
	isDocument()
}

// Object is a mapping of string keys to documents. Key order is not
// preserved; encoders emit keys in sorted order.
type Object map[string]Document

// Array is an ordered sequence of documents.
type Array []Document

// String is a text scalar.
type String string

// Number holds the numeric literal as written, so integers survive
// transcoding without being forced through a float.
type Number string

// Bool is a boolean scalar.
type Bool bool

// Null is the null value.
type Null struct{}

func (Object) isDocument() {}
func (Array) isDocument()  {}
func (String) isDocument() {}
func (Number) isDocument() {}
func (Bool) isDocument()   {}
func (Null) isDocument()   {}

// MarshalJSON writes the stored literal verbatim.
func (n Number) MarshalJSON() ([]byte, error) {
	if len(n) == 0 {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// FromInterface normalizes a value produced by one of the format decoders
// into a Document. It accepts the shapes encoding/json, gopkg.in/yaml.v2,
// and BurntSushi/toml produce, including non-string YAML map keys and TOML
// datetimes.
func FromInterface(v interface{}) (Document, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Document:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		return Number(v), nil
	case int:
		return Number(strconv.Itoa(v)), nil
	case int64:
		return Number(strconv.FormatInt(v, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(v, 10)), nil
	case float64:
		return Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case []interface{}:
		arr := make(Array, 0, len(v))
		for _, item := range v {
			doc, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, doc)
		}
		return arr, nil
	case []map[string]interface{}:
		// BurntSushi/toml decodes arrays of tables ([[table]]) into this
		// shape rather than []interface{}.
		arr := make(Array, 0, len(v))
		for _, item := range v {
			doc, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, doc)
		}
		return arr, nil
	case map[string]interface{}:
		obj := make(Object, len(v))
		for key, item := range v {
			doc, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			obj[key] = doc
		}
		return obj, nil
	case map[interface{}]interface{}:
		// gopkg.in/yaml.v2 decodes all mappings into this shape.
		obj := make(Object, len(v))
		for key, item := range v {
			doc, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			obj[fmt.Sprintf("%v", key)] = doc
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("cannot represent %T as a canonical document", v)
	}
}

// ToInterface converts a Document into plain Go values for
// reflection-based encoders. Numbers become int64 when they hold an
// integral literal, float64 otherwise.
func ToInterface(doc Document) interface{} {
	switch v := doc.(type) {
	case Null:
		return nil
	case Bool:
		return bool(v)
	case String:
		return string(v)
	case Number:
		if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case Array:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, ToInterface(item))
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = ToInterface(item)
		}
		return out
	default:
		panic(fmt.Sprintf("unknown canonical document type %T", doc))
	}
}

// Marshal renders a Document as compact JSON without HTML escaping.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal parses one JSON value into a Document, preserving numeric
// literals.
func Unmarshal(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return FromInterface(v)
}
