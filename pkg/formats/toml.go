package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/nuqtool/nuq/pkg/canonical"
)

var _ Codec = tomlCodec{}

type tomlCodec struct{}

func (tomlCodec) Decode(data []byte) ([]canonical.Document, error) {
	// TOML has no empty-document production; an empty stream is an error
	// here where it would be an empty set for JSON or YAML.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: TOML, Doc: 0, Err: errors.New("empty input")}
	}
	var v interface{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, &ParseError{Format: TOML, Doc: 0, Err: err}
	}
	doc, err := canonical.FromInterface(v)
	if err != nil {
		return nil, &ParseError{Format: TOML, Doc: 0, Err: err}
	}
	return []canonical.Document{doc}, nil
}

func (tomlCodec) Encode(w io.Writer, docs []canonical.Document, pretty bool) error {
	for _, doc := range docs {
		// A TOML document is a table. Bare scalars and arrays have no
		// top-level form and must fail here rather than be emitted as
		// text the decoder would reject.
		if _, ok := doc.(canonical.Object); !ok {
			return fmt.Errorf("toml documents must be tables, cannot encode %s", kindName(doc))
		}
		enc := toml.NewEncoder(w)
		if !pretty {
			enc.Indent = ""
		}
		if err := enc.Encode(canonical.ToInterface(doc)); err != nil {
			return err
		}
	}
	return nil
}

func kindName(doc canonical.Document) string {
	switch doc.(type) {
	case canonical.Object:
		return "an object"
	case canonical.Array:
		return "an array"
	case canonical.String:
		return "a string"
	case canonical.Number:
		return "a number"
	case canonical.Bool:
		return "a boolean"
	default:
		return "null"
	}
}

func init() {
	register(TOML, tomlCodec{})
}
