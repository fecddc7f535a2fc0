package formats

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nuqtool/nuq/pkg/canonical"
)

var _ Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte) ([]canonical.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []canonical.Document
	for i := 0; ; i++ {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: JSON, Doc: i, Err: err}
		}
		doc, err := canonical.FromInterface(v)
		if err != nil {
			return nil, &ParseError{Format: JSON, Doc: i, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (jsonCodec) Encode(w io.Writer, docs []canonical.Document, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	// Encode terminates each value with a newline, which is exactly the
	// framing a JSON stream needs.
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	register(JSON, jsonCodec{})
}
