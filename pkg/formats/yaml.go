package formats

import (
	"bytes"
	"io"

	"github.com/ghodss/yaml"
	goyaml "gopkg.in/yaml.v2"

	"github.com/nuqtool/nuq/pkg/canonical"
)

var _ Codec = yamlCodec{}

const yamlSeparator = "---\n"

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte) ([]canonical.Document, error) {
	dec := goyaml.NewDecoder(bytes.NewReader(data))
	var docs []canonical.Document
	for i := 0; ; i++ {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: YAML, Doc: i, Err: err}
		}
		doc, err := canonical.FromInterface(v)
		if err != nil {
			return nil, &ParseError{Format: YAML, Doc: i, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (yamlCodec) Encode(w io.Writer, docs []canonical.Document, pretty bool) error {
	// YAML output is always indented; pretty is meaningless here.
	for _, doc := range docs {
		// The separator leads every document only when the stream holds
		// more than one, so single-document output round-trips without a
		// leading ---.
		if len(docs) > 1 {
			if _, err := io.WriteString(w, yamlSeparator); err != nil {
				return err
			}
		}
		jsonBytes, err := canonical.Marshal(doc)
		if err != nil {
			return err
		}
		yamlBytes, err := yaml.JSONToYAML(jsonBytes)
		if err != nil {
			return err
		}
		if _, err := w.Write(yamlBytes); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	register(YAML, yamlCodec{})
}
