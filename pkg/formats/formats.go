// Package formats implements the closed set of serialization formats nuq
// can read and write, the transcoding between them and the canonical
// document representation, and content-based format sniffing.
package formats

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nuqtool/nuq/pkg/canonical"
)

// Format identifies one of the supported serialization formats. The zero
// value FormatNone marks document sets that were synthesized rather than
// decoded, such as the output of a slurp.
type Format int

// The supported formats.
const (
	FormatNone Format = iota
	JSON
	YAML
	TOML
	RON
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	case RON:
		return "ron"
	default:
		return "none"
	}
}

// Extension returns the canonical file extension for the format, without
// the leading dot.
func (f Format) Extension() string {
	return f.String()
}

// MultiDocument reports whether the format can represent more than one
// document per stream: JSON via concatenated top-level values, YAML via
// --- separators.
func (f Format) MultiDocument() bool {
	return f == JSON || f == YAML
}

// Codec decodes a byte stream into an ordered sequence of canonical
// documents and encodes a sequence back into the format's wire form.
type Codec interface {
	Decode(data []byte) ([]canonical.Document, error)
	Encode(w io.Writer, docs []canonical.Document, pretty bool) error
}

var codecs = map[Format]Codec{}

func register(f Format, c Codec) {
	codecs[f] = c
}

var extensions = map[string]Format{
	"json":  JSON,
	"jsonl": JSON,
	"yaml":  YAML,
	"yml":   YAML,
	"toml":  TOML,
	"ron":   RON,
}

// ByExtension resolves a file extension (without the leading dot) to a
// Format.
func ByExtension(ext string) (Format, bool) {
	f, ok := extensions[strings.ToLower(ext)]
	return f, ok
}

// ByName resolves a format tag, as accepted by the CLI flags, to a Format.
// Extension aliases are accepted too.
func ByName(name string) (Format, bool) {
	return ByExtension(name)
}

// Names returns the canonical format tags, in sniffing priority order.
func Names() []string {
	names := make([]string, 0, len(sniffOrder))
	for _, f := range sniffOrder {
		names = append(names, f.String())
	}
	return names
}

// DocumentSet is the result of decoding one input stream: the documents in
// stream order plus the format they were decoded from. Source is
// FormatNone for synthesized sets.
type DocumentSet struct {
	Docs   []canonical.Document
	Source Format
}

// ParseError reports that a stream declared (or sniffed) as a format did
// not conform to its grammar. Doc is the zero-based index of the document
// that failed to decode.
type ParseError struct {
	Format Format
	Doc    int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s document %d: %v", e.Format, e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodeError reports that a document sequence could not be rendered in
// the target format.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode as %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ErrMultiDocument is wrapped by EncodeError when more than one document
// is encoded to a format that can only represent a single document.
var ErrMultiDocument = errors.New("format does not support multiple documents")

// ErrUnrecognized is returned by Sniff when no format's decoder accepts
// the input.
var ErrUnrecognized = errors.New("input matches no supported format")

// Decode parses data as the given format, yielding one canonical document
// per occurrence in stream order. Empty input yields an empty set for
// multi-document formats and a ParseError for single-document ones.
func Decode(f Format, data []byte) (DocumentSet, error) {
	codec, ok := codecs[f]
	if !ok {
		return DocumentSet{}, fmt.Errorf("no codec registered for format %q", f)
	}
	docs, err := codec.Decode(data)
	if err != nil {
		return DocumentSet{}, err
	}
	return DocumentSet{Docs: docs, Source: f}, nil
}

// Encode renders the documents to w in the given format. Formats that
// cannot represent multiple documents fail with an EncodeError wrapping
// ErrMultiDocument rather than truncating the sequence.
func Encode(w io.Writer, docs []canonical.Document, f Format, pretty bool) error {
	codec, ok := codecs[f]
	if !ok {
		return fmt.Errorf("no codec registered for format %q", f)
	}
	if len(docs) > 1 && !f.MultiDocument() {
		return &EncodeError{Format: f, Err: ErrMultiDocument}
	}
	if err := codec.Encode(w, docs, pretty); err != nil {
		var encErr *EncodeError
		if errors.As(err, &encErr) {
			return err
		}
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}
