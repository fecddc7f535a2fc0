package formats

// sniffOrder is fixed and deterministic. JSON comes first because it is
// the strictest and fastest-failing grammar; YAML is a near superset of
// JSON and would otherwise claim JSON-looking input. Bytes valid in two
// formats always resolve to the earlier one in this list.
var sniffOrder = []Format{JSON, YAML, TOML, RON}

// Sniff decodes data with each format's decoder in priority order and
// returns the first success. It returns ErrUnrecognized when every
// decoder rejects the input.
func Sniff(data []byte) (DocumentSet, error) {
	for _, f := range sniffOrder {
		docs, err := codecs[f].Decode(data)
		if err == nil {
			return DocumentSet{Docs: docs, Source: f}, nil
		}
	}
	return DocumentSet{}, ErrUnrecognized
}
