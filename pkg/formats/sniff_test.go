package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffResolvesInPriorityOrder(t *testing.T) {
	// `{"a":"b"}` is valid JSON and valid YAML; the fixed priority order
	// always resolves it to JSON.
	set, err := Sniff([]byte(`{"a":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, JSON, set.Source)
}

func TestSniffYAML(t *testing.T) {
	set, err := Sniff([]byte("a: b\n---\na: c\n"))
	require.NoError(t, err)
	assert.Equal(t, YAML, set.Source)
	assert.Len(t, set.Docs, 2)
}

func TestSniffTOML(t *testing.T) {
	// A bracketed table header followed by a key rules out JSON and YAML.
	set, err := Sniff([]byte("[owner]\nname = \"tom\"\n"))
	require.NoError(t, err)
	assert.Equal(t, TOML, set.Source)
}

func TestSniffRON(t *testing.T) {
	set, err := Sniff([]byte(`(a: "b")`))
	require.NoError(t, err)
	assert.Equal(t, RON, set.Source)
}

func TestSniffUnrecognized(t *testing.T) {
	_, err := Sniff([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognized)
}
