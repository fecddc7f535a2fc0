package formats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuqtool/nuq/pkg/canonical"
)

func decodeRON(t *testing.T, input string) canonical.Document {
	t.Helper()
	docs, err := ronCodec{}.Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0]
}

func TestRONDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected canonical.Document
	}{
		{"struct body", `(a: "b")`, canonical.Object{"a": canonical.String("b")}},
		{"map form", `{"a": "b"}`, canonical.Object{"a": canonical.String("b")}},
		{"named struct", `Point(x: 1, y: 2)`, canonical.Object{"x": canonical.Number("1"), "y": canonical.Number("2")}},
		{"unit is null", `()`, canonical.Null{}},
		{"none is null", `None`, canonical.Null{}},
		{"some unwraps", `Some(3)`, canonical.Number("3")},
		{"bools", `[true, false]`, canonical.Array{canonical.Bool(true), canonical.Bool(false)}},
		{"trailing comma", `[1, 2,]`, canonical.Array{canonical.Number("1"), canonical.Number("2")}},
		{"tuple", `(1, 2)`, canonical.Array{canonical.Number("1"), canonical.Number("2")}},
		{"named tuple", `Pair("a", "b")`, canonical.Array{canonical.String("a"), canonical.String("b")}},
		{"single element tuple", `("only")`, canonical.Array{canonical.String("only")}},
		{"underscored number", `1_000`, canonical.Number("1000")},
		{"float", `-2.5`, canonical.Number("-2.5")},
		{"hex number", `0xFF`, canonical.Number("255")},
		{"binary number", `0b1010`, canonical.Number("10")},
		{"octal number", `0o17`, canonical.Number("15")},
		{"negative hex number", `-0x1_0`, canonical.Number("-16")},
		{"char", `'a'`, canonical.String("a")},
		{"escaped char", `'\n'`, canonical.String("\n")},
		{"unicode char", `'\u{263A}'`, canonical.String("☺")},
		{"line comment", "// heading\n(a: 1)", canonical.Object{"a": canonical.Number("1")}},
		{"block comment", `/* outer /* inner */ */ 7`, canonical.Number("7")},
		{"escapes", `"say \"hi\"\n"`, canonical.String("say \"hi\"\n")},
		{"unicode escape", `"\u{263A}"`, canonical.String("☺")},
		{
			"nested",
			`(items: [(id: 1), (id: 2)])`,
			canonical.Object{"items": canonical.Array{
				canonical.Object{"id": canonical.Number("1")},
				canonical.Object{"id": canonical.Number("2")},
			}},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, decodeRON(t, testCase.input))
		})
	}
}

func TestRONDecodeErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only whitespace", "   \n"},
		{"unterminated string", `"abc`},
		{"trailing garbage", `1 2`},
		{"unknown identifier", `wat`},
		{"missing colon", `(a "b")`},
		{"unterminated char", `'a`},
		{"empty radix literal", `0x`},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ronCodec{}.Decode([]byte(testCase.input))
			require.Error(t, err)
		})
	}
}

func TestRONEncodeCompact(t *testing.T) {
	doc := canonical.Object{
		"b":    canonical.Array{canonical.Number("1"), canonical.Null{}},
		"a":    canonical.String("x"),
		"flag": canonical.Bool(true),
	}

	var buf bytes.Buffer
	require.NoError(t, ronCodec{}.Encode(&buf, []canonical.Document{doc}, false))
	// Keys are emitted in sorted order.
	assert.Equal(t, "{\"a\":\"x\",\"b\":[1,()],\"flag\":true}\n", buf.String())
}

func TestRONEncodePretty(t *testing.T) {
	doc := canonical.Object{"a": canonical.Array{canonical.Number("1")}}

	var buf bytes.Buffer
	require.NoError(t, ronCodec{}.Encode(&buf, []canonical.Document{doc}, true))
	expected := "{\n" +
		"    \"a\": [\n" +
		"        1,\n" +
		"    ],\n" +
		"}\n"
	assert.Equal(t, expected, buf.String())
}

func TestRONRoundTrip(t *testing.T) {
	doc := decodeRON(t, `(name: "nuq", tags: ["a", "b"], count: 3, extra: ())`)

	var buf bytes.Buffer
	require.NoError(t, ronCodec{}.Encode(&buf, []canonical.Document{doc}, false))
	assert.Equal(t, decodeRON(t, buf.String()), doc)
}
