package nuq

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nuqtool/nuq/pkg/canonical"
	"github.com/nuqtool/nuq/pkg/formats"
)

type testFile struct {
	path string
	data string
}

func toFiles(testFiles []testFile) []File {
	var files []File
	for _, tf := range testFiles {
		files = append(files, &FileInfo{
			path: tf.path,
			read: true,
			data: []byte(tf.data),
		})
	}
	return files
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name           string
		program        string
		files          []testFile
		flags          Flags
		expectedOutput string
	}{
		{
			name:           "identity json",
			program:        ".",
			files:          []testFile{{data: `{"a":"b"}`}},
			flags:          Flags{InputFormat: "json"},
			expectedOutput: "{\"a\":\"b\"}\n",
		},
		{
			name:           "identity yaml",
			program:        ".",
			files:          []testFile{{data: "a: b"}},
			flags:          Flags{InputFormat: "yaml"},
			expectedOutput: "a: b\n",
		},
		{
			name:           "identity multi document yaml",
			program:        ".",
			files:          []testFile{{data: "a: b\n---\na: c"}},
			flags:          Flags{InputFormat: "yaml"},
			expectedOutput: "---\na: b\n---\na: c\n",
		},
		{
			name:           "identity toml",
			program:        ".",
			files:          []testFile{{data: `a = "b"`}},
			flags:          Flags{InputFormat: "toml"},
			expectedOutput: "a = \"b\"\n",
		},
		{
			name:           "identity ron",
			program:        ".",
			files:          []testFile{{data: `(a: "b")`}},
			flags:          Flags{InputFormat: "ron"},
			expectedOutput: "{\"a\":\"b\"}\n",
		},
		{
			name:           "json stream",
			program:        ".",
			files:          []testFile{{data: "{}\n{}\n{\"foo\": true}\n"}},
			flags:          Flags{InputFormat: "json"},
			expectedOutput: "{}\n{}\n{\"foo\":true}\n",
		},
		{
			name:           "yaml to json",
			program:        ".",
			files:          []testFile{{data: "a: b"}},
			flags:          Flags{InputFormat: "yaml", OutputFormat: "json"},
			expectedOutput: "{\"a\":\"b\"}\n",
		},
		{
			name:           "format detected from extension",
			program:        ".",
			files:          []testFile{{path: "in.yaml", data: "a: b"}},
			expectedOutput: "a: b\n",
		},
		{
			name:           "format sniffed from content",
			program:        ".",
			files:          []testFile{{data: `{"a":"b"}`}},
			expectedOutput: "{\"a\":\"b\"}\n",
		},
		{
			name:           "string result stays quoted",
			program:        ".a",
			files:          []testFile{{data: `{"a":"b"}`}},
			flags:          Flags{InputFormat: "json"},
			expectedOutput: "\"b\"\n",
		},
		{
			name:           "raw string result",
			program:        ".a",
			files:          []testFile{{data: `{"a":"b"}`}},
			flags:          Flags{InputFormat: "json", Raw: true},
			expectedOutput: "b\n",
		},
		{
			name:           "raw non-string result passes through",
			program:        ".a",
			files:          []testFile{{data: `{"a":42}`}},
			flags:          Flags{InputFormat: "json", Raw: true},
			expectedOutput: "42\n",
		},
		{
			name:    "multiple files in command line order",
			program: ".",
			files: []testFile{
				{data: "1"},
				{data: "2"},
			},
			flags:          Flags{InputFormat: "json"},
			expectedOutput: "1\n2\n",
		},
		{
			name:    "slurp mixed formats",
			program: ".",
			files: []testFile{
				{data: `{"a":"b"}`},
				{data: "c: d"},
			},
			flags:          Flags{Slurp: true},
			expectedOutput: "[{\"a\":\"b\"},{\"c\":\"d\"}]\n",
		},
		{
			name:           "slurp single empty file",
			program:        ".",
			files:          []testFile{{data: ""}},
			flags:          Flags{InputFormat: "json", Slurp: true},
			expectedOutput: "[]\n",
		},
		{
			name:           "program emitting multiple values",
			program:        ".[]",
			files:          []testFile{{data: "[1,2]"}},
			flags:          Flags{InputFormat: "json"},
			expectedOutput: "1\n2\n",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			var outputBuf bytes.Buffer
			err := Run(&outputBuf, toFiles(testCase.files), testCase.program, testCase.flags)
			if err != nil {
				t.Fatalf("expected no err, got %#v", err)
			}

			output := outputBuf.String()
			if output != testCase.expectedOutput {
				t.Errorf("incorrect output expected=%q, got=%q", testCase.expectedOutput, output)
			}
		})
	}
}

func TestRunRejectsRawWithOutputFormat(t *testing.T) {
	var outputBuf bytes.Buffer
	files := toFiles([]testFile{{data: `{"a":"b"}`}})
	err := Run(&outputBuf, files, ".", Flags{Raw: true, OutputFormat: "json"})
	if !errors.Is(err, ErrRawWithOutputFormat) {
		t.Errorf("expected ErrRawWithOutputFormat, got %#v", err)
	}
	if outputBuf.Len() != 0 {
		t.Errorf("nothing may be written for rejected configurations, got %q", outputBuf.String())
	}
}

func TestRunRejectsUnknownFormats(t *testing.T) {
	files := toFiles([]testFile{{data: `{}`}})

	if err := Run(&bytes.Buffer{}, files, ".", Flags{InputFormat: "garbage"}); err == nil {
		t.Error("expected an error for an unknown input format")
	}
	if err := Run(&bytes.Buffer{}, files, ".", Flags{OutputFormat: "garbage"}); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}

func TestRunRejectsMultipleDocumentsForTOML(t *testing.T) {
	files := toFiles([]testFile{{data: "a: b\n---\na: c"}})
	err := Run(&bytes.Buffer{}, files, ".", Flags{InputFormat: "yaml", OutputFormat: "toml"})
	if !errors.Is(err, formats.ErrMultiDocument) {
		t.Errorf("expected ErrMultiDocument, got %#v", err)
	}
}

func TestRunReportsFailingDocument(t *testing.T) {
	files := toFiles([]testFile{{data: "{\"a\":1}\n5\n"}})
	err := Run(&bytes.Buffer{}, files, ".a", Flags{InputFormat: "json"})
	if err == nil {
		t.Fatal("expected the run to abort on the failing document")
	}
	if !strings.Contains(err.Error(), "document 1") {
		t.Errorf("expected the error to name document 1, got %q", err.Error())
	}
}

func TestSlurpPreservesOrder(t *testing.T) {
	sets := []formats.DocumentSet{
		{Docs: []canonical.Document{canonical.Number("1"), canonical.Number("2")}, Source: formats.JSON},
		{Docs: []canonical.Document{canonical.Number("3")}, Source: formats.YAML},
	}

	merged := Slurp(sets)
	expected := canonical.Array{
		canonical.Number("1"),
		canonical.Number("2"),
		canonical.Number("3"),
	}
	arr, ok := merged.(canonical.Array)
	if !ok {
		t.Fatalf("expected an array document, got %T", merged)
	}
	if len(arr) != len(expected) {
		t.Fatalf("expected %d documents, got %d", len(expected), len(arr))
	}
	for i := range expected {
		if arr[i] != expected[i] {
			t.Errorf("document %d: expected %#v, got %#v", i, expected[i], arr[i])
		}
	}
}
