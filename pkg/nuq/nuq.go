// Package nuq orchestrates the document pipeline: figure out the input
// format, decode to canonical documents, run the jq program against each
// one, and re-encode the results in the requested output format.
package nuq

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nuqtool/nuq/pkg/canonical"
	"github.com/nuqtool/nuq/pkg/formats"
	"github.com/nuqtool/nuq/pkg/highlight"
	"github.com/nuqtool/nuq/pkg/jq"
)

// Flags are the configuration for a single pipeline run.
type Flags struct {
	InputFormat  string // format tag, or "auto"
	OutputFormat string // format tag, or "auto"
	Raw          bool
	Slurp        bool
	Pretty       bool
	Color        bool
}

// ErrRawWithOutputFormat rejects the combination of raw output and an
// explicit output format: raw mode means no re-encoding at all.
var ErrRawWithOutputFormat = errors.New("cannot use raw output with an explicit output format")

// Run executes the jq program against every input file, in order, writing
// results to outputWriter. Any failure aborts the whole run; there is no
// partial-success mode.
func Run(outputWriter io.Writer, files []File, program string, flags Flags) error {
	if explicitFormat(flags.OutputFormat) {
		if flags.Raw {
			return ErrRawWithOutputFormat
		}
		if _, ok := formats.ByName(flags.OutputFormat); !ok {
			return fmt.Errorf("no supported format named %q", flags.OutputFormat)
		}
	}
	if explicitFormat(flags.InputFormat) {
		if _, ok := formats.ByName(flags.InputFormat); !ok {
			return fmt.Errorf("no supported format named %q", flags.InputFormat)
		}
	}

	engine, err := jq.Compile(program)
	if err != nil {
		return err
	}

	sets, err := decodeFiles(files, flags.InputFormat)
	if err != nil {
		return err
	}

	if flags.Slurp {
		// The merged set is synthesized, so it carries no source format;
		// outputFormat falls back accordingly.
		sets = []formats.DocumentSet{{
			Docs: []canonical.Document{Slurp(sets)},
		}}
	}

	for _, set := range sets {
		if err := runSet(outputWriter, engine, set, flags); err != nil {
			return err
		}
	}
	return nil
}

// Slurp concatenates every document across the given sets, in input order,
// into a single array document.
func Slurp(sets []formats.DocumentSet) canonical.Document {
	all := canonical.Array{}
	for _, set := range sets {
		all = append(all, set.Docs...)
	}
	return all
}

func decodeFiles(files []File, inputFormat string) ([]formats.DocumentSet, error) {
	sets := make([]formats.DocumentSet, 0, len(files))
	for _, file := range files {
		set, err := decodeFile(file, inputFormat)
		if err != nil {
			return nil, err
		}
		logrus.Debugf("decoded %d %s document(s) from %s", len(set.Docs), set.Source, file.Path())
		sets = append(sets, set)
	}
	return sets, nil
}

// decodeFile resolves the input format for one file and decodes it. An
// explicit format flag wins; a recognized file extension is next; content
// sniffing is the last resort, which is why the whole stream is buffered.
func decodeFile(file File, inputFormat string) (formats.DocumentSet, error) {
	data, err := file.Contents()
	if err != nil {
		return formats.DocumentSet{}, err
	}

	if format, ok := formats.ByName(inputFormat); ok {
		return formats.Decode(format, data)
	}

	if ext := filepath.Ext(file.Path()); ext != "" {
		if format, ok := formats.ByExtension(ext[1:]); ok {
			return formats.Decode(format, data)
		}
	}

	set, err := formats.Sniff(data)
	if err != nil {
		return set, fmt.Errorf("%s: %w", file.Path(), err)
	}
	logrus.Debugf("sniffed %s as %s", file.Path(), set.Source)
	return set, nil
}

func runSet(outputWriter io.Writer, engine jq.Engine, set formats.DocumentSet, flags Flags) error {
	outputs := make([]string, 0, len(set.Docs))
	for i, doc := range set.Docs {
		input, err := canonical.Marshal(doc)
		if err != nil {
			return err
		}
		started := time.Now()
		output, err := engine.Execute(string(input))
		logrus.Debugf("executed program against document %d in %s", i, time.Since(started))
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		outputs = append(outputs, output)
	}

	if flags.Raw {
		for _, output := range outputs {
			if _, err := io.WriteString(outputWriter, Unquote(output)); err != nil {
				return err
			}
		}
		return nil
	}

	target, err := outputFormat(set, flags)
	if err != nil {
		return err
	}

	// The engine emits JSON text, one value per line; a program may emit
	// more than one value per input document. Re-parse everything as a
	// JSON stream so each emitted value becomes its own output document.
	var results []canonical.Document
	for i, output := range outputs {
		parsed, err := formats.Decode(formats.JSON, []byte(output))
		if err != nil {
			return fmt.Errorf("document %d: failed to re-parse engine output: %w", i, err)
		}
		results = append(results, parsed.Docs...)
	}

	w := outputWriter
	var hw *highlight.Writer
	if flags.Color {
		hw = highlight.NewWriter(outputWriter, target, highlight.DefaultStyles())
		w = hw
	}
	if err := formats.Encode(w, results, target, flags.Pretty); err != nil {
		return err
	}
	if hw != nil {
		return hw.Flush()
	}
	return nil
}

// outputFormat picks the encoding for the run's results: an explicit flag
// wins, then the set's source format, so a run round-trips through its
// input format by default. Synthesized sets fall back to the declared
// input format, else JSON.
func outputFormat(set formats.DocumentSet, flags Flags) (formats.Format, error) {
	if explicitFormat(flags.OutputFormat) {
		format, ok := formats.ByName(flags.OutputFormat)
		if !ok {
			return formats.FormatNone, fmt.Errorf("no supported format named %q", flags.OutputFormat)
		}
		return format, nil
	}
	if set.Source != formats.FormatNone {
		return set.Source, nil
	}
	if format, ok := formats.ByName(flags.InputFormat); ok {
		return format, nil
	}
	return formats.JSON, nil
}

func explicitFormat(name string) bool {
	return name != "" && name != "auto"
}
