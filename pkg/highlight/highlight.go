// Package highlight implements a buffering writer that colorizes terminal
// output with chroma. Highlighting needs the complete text of a value to
// assign consistent colors, and escape sequences must never be split
// across partial writes, so output is accumulated and only transformed
// when Flush is called.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/quick"

	"github.com/nuqtool/nuq/pkg/formats"
)

// resetSequence returns the terminal to its default colors. It terminates
// every flush, including the passthrough and empty-buffer cases.
const resetSequence = "\x1b[0m"

// ErrInvalidText reports that the buffered output is not valid UTF-8 and
// cannot be highlighted. This is distinct from the no-grammar fallback,
// which is a normal condition.
var ErrInvalidText = errors.New("buffered output is not valid utf-8")

// findLexer is a package variable so tests can exercise the fallback path
// for formats chroma has no grammar for.
var findLexer = func(name string) chroma.Lexer {
	return lexers.Get(name)
}

// Styles selects the chroma formatter and style used when colorizing.
type Styles struct {
	Formatter string
	Style     string
}

// trueColorSupported returns true if the tty is configured to support
// truecolor.
func trueColorSupported() bool {
	return os.Getenv("COLORTERM") == "truecolor"
}

// DefaultStyles resolves the formatter and style from the environment.
//
// $NUQ_FORMATTER can be set to terminal, terminal16m, json, tokens, html.
// $NUQ_STYLE can be set to any theme chroma ships.
func DefaultStyles() Styles {
	formatter := os.Getenv("NUQ_FORMATTER")
	if formatter == "" {
		formatter = "terminal"
		if trueColorSupported() {
			formatter = "terminal16m"
		}
	}
	style := os.Getenv("NUQ_STYLE")
	if style == "" {
		style = "pygments"
	}
	return Styles{Formatter: formatter, Style: style}
}

// Writer buffers everything written to it and colorizes the accumulated
// text for the declared format when Flush is called.
type Writer struct {
	buf     bytes.Buffer
	format  formats.Format
	styles  Styles
	wrapped io.Writer
}

// NewWriter returns a Writer that colorizes for the given format and
// writes the result to wrapped on Flush.
func NewWriter(wrapped io.Writer, format formats.Format, styles Styles) *Writer {
	return &Writer{
		format:  format,
		styles:  styles,
		wrapped: wrapped,
	}
}

// Write appends to the pending buffer. It never inspects the content.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Flush colorizes the buffered text line by line and writes it to the
// wrapped writer, terminated by a color reset. It must be called exactly
// once per output unit. When chroma has no grammar for the format the
// buffer passes through unmodified, still followed by the reset.
func (w *Writer) Flush() error {
	defer w.buf.Reset()
	data := w.buf.Bytes()

	lexer := findLexer(w.format.Extension())
	if lexer == nil {
		if _, err := w.wrapped.Write(data); err != nil {
			return err
		}
		_, err := io.WriteString(w.wrapped, resetSequence)
		return err
	}

	if !utf8.Valid(data) {
		return ErrInvalidText
	}

	var out bytes.Buffer
	for _, line := range splitAfterNewlines(string(data)) {
		if err := quick.Highlight(&out, line, w.format.Extension(), w.styles.Formatter, w.styles.Style); err != nil {
			return fmt.Errorf("failed to highlight output: %w", err)
		}
	}
	out.WriteString(resetSequence)
	_, err := w.wrapped.Write(out.Bytes())
	return err
}

// splitAfterNewlines splits text on line boundaries, keeping the
// terminator with each line.
func splitAfterNewlines(text string) []string {
	var lines []string
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+1])
		text = text[idx+1:]
	}
	return lines
}
