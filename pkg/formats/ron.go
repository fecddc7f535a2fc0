package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nuqtool/nuq/pkg/canonical"
)

// The Rusty Object Notation codec. No maintained Go library implements
// RON, so the subset nuq needs is written out here: maps with quoted or
// bare keys, struct bodies like (field: value), named structs, tuples,
// arrays, strings, char literals, decimal and radix-prefixed numbers,
// booleans, Some/None options, the unit value () for null, line and
// block comments, and trailing commas.

var _ Codec = ronCodec{}

type ronCodec struct{}

func (ronCodec) Decode(data []byte) ([]canonical.Document, error) {
	p := &ronParser{input: string(data)}
	doc, err := p.parseDocument()
	if err != nil {
		return nil, &ParseError{Format: RON, Doc: 0, Err: err}
	}
	return []canonical.Document{doc}, nil
}

func (ronCodec) Encode(w io.Writer, docs []canonical.Document, pretty bool) error {
	for _, doc := range docs {
		var buf bytes.Buffer
		writeRON(&buf, doc, pretty, 0)
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	register(RON, ronCodec{})
}

type ronParser struct {
	input string
	pos   int
}

func (p *ronParser) errf(format string, args ...interface{}) error {
	prefix := fmt.Sprintf("offset %d: ", p.pos)
	return errors.New(prefix + fmt.Sprintf(format, args...))
}

func (p *ronParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *ronParser) peek() byte {
	return p.input[p.pos]
}

// skipSpace consumes whitespace, // line comments, and /* */ block
// comments (which nest, as they do in RON).
func (p *ronParser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case strings.HasPrefix(p.input[p.pos:], "//"):
			if idx := strings.IndexByte(p.input[p.pos:], '\n'); idx >= 0 {
				p.pos += idx + 1
			} else {
				p.pos = len(p.input)
			}
		case strings.HasPrefix(p.input[p.pos:], "/*"):
			depth := 0
			for !p.eof() {
				if strings.HasPrefix(p.input[p.pos:], "/*") {
					depth++
					p.pos += 2
				} else if strings.HasPrefix(p.input[p.pos:], "*/") {
					depth--
					p.pos += 2
					if depth == 0 {
						break
					}
				} else {
					p.pos++
				}
			}
		default:
			return
		}
	}
}

func (p *ronParser) parseDocument() (canonical.Document, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("empty input")
	}
	doc, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errf("trailing characters after value")
	}
	return doc, nil
}

func (p *ronParser) parseValue() (canonical.Document, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '(':
		return p.parseStruct()
	case c == '{':
		return p.parseMap()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return canonical.String(s), nil
	case c == '\'':
		s, err := p.parseChar()
		if err != nil {
			return nil, err
		}
		return canonical.String(s), nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdentValue()
	default:
		return nil, p.errf("unexpected character %q", c)
	}
}

// parseStruct parses a parenthesized body: the unit value (), field:
// value pairs, which map onto an object, or a tuple, which maps onto an
// array.
func (p *ronParser) parseStruct() (canonical.Document, error) {
	p.pos++ // consume (
	p.skipSpace()
	if !p.eof() && p.peek() == ')' {
		p.pos++
		return canonical.Null{}, nil
	}
	if !p.structBodyFollows() {
		return p.parseTuple()
	}
	obj := canonical.Object{}
	for {
		p.skipSpace()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = value
		more, err := p.endOfEntry(')')
		if err != nil {
			return nil, err
		}
		if !more {
			return obj, nil
		}
	}
}

// structBodyFollows reports whether the parenthesized body opens with a
// field name followed by a colon. Anything else is a tuple.
func (p *ronParser) structBodyFollows() bool {
	mark := p.pos
	defer func() { p.pos = mark }()
	if p.eof() {
		return false
	}
	switch {
	case p.peek() == '"':
		if _, err := p.parseString(); err != nil {
			return false
		}
	case isIdentStart(p.peek()):
		p.parseIdent()
	default:
		return false
	}
	p.skipSpace()
	return !p.eof() && p.peek() == ':'
}

func (p *ronParser) parseTuple() (canonical.Document, error) {
	arr := canonical.Array{}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
		more, err := p.endOfEntry(')')
		if err != nil {
			return nil, err
		}
		if !more {
			return arr, nil
		}
	}
}

func (p *ronParser) parseMap() (canonical.Document, error) {
	p.pos++ // consume {
	p.skipSpace()
	if !p.eof() && p.peek() == '}' {
		p.pos++
		return canonical.Object{}, nil
	}
	obj := canonical.Object{}
	for {
		p.skipSpace()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = value
		more, err := p.endOfEntry('}')
		if err != nil {
			return nil, err
		}
		if !more {
			return obj, nil
		}
	}
}

func (p *ronParser) parseArray() (canonical.Document, error) {
	p.pos++ // consume [
	p.skipSpace()
	arr := canonical.Array{}
	if !p.eof() && p.peek() == ']' {
		p.pos++
		return arr, nil
	}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
		more, err := p.endOfEntry(']')
		if err != nil {
			return nil, err
		}
		if !more {
			return arr, nil
		}
	}
}

// endOfEntry consumes a separating comma or the closing delimiter,
// tolerating a trailing comma. It reports whether another entry follows.
func (p *ronParser) endOfEntry(closer byte) (bool, error) {
	p.skipSpace()
	if p.eof() {
		return false, p.errf("unexpected end of input, expected %q or ','", string(closer))
	}
	switch p.peek() {
	case closer:
		p.pos++
		return false, nil
	case ',':
		p.pos++
		p.skipSpace()
		if !p.eof() && p.peek() == closer {
			p.pos++
			return false, nil
		}
		return true, nil
	default:
		return false, p.errf("expected %q or ',', found %q", string(closer), p.peek())
	}
}

func (p *ronParser) parseKey() (string, error) {
	if p.eof() {
		return "", p.errf("unexpected end of input in key")
	}
	if p.peek() == '"' {
		return p.parseString()
	}
	if isIdentStart(p.peek()) {
		return p.parseIdent(), nil
	}
	return "", p.errf("expected a key, found %q", p.peek())
}

func (p *ronParser) expect(c byte) error {
	p.skipSpace()
	if p.eof() || p.peek() != c {
		return p.errf("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *ronParser) parseString() (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errf("unterminated string")
		}
		c := p.peek()
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.eof() {
				return "", p.errf("unterminated escape sequence")
			}
			switch esc := p.peek(); esc {
			case '"', '\\', '\'':
				b.WriteByte(esc)
				p.pos++
			case 'n':
				b.WriteByte('\n')
				p.pos++
			case 't':
				b.WriteByte('\t')
				p.pos++
			case 'r':
				b.WriteByte('\r')
				p.pos++
			case '0':
				b.WriteByte(0)
				p.pos++
			case 'u':
				p.pos++
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
			default:
				return "", p.errf("unknown escape sequence \\%s", string(esc))
			}
		default:
			r, size := utf8.DecodeRuneInString(p.input[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return "", p.errf("invalid utf-8 in string")
			}
			b.WriteRune(r)
			p.pos += size
		}
	}
}

// parseUnicodeEscape parses the RON form \u{1F600}.
func (p *ronParser) parseUnicodeEscape() (rune, error) {
	if p.eof() || p.peek() != '{' {
		return 0, p.errf("expected '{' after \\u")
	}
	p.pos++
	end := strings.IndexByte(p.input[p.pos:], '}')
	if end < 0 {
		return 0, p.errf("unterminated unicode escape")
	}
	code, err := strconv.ParseUint(p.input[p.pos:p.pos+end], 16, 32)
	if err != nil {
		return 0, p.errf("invalid unicode escape: %v", err)
	}
	p.pos += end + 1
	return rune(code), nil
}

// parseChar parses a character literal, which maps onto a one-rune
// string.
func (p *ronParser) parseChar() (string, error) {
	p.pos++ // consume opening quote
	if p.eof() {
		return "", p.errf("unterminated char literal")
	}
	var r rune
	if p.peek() == '\\' {
		p.pos++
		if p.eof() {
			return "", p.errf("unterminated escape sequence")
		}
		switch esc := p.peek(); esc {
		case '\'', '"', '\\':
			r = rune(esc)
			p.pos++
		case 'n':
			r = '\n'
			p.pos++
		case 't':
			r = '\t'
			p.pos++
		case 'r':
			r = '\r'
			p.pos++
		case '0':
			r = 0
			p.pos++
		case 'u':
			p.pos++
			var err error
			r, err = p.parseUnicodeEscape()
			if err != nil {
				return "", err
			}
		default:
			return "", p.errf("unknown escape sequence \\%s", string(esc))
		}
	} else {
		var size int
		r, size = utf8.DecodeRuneInString(p.input[p.pos:])
		if r == utf8.RuneError && size == 1 {
			return "", p.errf("invalid utf-8 in char literal")
		}
		p.pos += size
	}
	if p.eof() || p.peek() != '\'' {
		return "", p.errf("unterminated char literal")
	}
	p.pos++
	return string(r), nil
}

func (p *ronParser) parseNumber() (canonical.Document, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	if rest := p.input[p.pos:]; len(rest) >= 2 && rest[0] == '0' &&
		(rest[1] == 'x' || rest[1] == 'b' || rest[1] == 'o') {
		return p.parseRadixNumber(p.input[start] == '-')
	}
	for !p.eof() {
		c := p.peek()
		if (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.' ||
			c == 'e' || c == 'E' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	lit := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	lit = strings.TrimPrefix(lit, "+")
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return canonical.Number(strconv.FormatInt(i, 10)), nil
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return canonical.Number(strconv.FormatUint(u, 10)), nil
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return canonical.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	return nil, p.errf("invalid number literal %q", p.input[start:p.pos])
}

// parseRadixNumber parses 0x, 0o, and 0b integer literals, already
// positioned on the leading zero.
func (p *ronParser) parseRadixNumber(negative bool) (canonical.Document, error) {
	base := 16
	switch p.input[p.pos+1] {
	case 'b':
		base = 2
	case 'o':
		base = 8
	}
	p.pos += 2
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	lit := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	u, err := strconv.ParseUint(lit, base, 64)
	if err != nil {
		return nil, p.errf("invalid number literal %q", p.input[start:p.pos])
	}
	if negative {
		return canonical.Number("-" + strconv.FormatUint(u, 10)), nil
	}
	return canonical.Number(strconv.FormatUint(u, 10)), nil
}

// parseIdentValue handles values that begin with an identifier: booleans,
// None, Some(value), and named structs, whose names are discarded since
// the canonical tree has no notion of them.
func (p *ronParser) parseIdentValue() (canonical.Document, error) {
	ident := p.parseIdent()
	switch ident {
	case "true":
		return canonical.Bool(true), nil
	case "false":
		return canonical.Bool(false), nil
	case "None":
		return canonical.Null{}, nil
	case "Some":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return value, nil
	default:
		p.skipSpace()
		if !p.eof() && p.peek() == '(' {
			return p.parseStruct()
		}
		return nil, p.errf("unexpected identifier %q", ident)
	}
}

func (p *ronParser) parseIdent() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

const ronIndent = "    "

func writeRON(buf *bytes.Buffer, doc canonical.Document, pretty bool, depth int) {
	switch v := doc.(type) {
	case canonical.Null:
		buf.WriteString("()")
	case canonical.Bool:
		buf.WriteString(strconv.FormatBool(bool(v)))
	case canonical.Number:
		buf.WriteString(string(v))
	case canonical.String:
		writeRONString(buf, string(v))
	case canonical.Array:
		if len(v) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, item := range v {
			if pretty {
				buf.WriteByte('\n')
				writeIndent(buf, depth+1)
			} else if i > 0 {
				buf.WriteByte(',')
			}
			writeRON(buf, item, pretty, depth+1)
			if pretty {
				buf.WriteByte(',')
			}
		}
		if pretty {
			buf.WriteByte('\n')
			writeIndent(buf, depth)
		}
		buf.WriteByte(']')
	case canonical.Object:
		if len(v) == 0 {
			buf.WriteString("{}")
			return
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, key := range keys {
			if pretty {
				buf.WriteByte('\n')
				writeIndent(buf, depth+1)
			} else if i > 0 {
				buf.WriteByte(',')
			}
			writeRONString(buf, key)
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			writeRON(buf, v[key], pretty, depth+1)
			if pretty {
				buf.WriteByte(',')
			}
		}
		if pretty {
			buf.WriteByte('\n')
			writeIndent(buf, depth)
		}
		buf.WriteByte('}')
	}
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(ronIndent)
	}
}

func writeRONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(buf, `\u{%x}`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
