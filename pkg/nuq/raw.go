package nuq

import "strings"

// Unquote turns a jq string result back into plain text, reverting the
// engine's quoting and escaping. Output that does not begin with a quote
// was not a string result (numbers, objects, arrays), and stripping quotes
// from it would corrupt its structure, so it passes through untouched.
//
// The closing quote is located positionally: the engine terminates every
// result with exactly one newline, so for string results the
// second-to-last character is the closing quote. Only the \" escape is
// reverted; this is a best-effort reversal of the engine's string quoting,
// not a full JSON string unescape.
func Unquote(text string) string {
	if !strings.HasPrefix(text, `"`) {
		return text
	}
	runes := []rune(text)
	count := len(runes)
	kept := make([]rune, 0, count)
	for i, r := range runes {
		if i == 0 && r == '"' {
			continue
		}
		if i == count-2 && r == '"' {
			continue
		}
		kept = append(kept, r)
	}
	out := strings.TrimSpace(string(kept)) + "\n"
	return strings.ReplaceAll(out, `\"`, `"`)
}
