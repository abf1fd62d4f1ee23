package syntax

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/runenames"
)

// decodeString returns the value of a Python string literal as written in
// source, e.g. `'12'`, `r"\d"` or `"""x"""`. ok is false for bytes,
// f-strings and template strings, which are not plain str constants.
func decodeString(text string) (value string, ok bool) {
	prefix, lit := splitPrefix(text)
	if strings.ContainsAny(prefix, "bft") || lit == "" {
		return "", false
	}

	q := lit[:1]
	if len(lit) >= 6 && strings.HasPrefix(lit, q+q+q) {
		q = q + q + q
	}
	body := strings.TrimSuffix(strings.TrimPrefix(lit, q), q)

	if strings.Contains(prefix, "r") || !strings.Contains(body, `\`) {
		return body, true
	}
	return unescape(body), true
}

// stringKind names a non-plain string literal by its prefix.
func stringKind(text string) string {
	prefix, _ := splitPrefix(text)
	switch {
	case strings.Contains(prefix, "b"):
		return "bytes"
	case strings.Contains(prefix, "f"):
		return "fstring"
	case strings.Contains(prefix, "t"):
		return "tstring"
	}
	return "string"
}

func splitPrefix(text string) (prefix, lit string) {
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return "", ""
	}
	return strings.ToLower(text[:i]), text[i:]
}

// unescape decodes backslash escapes the way Python does for str
// literals. Unknown escapes are kept verbatim.
func unescape(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		if s[0] == '\\' && len(s) >= 2 {
			switch c := s[1]; {
			case c == '\n':
				s = s[2:]
				continue
			case c == '\'' || c == '"':
				b.WriteByte(c)
				s = s[2:]
				continue
			case isOctal(c):
				// One to three octal digits, unlike Go which requires three.
				n := 1
				for n < 3 && 1+n < len(s) && isOctal(s[1+n]) {
					n++
				}
				v, _ := strconv.ParseUint(s[1:1+n], 8, 32)
				b.WriteRune(safecast.MustConv[rune](v))
				s = s[1+n:]
				continue
			case c == 'N':
				if r, n, ok := namedEscape(s); ok {
					b.WriteRune(r)
					s = s[n:]
					continue
				}
			}
		}
		r, _, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

// namedEscape decodes a leading \N{NAME} escape and returns the rune and
// the number of bytes consumed.
func namedEscape(s string) (rune, int, bool) {
	if !strings.HasPrefix(s, `\N{`) {
		return 0, 0, false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return 0, 0, false
	}
	r, ok := lookupRuneName(s[3:end])
	return r, end + 1, ok
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

// lookupRuneName finds a rune by its Unicode name, ignoring case. The
// table is built on first use.
func lookupRuneName(name string) (rune, bool) {
	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			n := runenames.Name(r)
			if n == "" || strings.HasPrefix(n, "<") {
				continue
			}
			if _, dup := runeNames[n]; !dup {
				runeNames[n] = r
			}
		}
	})
	r, ok := runeNames[strings.ToUpper(name)]
	return r, ok
}
