package inmemory

import (
	"fmt"
	"regexp"
	"strings"
)

// compileGlob turns a redis style glob (*, ?, [set], [^set], \x) into an
// anchored regexp. Unlike path.Match, * and ? also match '/'.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '\\':
			if i+1 < len(pattern) {
				i++
			}
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end <= 0 {
				return nil, fmt.Errorf("invalid key pattern %q: unterminated character class", pattern)
			}
			b.WriteByte('[')
			for j, r := range pattern[i+1 : i+1+end] {
				switch {
				case r == '^' && j == 0, r == '-':
					b.WriteRune(r)
				default:
					b.WriteString(regexp.QuoteMeta(string(r)))
				}
			}
			b.WriteByte(']')
			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`$`)
	return regexp.Compile(b.String())
}
