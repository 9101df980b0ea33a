package transform

import (
	"errors"
	"strings"
)

type declKind int

const (
	declOther declKind = iota
	declNamespace
	declType
)

// decl is one brace-delimited block in the source, positioned by byte
// offsets. start is the first byte of the declaration header (after the
// previous ';', '{' or '}'), open is the '{', end is one past the matching
// '}'. The synthetic root spans the whole source.
type decl struct {
	kind     declKind
	start    int
	open     int
	end      int
	parent   *decl
	children []*decl
}

func (d *decl) isRoot() bool { return d.parent == nil }

var typeKeywords = map[string]struct{}{
	"class":     {},
	"struct":    {},
	"interface": {},
	"enum":      {},
	"record":    {},
}

// parseDecls scans C#-style source into a tree of brace-delimited
// declarations. The scanner pairs braces while skipping line and block
// comments, string and character literals, and verbatim strings; it does not
// attempt a full parse. Unbalanced braces or unterminated literals are
// reported as errors so the caller can fall back to the original text.
func parseDecls(src string) (*decl, error) {
	root := &decl{start: 0, end: len(src)}
	cur := root
	boundary := 0

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				i = len(src)
			} else {
				i += nl + 1
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			close := strings.Index(src[i+2:], "*/")
			if close < 0 {
				return nil, errors.New("unterminated block comment")
			}
			i += 2 + close + 2
		case c == '@' && (strings.HasPrefix(src[i+1:], `"`) || strings.HasPrefix(src[i+1:], `$"`)):
			n, err := scanVerbatimString(src[i:])
			if err != nil {
				return nil, err
			}
			i += n
		case c == '"':
			n, err := scanQuoted(src[i:], '"')
			if err != nil {
				return nil, err
			}
			i += n
		case c == '\'':
			n, err := scanQuoted(src[i:], '\'')
			if err != nil {
				return nil, err
			}
			i += n
		case c == '{':
			header := src[boundary:i]
			d := &decl{
				kind:   classifyHeader(header),
				start:  boundary + indexNonSpace(header),
				open:   i,
				parent: cur,
			}
			cur.children = append(cur.children, d)
			cur = d
			i++
			boundary = i
		case c == '}':
			if cur.isRoot() {
				return nil, errors.New("unbalanced '}'")
			}
			cur.end = i + 1
			cur = cur.parent
			i++
			boundary = i
		case c == ';':
			i++
			boundary = i
		default:
			i++
		}
	}

	if !cur.isRoot() {
		return nil, errors.New("unterminated block (missing '}')")
	}
	return root, nil
}

// scanQuoted consumes a quoted literal starting at s[0] == quote and returns
// its byte length including both quotes. Backslash escapes are honored.
func scanQuoted(s string, quote byte) (int, error) {
	i := 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, nil
		case '\n':
			return 0, errors.New("unterminated literal")
		default:
			i++
		}
	}
	return 0, errors.New("unterminated literal")
}

// scanVerbatimString consumes an @"..." or @$"..." literal (where "" escapes
// a quote) and returns its byte length.
func scanVerbatimString(s string) (int, error) {
	i := strings.IndexByte(s, '"') + 1
	for i < len(s) {
		if s[i] != '"' {
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			i += 2
			continue
		}
		return i + 1, nil
	}
	return 0, errors.New("unterminated verbatim string")
}

func indexNonSpace(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return i
		}
	}
	return len(s)
}

// classifyHeader decides what kind of block a '{' opens from the text between
// the previous declaration boundary and the brace.
func classifyHeader(header string) declKind {
	tokens := identTokens(header)
	for i, tok := range tokens {
		if tok == "namespace" {
			return declNamespace
		}
		if _, ok := typeKeywords[tok]; ok {
			// Require a following name so a trailing generic constraint
			// ("where T : class") is not mistaken for a declaration.
			if i+1 < len(tokens) {
				return declType
			}
		}
	}
	return declOther
}

func identTokens(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		isIdent := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if isIdent {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
