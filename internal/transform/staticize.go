// Package transform rewrites a script body so it can stand alone as a
// top-level program: the entry method is made static, type declarations
// nested inside other types are hoisted to the enclosing scope, and the
// result is wrapped in a single top-level Program type.
package transform

import (
	"regexp"
	"strings"
)

// entrySignature matches an entry-method signature at the start of a line:
// optional modifiers, a return shape of void or Task (either may be marked
// async via the modifiers), the name Main and an opening parenthesis.
// Submatches: 1 = indent, 2 = modifiers, 3 = return keyword, 4 = rest.
var entrySignature = regexp.MustCompile(`(?m)^([ \t]*)((?:[A-Za-z_][A-Za-z0-9_]*[ \t]+)*?)(void|Task)([ \t]+Main[ \t]*\()`)

// Staticize inserts the static qualifier into the script's Main signature,
// immediately before the return-shape keyword. A signature that already
// carries static is left untouched, so the operation is idempotent.
//
// Detection is pattern-based over the signature text, not a structural parse.
// A look-alike signature inside a comment or string literal can misfire; that
// is a known limitation of this layer and is not corrected here.
func Staticize(body string) string {
	m := entrySignature.FindStringSubmatchIndex(body)
	if m == nil {
		return body
	}
	modifiers := body[m[4]:m[5]]
	if hasWord(modifiers, "static") {
		return body
	}
	retStart := m[6]
	return body[:retStart] + "static " + body[retStart:]
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
