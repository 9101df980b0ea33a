package transform

import (
	"sort"
	"strings"
)

// maxHoistPasses bounds the fixpoint loop. Each pass lifts one level of
// nesting, so this is far more depth than any real script carries.
const maxHoistPasses = 32

// HoistNestedTypes relocates every type declaration that is a direct member
// of another type declaration, re-inserting it as a sibling at the top level
// of the enclosing namespace scope (or at the outermost scope when no
// namespace wraps it). The body is later embedded in a synthetic top-level
// Program type; without hoisting, a type nested one level under the script's
// original top-level construct would end up doubly nested and lose its
// intended visibility.
//
// Hoisting is a convenience transform, never a hard requirement: if the body
// cannot be structurally parsed, the original text is returned unchanged.
func HoistNestedTypes(body string) string {
	out := body
	for i := 0; i < maxHoistPasses; i++ {
		next, changed, err := hoistOnce(out)
		if err != nil {
			// Fail open: structural-parse failures never surface.
			return body
		}
		if !changed {
			return next
		}
		out = next
	}
	return out
}

type edit struct {
	pos int
	del int
	ins string
}

func hoistOnce(body string) (string, bool, error) {
	root, err := parseDecls(body)
	if err != nil {
		return "", false, err
	}

	candidates := collectNestedTypes(root)
	if len(candidates) == 0 {
		return body, false, nil
	}

	var edits []edit
	for _, d := range candidates {
		from, to := expandRange(body, d.start, d.end)
		edits = append(edits, edit{pos: from, del: to - from})

		text := "\n" + strings.TrimRight(body[d.start:d.end], " \t\n") + "\n"
		if ns := enclosingNamespace(d); ns != nil {
			// Insert before the namespace's closing brace.
			edits = append(edits, edit{pos: ns.end - 1, ins: text})
		} else {
			edits = append(edits, edit{pos: len(body), ins: text})
		}
	}

	return applyEdits(body, edits), true, nil
}

// collectNestedTypes returns the shallowest type declarations whose parent is
// itself a type declaration. Deeper nesting moves along with its parent and
// is lifted on a later pass.
func collectNestedTypes(root *decl) []*decl {
	var out []*decl
	var walk func(d *decl)
	walk = func(d *decl) {
		for _, c := range d.children {
			if c.kind == declType && d.kind == declType {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func enclosingNamespace(d *decl) *decl {
	for p := d.parent; p != nil; p = p.parent {
		if p.kind == declNamespace {
			return p
		}
	}
	return nil
}

// expandRange widens a declaration's byte range to swallow the indentation
// before it and one trailing newline, so the removal leaves no blank hole.
func expandRange(body string, start, end int) (int, int) {
	from := start
	for from > 0 {
		c := body[from-1]
		if c == ' ' || c == '\t' {
			from--
			continue
		}
		break
	}
	to := end
	for to < len(body) && (body[to] == ' ' || body[to] == '\t') {
		to++
	}
	if to < len(body) && body[to] == '\r' {
		to++
	}
	if to < len(body) && body[to] == '\n' {
		to++
	}
	return from, to
}

func applyEdits(body string, edits []edit) string {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].pos < edits[j].pos })

	var b strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.pos > cursor {
			b.WriteString(body[cursor:e.pos])
			cursor = e.pos
		}
		b.WriteString(e.ins)
		if e.del > 0 {
			cursor += e.del
		}
	}
	if cursor < len(body) {
		b.WriteString(body[cursor:])
	}
	return b.String()
}
