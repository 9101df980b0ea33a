package transform

import "strings"

// Wrap embeds the body verbatim as the member list of a single top-level
// type named Program.
func Wrap(body string) string {
	var b strings.Builder
	b.WriteString("public class Program\n{\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// Apply runs the full body transformation: staticize the entry point, hoist
// nested type declarations, and wrap the result in the Program type. It never
// fails; only the stages upstream of it can fail the pipeline.
func Apply(body string) string {
	return Wrap(HoistNestedTypes(Staticize(body)))
}
