// Package script extracts and deserializes the metadata header of a
// self-contained script file. A script is free-form text containing, at some
// offset, an XML header element followed by the program body:
//
//	<Script kind="program">
//	  <Dependency>Newtonsoft.Json</Dependency>
//	  <Import>System.Net.Http</Import>
//	</Script>
//	... program source ...
//
// The header may also be self-closing (<Script />). Text before the opening
// marker is ignored; the body is everything after the terminator with leading
// whitespace trimmed.
package script

import "strings"

const (
	openMarker      = "<Script"
	selfCloseMarker = "/>"
	closeMarker     = "</Script>"
)

// ExtractHeader splits raw script text into the header markup and the program
// body. The header substring runs from the opening marker through whichever
// terminator (self-closing or explicit close) occurs first. It returns a
// *FormatError if the opening marker is absent or no terminator follows it.
func ExtractHeader(text string) (header, body string, err error) {
	start := strings.Index(text, openMarker)
	if start < 0 {
		return "", "", &FormatError{Reason: "opening <Script> marker not found"}
	}

	rest := text[start:]
	selfClose := strings.Index(rest, selfCloseMarker)
	explicit := strings.Index(rest, closeMarker)

	var end int
	switch {
	case selfClose < 0 && explicit < 0:
		return "", "", &FormatError{Reason: "header is not terminated (expected /> or </Script>)"}
	case selfClose < 0:
		end = explicit + len(closeMarker)
	case explicit < 0 || selfClose < explicit:
		end = selfClose + len(selfCloseMarker)
	default:
		end = explicit + len(closeMarker)
	}

	header = rest[:end]
	body = strings.TrimLeft(rest[end:], " \t\r\n")
	return header, body, nil
}
