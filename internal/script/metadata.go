package script

import (
	"encoding/xml"
	"sort"
	"strings"
)

// KindProgram is the only script kind this tool supports.
const KindProgram = "program"

// DefaultImports is the fixed import set merged into every script's metadata.
// It is process-wide constant configuration and is never mutated at runtime.
var DefaultImports = []string{
	"System",
	"System.Collections.Generic",
	"System.IO",
	"System.Linq",
	"System.Threading.Tasks",
}

// Metadata is the validated, deserialized form of a script header.
type Metadata struct {
	// Kind is the declared script kind. Always KindProgram after a
	// successful parse.
	Kind string

	// Dependencies lists declared external packages in declaration order,
	// deduplicated case-insensitively with the first-seen casing retained.
	Dependencies []string

	// Imports is the case-insensitive union of the declared imports and
	// DefaultImports, sorted lexicographically for deterministic output.
	Imports []string
}

type headerDoc struct {
	XMLName      xml.Name `xml:"Script"`
	Kind         string   `xml:"kind,attr"`
	Dependencies []string `xml:"Dependency"`
	Imports      []string `xml:"Import"`
}

// ParseMetadata deserializes a header substring (as returned by
// ExtractHeader) into Metadata. Malformed markup yields a *MetadataError; a
// kind other than "program" yields an *UnsupportedKindError. The kind check
// runs before anything else can act on the metadata, so an unsupported kind
// always fails the run before any file is written.
func ParseMetadata(header string) (*Metadata, error) {
	var doc headerDoc
	if err := xml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, &MetadataError{Err: err}
	}

	kind := strings.TrimSpace(doc.Kind)
	if kind == "" {
		kind = KindProgram
	}
	if kind != KindProgram {
		return nil, &UnsupportedKindError{Kind: kind}
	}

	return &Metadata{
		Kind:         kind,
		Dependencies: dedupeFold(doc.Dependencies),
		Imports:      mergeImports(doc.Imports),
	}, nil
}

// Parse extracts the header from raw script text and deserializes it,
// returning the metadata and the program body.
func Parse(text string) (*Metadata, string, error) {
	header, body, err := ExtractHeader(text)
	if err != nil {
		return nil, "", err
	}
	meta, err := ParseMetadata(header)
	if err != nil {
		return nil, "", err
	}
	return meta, body, nil
}

// dedupeFold removes case-insensitive duplicates, keeping declaration order
// and the first-seen casing. Blank entries are dropped.
func dedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func mergeImports(declared []string) []string {
	seen := make(map[string]struct{}, len(DefaultImports)+len(declared))
	out := make([]string, 0, len(DefaultImports)+len(declared))
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	for _, v := range DefaultImports {
		add(v)
	}
	for _, v := range declared {
		add(v)
	}
	sort.Strings(out)
	return out
}
