package script

import "fmt"

// FormatError reports that the header boundaries could not be located in the
// raw script text.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("script header: %s", e.Reason)
}

// MetadataError reports malformed header markup (unterminated element,
// mismatched structure).
type MetadataError struct {
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("script metadata: %v", e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// UnsupportedKindError reports a declared script kind other than "program".
// This is a permanent limitation of the tool, not a parse failure.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported script kind %q (only %q is supported)", e.Kind, KindProgram)
}
