// Package parsererror defines the typed errors returned by the file readers
// and the reconciliation pipeline.
package parsererror

import "fmt"

// ParseError represents a value that could not be parsed from an input file
type ParseError struct {
	Source string // reader that failed, e.g. "statement-csv"
	Row    int    // 1-based data row, 0 when unknown
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
			e.Source, e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure of a file or a request
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// ResolutionError wraps a failure of the operator boundary (chooser or
// identifier prompt) while a transaction was being attributed.
type ResolutionError struct {
	Concept string
	Query   string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving patient for %q (query %q): %v", e.Concept, e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not conform to the
// expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents required data missing from an otherwise
// well-formed file.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
		e.FilePath, e.FieldName, e.Reason)
}
