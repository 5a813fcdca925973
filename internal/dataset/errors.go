package dataset

import "fmt"

// ConfigurationError indicates the dataset location could not be determined.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FileAccessError indicates the resolved data file could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("data file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// SchemaError indicates the file content does not match the expected layout.
// Line is 1-based and zero when the problem is not tied to a line.
type SchemaError struct {
	Path   string
	Line   int
	Column string
	Want   int
	Got    int
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Want > 0:
		return fmt.Sprintf("schema error in %s: expected %d columns, got %d", e.Path, e.Want, e.Got)
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("schema error in %s: line %d column %s: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("schema error in %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("schema error in %s: %v", e.Path, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// EncodingError reports a category outside the known vocabulary. It is only
// returned when strict encoding is enabled.
type EncodingError struct {
	Column string
	Value  string
	Line   int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("line %d: unknown %s category %q", e.Line, e.Column, e.Value)
}
