package githubapi

import "fmt"

// maxRawExcerpt caps the raw response excerpt carried by a ParseError.
const maxRawExcerpt = 2000

// ExecError reports a failed gh invocation together with its captured stderr.
type ExecError struct {
	// Stderr is the raw diagnostic output of the gh process.
	Stderr string
	// Err is the underlying process error.
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("gh command failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ParseError reports a gh response body that was not valid JSON.
type ParseError struct {
	// Raw is a truncated excerpt of the unparsable response body.
	Raw string
	// Err is the underlying decode error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse gh response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// newParseError builds a ParseError carrying at most maxRawExcerpt bytes of raw.
func newParseError(raw []byte, err error) *ParseError {
	excerpt := string(raw)
	if len(excerpt) > maxRawExcerpt {
		excerpt = excerpt[:maxRawExcerpt]
	}
	return &ParseError{Raw: excerpt, Err: err}
}

// TypeMismatchError reports a contents entry that is not a regular file.
type TypeMismatchError struct {
	// DataType is the entry type actually reported by GitHub (e.g. "dir").
	DataType string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("path is not a file, got type %q", e.DataType)
}

// EncodingError reports a contents payload in an unexpected encoding.
type EncodingError struct {
	// Encoding is the encoding actually reported by GitHub.
	Encoding string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unexpected content encoding %q", e.Encoding)
}

// DecodeError reports a contents payload that could not be decoded.
type DecodeError struct {
	// Encoding is the encoding the payload claimed to be in.
	Encoding string
	// Err is the underlying decode error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode file content: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
