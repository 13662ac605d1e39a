package datamapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/igorpocta/data-mapper-sub001/i18n"
)

// Issue codes.
const (
	CodeUnknownKey   = "unknown_key"
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeHydration    = "hydration"
	CodeInvalidEnum  = "invalid_enum"
	CodeMaxDepth     = "max_depth"
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
)

var (
	// ErrInvalidTarget is returned when the construction target is not a
	// non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("datamapper: target must be a non-nil pointer to a struct")
	// ErrNotObject is returned when a document's top-level value is not an
	// object.
	ErrNotObject = errors.New("datamapper: top-level value is not an object")
	// ErrMaxDepth is returned when flattening exceeds the configured depth,
	// which only happens for cyclic pointer graphs or very deep data.
	ErrMaxDepth = errors.New("datamapper: maximum depth exceeded")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // Dotted path: "lines.2.price"; array elements are addressed by index.
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Cause   error  `json:"-"` // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at price
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally. It
// also sees through *ValidationError.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ValidationError is the single error type returned by construction when the
// input does not fit the target type. Issues keep the order in which they
// were found: strict-mode keys first, then fields in declaration order.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "datamapper: validation failed"
	}
	return "datamapper: validation failed: " + e.Issues.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Issues
}

// Keys returns the distinct issue paths in order.
func (e *ValidationError) Keys() []string {
	seen := make(map[string]struct{}, len(e.Issues))
	keys := make([]string, 0, len(e.Issues))
	for _, it := range e.Issues {
		if _, ok := seen[it.Path]; ok {
			continue
		}
		seen[it.Path] = struct{}{}
		keys = append(keys, it.Path)
	}
	return keys
}

// Message returns the first message recorded for key.
func (e *ValidationError) Message(key string) (string, bool) {
	for _, it := range e.Issues {
		if it.Path == key {
			return it.Message, true
		}
	}
	return "", false
}

// Map returns the first message per key.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, it := range e.Issues {
		if _, ok := out[it.Path]; !ok {
			out[it.Path] = it.Message
		}
	}
	return out
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ParseError reports input the codec could not decode.
type ParseError struct {
	Format string // "json" or "yaml"
	Codec  string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("datamapper: %s (%s): %s", e.Format, e.Codec, i18n.T(CodeParseError, map[string]string{"reason": fmt.Sprint(e.Err)}))
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newIssue(path, code string, data map[string]string, cause error) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, data), Cause: cause}
}
