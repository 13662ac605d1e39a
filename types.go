package datamapper

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "ignore"
	}
}

// DefaultMaxDepth bounds object nesting during construction and flattening.
const DefaultMaxDepth = 32

// Options is the configuration of a Mapper.
type Options struct {
	// StrictMode rejects input keys not accounted for by the target type,
	// at every nesting level.
	StrictMode bool
	// MaxDepth bounds object nesting; values <= 0 mean DefaultMaxDepth.
	MaxDepth int
	// DuplicateKeys controls duplicate object keys in JSON input. Warn
	// reports them through the Logger; Error fails construction.
	DuplicateKeys Severity
}

// DefaultOptions returns the zero configuration: lenient, depth 32,
// duplicates ignored.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}
