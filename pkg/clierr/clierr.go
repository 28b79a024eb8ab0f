package clierr

// Type categorizes a CLI-facing error for consistent messaging & exit codes.
type Type string

const (
	Validation Type = "validation"
	Auth       Type = "auth"
	Transport  Type = "transport"
	Status     Type = "status"
	Internal   Type = "internal"
)

// ExitCode maps the type to the process exit status.
func (t Type) ExitCode() int {
	switch t {
	case Validation:
		return 2
	case Auth:
		return 3
	case Transport:
		return 4
	case Status:
		return 5
	default:
		return 1
	}
}

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }
