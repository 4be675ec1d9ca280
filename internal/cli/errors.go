package cli

import "fmt"

// UsageError reports a wrong number of positional arguments.
type UsageError struct {
	Want int
	Got  int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected %d arguments, got %d", e.Want, e.Got)
}

// ParseError reports a positional argument that does not parse, naming the
// argument's role.
type ParseError struct {
	Role  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not a suitable <%s>: %q", e.Role, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
