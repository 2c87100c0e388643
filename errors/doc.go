/*
Package errors implements the error kinds shared by all extensions.

Reuse the root errors of this package whenever possible and register a
custom error only when an extension needs a kind that clients must be
able to tell apart. Register(code, description) panics when a code is
taken twice, so all codes are declared as package variables.

Create errors with ErrXyz.New, ErrXyz.Newf or Wrap at the point of
failure so that a stack trace is attached. Only the innermost wrap records
the trace.

	%s  is the error message
	%+v is the message followed by the stack trace

Use ErrXyz.Is(err) to test the kind of an error. It unwraps any number of
Wrap calls.
*/
package errors
