// Package apperrors provides the error type used across the template service.
// Errors carry an HTTP status code and may wrap other errors, so a failure
// deep in the store or publisher surfaces at the API layer with the right
// code and a complete message chain.
package apperrors

// Error is the application error interface. It extends the standard error
// interface with wrapping, message derivation, and status code management.
// Methods that produce errors return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error using the current one as template
	Msg(msg string) Error                  // new error with message, wrapping the original
	MsgErr(msg string, err ...error) Error // new error with message, wrapping extra errors
	Err(err ...error) Error                // attaches additional errors, keeping the message
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetStatusCode(int) Error               // sets the HTTP status code
	StatusCode() int                       // returns the HTTP status code
	ErrorAll() string                      // full message including wrapped errors
	UnwrapAll() []error                    // all wrapped errors
}
