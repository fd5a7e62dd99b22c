// Package apperrors provides chainable application errors that carry a status code.
// An Error can be used as a template for narrower errors, can wrap any number of
// underlying errors, and works with errors.Is and errors.As across everything it wraps.
package apperrors

// Error defines the interface for application errors. All methods that produce an
// error return a new value, so package-level sentinels can be shared safely.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}
