// Package errs defines the stable, typed error vocabulary shared by the
// property/object runtime, the controllers, and the hardware kernels.
package errs

// Code is a stable, comparable error identifier. It implements error
// directly so call sites can return a Code without wrapping it.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical error codes shared across the property runtime, controllers and
// hardware kernels.
const (
	NotWritable          Code = "not_writable"
	OutOfRange           Code = "out_of_range"
	InvalidValue         Code = "invalid_value"
	ConversionError      Code = "conversion_error"
	ObjectDestroyed      Code = "object_destroyed"
	DuplicateAddress     Code = "duplicate_address"
	UnknownAddress       Code = "unknown_address"
	KernelNotStarted     Code = "kernel_not_started"
	TransportError       Code = "transport_error"
	ChecksumMismatch     Code = "checksum_mismatch"
	ProtocolError        Code = "protocol_error"
	AuthenticationFailed Code = "authentication_failed"
	SessionRejected      Code = "session_rejected"
	Timeout              Code = "timeout"
)

// E carries a code plus free-form context and an optional cause, for the
// codes above that need a detail string (TransportError, ProtocolError).
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E with the given code, operation and message.
func New(c Code, op, msg string) *E {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap builds an *E around an existing error, tagging it with a code.
func Wrap(c Code, op string, err error) *E {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

type coder interface{ Code() Code }

// Of extracts the Code from an error, defaulting to InvalidValue for
// anything that doesn't carry one.
func Of(err error) Code {
	if err == nil {
		return ""
	}
	if c, ok := err.(Code); ok {
		return c
	}
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return InvalidValue
}
