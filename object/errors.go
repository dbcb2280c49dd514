package object

import "traintastic/errs"

// Sentinel errors returned by the property/object runtime. Callers that
// need the stable code should use errs.Of(err) rather than comparing
// against these directly.
var (
	ErrNotWritable     = errs.New(errs.NotWritable, "object", "property is not writable")
	ErrObjectDestroyed = errs.New(errs.ObjectDestroyed, "object", "object has been destroyed")
	ErrOutOfRange      = errs.New(errs.OutOfRange, "object", "value out of range")
	ErrInvalidValue    = errs.New(errs.InvalidValue, "object", "invalid value")
)
