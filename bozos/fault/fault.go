// Package fault carries the panic value raised when a caller breaks a
// resource contract: double free, freeing a foreign pointer, using a
// released clock, releasing a scope that is not on top.
package fault

import "fmt"

// Violation is the panic value for contract breaches.
type Violation struct {
	Subsystem string
	Op        string
	Detail    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s", v.Subsystem, v.Op, v.Detail)
}

// Raise panics with a *Violation.
func Raise(subsystem, op, format string, args ...any) {
	panic(&Violation{Subsystem: subsystem, Op: op, Detail: fmt.Sprintf(format, args...)})
}

// As reports whether a recovered value is a *Violation.
func As(r any) (*Violation, bool) {
	v, ok := r.(*Violation)
	return v, ok
}
