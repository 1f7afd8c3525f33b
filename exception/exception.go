// Package exception defines Exception, the one panic value that package catch
// converts into a returned value. Everything else that panics is left alone.
package exception

import (
	"fmt"
	"io"
	"maps"
	"runtime"
	"slices"

	crerrors "github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Exception is a structured error that can be raised with Throw and captured
// with catch.Invoke.
//
// An Exception should be treated as immutable once built. The With* methods
// return modified copies instead of changing the receiver.
type Exception struct {
	// Name identifies the kind of exception, e.g. "Bounds".
	Name string
	// Reason is a human-readable description of what went wrong.
	Reason string
	// UserInfo carries optional structured context.
	UserInfo map[string]any
	// Underlying is the optional cause of the exception.
	Underlying error

	// Program counters of the Throw call site. Nil until thrown.
	callers []uintptr
}

// New creates an Exception with the given name and reason.
func New(name, reason string) *Exception {
	return &Exception{Name: name, Reason: reason}
}

// Newf is like New, but formats the reason.
func Newf(name, format string, args ...any) *Exception {
	return New(name, fmt.Sprintf(format, args...))
}

// Wrap creates an Exception caused by err.
func Wrap(err error, name, reason string) *Exception {
	return &Exception{Name: name, Reason: reason, Underlying: err}
}

// WithUserInfo returns a copy of e with info merged over its existing user
// info.
func (e *Exception) WithUserInfo(info map[string]any) *Exception {
	c := e.Clone()
	if len(info) == 0 {
		return c
	}
	if c.UserInfo == nil {
		c.UserInfo = make(map[string]any, len(info))
	}
	maps.Copy(c.UserInfo, info)
	return c
}

// WithUnderlying returns a copy of e caused by err.
func (e *Exception) WithUnderlying(err error) *Exception {
	c := e.Clone()
	c.Underlying = err
	return c
}

// Clone returns an independent copy of e. The user info map is copied, its
// values are not.
func (e *Exception) Clone() *Exception {
	c := *e
	c.UserInfo = maps.Clone(e.UserInfo)
	return &c
}

// Callers returns the program counters of the site that threw e, as collected
// by runtime.Callers. Use runtime.CallersFrames to resolve them. It returns nil
// for an exception that was never thrown.
func (e *Exception) Callers() []uintptr {
	if e == nil {
		return nil
	}
	return e.callers
}

func (e *Exception) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.message()
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// message joins the name and reason, leaving out whichever is empty.
func (e *Exception) message() string {
	switch {
	case e.Reason == "":
		return e.Name
	case e.Name == "":
		return e.Reason
	default:
		return e.Name + ": " + e.Reason
	}
}

func (e *Exception) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Underlying
}

// Is reports whether target is an Exception with the same name. This makes
// name-only exceptions usable as sentinels:
//
//	var ErrBounds = exception.New("Bounds", "")
//	if e := catch.Invoke(work); e != nil && errors.Is(e, ErrBounds) {
//		...
//	}
//
// A nil Exception matches nothing.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	return ok && e != nil && t != nil && t.Name == e.Name
}

// Format implements fmt.Formatter. %+v includes the user info and the frames
// of the raise site.
func (e *Exception) Format(s fmt.State, verb rune) {
	if e == nil {
		_, _ = io.WriteString(s, "<nil>")
		return
	}
	crerrors.FormatError(e, s, verb)
}

// SafeFormatError implements errors.SafeFormatter. Only the name is considered
// safe for reporting; the reason and user info are redacted.
func (e *Exception) SafeFormatError(p crerrors.Printer) (next error) {
	switch {
	case e.Reason == "":
		p.Print(redact.Safe(e.Name))
	case e.Name == "":
		p.Print(e.Reason)
	default:
		p.Printf("%s: %s", redact.Safe(e.Name), e.Reason)
	}
	if p.Detail() {
		for _, k := range slices.Sorted(maps.Keys(e.UserInfo)) {
			p.Printf("\n%s: %v", redact.Safe(k), e.UserInfo[k])
		}
		if len(e.callers) > 0 {
			p.Print("\nraised at:")
			frames := runtime.CallersFrames(e.callers)
			for {
				frame, more := frames.Next()
				p.Printf("\n  %s\n    %s:%d", redact.Safe(frame.Function), redact.Safe(frame.File), redact.Safe(frame.Line))
				if !more {
					break
				}
			}
		}
	}
	return e.Underlying
}
