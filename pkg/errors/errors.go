// Package errors provides structured error handling for the retained UI core.
//
// Errors fall into three groups. Misuse errors are caller bugs (reentrant
// declaration, reusing a consumed primitive stream) and are raised with panic.
// Graph errors reject a single declaration and leave the node in its previous
// valid state. Resource errors drop a single primitive while the rest of the
// frame still renders; they are returned to the caller and reported to the
// global Handler.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindMisuse indicates a programmer error such as a reentrant declaration pass.
	KindMisuse
	// KindGraph indicates a rejected widget declaration.
	KindGraph
	// KindResource indicates a failed image or glyph lookup.
	KindResource
	// KindConfig indicates an invalid configuration file.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindMisuse:
		return "misuse"
	case KindGraph:
		return "graph"
	case KindResource:
		return "resource"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by UiError.
var (
	ErrReentrantBuild  = stderrors.New("set widgets called while already building")
	ErrCellReleased    = stderrors.New("widget cell used after release")
	ErrDrawWhileBuild  = stderrors.New("draw requested while building")
	ErrStalePrimitives = stderrors.New("primitive stream is stale or already consumed")
	ErrCycleDetected   = stderrors.New("cycle detected")
	ErrUnknownParent   = stderrors.New("unknown parent")
	ErrReservedID      = stderrors.New("reserved widget id")
	ErrUnknownImage    = stderrors.New("unknown image id")
	ErrUnknownFont     = stderrors.New("unknown font id")
	ErrGlyphCacheFull  = stderrors.New("glyph cache exhausted")
)

// UiError represents a structured error raised by the core.
type UiError struct {
	// Op is the operation that failed (e.g., "graph.Upsert").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// ID is the widget id involved, if any. Zero means none.
	ID uint64
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack for misuse errors.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *UiError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s [%s] id=%d: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *UiError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "render.Emit").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// New builds a UiError.
func New(op string, kind ErrorKind, id uint64, err error) *UiError {
	return &UiError{Op: op, Kind: kind, ID: id, Err: err}
}

// Misuse builds a misuse error carrying the caller's stack. The result is
// meant to be passed to panic.
func Misuse(op string, err error) *UiError {
	return &UiError{
		Op:         op,
		Kind:       KindMisuse,
		Err:        err,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// KindOf returns the kind of the first UiError in err's chain.
func KindOf(err error) ErrorKind {
	var ue *UiError
	if stderrors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Handler receives errors reported by the core.
type Handler interface {
	// HandleError is called when a resource or graph error is reported.
	HandleError(err *UiError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
