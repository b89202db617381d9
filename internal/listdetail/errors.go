package listdetail

import (
	"errors"
	"fmt"
)

// Precondition violations. These are caller mistakes, not backend outcomes.
var (
	ErrUnknownEntity     = errors.New("no such record in the list")
	ErrBusy              = errors.New("another request is still running")
	ErrNoPendingDeletion = errors.New("no deletion awaiting confirmation")
	ErrDetailClosed      = errors.New("detail view is not open")
	ErrUnknownGallery    = errors.New("no such gallery")
	ErrCursorOutOfRange  = errors.New("image index out of range")
	// ErrSuperseded is returned by a request whose result was discarded
	// because a newer request (or a close) replaced it.
	ErrSuperseded = errors.New("superseded by a newer request")
)

type FailureKind int

const (
	// FailureLogical is a well-formed envelope with success=false.
	FailureLogical FailureKind = iota
	// FailureTransport is anything that kept a usable envelope from arriving.
	FailureTransport
)

func (k FailureKind) String() string {
	if k == FailureLogical {
		return "logical"
	}
	return "transport"
}

// Failure is a backend outcome that has already been reported to the
// operator through the notifier.
type Failure struct {
	Op      string
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s failure: %v", f.Op, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s failure: %s", f.Op, f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsReported reports whether err has already been shown to the operator.
func IsReported(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}
