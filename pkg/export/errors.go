package export

import (
	"fmt"
)

// Kind classifies export failures.
type Kind int

const (
	// NothingToExport means the buffer was empty. No files were created.
	NothingToExport Kind = iota + 1
	// FrameEncodeFailed means a frame could not be written as a still.
	FrameEncodeFailed
	// EncoderFailed means the encoder exited non-zero, could not start, or
	// produced no output.
	EncoderFailed
	// EncoderTimedOut means the encoder exceeded its time budget and was killed.
	EncoderTimedOut
	// ScratchCleanupFailed means the scratch directory could not be removed.
	// After a successful encode it is reported in Result.CleanupErr only.
	ScratchCleanupFailed
	// ScratchFailed means the scratch directory could not be created.
	ScratchFailed
	// Canceled means the caller's context ended the export.
	Canceled
)

func (k Kind) String() string {
	switch k {
	case NothingToExport:
		return "NothingToExport"
	case FrameEncodeFailed:
		return "FrameEncodeFailed"
	case EncoderFailed:
		return "EncoderFailed"
	case EncoderTimedOut:
		return "EncoderTimedOut"
	case ScratchCleanupFailed:
		return "ScratchCleanupFailed"
	case ScratchFailed:
		return "ScratchFailed"
	case Canceled:
		return "Canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed failure returned by Exporter.
type Error struct {
	Kind        Kind
	Index       int    // failing frame, FrameEncodeFailed only
	ExitCode    int    // encoder exit status, EncoderFailed only; -1 if it never ran
	Diagnostics string // encoder error stream, verbatim
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NothingToExport:
		return "nothing to export: buffer is empty"
	case FrameEncodeFailed:
		return fmt.Sprintf("frame %d could not be written: %v", e.Index, e.Err)
	case EncoderFailed:
		if e.ExitCode >= 0 {
			return fmt.Sprintf("encoder failed with status %d: %s", e.ExitCode, e.Diagnostics)
		}
		return fmt.Sprintf("encoder failed: %s", e.Diagnostics)
	case EncoderTimedOut:
		return "encoder timed out and was terminated"
	case ScratchCleanupFailed:
		return fmt.Sprintf("remove scratch directory: %v", e.Err)
	case ScratchFailed:
		return fmt.Sprintf("create scratch directory: %v", e.Err)
	case Canceled:
		return fmt.Sprintf("export canceled: %v", e.Err)
	default:
		return fmt.Sprintf("export failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNothingToExport      = &Error{Kind: NothingToExport}
	ErrFrameEncodeFailed    = &Error{Kind: FrameEncodeFailed}
	ErrEncoderFailed        = &Error{Kind: EncoderFailed}
	ErrEncoderTimedOut      = &Error{Kind: EncoderTimedOut}
	ErrScratchCleanupFailed = &Error{Kind: ScratchCleanupFailed}
	ErrScratchFailed        = &Error{Kind: ScratchFailed}
	ErrCanceled             = &Error{Kind: Canceled}
)
