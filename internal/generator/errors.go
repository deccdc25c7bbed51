package generator

import (
	"errors"
	"fmt"

	"VanityGrind/internal/patterns"
)

var (
	ErrSearchAborted   = errors.New("search aborted: all workers exited without a match")
	ErrSearchCancelled = errors.New("search cancelled")
	ErrInvalidPrefix   = patterns.ErrInvalidPrefix
)

// WorkerFault reports a worker that stopped abnormally.
type WorkerFault struct {
	Worker int
	Err    error
}

func (f *WorkerFault) Error() string {
	return fmt.Sprintf("worker %d: %v", f.Worker, f.Err)
}

func (f *WorkerFault) Unwrap() error { return f.Err }
