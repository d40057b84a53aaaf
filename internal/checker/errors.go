package checker

import (
	"errors"
	"fmt"

	"github.com/August26/proxytaster/internal/model"
)

// ErrTooManyOpenFiles matches any *TooManyOpenFilesError with errors.Is.
var ErrTooManyOpenFiles = errors.New("too many open files")

// errInvalidProxyURL is returned when no transport can be built for a proxy.
var errInvalidProxyURL = errors.New("invalid proxy url")

// errBodyRead tags errors raised while reading a diagnostic response body.
var errBodyRead = errors.New("read response body")

// TooManyOpenFilesError aborts a whole run: the process ran out of file
// descriptors while probing, so every further probe would fail as well.
type TooManyOpenFilesError struct {
	Protocol model.Protocol
	Address  string
	Workers  int
	Err      error
}

func (e *TooManyOpenFilesError) Error() string {
	return fmt.Sprintf("too many open files while checking %s://%s with %d workers: %v",
		e.Protocol, e.Address, e.Workers, e.Err)
}

func (e *TooManyOpenFilesError) Unwrap() error { return e.Err }

func (e *TooManyOpenFilesError) Is(target error) bool { return target == ErrTooManyOpenFiles }
