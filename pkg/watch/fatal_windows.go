//go:build windows

package watch

import (
	"errors"
	"syscall"
)

const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// isFatalWatchError reports handle exhaustion or an invalidated directory
// handle.
func isFatalWatchError(e error) bool {
	return errors.Is(e, errnoTooManyOpenFiles) ||
		errors.Is(e, errnoInvalidHandle) ||
		errors.Is(e, errnoNotEnoughMemory)
}
