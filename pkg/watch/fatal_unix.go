//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalWatchError reports inotify resource exhaustion, after which the
// watcher cannot recover.
func isFatalWatchError(e error) bool {
	return errors.Is(e, syscall.ENOSPC) ||
		errors.Is(e, syscall.EMFILE) ||
		errors.Is(e, syscall.ENFILE)
}
