//go:build !linux

package sandboxes

import "github.com/reusee/tutor/logs"

// Restrict is a no-op on non-Linux platforms.
func Restrict(logger logs.Logger, writable ...string) error {
	logger.Warn("process restriction not supported on this platform")
	return nil
}
