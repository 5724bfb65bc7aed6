package sandboxes

import (
	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/logs"
)

var landlockFlag = cmds.Switch("-landlock", "deny filesystem writes outside the data directory")

// RestrictIfRequested applies Restrict when the -landlock flag is given.
func RestrictIfRequested(logger logs.Logger, writable ...string) error {
	if !*landlockFlag {
		return nil
	}
	return Restrict(logger, writable...)
}
