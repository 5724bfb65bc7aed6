package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/tutor/cmds"
)

type Writer io.Writer

var logFileFlag = cmds.Var[string]("-log-file", "append logs to a file instead of stderr")

// Writer is stderr unless -log-file is given. The terminal player owns the
// screen, so logs go to a file there.
func (Module) Writer() Writer {
	if *logFileFlag == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		return os.Stderr
	}
	return f
}
