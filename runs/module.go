package runs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/otels"
	"github.com/reusee/tutor/sandboxes"
)

type Module struct {
	dscope.Module
	Logs      logs.Module
	Sandboxes sandboxes.Module
	Otels     otels.Module
}
