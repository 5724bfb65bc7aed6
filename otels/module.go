package otels

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
