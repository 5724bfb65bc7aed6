package servers

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/files"
	"github.com/reusee/tutor/identities"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/nets"
	"github.com/reusee/tutor/otels"
	"github.com/reusee/tutor/runs"
)

type Module struct {
	dscope.Module
	Logs       logs.Module
	Runs       runs.Module
	Files      files.Module
	Identities identities.Module
	Nets       nets.Module
	Otels      otels.Module
}
