package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/debugs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/playbacks"
	"github.com/reusee/tutor/servers"
	"github.com/reusee/tutor/tutorconfigs"
)

type Module struct {
	dscope.Module
	Configs   tutorconfigs.Module
	Logs      logs.Module
	Servers   servers.Module
	Playbacks playbacks.Module
	Debugs    debugs.Module
}
