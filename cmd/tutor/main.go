package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/modes"
)

var (
	command   func(ctx context.Context, scope dscope.Scope) error
	tracePath string

	devFlag = cmds.Switch("-dev", "development mode, runs report backtraces")
)

func init() {
	cmds.Define("serve", cmds.Func(func() {
		command = serve
	}).Desc("start the HTTP service"))
	cmds.Define("trace", cmds.Func(func(path string) {
		command = traceFile
		tracePath = path
	}).Desc("trace a file and print its frames"))
}

func main() {
	cmds.Execute(os.Args[1:])
	if command == nil {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var mode any = modes.ForProduction()
	if *devFlag {
		mode = modes.ForDevelopment()
	}
	scope := dscope.New(
		new(Module),
		mode,
	)
	if err := command(ctx, scope); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
