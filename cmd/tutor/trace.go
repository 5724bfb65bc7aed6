package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/debugs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/playbacks"
	"github.com/reusee/tutor/runs"
	"github.com/reusee/tutor/terminals"
	"gopkg.in/yaml.v3"
)

var (
	yamlFlag    = cmds.Switch("-yaml", "print YAML instead of JSON")
	playFlag    = cmds.Switch("-play", "step through the frames in the terminal")
	watchFlag   = cmds.Switch("-watch", "trace again on every change of the file")
	inspectFlag = cmds.Var[int]("-inspect", "open a REPL over the locals of frame N, from 1")
)

func traceFile(ctx context.Context, scope dscope.Scope) (err error) {
	scope.Call(func(
		runner *runs.Runner,
		newPlayer playbacks.NewPlayer,
		inspect debugs.Inspect,
		logger logs.Logger,
	) {
		if *inspectFlag > 0 {
			err = inspectFrame(ctx, runner, inspect, *inspectFlag)
			return
		}
		if *playFlag {
			err = play(ctx, runner, newPlayer(), logger)
			return
		}

		run := func() error {
			src, err := os.ReadFile(tracePath)
			if err != nil {
				return err
			}
			return printOutcome(os.Stdout, runner.Run(ctx, string(src)), *yamlFlag)
		}
		if err = run(); err != nil {
			return
		}
		if *watchFlag {
			err = watch(ctx, tracePath, logger, func() {
				if err := run(); err != nil {
					logger.Warn("trace", "path", tracePath, "error", err)
				}
			})
		}
	})
	return
}

func play(ctx context.Context, runner *runs.Runner, player *playbacks.Player, logger logs.Logger) error {
	load := func() (terminals.LoadedMsg, error) {
		src, err := os.ReadFile(tracePath)
		if err != nil {
			return terminals.LoadedMsg{}, err
		}
		outcome := runner.Run(ctx, string(src))
		msg := terminals.LoadedMsg{
			Source: string(src),
			Frames: outcome.Frames,
		}
		if outcome.Err != nil {
			msg.Err = outcome.Err
		}
		return msg, nil
	}

	msg, err := load()
	if err != nil {
		return err
	}
	program := terminals.NewProgram(player, filepath.Base(tracePath), msg.Source,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	go program.Send(msg)

	if *watchFlag {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := watch(watchCtx, tracePath, logger, func() {
				msg, err := load()
				if err != nil {
					logger.Warn("trace", "path", tracePath, "error", err)
					return
				}
				program.Send(msg)
			})
			if err != nil {
				logger.Warn("watch", "path", tracePath, "error", err)
			}
		}()
	}

	_, err = program.Run()
	return err
}

func inspectFrame(ctx context.Context, runner *runs.Runner, inspect debugs.Inspect, n int) error {
	src, err := os.ReadFile(tracePath)
	if err != nil {
		return err
	}
	outcome := runner.Run(ctx, string(src))
	if outcome.Err != nil {
		return outcome.Err
	}
	if n > len(outcome.Frames) {
		return fmt.Errorf("frame %d out of range, %d frames", n, len(outcome.Frames))
	}
	inspect(ctx, outcome.Frames[n-1])
	return nil
}

func printOutcome(w io.Writer, outcome runs.Outcome, asYAML bool) error {
	bs, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	if !asYAML {
		_, err = fmt.Fprintf(w, "%s\n", bs)
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(bs, &node); err != nil {
		return err
	}
	blockStyle(&node)
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return err
	}
	return encoder.Close()
}

// blockStyle drops the flow style decoded from JSON, keeping key order.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
