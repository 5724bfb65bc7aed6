package cmds

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.writeUsage(os.Stdout, p.commands, 0)
}

func (p *Executor) writeUsage(w io.Writer, commands map[string]*Command, depth int) {
	// aliases point to the same command, print each once under its own name
	seen := make(map[*Command]bool)
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		command := commands[name]
		if command == nil || command.Hidden || seen[command] || slices.Contains(command.Aliases, name) {
			continue
		}
		seen[command] = true
		line := indent + name
		if len(command.Aliases) > 0 {
			line += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if command.Description != "" {
			line += "\t" + command.Description
		}
		fmt.Fprintln(w, line)
		if len(command.Subs) > 0 {
			p.writeUsage(w, command.Subs, depth+1)
		}
	}
}
