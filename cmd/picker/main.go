// Command picker searches stocks, loads strategy recommendations and adds
// selected shares to the portfolio backend from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "picker")
	}
	commander.Register(&commitsCmd{}, "journal")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

var commands = []subcommands.Command{
	&searchCmd{},
	&seriesCmd{},
	&recommendCmd{},
	&buyCmd{},
}
