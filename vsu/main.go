package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"

	"github.com/PahliAi/Visuate/cmd"
)

func main() {
	// shell completion: handles COMP_LINE and exits when invoked by the
	// shell's completion machinery
	cmp := &complete.Command{
		Sub: map[string]*complete.Command{
			"update":  {Flags: map[string]complete.Predictor{"n": nil, "no-files": nil}},
			"report":  {Flags: map[string]complete.Predictor{"html": nil}},
			"project": {Flags: map[string]complete.Predictor{"o": nil}},
		},
		Flags: map[string]complete.Predictor{
			"config":   nil,
			"workbook": nil,
			"v":        nil,
		},
	}
	cmp.Complete("vsu")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
