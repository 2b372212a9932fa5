package cmd

import (
	"flag"

	"github.com/etnz/dca/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors predicts the values of flags that are not free text.
var flagPredictors = map[string]complete.Predictor{
	"data":      predict.Files("*.jsonl"),
	"o":         predict.Files("*.jsonl"),
	"config":    predict.Files("*.yaml"),
	"frequency": predict.Set{"monthly", "daily"},
}

// Complete runs the shell completion of the command line if requested by the shell.
//
// It is a no-op otherwise. Run 'COMP_INSTALL=1 dca' to install it.
func Complete(name string) {
	completion(flag.CommandLine).Complete(name)
}

// completion builds the completion tree of the global flags and the subcommands.
func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagsOf(global),
	}
	for _, g := range commands() {
		fs := flag.NewFlagSet(g.cmd.Name(), flag.ContinueOnError)
		g.cmd.SetFlags(fs)
		root.Sub[g.cmd.Name()] = &complete.Command{Flags: flagsOf(fs)}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil // takes no value
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
