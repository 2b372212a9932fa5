package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dca/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
	raw  bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `dca topic [-list] [<topic>...]

Show documentation for the given topics, or the index.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the topics and their titles.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		return exitStatus(os.Stderr, c.printList())
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(os.Stdout, doc, c.raw)
	return subcommands.ExitSuccess
}

func (c *topicCmd) printList() error {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, t := range topics {
		title, err := docs.Title(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "- `%s`: %s\n", t, title)
	}
	printMarkdown(os.Stdout, b.String(), c.raw)
	return nil
}
