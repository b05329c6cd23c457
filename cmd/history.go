package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savingsplan/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	instrument string
	tail       int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the valuation history of the account" }
func (*historyCmd) Usage() string {
	return `history [-i <instrument>] [-tail <n>]

  Replays the transaction log merged with the instrument price
  histories and shows one valuation row per event. With -i, the report
  narrows to a single instrument.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.instrument, "i", "", "Narrow the report to one instrument")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N rows")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := DecodeAccountFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	reg, err := DecodeRegistryFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var report *renderer.History
	if c.instrument != "" {
		inst := findInstrument(reg, c.instrument)
		if inst == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown instrument %q\n", c.instrument)
			return subcommands.ExitFailure
		}
		report = renderer.NewInstrumentHistory(a, reg, inst)
	} else {
		report = renderer.NewHistory(a, reg)
	}

	if c.tail > 0 && len(report.Rows) > c.tail {
		report.Rows = report.Rows[len(report.Rows)-c.tail:]
	}

	printMarkdown(renderer.RenderHistory(report))
	return subcommands.ExitSuccess
}
