package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/savingsplan"
	"github.com/etnz/savingsplan/renderer"
	"github.com/google/subcommands"
)

type logCmd struct {
	kinds string
	tail  int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the transactions of the account" }
func (*logCmd) Usage() string {
	return `log [-k <kinds>] [-tail <n>]

  Lists the transactions of the ledger with a running balance. Kinds is
  a comma separated list (e.g. "buy,sell") to narrow the listing.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kinds, "k", "", "Comma separated transaction kinds to show")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var kinds []savingsplan.Kind
	if c.kinds != "" {
		for _, k := range strings.Split(c.kinds, ",") {
			kinds = append(kinds, savingsplan.Kind(strings.TrimSpace(k)))
		}
	}

	report := renderer.NewLog(a, reg, kinds...)
	if c.tail > 0 && len(report.Rows) > c.tail {
		report.Rows = report.Rows[len(report.Rows)-c.tail:]
	}

	printMarkdown(renderer.RenderLog(report))
	return subcommands.ExitSuccess
}
