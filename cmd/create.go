package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savingsplan"
	"github.com/google/subcommands"
)

type createCmd struct {
	date     string
	balance  float64
	currency string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new account ledger file" }
func (*createCmd) Usage() string {
	return `create [-d <date>] [-b <balance>] [-c <currency>]

  Creates a new account with an initial balance and writes its opening
  transaction into the ledger file. Fails if the ledger file exists.

Usage Examples:
# Create an account holding 1000 EUR.
$ sps create -b 1000 -c EUR

`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Opening date, defaults to now")
	f.Float64Var(&c.balance, "b", 0, "Initial cash balance")
	f.StringVar(&c.currency, "c", "EUR", "Account currency code")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.balance < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if _, err := os.Stat(*ledgerFile); err == nil {
		fmt.Fprintf(os.Stderr, "Error: ledger file %q already exists\n", *ledgerFile)
		return subcommands.ExitFailure
	}

	a := savingsplan.NewAccount(savingsplan.M(c.balance, c.currency), on)

	fg, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer fg.Close()
	if err := savingsplan.EncodeLog(fg, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account ledger %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
