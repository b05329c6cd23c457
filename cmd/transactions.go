package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savingsplan"
	"github.com/google/subcommands"
)

// --- Deposit Command ---

type depositCmd struct {
	date   string
	amount float64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the account" }
func (*depositCmd) Usage() string {
	return `deposit -a <amount> [-d <date>]

  Adds cash to the account balance.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date, defaults to now")
	f.Float64Var(&c.amount, "a", 0, "Amount of cash to deposit")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := DecodeAccountFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := a.Deposit(savingsplan.M(c.amount, a.Currency()), on); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return appendLast(a)
}

// --- Withdraw Command ---

type withdrawCmd struct {
	date   string
	amount float64
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove cash from the account" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <amount> [-d <date>]

  Removes cash from the account balance. The balance may go negative.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date, defaults to now")
	f.Float64Var(&c.amount, "a", 0, "Amount of cash to withdraw")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := DecodeAccountFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := a.Withdraw(savingsplan.M(c.amount, a.Currency()), on); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return appendLast(a)
}

// --- Interest Command ---

type interestCmd struct {
	date string
	rate float64
}

func (*interestCmd) Name() string     { return "interest" }
func (*interestCmd) Synopsis() string { return "credit interest on the current balance" }
func (*interestCmd) Usage() string {
	return `interest [-r <rate>] [-d <date>]

  Credits balance x rate to the account. On a negative balance the
  interest is negative.
`
}

func (c *interestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date, defaults to now")
	f.Float64Var(&c.rate, "r", 2, "Interest rate in percent")
}

func (c *interestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := DecodeAccountFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a.SetInterestRate(savingsplan.Percent(c.rate / 100))
	credited := a.AddInterest(on)
	fmt.Printf("Credited %s of interest\n", credited)
	return appendLast(a)
}

// --- Buy Command ---

type buyCmd struct {
	date       string
	instrument string
	amount     float64
	price      float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "spend cash on shares of an instrument" }
func (*buyCmd) Usage() string {
	return `buy -i <instrument> -a <amount> [-p <price>] [-d <date>]

  Spends a cash amount on shares of an instrument: shares = amount / price.
  Without -p the instrument's latest known price is used. Fails when the
  amount exceeds the cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date, defaults to now")
	f.StringVar(&c.instrument, "i", "", "Instrument name or identifier")
	f.Float64Var(&c.amount, "a", 0, "Cash amount to spend")
	f.Float64Var(&c.price, "p", 0, "Price per share, defaults to the latest known price")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.instrument == "" || c.amount <= 0 || c.price < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, _, inst, status := decodeTrade(c.instrument)
	if status != subcommands.ExitSuccess {
		return status
	}
	price := inst.CurrentValue()
	if c.price > 0 {
		price = savingsplan.M(c.price, a.Currency())
	}
	if err := a.Buy(inst, savingsplan.M(c.amount, a.Currency()), price, on); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return appendLast(a)
}

// --- Sell Command ---

type sellCmd struct {
	date       string
	instrument string
	amount     float64
	price      float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of an instrument for cash" }
func (*sellCmd) Usage() string {
	return `sell -i <instrument> -a <amount> [-p <price>] [-d <date>]

  Sells shares worth a cash amount: shares = amount / price. When the
  requested shares exceed the current holding, the sale is clamped to
  the held quantity.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date, defaults to now")
	f.StringVar(&c.instrument, "i", "", "Instrument name or identifier")
	f.Float64Var(&c.amount, "a", 0, "Cash amount to sell for")
	f.Float64Var(&c.price, "p", 0, "Price per share, defaults to the latest known price")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.instrument == "" || c.amount <= 0 || c.price < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, _, inst, status := decodeTrade(c.instrument)
	if status != subcommands.ExitSuccess {
		return status
	}
	price := inst.CurrentValue()
	if c.price > 0 {
		price = savingsplan.M(c.price, a.Currency())
	}
	before := a.Balance()
	if err := a.Sell(inst, savingsplan.M(c.amount, a.Currency()), price, on); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	// A clamped-to-zero sale records no transaction.
	if a.Balance().Equal(before) {
		fmt.Println("Nothing to sell, ledger unchanged")
		return subcommands.ExitSuccess
	}
	return appendLast(a)
}

// decodeTrade loads the account and registry and resolves the
// instrument argument, by name or by identifier.
func decodeTrade(instrument string) (*savingsplan.Account, *savingsplan.Registry, *savingsplan.Instrument, subcommands.ExitStatus) {
	a, err := DecodeAccountFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, nil, subcommands.ExitFailure
	}
	reg, err := DecodeRegistryFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, nil, subcommands.ExitFailure
	}
	inst := findInstrument(reg, instrument)
	if inst == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown instrument %q\n", instrument)
		return nil, nil, nil, subcommands.ExitFailure
	}
	return a, reg, inst, subcommands.ExitSuccess
}
