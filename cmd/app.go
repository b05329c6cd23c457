// Package cmd implements the CLI application to manage a savings plan.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/etnz/savingsplan"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&createCmd{}, "account")

	c.Register(&declareCmd{}, "instruments")
	c.Register(&updatePriceCmd{}, "instruments")
	c.Register(&fetchCmd{}, "instruments")

	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")
	c.Register(&interestCmd{}, "transactions")
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")

	c.Register(&historyCmd{}, "reports")
	c.Register(&logCmd{}, "reports")

	c.Register(&simulateCmd{}, "simulation")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "savingsplan.jsonl", "Path to the account transaction log (JSONL format)")
var instrumentsFile = flag.String("instruments-file", "instruments.jsonl", "Path to the instrument registry (JSONL format)")

// DecodeAccountFile rebuilds the account from the app ledger file.
func DecodeAccountFile() (*savingsplan.Account, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return savingsplan.DecodeAccount(f)
}

// DecodeRegistryFile decodes the instrument registry from the app instruments file.
func DecodeRegistryFile() (r *savingsplan.Registry, err error) {
	f, err := os.Open(*instrumentsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, instrument registry does not exist, using an empty one instead")
		return savingsplan.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open instruments file %q: %w", *instrumentsFile, err)
	}
	defer f.Close()
	return savingsplan.DecodeRegistry(f)
}

// EncodeRegistryFile encodes the instrument registry into the app instruments file.
func EncodeRegistryFile(r *savingsplan.Registry) error {
	f, err := os.Create(*instrumentsFile)
	if err != nil {
		return fmt.Errorf("could not create instruments file %q: %w", *instrumentsFile, err)
	}
	defer f.Close()
	return savingsplan.EncodeRegistry(f, r)
}

// appendTransaction appends a single transaction to the app ledger file.
func appendTransaction(tx savingsplan.Transaction) subcommands.ExitStatus {
	filename := *ledgerFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := savingsplan.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}

// timeLayouts accepted on the command line, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

// parseTime parses a command line timestamp. An empty value means now.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %q or %q", s, timeLayouts[0], timeLayouts[1])
}

// appendLast appends the most recent transaction of the account to the
// app ledger file. It is the persisting half of every mutating command:
// the account validated and recorded the operation, the last log entry
// is the one to persist.
func appendLast(a *savingsplan.Account) subcommands.ExitStatus {
	var last savingsplan.Transaction
	for _, tx := range a.Transactions() {
		last = tx
	}
	return appendTransaction(last)
}
