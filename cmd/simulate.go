package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/etnz/savingsplan"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type simulateCmd struct {
	scenarioFile string
	verbose      bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run a scenario and write the resulting ledger" }
func (*simulateCmd) Usage() string {
	return `simulate -f <scenario.yaml> [-v]

  Runs a simulated savings plan: instrument prices follow a seeded
  random walk, and the scenario schedule deposits, invests and credits
  interest month after month. The resulting transaction log and
  instrument registry are written to the app ledger and instruments
  files.

Usage Examples:
$ sps simulate -f scenario.yaml
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.scenarioFile, "f", "scenario.yaml", "Scenario file to run")
	f.BoolVar(&c.verbose, "v", false, "Log every simulated month")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	level := zerolog.WarnLevel
	if c.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	scenario, err := LoadScenario(c.scenarioFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	a, reg, err := runScenario(scenario)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	lf, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer lf.Close()
	if err := savingsplan.EncodeLog(lf, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if err := EncodeRegistryFile(reg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	worth := a.NetWorth(func(id uuid.UUID) savingsplan.Money {
		if inst := reg.Get(id); inst != nil {
			return inst.CurrentValue()
		}
		return savingsplan.M(0, a.Currency())
	})
	fmt.Printf("Simulated %d months, final cash %s, net worth %s\n", scenario.Months, a.Balance(), worth)
	return subcommands.ExitSuccess
}

// runScenario plays a scenario month by month and returns the
// resulting account and registry.
func runScenario(s *Scenario) (*savingsplan.Account, *savingsplan.Registry, error) {
	start, err := s.StartTime()
	if err != nil {
		return nil, nil, err
	}
	rng := rand.New(rand.NewSource(s.Seed))

	a := savingsplan.NewAccount(savingsplan.M(s.Account.Balance, s.Account.Currency), start)
	a.SetInterestRate(savingsplan.Percent(s.Account.Rate / 100))

	reg := savingsplan.NewRegistry()
	prices := make([]float64, len(s.Instruments))
	instruments := make([]*savingsplan.Instrument, len(s.Instruments))
	for i, si := range s.Instruments {
		inst, err := savingsplan.NewInstrument(savingsplan.M(si.Price, s.Account.Currency), si.Name)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Add(inst); err != nil {
			return nil, nil, err
		}
		prices[i] = si.Price
		instruments[i] = inst
	}

	for month := 1; month <= s.Months; month++ {
		on := start.AddDate(0, month, 0)

		for i, si := range s.Instruments {
			factor := 1 + si.Drift + si.Volatility*rng.NormFloat64()
			if factor < 0.01 {
				factor = 0.01
			}
			prices[i] *= factor
			if err := instruments[i].UpdatePrice(savingsplan.M(prices[i], s.Account.Currency), on); err != nil {
				return nil, nil, err
			}
		}

		if s.Schedule.Deposit > 0 {
			if err := a.Deposit(savingsplan.M(s.Schedule.Deposit, a.Currency()), on); err != nil {
				return nil, nil, err
			}
		}

		if s.Schedule.Invest > 0 {
			per := s.Schedule.Invest / float64(len(instruments))
			for i, inst := range instruments {
				err := a.Buy(inst, savingsplan.M(per, a.Currency()), savingsplan.M(prices[i], a.Currency()), on)
				if errors.Is(err, savingsplan.ErrInsufficientFunds) {
					log.Warn().Int("month", month).Str("instrument", inst.Name()).Msg("skipping buy, insufficient funds")
					continue
				}
				if err != nil {
					return nil, nil, err
				}
			}
		}

		if month%s.Schedule.InterestEvery == 0 {
			credited := a.AddInterest(on)
			log.Debug().Int("month", month).Stringer("interest", credited).Msg("interest credited")
		}

		log.Debug().Int("month", month).Stringer("balance", a.Balance()).Msg("month simulated")
	}
	return a, reg, nil
}
