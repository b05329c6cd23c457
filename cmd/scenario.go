package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes a whole simulated savings plan: the account, the
// instruments with their random walk parameters, and the monthly
// schedule of operations.
type Scenario struct {
	Seed   int64  `yaml:"seed"`
	Start  string `yaml:"start"`
	Months int    `yaml:"months"`

	Account struct {
		Balance  float64 `yaml:"balance"`
		Currency string  `yaml:"currency"`
		Rate     float64 `yaml:"rate"` // in percent
	} `yaml:"account"`

	Instruments []ScenarioInstrument `yaml:"instruments"`

	Schedule struct {
		Deposit       float64 `yaml:"deposit"`        // monthly cash deposit
		Invest        float64 `yaml:"invest"`         // monthly amount spread over all instruments
		InterestEvery int     `yaml:"interest-every"` // credit interest every N months
	} `yaml:"schedule"`
}

// ScenarioInstrument is one simulated instrument: a start price and the
// parameters of its monthly geometric random walk.
type ScenarioInstrument struct {
	Name       string  `yaml:"name"`
	Price      float64 `yaml:"price"`
	Drift      float64 `yaml:"drift"`
	Volatility float64 `yaml:"volatility"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read scenario file %q: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("could not parse scenario file %q: %w", path, err)
	}

	if s.Account.Currency == "" {
		s.Account.Currency = "EUR"
	}
	if s.Account.Rate == 0 {
		s.Account.Rate = 2
	}
	if s.Schedule.InterestEvery == 0 {
		s.Schedule.InterestEvery = 12
	}

	if s.Months <= 0 {
		return nil, fmt.Errorf("scenario %q: months must be positive, got %d", path, s.Months)
	}
	if s.Account.Balance < 0 {
		return nil, fmt.Errorf("scenario %q: account balance must not be negative, got %g", path, s.Account.Balance)
	}
	if s.Schedule.Invest > 0 && len(s.Instruments) == 0 {
		return nil, fmt.Errorf("scenario %q: invest requires at least one instrument", path)
	}
	for _, inst := range s.Instruments {
		if inst.Name == "" || inst.Price <= 0 {
			return nil, fmt.Errorf("scenario %q: instrument needs a name and a positive price", path)
		}
	}
	return &s, nil
}

// StartTime returns the scenario start, defaulting to now.
func (s *Scenario) StartTime() (time.Time, error) {
	return parseTime(s.Start)
}
