package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
seed: 42
start: 2020-01-02
months: 12
account:
  balance: 1000
  currency: EUR
  rate: 2
instruments:
  - name: MSCI World
    price: 100
    drift: 0.004
    volatility: 0.05
schedule:
  deposit: 200
  invest: 150
  interest-every: 12
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 12, s.Months)
	assert.Equal(t, "EUR", s.Account.Currency)
	assert.Equal(t, 200.0, s.Schedule.Deposit)
	require.Len(t, s.Instruments, 1)
	assert.Equal(t, "MSCI World", s.Instruments[0].Name)
}

func TestLoadScenario_Defaults(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, "months: 6\naccount:\n  balance: 100\n"))
	require.NoError(t, err)

	assert.Equal(t, "EUR", s.Account.Currency)
	assert.Equal(t, 2.0, s.Account.Rate)
	assert.Equal(t, 12, s.Schedule.InterestEvery)
}

func TestLoadScenario_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"no months", "account:\n  balance: 100\n"},
		{"negative balance", "months: 6\naccount:\n  balance: -1\n"},
		{"invest without instruments", "months: 6\nschedule:\n  invest: 100\n"},
		{"instrument without price", "months: 6\ninstruments:\n  - name: X\n"},
		{"not yaml", "\t{nope"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	a, reg, err := runScenario(s)
	require.NoError(t, err)

	// 12 deposits of 200 went in, 12 buys of 150 went out, one
	// interest credit happened; the cash moved accordingly.
	assert.Equal(t, "EUR", a.Currency())
	assert.Equal(t, 1, reg.Len())

	var kinds []string
	for _, tx := range a.Transactions() {
		kinds = append(kinds, string(tx.What()))
	}
	assert.Equal(t, "open", kinds[0])
	assert.Contains(t, kinds, "interest")
	assert.Len(t, kinds, 1+12+12+1) // open + deposits + buys + interest

	for inst := range reg.All() {
		var points int
		for range inst.History() {
			points++
		}
		assert.Equal(t, 12, points, "one price point per month")
	}
}

func TestRunScenario_Deterministic(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	a1, _, err := runScenario(s)
	require.NoError(t, err)
	a2, _, err := runScenario(s)
	require.NoError(t, err)

	assert.True(t, a1.Balance().Equal(a2.Balance()),
		"same seed, different balances: %s != %s", a1.Balance(), a2.Balance())
}

func TestRunScenario_SkipsUnaffordableBuys(t *testing.T) {
	// No deposits and a tiny opening balance: the monthly buys run out
	// of cash and are skipped, the run still succeeds.
	content := `
months: 3
account:
  balance: 10
instruments:
  - name: X
    price: 100
schedule:
  invest: 100
`
	s, err := LoadScenario(writeScenario(t, content))
	require.NoError(t, err)

	a, _, err := runScenario(s)
	require.NoError(t, err)
	assert.False(t, a.Balance().IsNegative(), "skipped buys must not overdraw")
}
