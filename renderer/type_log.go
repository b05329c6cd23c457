package renderer

import (
	"fmt"
	"time"

	"github.com/etnz/savingsplan"
	"github.com/google/uuid"
)

// Log is the renderable form of an account's transaction log, with the
// running balance after each transaction.
type Log struct {
	Currency    string
	Instruments []LogInstrument
	Rows        []LogRow
}

// LogInstrument is one declared instrument, pre-formatted.
type LogInstrument struct {
	Name  string
	ID    string
	Price string
}

// LogRow is one transaction of the log, pre-formatted.
type LogRow struct {
	Time    string
	Command string
	Detail  string
	Amount  string
	Balance string
}

// NewLog builds the transaction log report. Without kinds it lists
// every transaction; with kinds it lists the matching ones, but the
// running balance still reflects the whole log.
func NewLog(a *savingsplan.Account, reg *savingsplan.Registry, kinds ...savingsplan.Kind) *Log {
	l := &Log{Currency: a.Currency()}
	if reg != nil {
		for inst := range reg.All() {
			l.Instruments = append(l.Instruments, LogInstrument{
				Name:  inst.Name(),
				ID:    inst.ID().String(),
				Price: inst.CurrentValue().String(),
			})
		}
	}

	accept := func(savingsplan.Transaction) bool { return true }
	if len(kinds) > 0 {
		accept = savingsplan.ByKind(kinds...)
	}

	balance := savingsplan.M(0, a.Currency())
	for _, tx := range a.Transactions() {
		balance = balance.Add(tx.CashImpact())
		if !accept(tx) {
			continue
		}
		l.Rows = append(l.Rows, LogRow{
			Time:    tx.When().Format(time.RFC3339),
			Command: string(tx.What()),
			Detail:  detail(reg, tx),
			Amount:  tx.CashImpact().SignedString(),
			Balance: balance.String(),
		})
	}
	return l
}

// detail renders the human part of a transaction row: the memo for
// flows, the traded position for buys and sells.
func detail(reg *savingsplan.Registry, tx savingsplan.Transaction) string {
	switch v := tx.(type) {
	case savingsplan.Buy:
		return fmt.Sprintf("%s shares of %s @ %s", v.Shares, instrumentName(reg, v.Instrument), v.Price)
	case savingsplan.Sell:
		return fmt.Sprintf("%s shares of %s @ %s", v.Shares, instrumentName(reg, v.Instrument), v.Price)
	}
	if memo, ok := tx.(interface{ Rationale() string }); ok {
		return memo.Rationale()
	}
	return ""
}

// instrumentName resolves an instrument identifier to its declared
// name, falling back to the raw identifier.
func instrumentName(reg *savingsplan.Registry, id uuid.UUID) string {
	if reg != nil {
		if inst := reg.Get(id); inst != nil {
			return inst.Name()
		}
	}
	return id.String()
}
