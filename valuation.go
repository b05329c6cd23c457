package savingsplan

import (
	"maps"
	"sort"
	"time"

	"github.com/google/uuid"
)

// event represents a single, atomic fact in the merged history of an
// account and the instruments it references. It is the lowest-level
// unit from which the valuation series is derived.
type event interface {
	when() time.Time
}

// txEvent wraps one account transaction.
type txEvent struct {
	tx Transaction
}

func (e txEvent) when() time.Time { return e.tx.When() }

// priceEvent records a new latest-known price for an instrument. It
// changes neither balance nor holdings.
type priceEvent struct {
	on         time.Time
	instrument uuid.UUID
	price      Money
}

func (e priceEvent) when() time.Time { return e.on }

// Snapshot is a single point of the derived valuation series: the cash
// balance, the holdings, the latest known price and implied value per
// instrument, and the total portfolio value at one instant.
//
// Snapshots are output only; they are never stored back onto the
// account.
type Snapshot struct {
	On       time.Time
	Cash     Money
	Holdings map[uuid.UUID]Quantity
	Prices   map[uuid.UUID]Money
	Values   map[uuid.UUID]Money
	Total    Money
}

// Value returns the implied value of one instrument in the snapshot,
// zero if the instrument is unknown.
func (s Snapshot) Value(id uuid.UUID) Money { return s.Values[id] }

// Series replays the account's transaction log merged with the price
// histories of all registered instruments, in time order, and emits
// one snapshot per event.
//
// Series is a pure function of its inputs: running it twice on the
// same log and histories yields identical snapshot sequences. Events
// are sorted by timestamp with a stable sort, so same-instant events
// keep their insertion order: transactions in log order first, then
// price updates per instrument in registry declaration order.
//
// Replay semantics: a price event only refreshes the latest known
// price of its instrument. A buy or sell updates balance and holdings
// with its own recorded execution price, which also becomes the latest
// known price for its instrument. An instrument held before any price
// is known contributes zero value.
func Series(account *Account, registry *Registry) []Snapshot {
	events := make([]event, 0, len(account.log))
	for _, tx := range account.log {
		events = append(events, txEvent{tx: tx})
	}
	if registry != nil {
		for inst := range registry.All() {
			for on, price := range inst.History() {
				events = append(events, priceEvent{on: on, instrument: inst.ID(), price: price})
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].when().Before(events[j].when())
	})

	cash := M(0, account.currency)
	holdings := make(map[uuid.UUID]Quantity)
	prices := make(map[uuid.UUID]Money)

	snapshots := make([]Snapshot, 0, len(events))
	for _, e := range events {
		switch v := e.(type) {
		case txEvent:
			switch tx := v.tx.(type) {
			case Buy:
				holdings[tx.Instrument] = holdings[tx.Instrument].Add(tx.Shares)
				prices[tx.Instrument] = tx.Price
			case Sell:
				holdings[tx.Instrument] = holdings[tx.Instrument].Sub(tx.Shares)
				prices[tx.Instrument] = tx.Price
			}
			cash = cash.Add(v.tx.CashImpact())
		case priceEvent:
			prices[v.instrument] = v.price
		}
		snapshots = append(snapshots, snapshot(e.when(), account.currency, cash, holdings, prices))
	}
	return snapshots
}

// snapshot materializes one point of the series from the running
// replay state. Maps are copied: a snapshot never aliases the replay
// accumulators.
func snapshot(on time.Time, currency string, cash Money, holdings map[uuid.UUID]Quantity, prices map[uuid.UUID]Money) Snapshot {
	values := make(map[uuid.UUID]Money, len(holdings))
	total := cash
	for id, shares := range holdings {
		price, known := prices[id]
		if !known {
			// Absent price: the holding contributes zero value.
			values[id] = M(0, currency)
			continue
		}
		value := price.Mul(shares)
		values[id] = value
		total = total.Add(value)
	}
	return Snapshot{
		On:       on,
		Cash:     cash,
		Holdings: maps.Clone(holdings),
		Prices:   maps.Clone(prices),
		Values:   values,
		Total:    total,
	}
}
