package savingsplan

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
)

// DefaultInterestRate is the rate applied by AddInterest unless the
// account was given another one.
const DefaultInterestRate = Percent(0.02)

// Account owns a cash balance and an ordered, append-only transaction
// log. The log is kept in insertion order, which is the chronological
// order of operations, not necessarily sorted by the caller-supplied
// timestamps.
//
// Every operation is atomic: it either updates balance, holdings and
// log together, or fails leaving the account untouched. The balance
// always equals the sum of the signed transaction amounts in log order.
type Account struct {
	currency string
	rate     Percent
	balance  Money
	log      []Transaction
	holdings map[uuid.UUID]Quantity // derived from the log, cached
}

// NewAccount creates an account with an initial balance. The start
// date seeds one opening transaction recording the initial balance, so
// that replaying the log reconstructs the balance from zero.
func NewAccount(initialBalance Money, start time.Time) *Account {
	a := &Account{
		currency: initialBalance.Currency(),
		rate:     DefaultInterestRate,
		balance:  initialBalance,
		holdings: make(map[uuid.UUID]Quantity),
	}
	a.log = append(a.log, NewOpen(start, "account opening", initialBalance))
	return a
}

// SetInterestRate changes the fixed per-account interest rate.
func (a *Account) SetInterestRate(rate Percent) { a.rate = rate }

// InterestRate returns the fixed per-account interest rate.
func (a *Account) InterestRate() Percent { return a.rate }

// Currency returns the account's display currency code.
func (a *Account) Currency() string { return a.currency }

// Balance returns the current cash balance.
func (a *Account) Balance() Money { return a.balance }

// Opened returns the timestamp of the opening transaction.
func (a *Account) Opened() time.Time { return a.log[0].When() }

// Holding returns the number of shares currently held for an
// instrument, zero if none.
func (a *Account) Holding(id uuid.UUID) Quantity { return a.holdings[id] }

// Deposit adds cash to the account. The amount must be positive.
func (a *Account) Deposit(amount Money, on time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive, got %s: %w", amount, ErrInvalidInput)
	}
	a.balance = a.balance.Add(amount)
	a.log = append(a.log, NewDeposit(on, "", amount))
	return nil
}

// Withdraw removes cash from the account. The amount must be positive.
//
// There is no overdraft check: the balance may go negative. This
// mirrors minimal-ledger semantics and is a deliberate policy, not an
// omission.
func (a *Account) Withdraw(amount Money, on time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdraw amount must be positive, got %s: %w", amount, ErrInvalidInput)
	}
	a.balance = a.balance.Sub(amount)
	a.log = append(a.log, NewWithdraw(on, "", amount))
	return nil
}

// AddInterest credits balance × rate and returns the credited amount.
// On a negative balance the interest is negative.
func (a *Account) AddInterest(on time.Time) Money {
	interest := a.balance.Rate(a.rate)
	a.balance = a.balance.Add(interest)
	a.log = append(a.log, NewInterest(on, fmt.Sprintf("interest at %s", a.rate), interest))
	return interest
}

// Buy spends a monetary amount on shares of an instrument at the given
// per-share price: shares = amount / price.
//
// It fails with ErrInvalidInput on a non-positive amount or price or a
// nil instrument, and with ErrInsufficientFunds when the amount
// exceeds the cash balance. On failure the account is unchanged.
func (a *Account) Buy(inst *Instrument, amount, price Money, on time.Time) error {
	if inst == nil {
		return fmt.Errorf("buy: instrument is missing: %w", ErrInvalidInput)
	}
	if !price.IsPositive() {
		return fmt.Errorf("buy %s: price must be positive, got %s: %w", inst.Name(), price, ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("buy %s: amount must be positive, got %s: %w", inst.Name(), amount, ErrInvalidInput)
	}
	if a.balance.LessThan(amount) {
		return fmt.Errorf("on %s, cannot buy %s for %s, cash balance is %s: %w",
			on.Format(time.RFC3339), inst.Name(), amount, a.balance, ErrInsufficientFunds)
	}

	shares := amount.DivPrice(price)
	a.balance = a.balance.Sub(amount)
	a.holdings[inst.ID()] = a.holdings[inst.ID()].Add(shares)
	a.log = append(a.log, NewBuy(on, "", inst.ID(), shares, price, amount))
	return nil
}

// Sell sells shares of an instrument for a monetary amount at the
// given per-share price: requested shares = amount / price.
//
// When the requested shares exceed the current holding, the sale is
// clamped to the held quantity and the proceeds shrink accordingly;
// this is not an error. Holdings never go negative. Selling an
// instrument that is not held at all is a no-op.
func (a *Account) Sell(inst *Instrument, amount, price Money, on time.Time) error {
	if inst == nil {
		return fmt.Errorf("sell: instrument is missing: %w", ErrInvalidInput)
	}
	if !price.IsPositive() {
		return fmt.Errorf("sell %s: price must be positive, got %s: %w", inst.Name(), price, ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("sell %s: amount must be positive, got %s: %w", inst.Name(), amount, ErrInvalidInput)
	}

	shares := amount.DivPrice(price)
	if held := a.holdings[inst.ID()]; held.LessThan(shares) {
		// Clamp to the available holding.
		shares = held
	}
	if shares.IsZero() {
		return nil
	}

	proceeds := price.Mul(shares)
	a.balance = a.balance.Add(proceeds)
	a.holdings[inst.ID()] = a.holdings[inst.ID()].Sub(shares)
	a.log = append(a.log, NewSell(on, "", inst.ID(), shares, price, proceeds))
	return nil
}

// NetWorth returns balance plus the value of all holdings priced by
// the given lookup function.
func (a *Account) NetWorth(priceOf func(uuid.UUID) Money) Money {
	worth := a.balance
	for inst, shares := range a.holdings {
		if shares.IsZero() {
			continue
		}
		worth = worth.Add(priceOf(inst).Mul(shares))
	}
	return worth
}

// Transactions returns an iterator that yields each transaction in its
// original insertion order. Without filters it yields every
// transaction; with filters it yields the ones accepted by any filter.
// The view is finite and restartable.
func (a *Account) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range a.log {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// InstrumentTransactions returns an iterator over the buy and sell
// transactions of a single instrument, in insertion order.
func (a *Account) InstrumentTransactions(id uuid.UUID) iter.Seq2[int, Transaction] {
	return a.Transactions(ByInstrument(id))
}

// ByInstrument returns a predicate that filters transactions by
// instrument identifier.
func ByInstrument(id uuid.UUID) func(Transaction) bool {
	return func(tx Transaction) bool {
		switch v := tx.(type) {
		case Buy:
			return v.Instrument == id
		case Sell:
			return v.Instrument == id
		default:
			return false
		}
	}
}

// ByKind returns a predicate that filters transactions by kind.
func ByKind(kinds ...Kind) func(Transaction) bool {
	return func(tx Transaction) bool {
		for _, k := range kinds {
			if tx.What() == k {
				return true
			}
		}
		return false
	}
}
