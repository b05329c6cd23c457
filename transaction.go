package savingsplan

import (
	"time"

	"github.com/google/uuid"
)

// Kind is a typed string identifying a transaction record.
type Kind string

// Kinds of transactions recorded in an account log.
const (
	KindOpen     Kind = "open"
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindInterest Kind = "interest"
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
)

// Transaction is one atomic, immutable event against an account.
//
// A transaction is created by an Account operation, appended to the
// log, and never mutated or removed.
type Transaction interface {
	What() Kind            // What returns the kind of the transaction (e.g. "buy").
	When() time.Time       // When returns the instant the transaction occurred.
	CashImpact() Money     // CashImpact returns the signed effect on the cash balance.
	Equal(Transaction) bool
}

type baseTx struct {
	Command Kind      `json:"command"` // Command identifies the kind of transaction.
	Time    time.Time `json:"time"`    // Time is the instant the transaction took place.
	Memo    string    `json:"memo,omitempty"`
}

func (t baseTx) What() Kind      { return t.Command }
func (t baseTx) When() time.Time { return t.Time }

// Rationale returns the memo associated with the transaction.
func (t baseTx) Rationale() string { return t.Memo }

func (t baseTx) equal(o baseTx) bool {
	return t.Command == o.Command && t.Time.Equal(o.Time) && t.Memo == o.Memo
}

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("time", t.Time)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// flowTx is the component shared by pure monetary-flow transactions
// (open, deposit, withdraw, interest).
type flowTx struct {
	baseTx
	Amount Money // Amount is always positive; the kind carries the sign.
}

// MarshalJSON implements the json.Marshaler interface for flowTx.
func (t flowTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t flowTx) equal(o flowTx) bool {
	return t.baseTx.equal(o.baseTx) && t.Amount.Equal(o.Amount)
}

// Open records the initial balance when the account is created, so
// that the full balance can be reconciled from the log alone.
type Open struct{ flowTx }

// NewOpen creates the opening transaction of an account.
func NewOpen(on time.Time, memo string, amount Money) Open {
	return Open{flowTx{baseTx: baseTx{Command: KindOpen, Time: on, Memo: memo}, Amount: amount}}
}

func (t Open) CashImpact() Money { return t.Amount }
func (t Open) Equal(other Transaction) bool {
	o, ok := other.(Open)
	return ok && t.flowTx.equal(o.flowTx)
}

// Deposit represents cash added to the account.
type Deposit struct{ flowTx }

// NewDeposit creates a new Deposit transaction.
func NewDeposit(on time.Time, memo string, amount Money) Deposit {
	return Deposit{flowTx{baseTx: baseTx{Command: KindDeposit, Time: on, Memo: memo}, Amount: amount}}
}

func (t Deposit) CashImpact() Money { return t.Amount }
func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.flowTx.equal(o.flowTx)
}

// Withdraw represents cash removed from the account.
type Withdraw struct{ flowTx }

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(on time.Time, memo string, amount Money) Withdraw {
	return Withdraw{flowTx{baseTx: baseTx{Command: KindWithdraw, Time: on, Memo: memo}, Amount: amount}}
}

func (t Withdraw) CashImpact() Money { return t.Amount.Neg() }
func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.flowTx.equal(o.flowTx)
}

// Interest represents interest credited on the balance.
type Interest struct{ flowTx }

// NewInterest creates a new Interest transaction.
func NewInterest(on time.Time, memo string, amount Money) Interest {
	return Interest{flowTx{baseTx: baseTx{Command: KindInterest, Time: on, Memo: memo}, Amount: amount}}
}

func (t Interest) CashImpact() Money { return t.Amount }
func (t Interest) Equal(other Transaction) bool {
	o, ok := other.(Interest)
	return ok && t.flowTx.equal(o.flowTx)
}

// tradeTx is the component shared by buy and sell transactions.
//
// Invariant: Amount equals Shares × Price.
type tradeTx struct {
	baseTx
	Instrument uuid.UUID // Instrument is the identifier of the traded instrument.
	Shares     Quantity  // Shares is the number of shares, possibly fractional.
	Price      Money     // Price is the per-share price at execution.
	Amount     Money     // Amount is the total monetary value of the trade.
}

// MarshalJSON implements the json.Marshaler interface for tradeTx.
func (t tradeTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("instrument", t.Instrument)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price.value)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t tradeTx) equal(o tradeTx) bool {
	return t.baseTx.equal(o.baseTx) &&
		t.Instrument == o.Instrument &&
		t.Shares.Equal(o.Shares) &&
		t.Price.Equal(o.Price) &&
		t.Amount.Equal(o.Amount)
}

// Buy represents the purchase of shares of an instrument.
type Buy struct{ tradeTx }

// NewBuy creates a new Buy transaction.
func NewBuy(on time.Time, memo string, instrument uuid.UUID, shares Quantity, price, amount Money) Buy {
	return Buy{tradeTx{
		baseTx:     baseTx{Command: KindBuy, Time: on, Memo: memo},
		Instrument: instrument,
		Shares:     shares,
		Price:      price,
		Amount:     amount,
	}}
}

func (t Buy) CashImpact() Money { return t.Amount.Neg() }
func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.tradeTx.equal(o.tradeTx)
}

// Sell represents the sale of shares of an instrument.
type Sell struct{ tradeTx }

// NewSell creates a new Sell transaction.
func NewSell(on time.Time, memo string, instrument uuid.UUID, shares Quantity, price, amount Money) Sell {
	return Sell{tradeTx{
		baseTx:     baseTx{Command: KindSell, Time: on, Memo: memo},
		Instrument: instrument,
		Shares:     shares,
		Price:      price,
		Amount:     amount,
	}}
}

func (t Sell) CashImpact() Money { return t.Amount }
func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.tradeTx.equal(o.tradeTx)
}
