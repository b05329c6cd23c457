package savingsplan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountTx is a specialized struct to read a monetary amount persisted
// in two fields.
type amountTx struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountTx) Money() Money {
	return M(a.Amount, a.Currency)
}

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("could not encode %s transaction: %w", tx.What(), err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// EncodeLog writes the account's transaction log as a stream of JSONL
// lines, preserving insertion order. Insertion order is what makes the
// replay deterministic, so the format is append-only by construction.
func EncodeLog(w io.Writer, a *Account) error {
	for _, tx := range a.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLog reads a stream of JSONL transaction lines in order.
func DecodeLog(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command Kind `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction

		switch identifier.Command {
		case KindOpen, KindDeposit, KindWithdraw, KindInterest:
			var temp struct {
				baseTx
				amountTx
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			flow := flowTx{baseTx: temp.baseTx, Amount: temp.Money()}
			switch identifier.Command {
			case KindOpen:
				decodedTx = Open{flow}
			case KindDeposit:
				decodedTx = Deposit{flow}
			case KindWithdraw:
				decodedTx = Withdraw{flow}
			case KindInterest:
				decodedTx = Interest{flow}
			}
		case KindBuy, KindSell:
			var temp struct {
				baseTx
				amountTx
				Instrument uuid.UUID       `json:"instrument"`
				Shares     Quantity        `json:"shares"`
				Price      decimal.Decimal `json:"price"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			trade := tradeTx{
				baseTx:     temp.baseTx,
				Instrument: temp.Instrument,
				Shares:     temp.Shares,
				Price:      M(temp.Price, temp.Currency),
				Amount:     temp.Money(),
			}
			if identifier.Command == KindBuy {
				decodedTx = Buy{trade}
			} else {
				decodedTx = Sell{trade}
			}
		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}

		txs = append(txs, decodedTx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read transaction log: %w", err)
	}
	return txs, nil
}

// DecodeAccount rebuilds an account by replaying a persisted
// transaction log. The log is trusted: it was validated when appended,
// so no operation-level checks are repeated here.
func DecodeAccount(r io.Reader) (*Account, error) {
	txs, err := DecodeLog(r)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("empty transaction log")
	}
	open, ok := txs[0].(Open)
	if !ok {
		return nil, fmt.Errorf("transaction log must start with an %q transaction, got %q", KindOpen, txs[0].What())
	}

	a := &Account{
		currency: open.Amount.Currency(),
		rate:     DefaultInterestRate,
		balance:  open.Amount,
		holdings: make(map[uuid.UUID]Quantity),
	}
	a.log = append(a.log, open)
	for _, tx := range txs[1:] {
		a.apply(tx)
	}
	return a, nil
}

// apply replays one trusted transaction onto the account state.
func (a *Account) apply(tx Transaction) {
	switch v := tx.(type) {
	case Buy:
		a.holdings[v.Instrument] = a.holdings[v.Instrument].Add(v.Shares)
	case Sell:
		a.holdings[v.Instrument] = a.holdings[v.Instrument].Sub(v.Shares)
	}
	a.balance = a.balance.Add(tx.CashImpact())
	a.log = append(a.log, tx)
}

// instrumentRecord is the JSONL representation of one instrument.
type instrumentRecord struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency,omitempty"`
	Current  decimal.Decimal `json:"current"`
	History  []priceRecord   `json:"history,omitempty"`
}

type priceRecord struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// EncodeRegistry writes the registry as a stream of JSONL lines, one
// instrument per line, in declaration order. Each price history keeps
// its insertion order.
func EncodeRegistry(w io.Writer, r *Registry) error {
	for inst := range r.All() {
		rec := instrumentRecord{
			ID:       inst.id,
			Name:     inst.name,
			Currency: inst.current.Currency(),
			Current:  inst.current.value,
		}
		for _, p := range inst.history {
			rec.History = append(rec.History, priceRecord{Time: p.On, Price: p.Price.value})
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("could not encode instrument %q: %w", inst.name, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRegistry reads a stream of JSONL instrument lines.
func DecodeRegistry(r io.Reader) (*Registry, error) {
	registry := NewRegistry()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var rec instrumentRecord
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("could not decode instrument line %q: %w", string(lineBytes), err)
		}
		inst := &Instrument{
			id:      rec.ID,
			name:    rec.Name,
			current: M(rec.Current, rec.Currency),
		}
		for _, p := range rec.History {
			inst.history = append(inst.history, PricePoint{On: p.Time, Price: M(p.Price, rec.Currency)})
		}
		if err := registry.Add(inst); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read instrument registry: %w", err)
	}
	return registry, nil
}
