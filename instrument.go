package savingsplan

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
)

// PricePoint is a single (timestamp, price) entry in an instrument's
// price history.
type PricePoint struct {
	On    time.Time
	Price Money
}

// Instrument represents a tradable stock: identity, display name,
// current price and an append-only price history.
//
// An Instrument is created once and mutated only by UpdatePrice; it is
// referenced elsewhere by its identifier, never owned.
type Instrument struct {
	id      uuid.UUID
	name    string
	current Money
	history []PricePoint // append-only, in caller order
}

// NewInstrument creates an instrument with a generated identifier.
// The initial price must be positive.
func NewInstrument(initialPrice Money, name string) (*Instrument, error) {
	if !initialPrice.IsPositive() {
		return nil, fmt.Errorf("instrument %q: initial price must be positive, got %s: %w", name, initialPrice, ErrInvalidInput)
	}
	return &Instrument{
		id:      uuid.New(),
		name:    name,
		current: initialPrice,
	}, nil
}

// ID returns the instrument's opaque identifier.
func (s *Instrument) ID() uuid.UUID { return s.id }

// Name returns the instrument's display name.
func (s *Instrument) Name() string { return s.name }

// CurrentValue returns the current price: the price of the most recent
// history entry, or the initial price while the history is empty.
func (s *Instrument) CurrentValue() Money { return s.current }

// UpdatePrice appends a (timestamp, price) pair to the history and sets
// the current price. The price must be positive.
//
// No ordering constraint is enforced on the timestamp: callers may
// backfill. The valuation replay sorts by timestamp, ties broken by
// insertion order.
func (s *Instrument) UpdatePrice(price Money, on time.Time) error {
	if !price.IsPositive() {
		return fmt.Errorf("instrument %q: price must be positive, got %s: %w", s.name, price, ErrInvalidInput)
	}
	s.history = append(s.history, PricePoint{On: on, Price: price})
	s.current = price
	return nil
}

// PriceOn returns the recorded price for that exact instant. The
// boolean is false when no entry exists for the instant; absence is
// distinct from a zero price. The latest record wins when the same
// instant was recorded twice.
func (s *Instrument) PriceOn(on time.Time) (Money, bool) {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].On.Equal(on) {
			return s.history[i].Price, true
		}
	}
	return Money{}, false
}

// History returns an iterator over the price history in insertion order.
func (s *Instrument) History() iter.Seq2[time.Time, Money] {
	return func(yield func(time.Time, Money) bool) {
		for _, p := range s.history {
			if !yield(p.On, p.Price) {
				return
			}
		}
	}
}

func (s *Instrument) String() string {
	return fmt.Sprintf("%s (%s) %s", s.name, s.id, s.current)
}

// Registry owns the instruments and indexes them by identifier. Every
// lookup goes through a registry passed by reference; there is no
// package-level instrument state.
type Registry struct {
	instruments []*Instrument // in declaration order
	index       map[uuid.UUID]*Instrument
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instruments: make([]*Instrument, 0),
		index:       make(map[uuid.UUID]*Instrument),
	}
}

// Add registers an instrument. Adding the same identifier twice is a
// no-op for the index but would hide the older value; it is rejected.
func (r *Registry) Add(inst *Instrument) error {
	if inst == nil {
		return fmt.Errorf("cannot register a nil instrument: %w", ErrInvalidInput)
	}
	if _, ok := r.index[inst.id]; ok {
		return fmt.Errorf("instrument %s already registered: %w", inst.id, ErrInvalidInput)
	}
	r.instruments = append(r.instruments, inst)
	r.index[inst.id] = inst
	return nil
}

// Has reports whether the identifier is registered.
func (r *Registry) Has(id uuid.UUID) bool {
	_, ok := r.index[id]
	return ok
}

// Get returns the instrument with this identifier, or nil if unknown.
func (r *Registry) Get(id uuid.UUID) *Instrument { return r.index[id] }

// Len returns the number of registered instruments.
func (r *Registry) Len() int { return len(r.instruments) }

// All iterates over instruments in declaration order. The order is
// stable, which keeps every replay deterministic.
func (r *Registry) All() iter.Seq[*Instrument] {
	return func(yield func(*Instrument) bool) {
		for _, inst := range r.instruments {
			if !yield(inst) {
				return
			}
		}
	}
}
