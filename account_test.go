package savingsplan

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccount_DepositWithdraw(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))

	if err := a.Deposit(M(200, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if err := a.Withdraw(M(50, "EUR"), day(2025, time.January, 3)); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if !a.Balance().Equal(M(1150, "EUR")) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), M(1150, "EUR"))
	}
}

func TestAccount_InvalidAmounts(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	on := day(2025, time.January, 2)

	testCases := []struct {
		name string
		op   func() error
	}{
		{"deposit zero", func() error { return a.Deposit(M(0, "EUR"), on) }},
		{"deposit negative", func() error { return a.Deposit(M(-5, "EUR"), on) }},
		{"withdraw zero", func() error { return a.Withdraw(M(0, "EUR"), on) }},
		{"withdraw negative", func() error { return a.Withdraw(M(-5, "EUR"), on) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.op(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
			if !a.Balance().Equal(M(1000, "EUR")) {
				t.Errorf("Balance() = %s, want untouched %s", a.Balance(), M(1000, "EUR"))
			}
		})
	}
}

func TestAccount_Overdraft(t *testing.T) {
	// Withdrawing more than the balance is allowed, the balance goes
	// negative.
	a := NewAccount(M(100, "EUR"), day(2025, time.January, 1))
	if err := a.Withdraw(M(150, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if !a.Balance().Equal(M(-50, "EUR")) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), M(-50, "EUR"))
	}
}

func TestAccount_AddInterest(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))

	credited := a.AddInterest(day(2026, time.January, 1))
	if !credited.Equal(M(20, "EUR")) {
		t.Errorf("AddInterest() = %s, want %s", credited, M(20, "EUR"))
	}
	if !a.Balance().Equal(M(1020, "EUR")) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), M(1020, "EUR"))
	}
}

func TestAccount_AddInterest_NegativeBalance(t *testing.T) {
	a := NewAccount(M(100, "EUR"), day(2025, time.January, 1))
	if err := a.Withdraw(M(200, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}

	credited := a.AddInterest(day(2026, time.January, 1))
	if !credited.Equal(M(-2, "EUR")) {
		t.Errorf("AddInterest() = %s, want %s", credited, M(-2, "EUR"))
	}
	if !a.Balance().Equal(M(-102, "EUR")) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), M(-102, "EUR"))
	}
}

func TestAccount_SetInterestRate(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	a.SetInterestRate(Percent(0.05))

	if credited := a.AddInterest(day(2026, time.January, 1)); !credited.Equal(M(50, "EUR")) {
		t.Errorf("AddInterest() = %s, want %s", credited, M(50, "EUR"))
	}
}

func TestAccount_BuySellRoundTrip(t *testing.T) {
	// Buying for 100 and selling the position back at the same price
	// restores the initial balance exactly.
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")

	if err := a.Buy(inst, M(100, "EUR"), M(100, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if !a.Balance().Equal(M(900, "EUR")) {
		t.Errorf("Balance() after buy = %s, want %s", a.Balance(), M(900, "EUR"))
	}
	if !a.Holding(inst.ID()).Equal(Q(1)) {
		t.Errorf("Holding() = %s, want 1", a.Holding(inst.ID()))
	}

	if err := a.Sell(inst, M(100, "EUR"), M(100, "EUR"), day(2025, time.January, 3)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if !a.Balance().Equal(M(1000, "EUR")) {
		t.Errorf("Balance() after sell = %s, want %s", a.Balance(), M(1000, "EUR"))
	}
	if !a.Holding(inst.ID()).IsZero() {
		t.Errorf("Holding() after sell = %s, want 0", a.Holding(inst.ID()))
	}
}

func TestAccount_Buy_FractionalShares(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(300, "EUR"), "ACME")

	if err := a.Buy(inst, M(100, "EUR"), M(300, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	want := Q(100).Div(Q(300))
	if !a.Holding(inst.ID()).Equal(want) {
		t.Errorf("Holding() = %s, want %s", a.Holding(inst.ID()), want)
	}
}

func TestAccount_Buy_InsufficientFunds(t *testing.T) {
	a := NewAccount(M(100, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")

	err := a.Buy(inst, M(150, "EUR"), M(100, "EUR"), day(2025, time.January, 2))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Buy() error = %v, want ErrInsufficientFunds", err)
	}

	// The failed buy must leave no trace.
	if !a.Balance().Equal(M(100, "EUR")) {
		t.Errorf("Balance() = %s, want untouched %s", a.Balance(), M(100, "EUR"))
	}
	if !a.Holding(inst.ID()).IsZero() {
		t.Errorf("Holding() = %s, want 0", a.Holding(inst.ID()))
	}
	var count int
	for range a.Transactions() {
		count++
	}
	if count != 1 {
		t.Errorf("log holds %d transactions, want only the opening one", count)
	}
}

func TestAccount_Buy_InvalidInputs(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")
	on := day(2025, time.January, 2)

	testCases := []struct {
		name string
		err  error
	}{
		{"nil instrument", a.Buy(nil, M(100, "EUR"), M(100, "EUR"), on)},
		{"zero amount", a.Buy(inst, M(0, "EUR"), M(100, "EUR"), on)},
		{"zero price", a.Buy(inst, M(100, "EUR"), M(0, "EUR"), on)},
		{"negative price", a.Buy(inst, M(100, "EUR"), M(-1, "EUR"), on)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", tc.err)
			}
		})
	}
}

func TestAccount_Sell_ClampsToHolding(t *testing.T) {
	// Holding 20 shares at 100, a sale worth 30 shares is clamped: 20
	// shares are sold for 2000, not an error.
	a := NewAccount(M(2000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")

	if err := a.Buy(inst, M(2000, "EUR"), M(100, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := a.Sell(inst, M(3000, "EUR"), M(100, "EUR"), day(2025, time.January, 3)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	if !a.Holding(inst.ID()).IsZero() {
		t.Errorf("Holding() = %s, want 0", a.Holding(inst.ID()))
	}
	if !a.Balance().Equal(M(2000, "EUR")) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), M(2000, "EUR"))
	}
}

func TestAccount_Sell_NothingHeld(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")

	if err := a.Sell(inst, M(100, "EUR"), M(100, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Sell() error = %v, want no-op", err)
	}
	if !a.Balance().Equal(M(1000, "EUR")) {
		t.Errorf("Balance() = %s, want untouched %s", a.Balance(), M(1000, "EUR"))
	}
	var count int
	for range a.Transactions() {
		count++
	}
	if count != 1 {
		t.Errorf("log holds %d transactions, a no-op sale must not be recorded", count)
	}
}

func TestAccount_BalanceReconciliation(t *testing.T) {
	// The balance always equals the sum of the cash impacts of the log.
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(50, "EUR"), "ACME")

	if err := a.Deposit(M(500, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if err := a.Buy(inst, M(200, "EUR"), M(50, "EUR"), day(2025, time.January, 3)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := a.Withdraw(M(100, "EUR"), day(2025, time.January, 4)); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	a.AddInterest(day(2025, time.January, 5))
	if err := a.Sell(inst, M(100, "EUR"), M(50, "EUR"), day(2025, time.January, 6)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	sum := M(0, "EUR")
	for _, tx := range a.Transactions() {
		sum = sum.Add(tx.CashImpact())
	}
	if !sum.Equal(a.Balance()) {
		t.Errorf("sum of cash impacts = %s, balance = %s", sum, a.Balance())
	}
}

func TestAccount_NetWorth(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	inst := mustInstrument(M(100, "EUR"), "ACME")

	if err := a.Buy(inst, M(400, "EUR"), M(100, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	// 4 shares now priced at 110: 600 cash + 440.
	priceOf := func(uuid.UUID) Money { return M(110, "EUR") }
	if got := a.NetWorth(priceOf); !got.Equal(M(1040, "EUR")) {
		t.Errorf("NetWorth() = %s, want %s", got, M(1040, "EUR"))
	}
}

func TestAccount_Transactions_Filters(t *testing.T) {
	a := NewAccount(M(1000, "EUR"), day(2025, time.January, 1))
	acme := mustInstrument(M(100, "EUR"), "ACME")
	globex := mustInstrument(M(10, "EUR"), "Globex")

	if err := a.Buy(acme, M(100, "EUR"), M(100, "EUR"), day(2025, time.January, 2)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := a.Buy(globex, M(50, "EUR"), M(10, "EUR"), day(2025, time.January, 3)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if err := a.Deposit(M(10, "EUR"), day(2025, time.January, 4)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	var all, buys, acmes int
	for range a.Transactions() {
		all++
	}
	for range a.Transactions(ByKind(KindBuy)) {
		buys++
	}
	for range a.InstrumentTransactions(acme.ID()) {
		acmes++
	}

	if all != 4 {
		t.Errorf("Transactions() yielded %d, want 4", all)
	}
	if buys != 2 {
		t.Errorf("Transactions(ByKind(buy)) yielded %d, want 2", buys)
	}
	if acmes != 1 {
		t.Errorf("InstrumentTransactions() yielded %d, want 1", acmes)
	}
}
