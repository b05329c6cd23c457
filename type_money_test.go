package savingsplan

import "testing"

func TestMoney_Arithmetic(t *testing.T) {
	a := M(100.50, "EUR")
	b := M(49.50, "EUR")

	if got := a.Add(b); !got.Equal(M(150, "EUR")) {
		t.Errorf("Add() = %s, want 150", got)
	}
	if got := a.Sub(b); !got.Equal(M(51, "EUR")) {
		t.Errorf("Sub() = %s, want 51", got)
	}
	if got := M(100, "EUR").Mul(Q(2.5)); !got.Equal(M(250, "EUR")) {
		t.Errorf("Mul() = %s, want 250", got)
	}
	if got := M(100, "EUR").DivPrice(M(40, "EUR")); !got.Equal(Q(2.5)) {
		t.Errorf("DivPrice() = %s, want 2.5", got)
	}
	if got := M(1000, "EUR").Rate(Percent(0.02)); !got.Equal(M(20, "EUR")) {
		t.Errorf("Rate() = %s, want 20", got)
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	// The empty currency merges with any other.
	if got := M(10, "").Add(M(5, "EUR")); got.Currency() != "EUR" {
		t.Errorf("Add() currency = %q, want EUR", got.Currency())
	}
	if got := M(10, "EUR").Sub(M(5, "")); got.Currency() != "EUR" {
		t.Errorf("Sub() currency = %q, want EUR", got.Currency())
	}
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding EUR and USD did not panic")
		}
	}()
	M(10, "EUR").Add(M(5, "USD"))
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(0, "EUR"), "-"},
		{M(10, "EUR"), "+" + M(10, "EUR").String()},
		{M(-10, "EUR"), M(-10, "EUR").String()},
	}
	for _, tc := range testCases {
		if got := tc.m.SignedString(); got != tc.want {
			t.Errorf("SignedString(%s) = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.02).String(); got != "2.00%" {
		t.Errorf("String() = %q, want 2.00%%", got)
	}
	if !Percent(0.02).Equal(Percent(0.020001)) {
		t.Error("Equal() = false within precision")
	}
	if Percent(0.02).Equal(Percent(0.03)) {
		t.Error("Equal() = true across a full point")
	}
}
