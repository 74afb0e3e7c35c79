package processor

import "testing"

func testExclusions() ExclusionList {
	return NewExclusionList(
		[]string{"1KnownExchangeAddr", "bc1qcoldwallet"},
		[]string{"binance", "kraken", "crypto.com"},
	)
}

func TestIsCustodialExactAddressMatch(t *testing.T) {
	e := testExclusions()
	if !e.IsCustodial("1KnownExchangeAddr", "") {
		t.Fatal("known address not excluded")
	}
	if !e.IsCustodial("bc1qcoldwallet", "unrelated label") {
		t.Fatal("known address with unrelated label not excluded")
	}
}

func TestIsCustodialLabelMatch(t *testing.T) {
	e := testExclusions()
	cases := []struct {
		label string
		want  bool
	}{
		{"Binance Cold Wallet", true},
		{"BINANCE-coldwallet", true},
		{"wallet: Kraken 3", true},
		{"Crypto.com Reserve", true},
		{"Satoshi Nakamoto", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := e.IsCustodial("1SomeOtherAddr", tc.label); got != tc.want {
			t.Errorf("IsCustodial(label=%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestIsCustodialUnlistedAlwaysFalse(t *testing.T) {
	e := testExclusions()
	// Repeated application on a record absent from both lists stays false.
	for i := 0; i < 3; i++ {
		if e.IsCustodial("1IndependentWhale", "private holder") {
			t.Fatal("independent holder misclassified as custodial")
		}
	}
}

func TestIsCustodialEmptyList(t *testing.T) {
	e := NewExclusionList(nil, nil)
	if e.IsCustodial("1AnyAddr", "Binance") {
		t.Fatal("empty exclusion list must not match anything")
	}
}
