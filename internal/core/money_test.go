package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{".50", 50, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{"0", 0, true},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 1234}).String(); s != "12.34" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: -500}).String(); s != "-5.00" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: 7}).String(); s != "0.07" {
		t.Fatalf("got %q", s)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	income := Money{Cents: 50000_00}
	expense := Money{Cents: 19200_00}
	if got := income.Sub(expense).Cents; got != 30800_00 {
		t.Fatalf("balance: got %d", got)
	}
	if got := expense.Add(Money{Cents: 800_00}).Cents; got != 20000_00 {
		t.Fatalf("sum: got %d", got)
	}
}
