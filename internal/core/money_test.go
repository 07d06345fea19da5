package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"42.5", 4250, true},
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{"400", 40000, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{4250, "42.5"},
		{40000, "400"},
		{1, "0.01"},
		{587900, "5879"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 4250})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "42.5" {
		t.Fatalf("marshal = %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("42.50"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 4250 {
		t.Fatalf("unmarshal cents = %d", m.Cents)
	}

	// Zero is allowed on the wire (budget caps can be cleared).
	if err := json.Unmarshal([]byte("0"), &m); err != nil {
		t.Fatalf("unmarshal zero: %v", err)
	}
	if m.Cents != 0 {
		t.Fatalf("zero cents = %d", m.Cents)
	}

	if err := json.Unmarshal([]byte("-1"), &m); err == nil {
		t.Fatalf("negative amount must be rejected")
	}
}
