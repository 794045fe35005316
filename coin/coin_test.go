package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/settle-labs/settle/errors"
)

func TestCoinArithmetic(t *testing.T) {
	cases := map[string]struct {
		a, b   Coin
		add    Coin
		addErr *errors.Error
		sub    Coin
		subErr *errors.Error
	}{
		"same ticker": {
			a:   NewCoin(100, "ABC"),
			b:   NewCoin(40, "ABC"),
			add: NewCoin(140, "ABC"),
			sub: NewCoin(60, "ABC"),
		},
		"exact subtraction": {
			a:   NewCoin(50, "ABC"),
			b:   NewCoin(50, "ABC"),
			add: NewCoin(100, "ABC"),
			sub: NewCoin(0, "ABC"),
		},
		"insufficient": {
			a:      NewCoin(10, "ABC"),
			b:      NewCoin(11, "ABC"),
			add:    NewCoin(21, "ABC"),
			subErr: errors.ErrAmount,
		},
		"different tickers": {
			a:      NewCoin(10, "ABC"),
			b:      NewCoin(1, "XYZ"),
			addErr: errors.ErrCurrency,
			subErr: errors.ErrCurrency,
		},
		"overflow": {
			a:      NewCoin(math.MaxUint64, "ABC"),
			b:      NewCoin(1, "ABC"),
			addErr: errors.ErrOverflow,
			sub:    NewCoin(math.MaxUint64-1, "ABC"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.addErr.Is(err) {
				t.Fatalf("add: want %v, got %v", tc.addErr, err)
			}
			if err == nil && !got.Equals(tc.add) {
				t.Fatalf("add: want %s, got %s", tc.add, got)
			}
			got, err = tc.a.Subtract(tc.b)
			if !tc.subErr.Is(err) {
				t.Fatalf("subtract: want %v, got %v", tc.subErr, err)
			}
			if err == nil && !got.Equals(tc.sub) {
				t.Fatalf("subtract: want %s, got %s", tc.sub, got)
			}
		})
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(1, "ABC"), wantErr: nil},
		"zero is valid":   {coin: NewCoin(0, "ABCD"), wantErr: nil},
		"lower case":      {coin: NewCoin(1, "abc"), wantErr: errors.ErrCurrency},
		"missing ticker":  {coin: NewCoin(1, ""), wantErr: errors.ErrCurrency},
		"ticker too long": {coin: NewCoin(1, "ABCDE"), wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		input   string
		want    Coin
		wantErr *errors.Error
	}{
		"simple":          {input: "100 ABC", want: NewCoin(100, "ABC")},
		"no space":        {input: "7XYZ", want: NewCoin(7, "XYZ")},
		"negative":        {input: "-1 ABC", wantErr: errors.ErrInput},
		"fractional":      {input: "1.5 ABC", wantErr: errors.ErrInput},
		"missing ticker":  {input: "12", wantErr: errors.ErrInput},
		"amount overflow": {input: "99999999999999999999 ABC", wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.input)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if err == nil && !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var c Coin
	if err := json.Unmarshal([]byte(`"42 ABC"`), &c); err != nil {
		t.Fatalf("cannot unmarshal human format: %s", err)
	}
	if !c.Equals(NewCoin(42, "ABC")) {
		t.Fatalf("unexpected coin: %s", c)
	}

	raw, err := json.Marshal(NewCoin(5, "XYZ"))
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	var back Coin
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("cannot unmarshal %s: %s", raw, err)
	}
	if !back.Equals(NewCoin(5, "XYZ")) {
		t.Fatalf("unexpected coin: %s", back)
	}
	if s := NewCoin(5, "XYZ").String(); s != "5 XYZ" {
		t.Fatalf("unexpected string: %q", s)
	}
}
