package forex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

func newFrankfurterServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
		switch r.URL.Path {
		case "/2021-08-26":
			fmt.Fprintf(w, `{"amount":1.0,"base":%q,"date":"2021-08-26","rates":{%q:0.84983}}`, from, to)
		case "/2021-08-28":
			// saturday: the service falls back to friday.
			fmt.Fprintf(w, `{"amount":1.0,"base":%q,"date":"2021-08-27","rates":{%q:0.8491}}`, from, to)
		case "/1990-01-01":
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFrankfurter_Rate(t *testing.T) {
	server := newFrankfurterServer(t)
	f := NewFrankfurter(WithBaseURL(server.URL), WithRateLimit(0))
	ctx := context.Background()

	got, err := f.Rate(ctx, date.New(2021, 8, 26), "USD", "EUR")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if want := decimal.RequireFromString("0.84983"); !got.Equal(want) {
		t.Errorf("Rate() = %v, want %v", got, want)
	}

	for _, on := range []date.Date{date.New(2021, 8, 28), date.New(1990, 1, 1)} {
		if _, err := f.Rate(ctx, on, "USD", "EUR"); !errors.Is(err, networth.ErrRateUnavailable) {
			t.Errorf("Rate(%s) error = %v, want ErrRateUnavailable", on, err)
		}
	}

	_, err = f.Rate(ctx, date.New(2021, 8, 30), "USD", "EUR")
	if err == nil || errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Rate() on server error = %v, want a plain error", err)
	}
}

func TestCoinDesk_Price(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start") != q.Get("end") {
			http.Error(w, "bad range", http.StatusBadRequest)
			return
		}
		if q.Get("start") == "2021-08-29" {
			fmt.Fprint(w, `{"bpi":{},"disclaimer":""}`)
			return
		}
		fmt.Fprintf(w, `{"bpi":{%q:39848.2899},"disclaimer":""}`, q.Get("start"))
	}))
	defer server.Close()

	c := NewCoinDesk(WithBaseURL(server.URL), WithRateLimit(0))
	got, err := c.Price(context.Background(), date.New(2021, 8, 26), "EUR")
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if want := decimal.RequireFromString("39848.2899"); !got.Equal(want) {
		t.Errorf("Price() = %v, want %v", got, want)
	}
	if _, err := c.Price(context.Background(), date.New(2021, 8, 29), "EUR"); !errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Price() on a day without close error = %v, want ErrRateUnavailable", err)
	}
}

// fixedPrice is a CryptoSource with a single price in every currency.
type fixedPrice struct {
	price decimal.Decimal
	calls int
}

func (f *fixedPrice) Price(context.Context, date.Date, string) (decimal.Decimal, error) {
	f.calls++
	return f.price, nil
}

func TestProvider_Rate(t *testing.T) {
	today := date.New(2025, 6, 15)
	past := date.New(2021, 8, 26)
	fiat := NewTable().Set(past, "USD", "EUR", decimal.RequireFromString("0.8"))
	crypto := &fixedPrice{price: decimal.NewFromInt(40000)}
	p := NewProvider(fiat, crypto, WithClock(func() date.Date { return today }))

	tests := []struct {
		name     string
		on       date.Date
		from, to string
		want     string // empty when unavailable
	}{
		{"same currency", past, "EUR", "EUR", "1"},
		{"same currency in the future", today.Add(2), "BTC", "BTC", "1"},
		{"fiat", past, "USD", "EUR", "0.8"},
		{"inverted fiat", past, "EUR", "USD", "1.25"},
		{"bitcoin to fiat", past, "BTC", "EUR", "40000"},
		{"fiat to bitcoin", past, "USD", "BTC", "0.000025"},
		{"today", today, "USD", "EUR", "0.8"},
		{"future", today.Add(2), "USD", "EUR", ""},
		{"unsupported from", past, "ETH", "USD", ""},
		{"unsupported to", past, "EUR", "AAA", ""},
		{"bitcoin to unsupported", past, "BTC", "AAA", ""},
		{"no fiat data", date.New(2020, 1, 1), "USD", "EUR", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Rate(context.Background(), tt.on, tt.from, tt.to)
			if tt.want == "" {
				if !errors.Is(err, networth.ErrRateUnavailable) {
					t.Errorf("Rate() = %v, %v, want ErrRateUnavailable", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Rate() error = %v", err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("Rate() = %v, want %v", got, want)
			}
		})
	}
}

func TestProvider_Check(t *testing.T) {
	crypto := &fixedPrice{price: decimal.NewFromInt(1)}
	p := NewProvider(NewTable(), crypto, WithClock(func() date.Date { return date.New(2025, 6, 15) }))
	if err := p.Check(date.New(2025, 6, 16), "USD", "EUR"); !errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Check(future) = %v, want ErrRateUnavailable", err)
	}
	if err := p.Check(date.New(2025, 6, 1), "BTC", "PLN"); err != nil {
		t.Errorf("Check(BTC, PLN) = %v, want nil", err)
	}
	if crypto.calls != 0 {
		t.Errorf("Check() queried the source %d times", crypto.calls)
	}
}

func TestTable_Rate(t *testing.T) {
	today := date.New(2025, 6, 15)
	table := NewTable().Clock(func() date.Date { return today }).
		Set(date.New(2024, 1, 1), "USD", "EUR", decimal.RequireFromString("0.9")).
		Set(date.New(2024, 2, 1), "USD", "EUR", decimal.RequireFromString("0.95"))

	tests := []struct {
		on       date.Date
		from, to string
		want     string
	}{
		{date.New(2024, 1, 15), "USD", "EUR", "0.9"},
		{date.New(2024, 2, 1), "USD", "EUR", "0.95"},
		{today, "USD", "EUR", "0.95"},
		{today.Add(1), "USD", "EUR", ""},
		{today.Add(365), "EUR", "USD", ""},
		{today.Add(365), "USD", "USD", "1"},
		{date.New(2024, 2, 1), "EUR", "USD", "1.0526315789473684"},
		{date.New(2023, 12, 31), "USD", "EUR", ""},
		{date.New(2024, 1, 15), "GBP", "EUR", ""},
	}
	for _, tt := range tests {
		got, err := table.Rate(context.Background(), tt.on, tt.from, tt.to)
		if tt.want == "" {
			if !errors.Is(err, networth.ErrRateUnavailable) {
				t.Errorf("Rate(%s, %s, %s) = %v, %v, want ErrRateUnavailable", tt.on, tt.from, tt.to, got, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Rate(%s, %s, %s) error = %v", tt.on, tt.from, tt.to, err)
			continue
		}
		if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
			t.Errorf("Rate(%s, %s, %s) = %v, want %v", tt.on, tt.from, tt.to, got, want)
		}
	}
}

func TestDailyCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"amount":1.0,"base":"GBP","date":"2021-08-26","rates":{"PLN":5.3}}`)
	}))
	defer server.Close()

	f := NewFrankfurter(WithBaseURL(server.URL), WithRateLimit(0), WithDailyCache(t.TempDir()))
	for i := 0; i < 3; i++ {
		got, err := f.Rate(context.Background(), date.New(2021, 8, 26), "GBP", "PLN")
		if err != nil {
			t.Fatalf("Rate() #%d error = %v", i, err)
		}
		if !got.Equal(decimal.RequireFromString("5.3")) {
			t.Errorf("Rate() #%d = %v, want 5.3", i, got)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestFallback(t *testing.T) {
	ctx := context.Background()
	on := date.New(2024, 3, 1)
	manual := NewTable().Set(on, "PLN", "EUR", decimal.RequireFromString("0.23"))
	online := NewTable().
		Set(on, "PLN", "EUR", decimal.RequireFromString("0.25")).
		Set(on, "GBP", "EUR", decimal.RequireFromString("1.17"))
	broken := networth.RateFunc(func(context.Context, date.Date, string, string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("connection refused")
	})

	p := Fallback(manual, online)
	if got, err := p.Rate(ctx, on, "PLN", "EUR"); err != nil || !got.Equal(decimal.RequireFromString("0.23")) {
		t.Errorf("Rate(PLN, EUR) = %v, %v, want the first provider's 0.23", got, err)
	}
	if got, err := p.Rate(ctx, on, "GBP", "EUR"); err != nil || !got.Equal(decimal.RequireFromString("1.17")) {
		t.Errorf("Rate(GBP, EUR) = %v, %v, want the second provider's 1.17", got, err)
	}
	if _, err := p.Rate(ctx, on, "USD", "EUR"); !errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Rate(USD, EUR) error = %v, want ErrRateUnavailable", err)
	}
	if _, err := Fallback(broken, online).Rate(ctx, on, "GBP", "EUR"); err == nil || errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Rate() through a broken provider error = %v, want the provider error", err)
	}
}

func TestFallback_Future(t *testing.T) {
	today := date.New(2025, 6, 15)
	clock := func() date.Date { return today }
	manual := NewTable().Clock(clock).Set(date.New(2021, 1, 1), "USD", "EUR", decimal.RequireFromString("0.9"))
	crypto := &fixedPrice{price: decimal.NewFromInt(40000)}
	online := NewProvider(NewTable().Clock(clock), crypto, WithClock(clock))

	got, err := Fallback(manual, online).Rate(context.Background(), today.Add(365), "USD", "EUR")
	if !errors.Is(err, networth.ErrRateUnavailable) {
		t.Errorf("Rate(future) = %v, %v, want ErrRateUnavailable", got, err)
	}
	if crypto.calls != 0 {
		t.Errorf("Rate(future) queried the crypto source %d times", crypto.calls)
	}
}
