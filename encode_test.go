package networth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/google/go-cmp/cmp"
)

func samplePortfolio() *Portfolio {
	p := NewPortfolio("Family", "everything we own", "EUR", WithClock(testClock))
	fund := mustAdd(p, "asset", "fund", "EUR", "Savings")
	stock := mustAdd(p, "asset", "stock", "EUR", "ACME")
	flat := mustAdd(p, "asset", "real-estate", "EUR", "Flat")
	mustPurchase(fund, "2021-02-01", 1, EUR(50000), EUR(0))
	mustPurchase(fund, "2021-04-01", 1, EUR(20000), EUR(0))
	mustPurchase(stock, "2021-05-12", 10, EUR(5000), EUR(9.99))
	mustPurchase(flat, "2020-09-01", 0.5, EUR(400000), EUR(12000))
	return p
}

func TestEncodePortfolio_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := samplePortfolio()

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() error = %v", err)
	}
	q, err := DecodePortfolio(&buf, WithClock(testClock))
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}

	if q.Name() != p.Name() || q.Description() != p.Description() || q.Currency() != p.Currency() {
		t.Errorf("decoded = %q %q %q, want %q %q %q", q.Name(), q.Description(), q.Currency(), p.Name(), p.Description(), p.Currency())
	}
	if q.Len() != p.Len() {
		t.Fatalf("decoded Len() = %d, want %d", q.Len(), p.Len())
	}
	for on := date.New(2020, 8, 1); on.Before(date.New(2021, 7, 1)); on = on.Add(7) {
		want, err := p.Balance(ctx, on)
		if err != nil {
			t.Fatal(err)
		}
		got, err := q.Balance(ctx, on)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("decoded Balance(%s) = %v, want %v", on, got, want)
		}
	}
	for h := range p.Holdings() {
		g := q.Holding(h.Name())
		if g == nil {
			t.Errorf("decoded portfolio has no %q", h.Name())
			continue
		}
		if g.Subcategory() != h.Subcategory() || g.Timeline().Len() != h.Timeline().Len() {
			t.Errorf("decoded %q = %v with %d snapshots, want %v with %d", h.Name(), g.Subcategory(), g.Timeline().Len(), h.Subcategory(), h.Timeline().Len())
		}
	}
}

func TestEncodePortfolio_Format(t *testing.T) {
	p := NewPortfolio("Family", "", "EUR", WithClock(testClock))
	mustPurchase(mustAdd(p, "asset", "stock", "EUR", "ACME"), "2021-05-12", 10, EUR(5000), EUR(1.5))

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("EncodePortfolio() wrote invalid JSON: %v\n%s", err, buf.String())
	}
	want := map[string]any{
		"version":  1.0,
		"name":     "Family",
		"currency": "EUR",
		"holdings": []any{
			map[string]any{
				"category":    "asset",
				"subcategory": "stock",
				"currency":    "EUR",
				"name":        "ACME",
				"ledger": []any{
					map[string]any{"command": "purchase", "date": "2021-05-12", "units": 10.0, "price": 5000.0, "fees": 1.5},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EncodePortfolio() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePortfolio_Legacy(t *testing.T) {
	const record = `{
  "version": 1,
  "name": "Old",
  "currency": "eur",
  "holdings": [
    {
      "category": "asset",
      "subcategory": "real_state",
      "currency": "EUR",
      "name": "House",
      "ledger": [{"command": "purchase", "date": "2019-03-01", "units": 1, "price": 250000, "fees": 0}]
    }
  ]
}`
	p, err := DecodePortfolio(strings.NewReader(record), WithClock(testClock))
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}
	h := p.Holding("House")
	if h == nil || h.Subcategory() != RealEstate {
		t.Fatalf("Holding(House) = %v, want a real-estate holding", h)
	}
	if p.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want EUR", p.Currency())
	}
}

func TestDecodePortfolio_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   []string
	}{
		{
			name:   "version",
			record: `{"version": 2, "name": "x", "currency": "EUR", "holdings": []}`,
			want:   []string{"version 2"},
		},
		{
			name:   "unknown field",
			record: `{"version": 1, "name": "x", "currency": "EUR", "holdings": [], "owner": "me"}`,
			want:   []string{"owner"},
		},
		{
			name: "replay rejections are all reported",
			record: `{"version": 1, "name": "Bad", "currency": "EUR", "holdings": [
				{"category": "asset", "subcategory": "stock", "currency": "EUR", "name": "ACME", "ledger": [
					{"command": "purchase", "date": "2021-01-01", "units": 1.5, "price": 10, "fees": 0},
					{"command": "purchase", "date": "2099-01-01", "units": 1, "price": 10, "fees": 0},
					{"command": "sell", "date": "2021-01-01", "units": 1, "price": 10, "fees": 0}
				]},
				{"category": "equity", "subcategory": "stock", "currency": "EUR", "name": "Other", "ledger": []}
			]}`,
			want: []string{"transaction #0", "transaction #1", "transaction #2", "holding #1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePortfolio(strings.NewReader(tt.record), WithClock(testClock))
			if err == nil {
				t.Fatal("DecodePortfolio() error = nil, want an error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("DecodePortfolio() error = %v\nwant it to contain %q", err, w)
				}
			}
		})
	}
}

func TestSavePortfolio(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "networth.json")
	p := samplePortfolio()
	if err := SavePortfolio(filename, p); err != nil {
		t.Fatalf("SavePortfolio() error = %v", err)
	}
	// saving again replaces the file.
	p.SetDescription("updated")
	if err := SavePortfolio(filename, p); err != nil {
		t.Fatalf("SavePortfolio() error = %v", err)
	}
	q, err := LoadPortfolio(filename, WithClock(testClock))
	if err != nil {
		t.Fatalf("LoadPortfolio() error = %v", err)
	}
	if q.Description() != "updated" {
		t.Errorf("Description() = %q, want updated", q.Description())
	}

	if fi, err := os.Stat(filename); err != nil {
		t.Fatal(err)
	} else if fi.Mode().Perm() != 0o644 {
		t.Errorf("new file mode = %v, want %v", fi.Mode().Perm(), fs.FileMode(0o644))
	}

	// saving keeps the permissions of the existing file.
	if err := os.Chmod(filename, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := SavePortfolio(filename, p); err != nil {
		t.Fatalf("SavePortfolio() error = %v", err)
	}
	if fi, err := os.Stat(filename); err != nil {
		t.Fatal(err)
	} else if fi.Mode().Perm() != 0o640 {
		t.Errorf("saved file mode = %v, want %v", fi.Mode().Perm(), fs.FileMode(0o640))
	}

	if _, err := LoadPortfolio(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("LoadPortfolio(missing) error = nil")
	} else if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadPortfolio(missing) error = %v", err)
	}
}
