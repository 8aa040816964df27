package networth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// recordVersion is the version of the persisted portfolio record.
const recordVersion = 1

func init() {
	// amounts are written as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the persisted representation of a portfolio.
//
// The record only contains what a user typed in: the portfolio and holdings
// definitions, and the ledger of each holding. Snapshots are never persisted,
// they are rebuilt by replaying the ledger through Holding.Purchase so that a
// file cannot contain a state that the live validation would have refused.

// portfolioRecord is the persisted form of a Portfolio.
type portfolioRecord struct {
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Currency    string          `json:"currency"`
	Holdings    []holdingRecord `json:"holdings"`
}

// holdingRecord is the persisted form of a Holding.
type holdingRecord struct {
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Currency    string        `json:"currency"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Ledger      []Transaction `json:"ledger"`
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
//
// Amounts are written without currency, they are always in the holding's
// currency. Zero fees are omitted.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var o orderedObject
	o.Field("command", t.Command).
		Field("date", t.Date).
		Field("units", t.Units).
		Field("price", t.Price.Amount()).
		FieldIf(!t.Fees.IsZero(), "fees", t.Fees.Amount())
	return o.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
//
// Amounts decoded have no currency.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command CommandType `json:"command"`
		Date    date.Date   `json:"date"`
		Units   Quantity    `json:"units"`
		Price   Quantity    `json:"price"`
		Fees    Quantity    `json:"fees"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		Command: temp.Command,
		Date:    temp.Date,
		Units:   temp.Units,
		Price:   M(temp.Price.value, ""),
		Fees:    M(temp.Fees.value, ""),
	}
	return nil
}

// newRecord builds the record of a portfolio.
func newRecord(p *Portfolio) portfolioRecord {
	rec := portfolioRecord{
		Version:     recordVersion,
		Name:        p.name,
		Description: p.description,
		Currency:    p.currency,
		Holdings:    make([]holdingRecord, 0, len(p.holdings)),
	}
	for _, h := range p.holdings {
		rec.Holdings = append(rec.Holdings, holdingRecord{
			Category:    h.category.String(),
			Subcategory: h.subcategory.String(),
			Currency:    h.currency,
			Name:        h.name,
			Description: h.description,
			Ledger:      slices.Clone(h.ledger),
		})
	}
	return rec
}

// EncodePortfolio writes the record of 'p' as indented JSON.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newRecord(p)); err != nil {
		return fmt.Errorf("cannot encode portfolio %q: %w", p.name, err)
	}
	return nil
}

// DecodePortfolio reads a portfolio record and rebuilds the portfolio.
//
// Holdings are added with AddHolding and their ledger is replayed with
// Purchase, so the same validation applies. Options are given to the new
// portfolio. Every rejection is reported and makes the decoding fail.
func DecodePortfolio(r io.Reader, opts ...Option) (*Portfolio, error) {
	var rec portfolioRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("format error in portfolio record: %w", err)
	}
	switch rec.Version {
	case recordVersion:
	default:
		return nil, fmt.Errorf("unsupported portfolio record version %d, want %d", rec.Version, recordVersion)
	}

	p := NewPortfolio(rec.Name, rec.Description, rec.Currency, opts...)
	var errs error
	for i, hr := range rec.Holdings {
		h, err := p.AddHolding(hr.Category, hr.Subcategory, hr.Currency, hr.Name, hr.Description)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("holding #%d: %w", i, err))
			continue
		}
		for j, tx := range hr.Ledger {
			if tx.Command != CmdPurchase {
				errs = errors.Join(errs, fmt.Errorf("holding %q transaction #%d: unsupported command %q", h.name, j, tx.Command))
				continue
			}
			if err := h.Purchase(tx.Date, tx.Units, tx.Price, tx.Fees); err != nil {
				errs = errors.Join(errs, fmt.Errorf("holding %q transaction #%d: %w", h.name, j, err))
			}
		}
	}
	if errs != nil {
		return nil, fmt.Errorf("invalid portfolio %q: %w", rec.Name, errs)
	}
	return p, nil
}

// SavePortfolio encodes 'p' into 'filename'. The file is replaced atomically
// and keeps its permissions, a new file is created with mode 0644.
func SavePortfolio(filename string, p *Portfolio) (err error) {
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(filename); err == nil {
		mode = fi.Mode().Perm()
	}
	if err = f.Chmod(mode); err != nil {
		f.Close()
		return err
	}
	if err = EncodePortfolio(f, p); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), filename)
}

// LoadPortfolio decodes the portfolio stored in 'filename'.
func LoadPortfolio(filename string, opts ...Option) (*Portfolio, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := DecodePortfolio(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", filename, err)
	}
	return p, nil
}
