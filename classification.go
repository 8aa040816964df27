package networth

import (
	"fmt"
	"strings"
)

// Category tells whether a holding is something owned or owed.
type Category string

const (
	Asset     Category = "asset"
	Liability Category = "liability"
)

// Categories lists all valid categories.
var Categories = []Category{Asset, Liability}

// ParseCategory parses a category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Asset, Liability:
		return c, nil
	default:
		return "", fmt.Errorf("category %q not supported", s)
	}
}

func (c Category) String() string { return string(c) }

// Subcategory defines the unit semantics of a holding.
type Subcategory string

const (
	// Account is a single position whose value is updated on every purchase.
	Account Subcategory = "account"
	// Fund is a single position whose value is updated on every purchase.
	Fund Subcategory = "fund"
	// Stock counts whole shares.
	Stock Subcategory = "stock"
	// RealEstate counts the owned share of a property, in [0, 1].
	RealEstate Subcategory = "real-estate"
)

// Subcategories lists all valid subcategories.
var Subcategories = []Subcategory{Account, Fund, Stock, RealEstate}

// ParseSubcategory parses a subcategory, case-insensitively.
//
// "real_state" is accepted for real estate, it is how older files spell it.
func ParseSubcategory(s string) (Subcategory, error) {
	switch c := Subcategory(strings.ToLower(strings.TrimSpace(s))); c {
	case Account, Fund, Stock, RealEstate:
		return c, nil
	case "real_state", "real_estate", "realestate":
		return RealEstate, nil
	default:
		return "", fmt.Errorf("subcategory %q not supported", s)
	}
}

func (s Subcategory) String() string { return string(s) }

// single reports whether holdings of this subcategory are modeled as one
// indivisible position.
func (s Subcategory) single() bool { return s == Account || s == Fund }
