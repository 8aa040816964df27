package networth

import (
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// BTC is the only crypto currency supported.
const BTC = "BTC"

var (
	// Currencies lists the fiat currencies that can be converted automatically.
	Currencies = []string{"EUR", "USD", "GBP", "PLN"}
	// Crypto lists the crypto currencies that can be converted automatically.
	Crypto = []string{BTC}
)

func init() {
	// go-money only knows ISO 4217 currencies.
	if money.GetCurrency(BTC) == nil {
		money.AddCurrency(BTC, "₿", "$1", ".", ",", 8)
	}
}

// IsSupported reports whether conversion rates for 'currency' can be resolved
// automatically.
func IsSupported(currency string) bool {
	return IsFiat(currency) || IsCrypto(currency)
}

// IsFiat reports whether 'currency' is a supported fiat currency.
func IsFiat(currency string) bool { return slices.Contains(Currencies, currency) }

// IsCrypto reports whether 'currency' is a supported crypto currency.
func IsCrypto(currency string) bool { return slices.Contains(Crypto, currency) }

// normalizeCurrency returns the canonical (upper case) currency code.
func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
