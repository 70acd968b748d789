package domain

import "fmt"

// CurrencyKind distinguishes fiat currencies from cryptocurrencies.
type CurrencyKind string

const (
	KindFiat   CurrencyKind = "FIAT"
	KindCrypto CurrencyKind = "CRYPTO"
)

// Currency describes a currency supported by the application.
// Fiat currencies carry an issuing country; cryptocurrencies carry their
// consensus algorithm and market cap. Precision is the number of decimal
// places used for display.
type Currency struct {
	CurrencyCode   string       `json:"currencyCode"` // Primary key (e.g., "USD", "BTC")
	Name           string       `json:"name"`         // e.g., "US Dollar"
	Kind           CurrencyKind `json:"kind"`
	Precision      int          `json:"precision"`
	IssuingCountry string       `json:"issuingCountry,omitempty"` // Fiat only
	Algorithm      string       `json:"algorithm,omitempty"`      // Crypto only
	MarketCap      float64      `json:"marketCap,omitempty"`      // Crypto only, unit USD
}

// DisplayInfo renders the one-line description shown next to portfolio rows.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case KindCrypto:
		var mcap string
		if c.MarketCap > 1e6 {
			mcap = fmt.Sprintf("%.2e", c.MarketCap)
		} else {
			mcap = fmt.Sprintf("%.2f", c.MarketCap)
		}
		return fmt.Sprintf("[CRYPTO] %s — %s (Algo: %s, MCAP: %s)", c.CurrencyCode, c.Name, c.Algorithm, mcap)
	default:
		return fmt.Sprintf("[FIAT] %s — %s (Issuing: %s)", c.CurrencyCode, c.Name, c.IssuingCountry)
	}
}
