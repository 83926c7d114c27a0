// Package money converts between the database's NUMERIC columns and
// shopspring decimals. Currency amounts are kept at two places.
package money

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places in a currency amount.
const Places = 2

// FromNumeric converts a NUMERIC value. NULL and NaN become zero.
func FromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// ToNumeric converts a currency amount, rounding to two places.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(Places))
	return n
}

// String formats a NUMERIC as a two-place decimal string.
func String(n pgtype.Numeric) string {
	return FromNumeric(n).StringFixed(Places)
}

// Round rounds half away from zero to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads a decimal string from a request body.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
