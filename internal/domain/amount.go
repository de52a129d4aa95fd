package domain

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for money and
// dimension columns (decimal(18,2)).
const AmountScale = 2

// Amount is a fixed-point decimal(18,2) value. It is rounded to two
// places when written so every dialect stores the same value, and it
// is rendered in JSON as a number with exactly two fractional digits.
type Amount struct {
	decimal.Decimal
}

// NewAmount parses s into an Amount, panicking on malformed input.
// Intended for literals in seed data and tests.
func NewAmount(s string) Amount {
	return Amount{decimal.RequireFromString(s)}
}

// AmountFromFloat converts f to an Amount without rounding.
func AmountFromFloat(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// Rounded returns a rounded to AmountScale places, half away from zero.
func (a Amount) Rounded() Amount {
	return Amount{a.Round(AmountScale)}
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.Round(AmountScale).StringFixed(AmountScale), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value interface{}) error {
	return a.Decimal.Scan(value)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(AmountScale)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Both quoted and bare numbers are accepted.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// GormDataType keeps AutoMigrate in line with the SQL migrations.
func (Amount) GormDataType() string {
	return "decimal(18,2)"
}
