package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minor unit exponents that differ from the ISO-4217 default of 2
var currencyExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0,
	"KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0,
	"VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// GatewayAmount is an amount shaped for one family's wire format.
type GatewayAmount struct {
	Unit     AmountUnit
	Integer  int64
	Text     string
	Currency string
}

// NormalizeCurrency upper-cases and validates an ISO-4217 alphabetic code.
func NormalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", NewValidationError("invalid currency code %q", currency)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", NewValidationError("invalid currency code %q", currency)
		}
	}
	return code, nil
}

// MinorUnitExponent returns the number of decimal places of a currency.
func MinorUnitExponent(currency string) int32 {
	if exp, ok := currencyExponents[strings.ToUpper(currency)]; ok {
		return exp
	}
	return 2
}

// ValidateAmount rejects negative amounts and fractional amounts in zero-decimal currencies.
// Zero is accepted.
func ValidateAmount(amount decimal.Decimal, currency string) (string, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return "", err
	}
	if amount.IsNegative() {
		return "", NewValidationError("amount %s cannot be negative", amount.String())
	}
	if MinorUnitExponent(code) == 0 && !amount.Equal(amount.Truncate(0)) {
		return "", NewValidationError("amount %s is not integral in zero-decimal currency %s", amount.String(), code)
	}
	return code, nil
}

// ToGatewayUnits converts a decimal amount into the representation the family expects.
// Sub-precision digits are rounded half-up; nothing is truncated silently.
func ToGatewayUnits(amount decimal.Decimal, currency string, family GatewayFamily) (GatewayAmount, error) {
	code, err := ValidateAmount(amount, currency)
	if err != nil {
		return GatewayAmount{}, err
	}
	exp := MinorUnitExponent(code)

	out := GatewayAmount{Unit: family.AmountUnit(), Currency: code}
	switch out.Unit {
	case UnitMinor:
		minor := amount.Shift(exp).Round(0)
		if !minor.IsInteger() || minor.GreaterThan(decimal.NewFromInt(maxInt64)) {
			return GatewayAmount{}, NewValidationError("amount %s is out of range", amount.String())
		}
		out.Integer = minor.IntPart()
		out.Text = minor.String()
	case UnitMajor:
		major := amount.Round(0)
		if major.GreaterThan(decimal.NewFromInt(maxInt64)) {
			return GatewayAmount{}, NewValidationError("amount %s is out of range", amount.String())
		}
		out.Integer = major.IntPart()
		out.Text = major.String()
	default:
		out.Text = amount.StringFixed(exp)
	}
	return out, nil
}

// FromGatewayUnits is the inverse of ToGatewayUnits.
func FromGatewayUnits(amount GatewayAmount, currency string) (decimal.Decimal, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return decimal.Zero, err
	}
	exp := MinorUnitExponent(code)

	switch amount.Unit {
	case UnitMinor:
		return decimal.NewFromInt(amount.Integer).Shift(-exp), nil
	case UnitMajor:
		return decimal.NewFromInt(amount.Integer), nil
	case UnitDecimal:
		d, err := decimal.NewFromString(strings.TrimSpace(amount.Text))
		if err != nil {
			return decimal.Zero, NewValidationError("malformed decimal amount %q", amount.Text)
		}
		return d.Round(exp), nil
	}
	return decimal.Zero, NewValidationError("unknown amount unit %q", amount.Unit)
}

const maxInt64 = 1<<63 - 1
