package domain

// GatewayFamily discriminates the three structurally different provider protocols.
type GatewayFamily string

const (
	// FamilyDirectCapture authorizes and captures in one round trip, optionally after a challenge.
	FamilyDirectCapture GatewayFamily = "direct_capture"
	// FamilyRedirectApproval creates an order the user approves externally; the merchant captures later.
	FamilyRedirectApproval GatewayFamily = "redirect_approval"
	// FamilyTokenRedirect creates a token for a hosted payment page; the merchant commits the token.
	FamilyTokenRedirect GatewayFamily = "token_redirect"
)

// Families lists every supported family in a stable order.
func Families() []GatewayFamily {
	return []GatewayFamily{FamilyDirectCapture, FamilyRedirectApproval, FamilyTokenRedirect}
}

func (f GatewayFamily) Valid() bool {
	switch f {
	case FamilyDirectCapture, FamilyRedirectApproval, FamilyTokenRedirect:
		return true
	default:
		return false
	}
}

// AmountUnit is the representation a family expects on the wire.
type AmountUnit string

const (
	UnitMinor   AmountUnit = "MINOR_UNITS"
	UnitMajor   AmountUnit = "MAJOR_UNITS"
	UnitDecimal AmountUnit = "DECIMAL_STRING"
)

// AmountUnit returns the wire representation used by the family.
func (f GatewayFamily) AmountUnit() AmountUnit {
	switch f {
	case FamilyDirectCapture:
		return UnitMinor
	case FamilyTokenRedirect:
		return UnitMajor
	default:
		return UnitDecimal
	}
}
