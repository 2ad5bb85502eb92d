package tenancy

import (
	"fmt"
)

// Charge kind discriminators used on the wire and in storage.
const (
	ChargeKindFixed         = "FIXED"
	ChargeKindPercentOfRent = "PERCENT_OF_RENT"
	ChargeKindPerArea       = "PER_AREA"
)

// ParseCharge decodes a (kind, value) pair into a ChargeDefinition variant.
// An empty kind yields nil, the valid "no service charge" state.
func ParseCharge(kind string, value float64) (ChargeDefinition, error) {
	switch kind {
	case "":
		return nil, nil
	case ChargeKindFixed:
		return FixedCharge{Amount: value}, nil
	case ChargeKindPercentOfRent:
		return PercentOfRentCharge{Percent: value}, nil
	case ChargeKindPerArea:
		return PerAreaCharge{RatePerSqFt: value}, nil
	}
	return nil, fmt.Errorf("tenancy: unknown charge kind %q", kind)
}

// EncodeCharge flattens a ChargeDefinition back into its (kind, value) pair.
func EncodeCharge(def ChargeDefinition) (kind string, value float64) {
	switch c := def.(type) {
	case nil:
		return "", 0
	case FixedCharge:
		return ChargeKindFixed, c.Amount
	case PercentOfRentCharge:
		return ChargeKindPercentOfRent, c.Percent
	case PerAreaCharge:
		return ChargeKindPerArea, c.RatePerSqFt
	}
	return "", 0
}
