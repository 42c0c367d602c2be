package enums

import "fmt"

// LocationType maps to the location_type enum in Postgres. Internal locations
// hold stock the business owns; vendor/customer/inventory_loss represent the
// outside world and are excluded from stock-on-hand views.
type LocationType string

const (
	LocationTypeInternal      LocationType = "internal"
	LocationTypeVendor        LocationType = "vendor"
	LocationTypeCustomer      LocationType = "customer"
	LocationTypeInventoryLoss LocationType = "inventory_loss"
)

var validLocationTypes = []LocationType{
	LocationTypeInternal,
	LocationTypeVendor,
	LocationTypeCustomer,
	LocationTypeInventoryLoss,
}

// String implements fmt.Stringer.
func (t LocationType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known LocationType.
func (t LocationType) IsValid() bool {
	for _, candidate := range validLocationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLocationType converts raw input into a LocationType.
func ParseLocationType(value string) (LocationType, error) {
	for _, candidate := range validLocationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location type %q", value)
}
