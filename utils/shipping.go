package utils

type DeliveryOption string

const (
	DeliveryRegular DeliveryOption = "regular"
	DeliveryExpress DeliveryOption = "express"
)

// ShippingCost returns the delivery fee in INR for a cart subtotal. The same
// tier table drives the price shown at checkout and the authoritative total
// charged server side, so it must stay a pure function of its inputs.
func ShippingCost(option DeliveryOption, subtotal float64) float64 {
	if option == DeliveryRegular {
		switch {
		case subtotal >= 3000:
			return 0
		case subtotal >= 2000:
			return 99
		default:
			return 199
		}
	}
	switch {
	case subtotal >= 3000:
		return 199
	case subtotal >= 2000:
		return 299
	default:
		return 399
	}
}
