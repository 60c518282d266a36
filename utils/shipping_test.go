package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCostRegularTiers(t *testing.T) {
	assert.Equal(t, 199.0, ShippingCost(DeliveryRegular, 0))
	assert.Equal(t, 199.0, ShippingCost(DeliveryRegular, 1999.99))
	assert.Equal(t, 99.0, ShippingCost(DeliveryRegular, 2000))
	assert.Equal(t, 99.0, ShippingCost(DeliveryRegular, 2999.99))
	assert.Equal(t, 0.0, ShippingCost(DeliveryRegular, 3000))
	assert.Equal(t, 0.0, ShippingCost(DeliveryRegular, 125000))
}

func TestShippingCostExpressTiers(t *testing.T) {
	assert.Equal(t, 399.0, ShippingCost(DeliveryExpress, 0))
	assert.Equal(t, 399.0, ShippingCost(DeliveryExpress, 1999.99))
	assert.Equal(t, 299.0, ShippingCost(DeliveryExpress, 2000))
	assert.Equal(t, 299.0, ShippingCost(DeliveryExpress, 2999.99))
	assert.Equal(t, 199.0, ShippingCost(DeliveryExpress, 3000))
	assert.Equal(t, 199.0, ShippingCost(DeliveryExpress, 125000))
}

// Unknown options get express pricing rather than free shipping.
func TestShippingCostUnknownOptionUsesExpress(t *testing.T) {
	assert.Equal(t, ShippingCost(DeliveryExpress, 2500), ShippingCost(DeliveryOption("overnight"), 2500))
}

func TestShippingCostExpressNeverCheaperThanRegular(t *testing.T) {
	for _, subtotal := range []float64{0, 500, 1999.99, 2000, 2500, 2999.99, 3000, 10000} {
		regular := ShippingCost(DeliveryRegular, subtotal)
		express := ShippingCost(DeliveryExpress, subtotal)
		assert.GreaterOrEqual(t, express, regular, "subtotal %.2f", subtotal)
	}
}

func TestShippingCostCheckoutScenarios(t *testing.T) {
	subtotal := 2500.0
	cost := ShippingCost(DeliveryRegular, subtotal)
	assert.Equal(t, 99.0, cost)
	assert.Equal(t, 2599.0, subtotal+cost)

	subtotal = 3200.0
	cost = ShippingCost(DeliveryExpress, subtotal)
	assert.Equal(t, 199.0, cost)
	assert.Equal(t, 3399.0, subtotal+cost)
}
