package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *AddressValidator {
	return NewAddressValidator(NewValidationCache(24 * time.Hour))
}

func TestValidateKnownAddress(t *testing.T) {
	v := newTestValidator()
	result := v.Validate(Address{
		Street:  "14 Hill Road, Bandra West",
		City:    "mumbai",
		State:   "Maharashtra",
		ZipCode: "400050",
		Country: "India",
	})

	assert.True(t, result.IsValid)
	assert.Equal(t, 1.0, result.Confidence)
	require.NotNil(t, result.StandardizedAddress)
	assert.Equal(t, "Mumbai", result.StandardizedAddress.City)
	assert.Equal(t, "India", result.StandardizedAddress.Country)
	assert.Empty(t, result.Errors)
}

// Validating a standardized address again must return the same answer.
func TestValidateStandardizedOutputIsStable(t *testing.T) {
	v := newTestValidator()
	first := v.Validate(Address{
		Street:  "12 MG Road",
		City:    "BANGALORE",
		State:   "Karnataka",
		ZipCode: "560001",
	})
	require.True(t, first.IsValid)

	second := v.Validate(*first.StandardizedAddress)
	require.True(t, second.IsValid)
	assert.Equal(t, *first.StandardizedAddress, *second.StandardizedAddress)
}

func TestValidateUnknownCitySuggests(t *testing.T) {
	v := newTestValidator()
	result := v.Validate(Address{
		Street:  "742 Evergreen Terrace",
		City:    "Springfield",
		State:   "Maharashtra",
		ZipCode: "400001",
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Nil(t, result.StandardizedAddress)
	assert.Contains(t, result.Errors, "City not found in the selected state")
	require.NotEmpty(t, result.Suggestions)
	assert.LessOrEqual(t, len(result.Suggestions), 5)
	assert.Equal(t, "Mumbai, Maharashtra, India", result.Suggestions[0].Formatted)
	assert.Equal(t, "742 Evergreen Terrace", result.Suggestions[0].Parsed.Street)
}

func TestValidateRejectsBadInput(t *testing.T) {
	v := newTestValidator()

	result := v.Validate(Address{Street: "1 A", City: "M", State: "Goa", ZipCode: "0123456", Country: "Nepal"})
	assert.False(t, result.IsValid)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Errors, "Only Indian addresses are allowed")
	assert.Contains(t, result.Errors, "Please enter a valid 6-digit PIN code")
	assert.Contains(t, result.Errors, "Please select a valid Indian state (top 7 states by GDP only)")
	assert.Contains(t, result.Errors, "Street address must be at least 5 characters")
	assert.Contains(t, result.Errors, "City name must be at least 2 characters")
}

func TestValidatePinCodeCannotStartWithZero(t *testing.T) {
	v := newTestValidator()
	result := v.Validate(Address{
		Street:  "5 Park Street",
		City:    "Kolkata",
		State:   "West Bengal",
		ZipCode: "012345",
	})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Please enter a valid 6-digit PIN code")
}

func TestValidationCacheStoresFailuresToo(t *testing.T) {
	cache := NewValidationCache(24 * time.Hour)
	v := NewAddressValidator(cache)

	v.Validate(Address{Street: "x", City: "y"})
	assert.Equal(t, 1, cache.Len())

	v.Validate(Address{
		Street:  "14 Hill Road",
		City:    "Mumbai",
		State:   "Maharashtra",
		ZipCode: "400050",
	})
	assert.Equal(t, 2, cache.Len())
}

func TestValidationCacheExpiry(t *testing.T) {
	cache := NewValidationCache(24 * time.Hour)
	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	cache.SetClock(func() time.Time { return current })

	cache.Put("key", ValidationResult{IsValid: true, Confidence: 1.0})

	_, ok := cache.Get("key")
	assert.True(t, ok)

	current = current.Add(23 * time.Hour)
	_, ok = cache.Get("key")
	assert.True(t, ok)

	current = current.Add(2 * time.Hour)
	_, ok = cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestSuggestCities(t *testing.T) {
	suggestions := SuggestCities("che")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Chennai, Tamil Nadu, India", suggestions[0].Formatted)

	assert.Nil(t, SuggestCities("c"))
	assert.Len(t, SuggestCities("ra"), 5)
}

func TestStatesAndCities(t *testing.T) {
	states := States()
	assert.Len(t, states, 7)
	assert.Contains(t, states, "Telangana")

	cities := CitiesForState("Gujarat")
	assert.Len(t, cities, 5)
	assert.Contains(t, cities, "Surat")

	assert.Nil(t, CitiesForState("Goa"))
}
