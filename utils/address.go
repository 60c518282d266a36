package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Address is the shipping address shape the validator works on.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type stateInfo struct {
	Name   string
	ISO2   string
	Cities []string
}

// Deliveries are limited to the top seven Indian states by GDP and a fixed
// city list per state.
var indianStates = []stateInfo{
	{Name: "Maharashtra", ISO2: "MH", Cities: []string{"Mumbai", "Pune", "Nagpur", "Thane", "Nashik"}},
	{Name: "Tamil Nadu", ISO2: "TN", Cities: []string{"Chennai", "Coimbatore", "Madurai", "Salem", "Tiruchirappalli"}},
	{Name: "Gujarat", ISO2: "GJ", Cities: []string{"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Bhavnagar"}},
	{Name: "Karnataka", ISO2: "KA", Cities: []string{"Bangalore", "Mysore", "Hubli", "Mangalore", "Belgaum"}},
	{Name: "Uttar Pradesh", ISO2: "UP", Cities: []string{"Lucknow", "Kanpur", "Varanasi", "Agra", "Prayagraj"}},
	{Name: "West Bengal", ISO2: "WB", Cities: []string{"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri"}},
	{Name: "Telangana", ISO2: "TG", Cities: []string{"Hyderabad", "Warangal", "Karimnagar", "Nizamabad", "Khammam"}},
}

var pinCodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func States() []string {
	names := make([]string, 0, len(indianStates))
	for _, s := range indianStates {
		names = append(names, s.Name)
	}
	return names
}

func CitiesForState(state string) []string {
	for _, s := range indianStates {
		if s.Name == state {
			return append([]string(nil), s.Cities...)
		}
	}
	return nil
}

type CitySuggestion struct {
	Formatted string  `json:"formatted"`
	Parsed    Address `json:"parsed"`
}

type ValidationResult struct {
	IsValid             bool             `json:"isValid"`
	StandardizedAddress *Address         `json:"standardizedAddress"`
	Suggestions         []CitySuggestion `json:"suggestions"`
	Errors              []string         `json:"errors,omitempty"`
	Confidence          float64          `json:"confidence"`
}

type cacheEntry struct {
	result   ValidationResult
	storedAt time.Time
}

// ValidationCache memoizes validation results by serialized input. The rule
// set is static, so a cached answer stays correct for the whole TTL. The
// clock is swappable so tests control expiry.
type ValidationCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewValidationCache(ttl time.Duration) *ValidationCache {
	return &ValidationCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// SetClock replaces the cache's time source.
func (c *ValidationCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *ValidationCache) Get(key string) (ValidationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return ValidationResult{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return ValidationResult{}, false
	}
	return entry.result, true
}

func (c *ValidationCache) Put(key string, result ValidationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

func (c *ValidationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// AddressValidator checks shipping addresses against the state/city
// whitelist. Both successful and failed validations are cached for the
// cache's TTL.
type AddressValidator struct {
	cache *ValidationCache
}

func NewAddressValidator(cache *ValidationCache) *AddressValidator {
	return &AddressValidator{cache: cache}
}

func cacheKey(addr Address) string {
	key, _ := json.Marshal(addr)
	return string(key)
}

func (v *AddressValidator) Validate(addr Address) ValidationResult {
	key := cacheKey(addr)
	if v.cache != nil {
		if cached, ok := v.cache.Get(key); ok {
			return cached
		}
	}

	result := validate(addr)
	if v.cache != nil {
		v.cache.Put(key, result)
	}
	return result
}

func validate(addr Address) ValidationResult {
	street := strings.TrimSpace(addr.Street)
	city := strings.TrimSpace(addr.City)
	state := strings.TrimSpace(addr.State)
	zipCode := strings.TrimSpace(addr.ZipCode)
	country := strings.TrimSpace(addr.Country)

	var errs []string
	if country != "" && country != "India" {
		errs = append(errs, "Only Indian addresses are allowed")
	}
	if !pinCodeRegex.MatchString(zipCode) {
		errs = append(errs, "Please enter a valid 6-digit PIN code")
	}

	var matched *stateInfo
	for i := range indianStates {
		if indianStates[i].Name == state {
			matched = &indianStates[i]
			break
		}
	}
	if matched == nil {
		errs = append(errs, "Please select a valid Indian state (top 7 states by GDP only)")
	}
	if len(street) < 5 {
		errs = append(errs, "Street address must be at least 5 characters")
	}
	if len(city) < 2 {
		errs = append(errs, "City name must be at least 2 characters")
	}

	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs, Confidence: 0}
	}

	cityKnown := false
	for _, known := range matched.Cities {
		if strings.EqualFold(known, city) {
			city = known
			cityKnown = true
			break
		}
	}

	if !cityKnown {
		suggestions := make([]CitySuggestion, 0, 5)
		for _, known := range matched.Cities {
			if len(suggestions) == 5 {
				break
			}
			suggestions = append(suggestions, CitySuggestion{
				Formatted: fmt.Sprintf("%s, %s, India", known, matched.Name),
				Parsed: Address{
					Street:  street,
					City:    known,
					State:   matched.Name,
					ZipCode: zipCode,
					Country: "India",
				},
			})
		}
		return ValidationResult{
			IsValid:     false,
			Suggestions: suggestions,
			Errors:      []string{"City not found in the selected state"},
			Confidence:  0.5,
		}
	}

	return ValidationResult{
		IsValid: true,
		StandardizedAddress: &Address{
			Street:  street,
			City:    city,
			State:   matched.Name,
			ZipCode: zipCode,
			Country: "India",
		},
		Confidence: 1.0,
	}
}

// SuggestCities returns up to five cities across all supported states whose
// name contains the input, for type-ahead on the checkout form.
func SuggestCities(input string) []CitySuggestion {
	input = strings.TrimSpace(input)
	if len(input) < 2 {
		return nil
	}

	var suggestions []CitySuggestion
	for _, s := range indianStates {
		for _, known := range s.Cities {
			if len(suggestions) == 5 {
				return suggestions
			}
			if strings.Contains(strings.ToLower(known), strings.ToLower(input)) {
				suggestions = append(suggestions, CitySuggestion{
					Formatted: fmt.Sprintf("%s, %s, India", known, s.Name),
					Parsed:    Address{City: known, State: s.Name, Country: "India"},
				})
			}
		}
	}
	return suggestions
}
