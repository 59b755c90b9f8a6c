package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"landval/internal/domain"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidCount  = errors.New("must be a whole number, zero or more")
	ErrInvalidDate   = errors.New("must be a date in YYYY-MM-DD form")
	ErrInvalidChoice = errors.New("is not offered for the selected city")
)

var fieldAliases = map[string]domain.Field{
	"city":          domain.FieldCity,
	"neighborhood":  domain.FieldNeighborhood,
	"neighbourhood": domain.FieldNeighborhood,
	"type":          domain.FieldPropertyType,
	"propertytype":  domain.FieldPropertyType,
	"beds":          domain.FieldBedroomCount,
	"bedrooms":      domain.FieldBedroomCount,
	"bedroomcount":  domain.FieldBedroomCount,
	"baths":         domain.FieldBathroomCount,
	"bathrooms":     domain.FieldBathroomCount,
	"bathroomcount": domain.FieldBathroomCount,
	"size":          domain.FieldSizeSpec,
	"sizespec":      domain.FieldSizeSpec,
	"url":           domain.FieldListingURL,
	"listingurl":    domain.FieldListingURL,
	"date":          domain.FieldAsOfDate,
	"asofdate":      domain.FieldAsOfDate,
}

// ParseField resolves a field name or alias. Case, '-' and '_' are ignored.
func ParseField(name string) (domain.Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "").Replace(key)
	f, ok := fieldAliases[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownField)
	}
	return f, nil
}

// parseCount maps "" to unset, a non-negative integer to itself and
// anything else to unset plus ErrInvalidCount.
func parseCount(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, ErrInvalidCount
	}
	return &n, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
