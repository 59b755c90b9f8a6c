package devserver

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"landval/internal/domain"
)

// DefaultOptions is the reference data served when none is configured.
func DefaultOptions() domain.ReferenceOptions {
	return domain.ReferenceOptions{
		Cities: []string{"Bangalore", "Chennai", "Hyderabad", "Mumbai", "Pune"},
		Types:  []string{"Apartment", "Independent House", "Villa"},
		NeighborhoodMapping: map[string][]string{
			"Bangalore": {"Indiranagar", "Koramangala", "Whitefield"},
			"Chennai":   {"Adyar", "T Nagar", "Velachery"},
			"Hyderabad": {"Banjara Hills", "Gachibowli", "Madhapur"},
			"Mumbai":    {"Andheri", "Bandra", "Powai"},
		},
	}
}

// ParseSize reads a size spec such as "1200 sqft" or "900-1100 sqft".
// Ranges are averaged; anything unreadable is 0.
func ParseSize(spec string) float64 {
	clean := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(spec), "sqft", ""))
	if lo, hi, ok := strings.Cut(clean, "-"); ok {
		a, errA := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if errA != nil || errB != nil {
			return 0
		}
		return (a + b) / 2
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// price is a fixed linear model; unknown categories contribute nothing.
func price(sub domain.Submission, opts domain.ReferenceOptions) float64 {
	const (
		base     = 1_500_000
		perSqft  = 6_500
		perBed   = 400_000
		perBath  = 250_000
		perCity  = 350_000
		perType  = 900_000
		perHood  = 120_000
		minPrice = 500_000
	)
	v := base +
		perSqft*ParseSize(sub.Size) +
		perBed*float64(sub.Beds) +
		perBath*float64(sub.Baths) +
		perCity*float64(slices.Index(opts.Cities, sub.City)+1) +
		perType*float64(slices.Index(opts.Types, sub.Type)+1) +
		perHood*float64(slices.Index(opts.NeighborhoodsFor(sub.City), sub.Neighborhood)+1)
	return math.Round(math.Max(v, minPrice)*100) / 100
}

func formatPrice(v float64) string {
	return "₹" + humanize.FormatFloat("#,###.##", v)
}
