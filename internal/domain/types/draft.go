package types

import "time"

// DateLayout is the calendar-date format used on the wire and on the CLI.
const DateLayout = "2006-01-02"

// Field names a mutable draft field.
type Field string

const (
	FieldCity          Field = "city"
	FieldNeighborhood  Field = "neighborhood"
	FieldPropertyType  Field = "type"
	FieldBedroomCount  Field = "beds"
	FieldBathroomCount Field = "baths"
	FieldSizeSpec      Field = "size"
	FieldListingURL    Field = "url"
	FieldAsOfDate      Field = "date"
)

// String returns the string form of the field name.
func (f Field) String() string { return string(f) }

// Draft is the in-progress prediction request.
//
// BedroomCount and BathroomCount are nil while unset; zero is a real value.
type Draft struct {
	City          string
	Neighborhood  string
	PropertyType  string
	BedroomCount  *int
	BathroomCount *int
	SizeSpec      string
	ListingURL    string
	AsOfDate      time.Time
}

// DefaultDraft returns the draft a fresh form starts with.
func DefaultDraft(now time.Time) Draft {
	beds, baths := 2, 2
	y, m, d := now.UTC().Date()
	return Draft{
		BedroomCount:  &beds,
		BathroomCount: &baths,
		SizeSpec:      "1200 sqft",
		AsOfDate:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// Clone returns a copy that shares no pointers with d.
func (d Draft) Clone() Draft {
	out := d
	if d.BedroomCount != nil {
		v := *d.BedroomCount
		out.BedroomCount = &v
	}
	if d.BathroomCount != nil {
		v := *d.BathroomCount
		out.BathroomCount = &v
	}
	return out
}

// Submission is the normalized payload sent to POST /predict.
type Submission struct {
	URL          string `json:"url"`
	Beds         int    `json:"beds" validate:"gte=0"`
	City         string `json:"city"`
	Date         string `json:"date"`
	Size         string `json:"size"`
	Type         string `json:"type"`
	Baths        int    `json:"baths" validate:"gte=0"`
	Neighborhood string `json:"neighborhood"`
}
