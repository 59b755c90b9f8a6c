package form

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"landval/internal/domain"
)

// Service is the form coordinator: it owns the draft and the latest result.
type Service struct {
	mu      sync.Mutex
	draft   domain.Draft
	opts    domain.ReferenceOptions
	hasOpts bool
	result  *domain.PredictionResult
}

// New returns a coordinator whose draft holds the defaults for now.
func New(now time.Time) *Service {
	return &Service{draft: domain.DefaultDraft(now)}
}

// SetField assigns one draft field from its text form.
//
// Counts accept "" (unset) or a non-negative integer; anything else leaves
// the count unset and returns ErrInvalidCount. A neighborhood must be one
// the selected city offers, or "". Setting the city re-derives the neighborhood.
func (s *Service) SetField(name, value string) error {
	field, err := ParseField(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case domain.FieldCity:
		s.draft.City = strings.TrimSpace(value)
		s.draft = Reconcile(s.draft, s.opts)
	case domain.FieldNeighborhood:
		value = strings.TrimSpace(value)
		if value != "" && !slices.Contains(s.opts.NeighborhoodsFor(s.draft.City), value) {
			return fmt.Errorf("neighborhood %q %w", value, ErrInvalidChoice)
		}
		s.draft.Neighborhood = value
	case domain.FieldPropertyType:
		s.draft.PropertyType = strings.TrimSpace(value)
	case domain.FieldBedroomCount:
		n, err := parseCount(value)
		s.draft.BedroomCount = n
		if err != nil {
			return fmt.Errorf("beds %w", err)
		}
	case domain.FieldBathroomCount:
		n, err := parseCount(value)
		s.draft.BathroomCount = n
		if err != nil {
			return fmt.Errorf("baths %w", err)
		}
	case domain.FieldSizeSpec:
		s.draft.SizeSpec = strings.TrimSpace(value)
	case domain.FieldListingURL:
		s.draft.ListingURL = strings.TrimSpace(value)
	case domain.FieldAsOfDate:
		d, err := parseDate(value)
		if err != nil {
			return fmt.Errorf("date %w", err)
		}
		s.draft.AsOfDate = d
	}
	return nil
}

// ApplyOptions replaces the reference options and reconciles the draft.
func (s *Service) ApplyOptions(opts domain.ReferenceOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts.Clone()
	s.hasOpts = true
	s.draft = Reconcile(s.draft, s.opts)
}

// OnCityOrMappingChanged re-establishes the neighborhood invariant.
func (s *Service) OnCityOrMappingChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = Reconcile(s.draft, s.opts)
}

// Draft returns a copy of the current draft.
func (s *Service) Draft() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// HasOptions reports whether any options were applied.
func (s *Service) HasOptions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasOpts
}

func (s *Service) Cities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.opts.Cities...)
}

func (s *Service) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.opts.Types...)
}

// Neighborhoods lists the choices for the selected city; empty, never nil,
// when there are none.
func (s *Service) Neighborhoods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.opts.NeighborhoodsFor(s.draft.City)...)
}

// BuildSubmission normalizes the draft for the wire. Unset counts become 0 here and only here.
func (s *Service) BuildSubmission() domain.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	return domain.Submission{
		URL:          d.ListingURL,
		Beds:         countOrZero(d.BedroomCount),
		City:         d.City,
		Date:         d.AsOfDate.Format(domain.DateLayout),
		Size:         d.SizeSpec,
		Type:         d.PropertyType,
		Baths:        countOrZero(d.BathroomCount),
		Neighborhood: d.Neighborhood,
	}
}

// Result returns the latest prediction result, if any.
func (s *Service) Result() (domain.PredictionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.PredictionResult{}, false
	}
	return *s.result, true
}

func (s *Service) SetResult(r domain.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &r
}

func (s *Service) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
}

func countOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

var (
	_ domain.DraftSource = (*Service)(nil)
	_ domain.OptionsSink = (*Service)(nil)
)
