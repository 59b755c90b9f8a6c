package form

import (
	"slices"

	"landval/internal/domain"
)

// Reconcile re-derives the dependent fields of d from opts and returns the result.
//
// With no city selected and options available, the first city and type are
// seeded. The neighborhood is kept when it is in the city's list, otherwise
// it becomes the first entry, or "" when the city has no list.
func Reconcile(d domain.Draft, opts domain.ReferenceOptions) domain.Draft {
	out := d.Clone()

	if out.City == "" && !opts.Empty() {
		out.City = opts.Cities[0]
		if out.PropertyType == "" && len(opts.Types) > 0 {
			out.PropertyType = opts.Types[0]
		}
	}

	list := opts.NeighborhoodsFor(out.City)
	switch {
	case len(list) == 0:
		out.Neighborhood = ""
	case !slices.Contains(list, out.Neighborhood):
		out.Neighborhood = list[0]
	}
	return out
}
