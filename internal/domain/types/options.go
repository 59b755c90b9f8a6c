package types

// ReferenceOptions is the static reference data that backs the dropdown
// fields of a prediction draft.
//
// Cities and Types are order-significant: the first entry of each is the
// default selection. NeighborhoodMapping is authoritative for neighborhood
// choices; a city without an entry simply has no neighborhoods.
type ReferenceOptions struct {
	Cities              []string            `json:"cities"`
	Types               []string            `json:"types"`
	NeighborhoodMapping map[string][]string `json:"neighborhood_mapping"`
}

// NeighborhoodsFor returns the neighborhoods of city, or nil when the mapping
// has no entry for it.
func (o ReferenceOptions) NeighborhoodsFor(city string) []string {
	if o.NeighborhoodMapping == nil {
		return nil
	}
	return o.NeighborhoodMapping[city]
}

// Empty reports whether no cities were loaded.
func (o ReferenceOptions) Empty() bool { return len(o.Cities) == 0 }

// Clone returns a deep copy so holders never share slices with callers.
func (o ReferenceOptions) Clone() ReferenceOptions {
	out := ReferenceOptions{
		Cities: append([]string(nil), o.Cities...),
		Types:  append([]string(nil), o.Types...),
	}
	if o.NeighborhoodMapping != nil {
		out.NeighborhoodMapping = make(map[string][]string, len(o.NeighborhoodMapping))
		for city, list := range o.NeighborhoodMapping {
			out.NeighborhoodMapping[city] = append([]string(nil), list...)
		}
	}
	return out
}
