package domain

// ProductFilter holds the optional attributes a product listing can be
// narrowed by. A nil or empty value imposes no restriction; present
// values must match exactly, and all present values must match.
type ProductFilter struct {
	Collection *string
	Material   *string
}

// NewProductFilter builds a filter from raw query values, treating empty
// strings as absent.
func NewProductFilter(collection, material string) ProductFilter {
	var f ProductFilter
	if collection != "" {
		f.Collection = &collection
	}
	if material != "" {
		f.Material = &material
	}
	return f
}

// Criterion is a single column equality a filter contributes.
type Criterion struct {
	Column string
	Value  string
}

// Criteria lists the equality conditions in application order. An empty
// result means the filter matches every product.
func (f ProductFilter) Criteria() []Criterion {
	var out []Criterion
	if isSet(f.Collection) {
		out = append(out, Criterion{Column: "collection", Value: *f.Collection})
	}
	if isSet(f.Material) {
		out = append(out, Criterion{Column: "material", Value: *f.Material})
	}
	return out
}

// Matches is the in-memory form of the same predicate.
func (f ProductFilter) Matches(p Product) bool {
	for _, c := range f.Criteria() {
		var got *string
		switch c.Column {
		case "collection":
			got = p.Collection
		case "material":
			got = p.Material
		}
		if got == nil || *got != c.Value {
			return false
		}
	}
	return true
}

func isSet(s *string) bool {
	return s != nil && *s != ""
}
