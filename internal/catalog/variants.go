package catalog

import "strings"

// SpecSeparator joins dimension values into a variant spec string.
const SpecSeparator = "/"

// Combinations expands the Cartesian product of the option dimensions into
// spec strings. The first dimension is the major axis; values keep their
// declared order. Nil or empty options yield nil.
func Combinations(opts Options) []string {
	if len(opts) == 0 {
		return nil
	}
	for _, dim := range opts {
		if len(dim.Values) == 0 {
			return nil
		}
	}

	specs := []string{""}
	for i, dim := range opts {
		next := make([]string, 0, len(specs)*len(dim.Values))
		for _, prefix := range specs {
			for _, value := range dim.Values {
				if i == 0 {
					next = append(next, value)
				} else {
					next = append(next, prefix+SpecSeparator+value)
				}
			}
		}
		specs = next
	}
	return specs
}

// SplitSpec breaks a spec string back into its dimension values.
func SplitSpec(spec string) []string {
	if spec == "" {
		return nil
	}
	return strings.Split(spec, SpecSeparator)
}

// ReconcileVariants returns the variant set matching the product's current
// options exactly: stale variants (spec no longer producible) are dropped,
// new combinations are added inheriting the product's scalar defaults, and
// variants that still match keep their edited values untouched.
func ReconcileVariants(p Product) []Variant {
	specs := Combinations(p.Options)
	if specs == nil {
		return nil
	}

	out := make([]Variant, 0, len(specs))
	for _, spec := range specs {
		if existing, ok := p.VariantBySpec(spec); ok {
			out = append(out, existing)
			continue
		}
		out = append(out, Variant{
			Spec:  spec,
			Price: p.Price,
			Cost:  p.Cost,
			Stock: p.Stock,
		})
	}
	return out
}
